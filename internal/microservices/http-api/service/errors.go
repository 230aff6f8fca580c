package service

import (
	"context"
	"errors"
	"time"
)

// Error kinds. Every *Error wraps exactly one of them.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error carries the message shown to API clients.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Invalid(field, msg string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: msg}
}

// Messages returned to clients.
const (
	MsgUnauthorized = "Unauthorized"
	MsgInvalidID    = "Identifiant invalide"
	MsgIDRequired   = "ID est requis."

	MsgPostNotFound        = "Article introuvable"
	MsgPostTitleRequired   = "Title is required"
	MsgPostContentRequired = "Content is required"
	MsgPostAuthorRequired  = "Author is required"
	MsgPostInvalidStatus   = "Statut invalide"

	MsgCategoryNameRequired = "Le nom de la catégorie est requis."
	MsgCategoryExists       = "La catégorie existe déjà."
	MsgCategoryNameTaken    = "Une autre catégorie avec ce nom existe déjà."
	MsgCategoryNotFound     = "Catégorie non trouvée."
	MsgCategoryInUse        = "Impossible de supprimer cette catégorie car elle est utilisée dans un article."

	MsgMangaNotFound        = "Manga non trouvé"
	MsgMangaTitleRequired   = "Le titre est requis"
	MsgMangaAuthorRequired  = "L'auteur est requis"
	MsgMangaDescRequired    = "La description est requise"
	MsgMangaCoverRequired   = "L'image de couverture est requise"
	MsgMangaCoverInvalidURL = "L'URL de l'image de couverture n'est pas valide"

	MsgChapterMangaIDRequired = "Manga ID valide est requis"
	MsgChapterTitleRequired   = "Titre du chapitre est requis"
	MsgChapterTitleEmpty      = "Titre du chapitre ne peut pas être vide"
	MsgChapterNumberInvalid   = "Numéro de chapitre valide est requis"
	MsgChapterFilesRequired   = "Au moins un fichier est requis"
	MsgChapterNumberTaken     = "Un chapitre avec ce numéro existe déjà pour ce Manga"
	MsgChapterNotFound        = "Chapitre non trouvé"
)

// cleanupTimeout bounds media cleanup after a committed write. Cleanup is
// detached from the request so a client disconnect does not cut it short.
const cleanupTimeout = 30 * time.Second

func cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}
