package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mangapress/internal/media"
	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	dbTimeout     = 5 * time.Second
	uploadTimeout = 60 * time.Second
)

const (
	msgInternal         = "Erreur interne du serveur"
	msgInvalidBody      = "Corps de requête invalide"
	msgUnsupportedType  = "Type de fichier non pris en charge"
	msgInvalidType      = "Type de média invalide"
	msgCompression      = "Erreur lors de la compression de l'image"
	msgNoFile           = "Aucun fichier téléchargé"
	msgFileTooLarge     = "Fichier trop volumineux"
	msgImageTooLarge    = "Dimensions de l'image trop grandes"
	msgPostDeleted      = "Post deleted"
	msgCategoryDeleted  = "Catégorie supprimée avec succès."
	msgMangaDeleted     = "Manga et chapitres associés supprimés avec succès"
	msgChapterDeleted   = "Chapitre supprimé avec succès"
	msgServiceUnhealthy = "unhealthy"
)

// requestContext bounds a handler's downstream calls.
func requestContext(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// writeError maps service and media errors to a status and a client message.
// Anything unrecognised is logged and hidden behind a generic 500.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), gin.H{"error": se.Message})
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.MsgUnauthorized})
	case errors.Is(err, media.ErrUnsupportedType):
		badRequest(c, msgUnsupportedType)
	case errors.Is(err, media.ErrInvalidLogicalType):
		badRequest(c, msgInvalidType)
	case errors.Is(err, media.ErrEmptyUpload):
		badRequest(c, msgNoFile)
	case errors.Is(err, media.ErrImageTooLarge):
		badRequest(c, msgImageTooLarge)
	case errors.Is(err, media.ErrCompression):
		log.Error("image compression failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgCompression})
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
	_ = c.Error(err)
}

func statusFor(kind error) int {
	switch kind {
	case service.ErrNotFound:
		return http.StatusNotFound
	case service.ErrUnauthenticated:
		return http.StatusUnauthorized
	case service.ErrValidation, service.ErrConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
