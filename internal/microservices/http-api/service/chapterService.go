package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"mangapress/internal/cache"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/repository"
)

type ChapterService interface {
	ListByManga(ctx context.Context, mangaID string) ([]models.Chapter, error)
	Get(ctx context.Context, id string) (*models.Chapter, error)
	Create(ctx context.Context, in CreateChapterInput) (*models.Chapter, error)
	Update(ctx context.Context, id string, in UpdateChapterInput) (*models.Chapter, error)
	Delete(ctx context.Context, id string) error
}

type chapterService struct {
	repo  repository.ChapterRepository
	media MediaLifecycle
	cache cache.ListCache
	log   *slog.Logger
}

func NewChapterService(repo repository.ChapterRepository, media MediaLifecycle, c cache.ListCache, log *slog.Logger) ChapterService {
	return &chapterService{repo: repo, media: media, cache: c, log: log}
}

func (s *chapterService) ListByManga(ctx context.Context, mangaID string) ([]models.Chapter, error) {
	return s.repo.ListByManga(ctx, mangaID)
}

func (s *chapterService) Get(ctx context.Context, id string) (*models.Chapter, error) {
	ch, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(MsgChapterNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return ch, nil
}

// chapterError maps repository outcomes of a chapter write.
func chapterError(err error) error {
	switch {
	case errors.Is(err, repository.ErrParentNotFound):
		return NotFound(MsgMangaNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return Conflict(MsgChapterNumberTaken)
	case errors.Is(err, repository.ErrNotFound):
		return NotFound(MsgChapterNotFound)
	default:
		return err
	}
}

func (s *chapterService) Create(ctx context.Context, in CreateChapterInput) (*models.Chapter, error) {
	ch := &models.Chapter{
		MangaID:       in.MangaID,
		ChapterTitle:  in.ChapterTitle,
		ChapterNumber: in.ChapterNumber,
		Files:         in.Files,
	}
	if err := s.repo.CreateInManga(ctx, ch); err != nil {
		return nil, chapterError(err)
	}

	// staged pages are promoted only once the chapter row exists. A partial
	// failure still records the pages that moved; the rest stay staged.
	files, err := s.media.Promote(ctx, in.Files, MediaTypeChapter)
	if err != nil {
		s.log.Error("chapter files left staged", "chapter_id", ch.ID, "error", err)
	}
	if len(files) == len(in.Files) && !slices.Equal(files, in.Files) {
		ch.Files = files
		if err := s.repo.Update(ctx, ch); err != nil {
			return nil, chapterError(err)
		}
	}

	invalidate(ctx, s.cache, s.log, cache.PrefixMangaList)
	return ch, nil
}

// Update applies the non-nil fields. Files dropped from the chapter are
// deleted after the update is saved.
func (s *chapterService) Update(ctx context.Context, id string, in UpdateChapterInput) (*models.Chapter, error) {
	ch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldFiles := append([]string(nil), ch.Files...)
	if in.ChapterTitle != nil {
		ch.ChapterTitle = *in.ChapterTitle
	}
	if in.ChapterNumber != nil {
		ch.ChapterNumber = *in.ChapterNumber
	}
	if in.Files != nil {
		files, err := s.media.Promote(ctx, in.Files, MediaTypeChapter)
		if err != nil {
			s.log.Error("chapter files left staged", "chapter_id", ch.ID, "error", err)
		}
		if len(files) == len(in.Files) {
			ch.Files = files
		} else {
			ch.Files = in.Files
		}
	}

	if err := s.repo.Update(ctx, ch); err != nil {
		return nil, chapterError(err)
	}

	if in.Files != nil {
		cctx, cancel := cleanupContext(ctx)
		defer cancel()
		s.media.ReconcileRefs(cctx, oldFiles, ch.Files)
	}
	return ch, nil
}

func (s *chapterService) Delete(ctx context.Context, id string) error {
	ch, err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(MsgChapterNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixMangaList)

	cctx, cancel := cleanupContext(ctx)
	defer cancel()
	s.media.DeleteAll(cctx, ch.Files)
	return nil
}
