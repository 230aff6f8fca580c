package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mangapress/internal/cache"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/repository"
)

type MangaService interface {
	List(ctx context.Context) ([]models.MangaSummary, error)
	Get(ctx context.Context, id string) (*models.Manga, error)
	Create(ctx context.Context, in MangaInput) (*models.Manga, error)
	Update(ctx context.Context, id string, in MangaInput) (*models.Manga, error)
	Delete(ctx context.Context, id string) error
}

type mangaService struct {
	repo  repository.MangaRepository
	media MediaLifecycle
	cache cache.ListCache
	log   *slog.Logger
}

func NewMangaService(repo repository.MangaRepository, media MediaLifecycle, c cache.ListCache, log *slog.Logger) MangaService {
	return &mangaService{repo: repo, media: media, cache: c, log: log}
}

func (s *mangaService) List(ctx context.Context) ([]models.MangaSummary, error) {
	return cached(ctx, s.cache, s.log, cache.Key(cache.PrefixMangaList), func() ([]models.MangaSummary, error) {
		return s.repo.ListWithCounts(ctx)
	})
}

func (s *mangaService) Get(ctx context.Context, id string) (*models.Manga, error) {
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(MsgMangaNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get manga: %w", err)
	}
	return m, nil
}

func (s *mangaService) Create(ctx context.Context, in MangaInput) (*models.Manga, error) {
	cover, err := s.media.PromoteOne(ctx, in.CoverImage, MediaTypeMangaCover)
	if err != nil {
		return nil, err
	}
	m := &models.Manga{
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		CoverImage:  cover,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixMangaList)
	return m, nil
}

// Update replaces the manga's fields. The previous cover is deleted once the
// new one is saved.
func (s *mangaService) Update(ctx context.Context, id string, in MangaInput) (*models.Manga, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCover := m.CoverImage
	if in.CoverImage != "" {
		cover, err := s.media.PromoteOne(ctx, in.CoverImage, MediaTypeMangaCover)
		if err != nil {
			return nil, err
		}
		m.CoverImage = cover
	}
	m.Title = in.Title
	m.Author = in.Author
	m.Description = in.Description

	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(MsgMangaNotFound)
		}
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixMangaList)

	if oldCover != m.CoverImage {
		cctx, cancel := cleanupContext(ctx)
		defer cancel()
		s.media.ReconcileRefs(cctx, []string{oldCover}, []string{m.CoverImage})
	}
	return m, nil
}

// Delete removes the manga and its chapters in one transaction, then
// releases the cover and every chapter file.
func (s *mangaService) Delete(ctx context.Context, id string) error {
	m, err := s.repo.DeleteCascade(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(MsgMangaNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete manga: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixMangaList)

	cctx, cancel := cleanupContext(ctx)
	defer cancel()
	s.media.DeleteAll(cctx, m.MediaURLs())
	s.log.Info("manga deleted", "manga_id", id, "chapters", len(m.Chapters))
	return nil
}
