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

const recommendedLimit = 3

type PostService interface {
	List(ctx context.Context, status string) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, in PostInput) (*models.Post, error)
	Update(ctx context.Context, id string, in PostInput) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Recommended(ctx context.Context, in RecommendedInput) ([]models.Post, error)
}

type postService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	media      MediaLifecycle
	cache      cache.ListCache
	log        *slog.Logger
}

func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, media MediaLifecycle, c cache.ListCache, log *slog.Logger) PostService {
	return &postService{posts: posts, categories: categories, media: media, cache: c, log: log}
}

func (s *postService) List(ctx context.Context, status string) ([]models.Post, error) {
	key := cache.Key(cache.PrefixBlogList, orAll(status))
	return cached(ctx, s.cache, s.log, key, func() ([]models.Post, error) {
		return s.posts.List(ctx, status)
	})
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func (s *postService) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(MsgPostNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *postService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	cats, err := s.categories.FindByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	p := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Author:     in.Author,
		Status:     in.Status,
		Categories: cats,
		Tags:       in.Tags,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixBlogList, cache.PrefixCategoryList)
	return p, nil
}

// Update saves the new version first, then releases media that the old
// content referenced and the new one does not.
func (s *postService) Update(ctx context.Context, id string, in PostInput) (*models.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.FindByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	oldContent := p.Content
	p.Title = in.Title
	p.Content = in.Content
	p.Author = in.Author
	p.Status = in.Status
	p.Categories = cats
	p.Tags = in.Tags

	if err := s.posts.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound(MsgPostNotFound)
		}
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixBlogList, cache.PrefixCategoryList)

	cctx, cancel := cleanupContext(ctx)
	defer cancel()
	if removed := s.media.Reconcile(cctx, oldContent, p.Content); len(removed) > 0 {
		s.log.Info("post media released", "post_id", p.ID, "count", len(removed))
	}
	return p, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	p, err := s.posts.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(MsgPostNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixBlogList, cache.PrefixCategoryList)

	cctx, cancel := cleanupContext(ctx)
	defer cancel()
	s.media.DeleteAll(cctx, s.media.ExtractReferences(p.Content))
	return nil
}

func (s *postService) Recommended(ctx context.Context, in RecommendedInput) ([]models.Post, error) {
	return s.posts.Recommended(ctx, repository.RecommendedQuery{
		ExcludeID:  in.CurrentID,
		Tags:       in.Tags,
		CategoryID: in.CategoryID,
		Limit:      recommendedLimit,
	})
}
