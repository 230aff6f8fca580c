package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mangapress/internal/cache"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.CategoryUsage, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Rename(ctx context.Context, id, name string) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.ListCache
	log   *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, c cache.ListCache, log *slog.Logger) CategoryService {
	return &categoryService{repo: repo, cache: c, log: log}
}

func (s *categoryService) List(ctx context.Context) ([]models.CategoryUsage, error) {
	return cached(ctx, s.cache, s.log, cache.Key(cache.PrefixCategoryList), func() ([]models.CategoryUsage, error) {
		return s.repo.ListWithUsage(ctx)
	})
}

func (s *categoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(MsgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	taken, err := s.repo.NameTaken(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Conflict(MsgCategoryExists)
	}

	c := &models.Category{Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict(MsgCategoryExists)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixCategoryList)
	return c, nil
}

func (s *categoryService) Rename(ctx context.Context, id, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	taken, err := s.repo.NameTaken(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Conflict(MsgCategoryNameTaken)
	}

	c, err := s.repo.Rename(ctx, id, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NotFound(MsgCategoryNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return nil, Conflict(MsgCategoryNameTaken)
	case err != nil:
		return nil, fmt.Errorf("rename category: %w", err)
	}
	// posts embed their categories
	invalidate(ctx, s.cache, s.log, cache.PrefixCategoryList, cache.PrefixBlogList)
	return c, nil
}

// Delete refuses to remove a category that any post is filed under.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteUnused(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NotFound(MsgCategoryNotFound)
	case errors.Is(err, repository.ErrInUse):
		return Conflict(MsgCategoryInUse)
	case err != nil:
		return fmt.Errorf("delete category: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.PrefixCategoryList, cache.PrefixBlogList)
	return nil
}
