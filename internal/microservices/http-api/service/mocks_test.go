package service

import (
	"context"
	"io"
	"log/slog"

	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context, status string) ([]models.Post, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, p *models.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, p *models.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Recommended(ctx context.Context, q repository.RecommendedQuery) ([]models.Post, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListWithUsage(ctx context.Context) ([]models.CategoryUsage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryUsage), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	args := m.Called(ctx, name, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Rename(ctx context.Context, id, name string) (*models.Category, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteUnused(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockMangaRepository struct {
	mock.Mock
}

func (m *MockMangaRepository) ListWithCounts(ctx context.Context) ([]models.MangaSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MangaSummary), args.Error(1)
}

func (m *MockMangaRepository) GetByID(ctx context.Context, id string) (*models.Manga, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

func (m *MockMangaRepository) Create(ctx context.Context, manga *models.Manga) error {
	return m.Called(ctx, manga).Error(0)
}

func (m *MockMangaRepository) Update(ctx context.Context, manga *models.Manga) error {
	return m.Called(ctx, manga).Error(0)
}

func (m *MockMangaRepository) DeleteCascade(ctx context.Context, id string) (*models.Manga, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

type MockChapterRepository struct {
	mock.Mock
}

func (m *MockChapterRepository) ListByManga(ctx context.Context, mangaID string) ([]models.Chapter, error) {
	args := m.Called(ctx, mangaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) CreateInManga(ctx context.Context, ch *models.Chapter) error {
	return m.Called(ctx, ch).Error(0)
}

func (m *MockChapterRepository) Update(ctx context.Context, ch *models.Chapter) error {
	return m.Called(ctx, ch).Error(0)
}

func (m *MockChapterRepository) Delete(ctx context.Context, id string) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

// MockMedia records lifecycle calls. Promote returns its input unless
// configured otherwise.
type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) ExtractReferences(content string) []string {
	args := m.Called(content)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockMedia) Reconcile(ctx context.Context, oldContent, newContent string) []string {
	args := m.Called(ctx, oldContent, newContent)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockMedia) ReconcileRefs(ctx context.Context, oldRefs, newRefs []string) []string {
	args := m.Called(ctx, oldRefs, newRefs)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockMedia) DeleteAll(ctx context.Context, urls []string) {
	m.Called(ctx, urls)
}

func (m *MockMedia) Promote(ctx context.Context, urls []string, logicalType string) ([]string, error) {
	args := m.Called(ctx, urls, logicalType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMedia) PromoteOne(ctx context.Context, url, logicalType string) (string, error) {
	args := m.Called(ctx, url, logicalType)
	return args.String(0), args.Error(1)
}
