package handler

import (
	"context"
	"time"

	"mangapress/internal/media"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/service"

	"github.com/stretchr/testify/mock"
)

// MockAuthService accepts "Bearer good" and nothing else.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Verify(header string) (*service.Claims, error) {
	if header == "Bearer good" {
		return &service.Claims{ID: "admin", UserRole: service.RoleAdmin}, nil
	}
	return nil, service.ErrUnauthenticated
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) List(ctx context.Context, status string) ([]models.Post, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Create(ctx context.Context, in service.PostInput) (*models.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, id string, in service.PostInput) (*models.Post, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostService) Recommended(ctx context.Context, in service.RecommendedInput) ([]models.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]models.CategoryUsage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CategoryUsage), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Rename(ctx context.Context, id, name string) (*models.Category, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockMangaService struct {
	mock.Mock
}

func (m *MockMangaService) List(ctx context.Context) ([]models.MangaSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.MangaSummary), args.Error(1)
}

func (m *MockMangaService) Get(ctx context.Context, id string) (*models.Manga, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

func (m *MockMangaService) Create(ctx context.Context, in service.MangaInput) (*models.Manga, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

func (m *MockMangaService) Update(ctx context.Context, id string, in service.MangaInput) (*models.Manga, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

func (m *MockMangaService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockChapterService struct {
	mock.Mock
}

func (m *MockChapterService) ListByManga(ctx context.Context, mangaID string) ([]models.Chapter, error) {
	args := m.Called(ctx, mangaID)
	return args.Get(0).([]models.Chapter), args.Error(1)
}

func (m *MockChapterService) Get(ctx context.Context, id string) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterService) Create(ctx context.Context, in service.CreateChapterInput) (*models.Chapter, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterService) Update(ctx context.Context, id string, in service.UpdateChapterInput) (*models.Chapter, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) Ingest(ctx context.Context, up media.Upload, logicalType string, staged bool) (*media.Stored, error) {
	args := m.Called(ctx, up, logicalType, staged)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Stored), args.Error(1)
}

func (m *MockMedia) Sweep(ctx context.Context, opts media.SweepOptions) ([]string, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
