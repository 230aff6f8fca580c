package repository

import (
	"context"
	"fmt"

	"mangapress/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MangaRepository interface {
	ListWithCounts(ctx context.Context) ([]models.MangaSummary, error)
	GetByID(ctx context.Context, id string) (*models.Manga, error)
	Create(ctx context.Context, m *models.Manga) error
	Update(ctx context.Context, m *models.Manga) error
	DeleteCascade(ctx context.Context, id string) (*models.Manga, error)
}

type MangaRepo struct {
	db *gorm.DB
}

func NewMangaRepo(db *gorm.DB) *MangaRepo {
	return &MangaRepo{db: db}
}

func orderByNumber(db *gorm.DB) *gorm.DB {
	return db.Order("chapter_number ASC")
}

// ListWithCounts returns every manga, newest first, with its chapter count.
func (r *MangaRepo) ListWithCounts(ctx context.Context) ([]models.MangaSummary, error) {
	var list []models.Manga
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list mangas: %w", err)
	}

	var counts []struct {
		MangaID string
		Total   int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Chapter{}).
		Select("manga_id, COUNT(*) AS total").
		Group("manga_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count chapters: %w", err)
	}
	byManga := make(map[string]int64, len(counts))
	for _, c := range counts {
		byManga[c.MangaID] = c.Total
	}

	out := make([]models.MangaSummary, 0, len(list))
	for _, m := range list {
		out = append(out, models.MangaSummary{Manga: m, ChapterCount: byManga[m.ID]})
	}
	return out, nil
}

// GetByID loads a manga with its chapters ordered by number.
func (r *MangaRepo) GetByID(ctx context.Context, id string) (*models.Manga, error) {
	var m models.Manga
	if err := r.db.WithContext(ctx).
		Preload("Chapters", orderByNumber).
		First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	m.FillChapterIDs()
	return &m, nil
}

func (r *MangaRepo) Create(ctx context.Context, m *models.Manga) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return fmt.Errorf("create manga: %w", translate(err))
	}
	m.ChapterIDs = []string{}
	return nil
}

// Update writes the editable columns of m, zero values included.
func (r *MangaRepo) Update(ctx context.Context, m *models.Manga) error {
	res := r.db.WithContext(ctx).Model(m).
		Select("title", "description", "author", "cover_image", "updated_at").
		Updates(m)
	if res.Error != nil {
		return fmt.Errorf("update manga: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade removes a manga and all its chapters as one unit and
// returns what was deleted so the caller can release its media.
func (r *MangaRepo) DeleteCascade(ctx context.Context, id string) (*models.Manga, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin: %w", tx.Error)
	}

	var m models.Manga
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, translate(err)
	}
	if err := tx.Where("manga_id = ?", id).Order("chapter_number ASC").Find(&m.Chapters).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	if err := tx.Where("manga_id = ?", id).Delete(&models.Chapter{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("delete chapters: %w", err)
	}
	if err := tx.Delete(&models.Manga{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("delete manga: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	m.FillChapterIDs()
	return &m, nil
}
