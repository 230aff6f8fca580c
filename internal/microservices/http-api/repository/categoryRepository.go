package repository

import (
	"context"
	"fmt"

	"mangapress/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	ListWithUsage(ctx context.Context) ([]models.CategoryUsage, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	Create(ctx context.Context, c *models.Category) error
	Rename(ctx context.Context, id, name string) (*models.Category, error)
	DeleteUnused(ctx context.Context, id string) error
}

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// ListWithUsage returns categories by name with the number of posts using each.
func (r *CategoryRepo) ListWithUsage(ctx context.Context) ([]models.CategoryUsage, error) {
	list := make([]models.CategoryUsage, 0)
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.id, categories.name, categories.created_at, COUNT(post_categories.post_id) AS article_count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindByIDs returns the categories among ids that exist; unknown ids are dropped.
func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	list := make([]models.Category, 0, len(ids))
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return list, nil
}

func (r *CategoryRepo) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return n > 0, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *CategoryRepo) Rename(ctx context.Context, id, name string) (*models.Category, error) {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteUnused deletes a category unless a post still references it, in
// which case ErrInUse is returned and nothing changes.
func (r *CategoryRepo) DeleteUnused(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		var used int64
		if err := tx.Table("post_categories").Where("category_id = ?", id).Count(&used).Error; err != nil {
			return fmt.Errorf("count category usage: %w", err)
		}
		if used > 0 {
			return ErrInUse
		}
		return tx.Delete(&c).Error
	})
}
