package repository

import (
	"context"
	"fmt"
	"strings"

	"mangapress/internal/microservices/http-api/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PostRepository interface {
	List(ctx context.Context, status string) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) (*models.Post, error)
	Recommended(ctx context.Context, q RecommendedQuery) ([]models.Post, error)
}

// RecommendedQuery matches posts sharing a tag or filed under a category.
type RecommendedQuery struct {
	ExcludeID  string
	Tags       []string
	CategoryID string
	Limit      int
}

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db: db}
}

// List returns posts newest first with their categories. An empty status
// returns every post.
func (r *PostRepo) List(ctx context.Context, status string) ([]models.Post, error) {
	list := make([]models.Post, 0)
	q := r.db.WithContext(ctx).Preload("Categories").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return list, nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.db.WithContext(ctx).Preload("Categories").First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create inserts p and its category links. Categories must already exist.
func (r *PostRepo) Create(ctx context.Context, p *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Categories.*").Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

// Update overwrites the post's fields and replaces its category links.
func (r *PostRepo) Update(ctx context.Context, p *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(p).
			Select("title", "content", "author", "status", "tags", "updated_at").
			Updates(p)
		if res.Error != nil {
			return fmt.Errorf("update post: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(p).Omit("Categories.*").Association("Categories").Replace(p.Categories); err != nil {
			return fmt.Errorf("replace post categories: %w", err)
		}
		return nil
	})
}

// Delete removes a post with its category links and returns it.
func (r *PostRepo) Delete(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&p).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("clear post categories: %w", err)
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Recommended returns up to q.Limit posts other than q.ExcludeID that share
// at least one tag or the category. With neither filter it returns nothing.
func (r *PostRepo) Recommended(ctx context.Context, q RecommendedQuery) ([]models.Post, error) {
	list := make([]models.Post, 0)

	var (
		clauses []string
		args    []any
	)
	if len(q.Tags) > 0 {
		clauses = append(clauses, "tags && ?")
		args = append(args, pq.Array(q.Tags))
	}
	if q.CategoryID != "" {
		clauses = append(clauses, "id IN (SELECT post_id FROM post_categories WHERE category_id = ?)")
		args = append(args, q.CategoryID)
	}
	if len(clauses) == 0 {
		return list, nil
	}

	db := r.db.WithContext(ctx).Preload("Categories").
		Where("("+strings.Join(clauses, " OR ")+")", args...)
	if q.ExcludeID != "" {
		db = db.Where("id <> ?", q.ExcludeID)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if err := db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recommended posts: %w", err)
	}
	return list, nil
}
