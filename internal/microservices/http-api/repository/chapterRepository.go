package repository

import (
	"context"
	"errors"
	"fmt"

	"mangapress/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChapterRepository interface {
	ListByManga(ctx context.Context, mangaID string) ([]models.Chapter, error)
	GetByID(ctx context.Context, id string) (*models.Chapter, error)
	CreateInManga(ctx context.Context, ch *models.Chapter) error
	Update(ctx context.Context, ch *models.Chapter) error
	Delete(ctx context.Context, id string) (*models.Chapter, error)
}

type ChapterRepo struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

func (r *ChapterRepo) ListByManga(ctx context.Context, mangaID string) ([]models.Chapter, error) {
	list := make([]models.Chapter, 0)
	if err := r.db.WithContext(ctx).
		Where("manga_id = ?", mangaID).
		Order("chapter_number ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return list, nil
}

func (r *ChapterRepo) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	var ch models.Chapter
	if err := r.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

// lockManga takes a row lock on the parent manga so chapter writes for the
// same manga serialize.
func lockManga(tx *gorm.DB, mangaID string) error {
	var m models.Manga
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&m, "id = ?", mangaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrParentNotFound
	}
	return err
}

func numberTaken(tx *gorm.DB, mangaID string, number int, exceptID string) (bool, error) {
	var n int64
	q := tx.Model(&models.Chapter{}).Where("manga_id = ? AND chapter_number = ?", mangaID, number)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateInManga inserts ch under its manga in one transaction. It returns
// ErrParentNotFound when the manga is missing and ErrDuplicate when the
// number is already used in that manga.
func (r *ChapterRepo) CreateInManga(ctx context.Context, ch *models.Chapter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockManga(tx, ch.MangaID); err != nil {
			return err
		}
		taken, err := numberTaken(tx, ch.MangaID, ch.ChapterNumber, "")
		if err != nil {
			return fmt.Errorf("check chapter number: %w", err)
		}
		if taken {
			return ErrDuplicate
		}
		// the unique index still catches a racing insert
		if err := tx.Create(ch).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

// Update writes title, number and files. A number change is checked against
// the other chapters of the same manga.
func (r *ChapterRepo) Update(ctx context.Context, ch *models.Chapter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockManga(tx, ch.MangaID); err != nil {
			return err
		}
		taken, err := numberTaken(tx, ch.MangaID, ch.ChapterNumber, ch.ID)
		if err != nil {
			return fmt.Errorf("check chapter number: %w", err)
		}
		if taken {
			return ErrDuplicate
		}
		res := tx.Model(ch).Select("chapter_title", "chapter_number", "files", "updated_at").Updates(ch)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes a chapter and returns it. The manga's chapter list is
// derived from these rows so nothing else needs updating.
func (r *ChapterRepo) Delete(ctx context.Context, id string) (*models.Chapter, error) {
	var ch models.Chapter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ch, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		return tx.Delete(&models.Chapter{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
