package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

func withPoem(db *gorm.DB) *gorm.DB {
	return db.Preload("Poem").Preload("Poem.Author").Preload("Poem.Category")
}

// checkNoFeatured returns ErrFeatured when any poem selected by poemIDs (a
// subquery yielding poem ids) appears in the featured history.
func checkNoFeatured(tx *gorm.DB, poemIDs *gorm.DB) error {
	var n int64
	if err := tx.Model(&domain.FeaturedPoem{}).Where("poem_id IN (?)", poemIDs).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrFeatured
	}
	return nil
}

// GetFeaturedByDate returns the selection for day, or ErrNotFound.
func GetFeaturedByDate(ctx context.Context, db *gorm.DB, day string) (*domain.FeaturedPoem, error) {
	var fp domain.FeaturedPoem
	if err := withPoem(db.WithContext(ctx)).Where("featured_date = ?", day).Take(&fp).Error; err != nil {
		return nil, err
	}
	return &fp, nil
}

// LatestFeaturedBefore returns the most recent selection strictly before day,
// or ErrNotFound when there is none. YYYY-MM-DD strings order like dates.
func LatestFeaturedBefore(ctx context.Context, db *gorm.DB, day string) (*domain.FeaturedPoem, error) {
	var fp domain.FeaturedPoem
	err := db.WithContext(ctx).
		Where("featured_date < ?", day).
		Order("featured_date DESC").
		Take(&fp).Error
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

// CreateFeatured records poemID as the selection for day. A second selection
// for the same day yields ErrDuplicate.
func CreateFeatured(ctx context.Context, db *gorm.DB, poemID uint, day string) (*domain.FeaturedPoem, error) {
	fp := &domain.FeaturedPoem{PoemID: poemID, FeaturedDate: day}
	if err := db.WithContext(ctx).Omit("Poem").Create(fp).Error; err != nil {
		if IsDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return fp, nil
}

// ListFeaturedHistory returns up to limit selections, latest day first.
func ListFeaturedHistory(ctx context.Context, db *gorm.DB, limit int) ([]domain.FeaturedPoem, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	var out []domain.FeaturedPoem
	err := withPoem(db.WithContext(ctx)).
		Order("featured_date DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
