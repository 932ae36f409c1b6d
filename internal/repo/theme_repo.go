package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

// ErrInUse is returned when a restricted theme still has poems.
var ErrInUse = errors.New("in use")

func themesWithCounts(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Theme{}).
		Select("themes.*, COUNT(poems.id) AS poems_count").
		Joins("LEFT JOIN poems ON poems.category_id = themes.id").
		Group("themes.id")
}

// CreateTheme inserts th. A slug clash yields ErrDuplicate.
func CreateTheme(ctx context.Context, db *gorm.DB, th *domain.Theme) error {
	if err := db.WithContext(ctx).Create(th).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetTheme fetches a theme with its poem count, or ErrNotFound.
func GetTheme(ctx context.Context, db *gorm.DB, id uint) (*domain.ThemeWithCount, error) {
	var rows []domain.ThemeWithCount
	if err := themesWithCounts(db.WithContext(ctx)).Where("themes.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// ListThemes returns every theme with its poem count, ordered by title.
func ListThemes(ctx context.Context, db *gorm.DB) ([]domain.ThemeWithCount, error) {
	var out []domain.ThemeWithCount
	err := themesWithCounts(db.WithContext(ctx)).
		Order("themes.title ASC, themes.id ASC").
		Scan(&out).Error
	return out, err
}

// DeleteTheme removes a theme and applies policy to its poems in the same
// transaction. Restrict yields ErrInUse when poems still reference it;
// cascade yields ErrFeatured when one of them was ever featured.
func DeleteTheme(ctx context.Context, db *gorm.DB, id uint, policy domain.ThemeDeletePolicy) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Theme{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		switch policy {
		case domain.ThemeDeleteRestrict:
			var used int64
			if err := tx.Model(&domain.Poem{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
				return err
			}
			if used > 0 {
				return ErrInUse
			}
		case domain.ThemeDeleteCascade:
			if err := checkNoFeatured(tx, tx.Model(&domain.Poem{}).Select("id").Where("category_id = ?", id)); err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", id).Delete(&domain.Poem{}).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&domain.Poem{}).Where("category_id = ?", id).UpdateColumn("category_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Theme{}, id).Error
	})
}
