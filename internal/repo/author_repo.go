package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

// authorsWithPoems selects authors that wrote at least one poem, each with
// its poem count.
func authorsWithPoems(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Author{}).
		Select("authors.*, COUNT(poems.id) AS poems_count").
		Joins("JOIN poems ON poems.author_id = authors.id").
		Group("authors.id")
}

// CreateAuthor inserts a. A slug clash yields ErrDuplicate.
func CreateAuthor(ctx context.Context, db *gorm.DB, a *domain.Author) error {
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetAuthor fetches an author with their poem count, or ErrNotFound.
func GetAuthor(ctx context.Context, db *gorm.DB, id uint) (*domain.AuthorWithCount, error) {
	var rows []domain.AuthorWithCount
	err := db.WithContext(ctx).Model(&domain.Author{}).
		Select("authors.*, COUNT(poems.id) AS poems_count").
		Joins("LEFT JOIN poems ON poems.author_id = authors.id").
		Where("authors.id = ?", id).
		Group("authors.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// CountAuthorsWithPoems counts authors that have at least one poem.
func CountAuthorsWithPoems(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Poem{}).
		Distinct("author_id").
		Count(&n).Error
	return n, err
}

// ListAuthorsWithPoems returns authors having at least one poem, ordered by
// name. A non-positive limit returns every such author.
func ListAuthorsWithPoems(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.AuthorWithCount, error) {
	q := authorsWithPoems(db.WithContext(ctx)).Order("authors.name ASC, authors.id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var out []domain.AuthorWithCount
	err := q.Scan(&out).Error
	return out, err
}

// DeleteAuthor removes an author; their poems cascade. ErrFeatured is
// returned, and nothing deleted, when one of those poems was ever featured.
func DeleteAuthor(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNoFeatured(tx, tx.Model(&domain.Poem{}).Select("id").Where("author_id = ?", id)); err != nil {
			return err
		}
		res := tx.Delete(&domain.Author{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
