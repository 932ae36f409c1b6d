package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

// idBySlug returns the id of the row of model whose slug is slug, or
// ErrNotFound.
func idBySlug(ctx context.Context, db *gorm.DB, model any, slug string) (uint, error) {
	var ids []uint
	err := db.WithContext(ctx).Model(model).
		Where("slug = ?", slug).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}

// AuthorIDBySlug resolves an author slug.
func AuthorIDBySlug(ctx context.Context, db *gorm.DB, slug string) (uint, error) {
	return idBySlug(ctx, db, &domain.Author{}, slug)
}

// ThemeIDBySlug resolves a theme slug.
func ThemeIDBySlug(ctx context.Context, db *gorm.DB, slug string) (uint, error) {
	return idBySlug(ctx, db, &domain.Theme{}, slug)
}

// PoemIDBySlug resolves a poem slug.
func PoemIDBySlug(ctx context.Context, db *gorm.DB, slug string) (uint, error) {
	return idBySlug(ctx, db, &domain.Poem{}, slug)
}

// PoemIDByAuthorTitle finds an author's poem by its stored (normalized)
// title.
func PoemIDByAuthorTitle(ctx context.Context, db *gorm.DB, authorID uint, title string) (uint, error) {
	var ids []uint
	err := db.WithContext(ctx).Model(&domain.Poem{}).
		Where("author_id = ? AND title = ?", authorID, title).
		Order("id").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}

// RewritePoemTexts passes every poem text through fn in id order, batch rows
// at a time, and stores the texts fn changed. It returns how many poems were
// scanned and how many were rewritten.
func RewritePoemTexts(ctx context.Context, db *gorm.DB, batch int, fn func(string) string) (scanned, changed int, err error) {
	if batch <= 0 {
		batch = 200
	}
	var rows []domain.Poem
	res := db.WithContext(ctx).
		Select("id", "text").
		Order("id").
		FindInBatches(&rows, batch, func(tx *gorm.DB, _ int) error {
			for _, p := range rows {
				scanned++
				clean := fn(p.Text)
				if clean == p.Text {
					continue
				}
				if err := db.WithContext(ctx).Model(&domain.Poem{}).
					Where("id = ?", p.ID).
					Update("text", clean).Error; err != nil {
					return err
				}
				changed++
			}
			return nil
		})
	return scanned, changed, res.Error
}
