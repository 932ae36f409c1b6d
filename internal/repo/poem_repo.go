package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/search"
)

// newestFirst is the canonical ordering of poem listings.
const newestFirst = "poems.created_at DESC, poems.id DESC"

// withRefs preloads the author and the optional theme of each poem.
func withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Category")
}

// CreatePoem inserts p. A slug clash yields ErrDuplicate.
func CreatePoem(ctx context.Context, db *gorm.DB, p *domain.Poem) error {
	if err := db.WithContext(ctx).Omit("Author", "Category").Create(p).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetPoem fetches a poem with its author and theme, or ErrNotFound.
func GetPoem(ctx context.Context, db *gorm.DB, id uint) (*domain.Poem, error) {
	var p domain.Poem
	if err := withRefs(db.WithContext(ctx)).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPoems returns the total number of poems.
func CountPoems(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Poem{}).Count(&n).Error
	return n, err
}

// ListPoemsPage returns one window of poems, newest first.
func ListPoemsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Poem, error) {
	var out []domain.Poem
	err := withRefs(db.WithContext(ctx)).
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListLatestPoems returns the n most recently created poems.
func ListLatestPoems(ctx context.Context, db *gorm.DB, n int) ([]domain.Poem, error) {
	return ListPoemsPage(ctx, db, 0, n)
}

// SearchPoems returns poems whose title or author name contains q, compared
// case-insensitively through the folded columns. Each poem appears once.
func SearchPoems(ctx context.Context, db *gorm.DB, q string) ([]domain.Poem, error) {
	pat := search.ContainsPattern(q)
	authors := db.Model(&domain.Author{}).
		Select("id").
		Where(`name_folded LIKE ? ESCAPE '\'`, pat)

	var out []domain.Poem
	err := withRefs(db.WithContext(ctx)).
		Where(`poems.title_folded LIKE ? ESCAPE '\'`, pat).
		Or("poems.author_id IN (?)", authors).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

// ListPoemsByAuthor returns all poems of one author, newest first.
func ListPoemsByAuthor(ctx context.Context, db *gorm.DB, authorID uint) ([]domain.Poem, error) {
	var out []domain.Poem
	err := withRefs(db.WithContext(ctx)).
		Where("poems.author_id = ?", authorID).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

// ListPoemsByTheme returns all poems filed under one theme, newest first.
func ListPoemsByTheme(ctx context.Context, db *gorm.DB, themeID uint) ([]domain.Poem, error) {
	var out []domain.Poem
	err := withRefs(db.WithContext(ctx)).
		Where("poems.category_id = ?", themeID).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

// DeletePoem removes a poem. A poem that was ever featured is kept and
// ErrFeatured returned.
func DeletePoem(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNoFeatured(tx, tx.Model(&domain.Poem{}).Select("id").Where("id = ?", id)); err != nil {
			return err
		}
		res := tx.Delete(&domain.Poem{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountPoemsExcluding counts poems whose id is not in exclude.
func CountPoemsExcluding(ctx context.Context, db *gorm.DB, exclude []uint) (int64, error) {
	var n int64
	err := excluding(db.WithContext(ctx).Model(&domain.Poem{}), exclude).Count(&n).Error
	return n, err
}

// PoemAtOffset returns the poem at position offset of the id-ordered set of
// poems not in exclude. The ordering is stable so that a uniformly drawn
// offset yields a uniformly drawn poem.
func PoemAtOffset(ctx context.Context, db *gorm.DB, exclude []uint, offset int) (*domain.Poem, error) {
	var p domain.Poem
	err := excluding(db.WithContext(ctx), exclude).
		Order("poems.id ASC").
		Offset(offset).
		Limit(1).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func excluding(q *gorm.DB, ids []uint) *gorm.DB {
	if len(ids) == 0 {
		return q
	}
	return q.Where("poems.id NOT IN ?", ids)
}
