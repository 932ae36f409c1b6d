package repo

import (
	"context"

	"gorm.io/gorm"
)

// Counter names one monotonically increasing integer column. Only the values
// declared below exist, so column and table names never come from input.
type Counter struct {
	Table  string
	Column string
}

var (
	PoemViews   = Counter{Table: "poems", Column: "views"}
	PoemLikes   = Counter{Table: "poems", Column: "likes"}
	AuthorViews = Counter{Table: "authors", Column: "views"}
	ThemeViews  = Counter{Table: "themes", Column: "views"}
)

// GetCounter reads the current value of c for row id, or ErrNotFound.
func GetCounter(ctx context.Context, db *gorm.DB, c Counter, id uint) (int64, error) {
	var vals []int64
	err := db.WithContext(ctx).
		Table(c.Table).
		Where("id = ?", id).
		Limit(1).
		Pluck(c.Column, &vals).Error
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, ErrNotFound
	}
	return vals[0], nil
}

// IncrementCounter adds one to c for row id inside the store, so concurrent
// increments never lose updates, and returns the new value.
func IncrementCounter(ctx context.Context, db *gorm.DB, c Counter, id uint) (int64, error) {
	var out int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table(c.Table).
			Where("id = ?", id).
			UpdateColumn(c.Column, gorm.Expr(c.Column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		v, err := GetCounter(ctx, tx, c, id)
		out = v
		return err
	})
	return out, err
}
