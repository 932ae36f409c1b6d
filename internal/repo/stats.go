// Package repo implements the data persistence layer for domain entities.
// This file provides small aggregate queries used for conditional responses
// (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

// PoemStats summarizes the poems table. Any change a poem listing can show
// (rows added or removed, edits, counters, theme detach) changes at least
// one field.
type PoemStats struct {
	Count        int64
	MaxUpdatedAt *time.Time // nil when there are no poems
	Views        int64
	Likes        int64
	IDSum        int64
	ThemeSum     int64
}

// Fingerprint renders s for use inside an ETag.
func (s PoemStats) Fingerprint() string {
	var ts int64
	if s.MaxUpdatedAt != nil {
		ts = s.MaxUpdatedAt.UnixNano()
	}
	return fmt.Sprintf("%d:%d:%d:%d:%d:%d", s.Count, ts, s.Views, s.Likes, s.IDSum, s.ThemeSum)
}

// PoemsStats aggregates the poems table into a PoemStats.
func PoemsStats(ctx context.Context, db *gorm.DB) (PoemStats, error) {
	var agg struct {
		Count    int64 `gorm:"column:count"`
		Views    int64 `gorm:"column:views"`
		Likes    int64 `gorm:"column:likes"`
		IDSum    int64 `gorm:"column:id_sum"`
		ThemeSum int64 `gorm:"column:theme_sum"`
	}
	err := db.WithContext(ctx).Model(&domain.Poem{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(views), 0) AS views,
			COALESCE(SUM(likes), 0) AS likes,
			COALESCE(SUM(id), 0) AS id_sum,
			COALESCE(SUM(COALESCE(category_id, 0)), 0) AS theme_sum`).
		Scan(&agg).Error
	if err != nil {
		return PoemStats{}, err
	}
	st := PoemStats{Count: agg.Count, Views: agg.Views, Likes: agg.Likes, IDSum: agg.IDSum, ThemeSum: agg.ThemeSum}
	if st.Count == 0 {
		return st, nil
	}

	// avoid MAX() -> TEXT in SQLite
	var row struct {
		UpdatedAt time.Time
	}
	if err := db.WithContext(ctx).Model(&domain.Poem{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).
		Scan(&row).Error; err != nil {
		return PoemStats{}, err
	}
	st.MaxUpdatedAt = &row.UpdatedAt
	return st, nil
}
