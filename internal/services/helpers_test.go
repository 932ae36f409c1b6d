package services

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/viewer"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mkAuthor(t *testing.T, db *gorm.DB, name string) domain.Author {
	t.Helper()
	a := domain.Author{Name: name, Slug: name}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	return a
}

func mkTheme(t *testing.T, db *gorm.DB, title string) domain.Theme {
	t.Helper()
	th := domain.Theme{Title: title, Slug: title}
	if err := db.Create(&th).Error; err != nil {
		t.Fatalf("create theme: %v", err)
	}
	return th
}

// mkPoem creates a poem whose created_at is offset minutes after a fixed base,
// so listings have a deterministic order.
func mkPoem(t *testing.T, db *gorm.DB, title string, authorID uint, offset int) domain.Poem {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := domain.Poem{
		Title:     title,
		Slug:      title,
		AuthorID:  authorID,
		Text:      "text of " + title,
		CreatedAt: base.Add(time.Duration(offset) * time.Minute),
	}
	if err := db.Omit("Author", "Category").Create(&p).Error; err != nil {
		t.Fatalf("create poem: %v", err)
	}
	return p
}

func newTracker(db *gorm.DB) *ViewTracker {
	return &ViewTracker{DB: db, Store: viewer.NewMemoryStore(time.Hour)}
}
