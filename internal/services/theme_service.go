package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/search"
)

// ThemeService serves themes.
type ThemeService struct {
	DB    *gorm.DB
	Views *ViewTracker
	// DeletePolicy decides what happens to a deleted theme's poems.
	DeletePolicy domain.ThemeDeletePolicy
}

// NewThemeService constructs a ThemeService that detaches poems on delete.
func NewThemeService(db *gorm.DB, views *ViewTracker) *ThemeService {
	return &ThemeService{DB: db, Views: views, DeletePolicy: domain.ThemeDeleteSetNull}
}

// CreateThemeInput carries the writable fields of a new theme.
type CreateThemeInput struct {
	Title string
	Slug  string
}

// List returns every theme with its poem count, ordered by title.
func (s *ThemeService) List(ctx context.Context) ([]domain.ThemeWithCount, error) {
	items, err := repo.ListThemes(ctx, s.DB)
	return emptyIfNil(items), err
}

// Get returns a theme with its poem count and counts the view once per viewer.
func (s *ThemeService) Get(ctx context.Context, id uint, viewerID string) (*domain.ThemeWithCount, error) {
	if s.Views != nil {
		if _, _, err := s.Views.RecordView(ctx, KindTheme, id, viewerID); err != nil {
			return nil, err
		}
	}
	th, err := repo.GetTheme(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrThemeNotFound
	}
	return th, err
}

// Poems returns the poems filed under a theme, newest first.
func (s *ThemeService) Poems(ctx context.Context, id uint) ([]domain.Poem, error) {
	if _, err := repo.GetCounter(ctx, s.DB, repo.ThemeViews, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	items, err := repo.ListPoemsByTheme(ctx, s.DB, id)
	return emptyIfNil(items), err
}

// Create validates and stores a theme. The slug is derived from the title
// when blank.
func (s *ThemeService) Create(ctx context.Context, in CreateThemeInput) (*domain.ThemeWithCount, error) {
	th := &domain.Theme{Title: search.Normalize(in.Title)}
	err := insertWithSlug(in.Slug, th.Title, "theme", func(slug string) error {
		th.ID, th.Slug = 0, slug
		if err := th.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return repo.CreateTheme(ctx, s.DB, th)
	})
	if err != nil {
		return nil, err
	}
	return &domain.ThemeWithCount{Theme: *th}, nil
}

// Delete removes a theme, applying DeletePolicy to its poems.
func (s *ThemeService) Delete(ctx context.Context, id uint) error {
	policy := s.DeletePolicy
	if policy == "" {
		policy = domain.ThemeDeleteSetNull
	}
	err := repo.DeleteTheme(ctx, s.DB, id, policy)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrThemeNotFound
	case errors.Is(err, repo.ErrInUse):
		return ErrThemeInUse
	case errors.Is(err, repo.ErrFeatured):
		return ErrPoemFeatured
	}
	return err
}
