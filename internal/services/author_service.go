package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/search"
)

// AuthorService serves authors. Listings only include authors with at least
// one poem.
type AuthorService struct {
	DB     *gorm.DB
	Views  *ViewTracker
	Paging Paging
}

// NewAuthorService constructs an AuthorService with the public API defaults.
func NewAuthorService(db *gorm.DB, views *ViewTracker) *AuthorService {
	return &AuthorService{DB: db, Views: views, Paging: DefaultPaging}
}

// CreateAuthorInput carries the writable fields of a new author.
type CreateAuthorInput struct {
	Name  string
	Slug  string
	Bio   string
	Photo string
}

// List returns every author with poems, ordered by name, as a single page.
func (s *AuthorService) List(ctx context.Context) ([]domain.AuthorWithCount, error) {
	items, err := repo.ListAuthorsWithPoems(ctx, s.DB, 0, 0)
	return emptyIfNil(items), err
}

// ListPage returns one page of authors with poems, ordered by name.
func (s *AuthorService) ListPage(ctx context.Context, page, pageSize int) (*Page[domain.AuthorWithCount], error) {
	tr := otel.Tracer("services/AuthorService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	total, err := repo.CountAuthorsWithPoems(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	page, size, offset, pages := s.Paging.window(total, page, pageSize)
	out := &Page[domain.AuthorWithCount]{Items: []domain.AuthorWithCount{}, Page: page, PageSize: size, Total: total, TotalPages: pages}
	if total == 0 {
		return out, nil
	}
	items, err := repo.ListAuthorsWithPoems(ctx, s.DB, offset, size)
	if err != nil {
		return nil, err
	}
	out.Items = emptyIfNil(items)
	return out, nil
}

// Get returns an author with their poem count and counts the view once per
// viewer.
func (s *AuthorService) Get(ctx context.Context, id uint, viewerID string) (*domain.AuthorWithCount, error) {
	tr := otel.Tracer("services/AuthorService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.Int64("author.id", int64(id))))
	defer span.End()

	if s.Views != nil {
		if _, _, err := s.Views.RecordView(ctx, KindAuthor, id, viewerID); err != nil {
			return nil, err
		}
	}
	a, err := repo.GetAuthor(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAuthorNotFound
	}
	return a, err
}

// Poems returns the author's poems, newest first.
func (s *AuthorService) Poems(ctx context.Context, id uint) ([]domain.Poem, error) {
	if _, err := repo.GetCounter(ctx, s.DB, repo.AuthorViews, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	items, err := repo.ListPoemsByAuthor(ctx, s.DB, id)
	return emptyIfNil(items), err
}

// Create validates and stores an author. The slug is derived from the name
// when blank.
func (s *AuthorService) Create(ctx context.Context, in CreateAuthorInput) (*domain.AuthorWithCount, error) {
	a := &domain.Author{
		Name:  search.Normalize(in.Name),
		Bio:   search.CleanText(in.Bio),
		Photo: strings.TrimSpace(in.Photo),
	}
	err := insertWithSlug(in.Slug, a.Name, "author", func(slug string) error {
		a.ID, a.Slug = 0, slug
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return repo.CreateAuthor(ctx, s.DB, a)
	})
	if err != nil {
		return nil, err
	}
	return &domain.AuthorWithCount{Author: *a}, nil
}

// Delete removes an author together with their poems, unless one of them
// has been featured.
func (s *AuthorService) Delete(ctx context.Context, id uint) error {
	err := repo.DeleteAuthor(ctx, s.DB, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrAuthorNotFound
	case errors.Is(err, repo.ErrFeatured):
		return ErrPoemFeatured
	}
	return err
}
