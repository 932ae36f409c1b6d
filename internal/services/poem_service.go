// Package services – PoemService
//
// This file implements the poem read models (paged listing, latest, search,
// detail with view tracking, likes) and the admin write side (create and
// delete). Service-level errors are returned for predictable cases so
// handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/search"
)

// PoemService serves poems.
type PoemService struct {
	DB     *gorm.DB
	Views  *ViewTracker
	Paging Paging

	// LatestDefault and LatestMax bound ListLatest.
	LatestDefault int
	LatestMax     int
}

// NewPoemService constructs a PoemService with the public API defaults.
func NewPoemService(db *gorm.DB, views *ViewTracker) *PoemService {
	return &PoemService{
		DB:            db,
		Views:         views,
		Paging:        DefaultPaging,
		LatestDefault: 9,
		LatestMax:     100,
	}
}

// CreatePoemInput carries the writable fields of a new poem.
type CreatePoemInput struct {
	Title    string
	Slug     string
	AuthorID uint
	Text     string
	Tag      string
	ThemeID  *uint
}

// ListPage returns one page of poems, newest first. page and pageSize are
// clamped; see Paging.
func (s *PoemService) ListPage(ctx context.Context, page, pageSize int) (*Page[domain.Poem], error) {
	tr := otel.Tracer("services/PoemService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	total, err := repo.CountPoems(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	page, size, offset, pages := s.Paging.window(total, page, pageSize)
	out := &Page[domain.Poem]{Items: []domain.Poem{}, Page: page, PageSize: size, Total: total, TotalPages: pages}
	if total == 0 {
		return out, nil
	}
	items, err := repo.ListPoemsPage(ctx, s.DB, offset, size)
	if err != nil {
		return nil, err
	}
	out.Items = emptyIfNil(items)
	return out, nil
}

// ListLatest returns the n newest poems. Non-positive n selects the default;
// n is capped at LatestMax.
func (s *PoemService) ListLatest(ctx context.Context, n int) ([]domain.Poem, error) {
	if n <= 0 {
		n = s.LatestDefault
	}
	if n <= 0 {
		n = 9
	}
	if s.LatestMax > 0 && n > s.LatestMax {
		n = s.LatestMax
	}
	items, err := repo.ListLatestPoems(ctx, s.DB, n)
	return emptyIfNil(items), err
}

// Search returns poems whose title or author's name contains q,
// case-insensitively, each poem once, newest first. A blank q is rejected.
func (s *PoemService) Search(ctx context.Context, q string) ([]domain.Poem, error) {
	q = search.Normalize(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	tr := otel.Tracer("services/PoemService")
	ctx, span := tr.Start(ctx, "Search", trace.WithAttributes(attribute.String("query", q)))
	defer span.End()

	items, err := repo.SearchPoems(ctx, s.DB, q)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(items)))
	return emptyIfNil(items), nil
}

// Get returns a poem and counts the view once per viewer.
func (s *PoemService) Get(ctx context.Context, id uint, viewerID string) (*domain.Poem, error) {
	tr := otel.Tracer("services/PoemService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.Int64("poem.id", int64(id))))
	defer span.End()

	if s.Views != nil {
		if _, _, err := s.Views.RecordView(ctx, KindPoem, id, viewerID); err != nil {
			return nil, err
		}
	}
	return s.reload(ctx, id)
}

// Like adds the viewer's like to a poem once and returns the like count.
func (s *PoemService) Like(ctx context.Context, id uint, viewerID string) (int64, bool, error) {
	if s.Views == nil {
		return 0, false, errors.New("view tracking is not configured")
	}
	return s.Views.RecordLike(ctx, id, viewerID)
}

// Create validates and stores a poem. The text is cleaned of markup and the
// slug is derived from the title when blank.
func (s *PoemService) Create(ctx context.Context, in CreatePoemInput) (*domain.Poem, error) {
	tr := otel.Tracer("services/PoemService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	tag, err := domain.ParsePoemTag(in.Tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := repo.GetCounter(ctx, s.DB, repo.AuthorViews, in.AuthorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	if in.ThemeID != nil {
		if _, err := repo.GetCounter(ctx, s.DB, repo.ThemeViews, *in.ThemeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrThemeNotFound
			}
			return nil, err
		}
	}

	p := &domain.Poem{
		Title:      search.Normalize(in.Title),
		AuthorID:   in.AuthorID,
		Text:       search.CleanText(in.Text),
		Tag:        tag,
		CategoryID: in.ThemeID,
	}
	err = insertWithSlug(in.Slug, p.Title, "poem", func(slug string) error {
		p.ID, p.Slug = 0, slug
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return repo.CreatePoem(ctx, s.DB, p)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, p.ID)
}

func (s *PoemService) reload(ctx context.Context, id uint) (*domain.Poem, error) {
	p, err := repo.GetPoem(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPoemNotFound
	}
	return p, err
}

// Delete removes a poem.
func (s *PoemService) Delete(ctx context.Context, id uint) error {
	err := repo.DeletePoem(ctx, s.DB, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrPoemNotFound
	case errors.Is(err, repo.ErrFeatured):
		return ErrPoemFeatured
	}
	return err
}

// Stats summarizes the stored poems for conditional responses.
func (s *PoemService) Stats(ctx context.Context) (repo.PoemStats, error) {
	return repo.PoemsStats(ctx, s.DB)
}

// CleanTexts strips markup and stray whitespace from every stored poem text,
// batch rows at a time. It returns how many poems were scanned and changed.
func (s *PoemService) CleanTexts(ctx context.Context, batch int) (scanned, changed int, err error) {
	tr := otel.Tracer("services/PoemService")
	ctx, span := tr.Start(ctx, "CleanTexts", trace.WithAttributes(attribute.Int("batch", batch)))
	defer span.End()

	return repo.RewritePoemTexts(ctx, s.DB, batch, search.CleanText)
}
