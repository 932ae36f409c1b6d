// Package services – FeaturedService
//
// This file implements the poem of the day. For each calendar day exactly
// one FeaturedPoem row exists once anyone has asked for that day. The first
// request for a day picks a poem uniformly at random, avoiding the poem that
// was featured the day before whenever another candidate exists. Concurrent
// first requests race on the unique featured_date index; the loser re-reads
// the winner's row.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/observability"
	"github.com/tbourn/go-poetry-api/internal/repo"
)

// FeaturedRepo defines the persistence contract required by FeaturedService.
type FeaturedRepo interface {
	// GetFeaturedByDate returns the selection for day (with its poem) or repo.ErrNotFound.
	GetFeaturedByDate(ctx context.Context, db *gorm.DB, day string) (*domain.FeaturedPoem, error)

	// LatestFeaturedBefore returns the most recent selection strictly before day or repo.ErrNotFound.
	LatestFeaturedBefore(ctx context.Context, db *gorm.DB, day string) (*domain.FeaturedPoem, error)

	// CountPoemsExcluding counts the candidate pool.
	CountPoemsExcluding(ctx context.Context, db *gorm.DB, exclude []uint) (int64, error)

	// PoemAtOffset returns the candidate at offset in a stable order.
	PoemAtOffset(ctx context.Context, db *gorm.DB, exclude []uint, offset int) (*domain.Poem, error)

	// CreateFeatured inserts a selection; a taken day yields repo.ErrDuplicate.
	CreateFeatured(ctx context.Context, db *gorm.DB, poemID uint, day string) (*domain.FeaturedPoem, error)
}

// GormFeaturedRepo adapts the repository free functions to FeaturedRepo.
type GormFeaturedRepo struct{}

func (GormFeaturedRepo) GetFeaturedByDate(ctx context.Context, db *gorm.DB, day string) (*domain.FeaturedPoem, error) {
	return repo.GetFeaturedByDate(ctx, db, day)
}

func (GormFeaturedRepo) LatestFeaturedBefore(ctx context.Context, db *gorm.DB, day string) (*domain.FeaturedPoem, error) {
	return repo.LatestFeaturedBefore(ctx, db, day)
}

func (GormFeaturedRepo) CountPoemsExcluding(ctx context.Context, db *gorm.DB, exclude []uint) (int64, error) {
	return repo.CountPoemsExcluding(ctx, db, exclude)
}

func (GormFeaturedRepo) PoemAtOffset(ctx context.Context, db *gorm.DB, exclude []uint, offset int) (*domain.Poem, error) {
	return repo.PoemAtOffset(ctx, db, exclude, offset)
}

func (GormFeaturedRepo) CreateFeatured(ctx context.Context, db *gorm.DB, poemID uint, day string) (*domain.FeaturedPoem, error) {
	return repo.CreateFeatured(ctx, db, poemID, day)
}

// FeaturedService selects and serves the poem of the day.
type FeaturedService struct {
	DB   *gorm.DB
	Repo FeaturedRepo

	// Now is the clock used by Today.
	Now func() time.Time
	// Location decides where a calendar day begins.
	Location *time.Location
	// Int64N draws a uniform value in [0, n).
	Int64N func(n int64) int64
	// MaxRetries bounds the re-reads after losing a race for a day.
	MaxRetries int
}

// NewFeaturedService constructs a FeaturedService with a real clock, UTC days
// and three conflict retries.
func NewFeaturedService(db *gorm.DB, r FeaturedRepo) *FeaturedService {
	return &FeaturedService{
		DB:         db,
		Repo:       r,
		Now:        time.Now,
		Location:   time.UTC,
		Int64N:     rand.Int64N,
		MaxRetries: 3,
	}
}

// TodayKey returns the current calendar day in the service's location.
func (s *FeaturedService) TodayKey() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return domain.DayOf(now().In(loc))
}

// Today returns (or creates) the featured poem for the current day.
func (s *FeaturedService) Today(ctx context.Context) (*domain.FeaturedPoem, error) {
	return s.GetOrCreate(ctx, s.TodayKey())
}

// ForDay serves public lookups. The current day is created on first use;
// past days are read-only, because selecting a poem for a past day after its
// successor was chosen could repeat a poem on consecutive days. Future days
// are rejected.
func (s *FeaturedService) ForDay(ctx context.Context, day string) (*domain.FeaturedPoem, error) {
	today := s.TodayKey()
	if day == "" || day == today {
		return s.GetOrCreate(ctx, today)
	}
	if _, err := domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%w: day must be YYYY-MM-DD", ErrInvalidInput)
	}
	if day > today {
		return nil, fmt.Errorf("%w: %s is in the future", ErrInvalidInput, day)
	}
	fp, err := s.Repo.GetFeaturedByDate(ctx, s.DB, day)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFeaturedNotFound
	}
	return fp, err
}

// GetOrCreate returns the featured poem for day, selecting one on first use.
// Repeated calls for the same day always return the same poem.
func (s *FeaturedService) GetOrCreate(ctx context.Context, day string) (*domain.FeaturedPoem, error) {
	tr := otel.Tracer("services/FeaturedService")
	ctx, span := tr.Start(ctx, "GetOrCreate",
		trace.WithAttributes(attribute.String("featured.date", day)),
	)
	defer span.End()

	if _, err := domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%w: day must be YYYY-MM-DD", ErrInvalidInput)
	}

	retries := s.MaxRetries
	if retries < 0 {
		retries = 0
	}
	for attempt := 0; ; attempt++ {
		fp, err := s.Repo.GetFeaturedByDate(ctx, s.DB, day)
		if err == nil {
			return fp, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if attempt > retries {
			// Someone keeps winning the insert yet the row is not visible.
			return nil, fmt.Errorf("featured %s: %w", day, ErrFeaturedConflict)
		}

		err = s.selectFor(ctx, day)
		if errors.Is(err, ErrFeaturedConflict) {
			observability.FeaturedConflicts.Inc()
			span.AddEvent("conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

// selectFor picks a poem for day and stores it. The row is read back by the
// caller so the response always carries the stored selection.
func (s *FeaturedService) selectFor(ctx context.Context, day string) error {
	var exclude []uint
	prevDay, err := domain.PrevDay(day)
	if err != nil {
		return err
	}
	last, err := s.Repo.LatestFeaturedBefore(ctx, s.DB, day)
	switch {
	case err == nil:
		if last.FeaturedDate == prevDay {
			exclude = []uint{last.PoemID}
		}
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}

	pool, err := s.Repo.CountPoemsExcluding(ctx, s.DB, exclude)
	if err != nil {
		return err
	}
	if pool == 0 && len(exclude) > 0 {
		observability.FeaturedFallbacks.Inc()
		exclude = nil
		if pool, err = s.Repo.CountPoemsExcluding(ctx, s.DB, nil); err != nil {
			return err
		}
	}
	if pool == 0 {
		return ErrNoPoems
	}

	draw := s.Int64N
	if draw == nil {
		draw = rand.Int64N
	}
	p, err := s.Repo.PoemAtOffset(ctx, s.DB, exclude, int(draw(pool)))
	if errors.Is(err, repo.ErrNotFound) {
		// The pool shrank between count and fetch; draw again.
		return ErrFeaturedConflict
	}
	if err != nil {
		return err
	}

	if _, err := s.Repo.CreateFeatured(ctx, s.DB, p.ID, day); err != nil {
		if errors.Is(err, repo.ErrDuplicate) || errors.Is(err, ErrFeaturedConflict) {
			return ErrFeaturedConflict
		}
		return err
	}
	observability.FeaturedSelections.Inc()
	return nil
}

// History returns up to limit past selections, latest first.
func (s *FeaturedService) History(ctx context.Context, limit int) ([]domain.FeaturedPoem, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	items, err := repo.ListFeaturedHistory(ctx, s.DB, limit)
	return emptyIfNil(items), err
}
