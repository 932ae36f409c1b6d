package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/repo"
)

func newFeatured(db *gorm.DB, draw func(int64) int64) *FeaturedService {
	s := NewFeaturedService(db, GormFeaturedRepo{})
	if draw != nil {
		s.Int64N = draw
	}
	return s
}

func countFeatured(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.FeaturedPoem{}).Count(&n).Error)
	return n
}

func TestFeatured_IdempotentPerDay(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	for i, title := range []string{"dawn", "dusk", "noon", "night"} {
		mkPoem(t, db, title, a.ID, i)
	}
	s := newFeatured(db, nil)
	ctx := context.Background()

	first, err := s.GetOrCreate(ctx, "2025-05-01")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "2025-05-01", first.FeaturedDate)
	assert.Equal(t, first.PoemID, first.Poem.ID, "poem is loaded with the selection")
	assert.Equal(t, "nart", first.Poem.Author.Name)

	for i := 0; i < 5; i++ {
		again, err := s.GetOrCreate(ctx, "2025-05-01")
		require.NoError(t, err)
		assert.Equal(t, first.PoemID, again.PoemID)
		assert.Equal(t, first.ID, again.ID)
	}
	assert.Equal(t, int64(1), countFeatured(t, db))
}

func TestFeatured_NeverRepeatsYesterday(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "zara")
	mkPoem(t, db, "one", a.ID, 0)
	mkPoem(t, db, "two", a.ID, 1)
	mkPoem(t, db, "three", a.ID, 2)

	// Always drawing the first candidate is the worst case for repetition.
	var pools []int64
	s := newFeatured(db, func(n int64) int64 { pools = append(pools, n); return 0 })
	ctx := context.Background()

	day := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	var prev uint
	for i := 0; i < 7; i++ {
		fp, err := s.GetOrCreate(ctx, domain.DayOf(day))
		require.NoError(t, err)
		if i > 0 {
			assert.NotEqual(t, prev, fp.PoemID, "day %s repeats the previous day", fp.FeaturedDate)
		}
		prev = fp.PoemID
		day = day.AddDate(0, 0, 1)
	}
	assert.Equal(t, int64(3), pools[0], "first day draws from every poem")
	for _, n := range pools[1:] {
		assert.Equal(t, int64(2), n, "later days exclude yesterday's poem")
	}
}

func TestFeatured_ExclusionOnlyForImmediatelyPrecedingDay(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "amin")
	p1 := mkPoem(t, db, "first", a.ID, 0)
	mkPoem(t, db, "second", a.ID, 1)
	_, err := repo.CreateFeatured(context.Background(), db, p1.ID, "2025-01-01")
	require.NoError(t, err)

	s := newFeatured(db, func(int64) int64 { return 0 })
	fp, err := s.GetOrCreate(context.Background(), "2025-01-03")
	require.NoError(t, err)
	assert.Equal(t, p1.ID, fp.PoemID, "a gap day lifts the exclusion")
}

func TestFeatured_SinglePoemFallsBack(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "solo")
	only := mkPoem(t, db, "only", a.ID, 0)
	s := newFeatured(db, nil)
	ctx := context.Background()

	d1, err := s.GetOrCreate(ctx, "2024-02-28")
	require.NoError(t, err)
	d2, err := s.GetOrCreate(ctx, "2024-02-29")
	require.NoError(t, err)
	d3, err := s.GetOrCreate(ctx, "2024-03-01")
	require.NoError(t, err)
	for _, fp := range []*domain.FeaturedPoem{d1, d2, d3} {
		assert.Equal(t, only.ID, fp.PoemID)
	}
	assert.Equal(t, int64(3), countFeatured(t, db))
}

func TestFeatured_NoPoems(t *testing.T) {
	db := newSvcDB(t)
	s := newFeatured(db, nil)

	_, err := s.GetOrCreate(context.Background(), "2025-01-01")
	assert.ErrorIs(t, err, ErrNoPoems)
	assert.Equal(t, int64(0), countFeatured(t, db))
}

func TestFeatured_InvalidDay(t *testing.T) {
	s := newFeatured(newSvcDB(t), nil)
	_, err := s.GetOrCreate(context.Background(), "2025-13-01")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeatured_TodayUsesClockAndLocation(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	mkPoem(t, db, "dawn", a.ID, 0)

	s := newFeatured(db, nil)
	s.Now = func() time.Time { return time.Date(2025, 6, 30, 22, 30, 0, 0, time.UTC) }
	assert.Equal(t, "2025-06-30", s.TodayKey())

	s.Location = time.FixedZone("UTC+3", 3*3600)
	assert.Equal(t, "2025-07-01", s.TodayKey())

	fp, err := s.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", fp.FeaturedDate)
}

func TestFeatured_ForDay(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	mkPoem(t, db, "dawn", a.ID, 0)
	mkPoem(t, db, "dusk", a.ID, 1)

	s := newFeatured(db, nil)
	s.Now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	today, err := s.ForDay(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", today.FeaturedDate)

	same, err := s.ForDay(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, today.ID, same.ID)

	// Past days are never selected after the fact.
	_, err = s.ForDay(ctx, "2025-03-09")
	assert.ErrorIs(t, err, ErrFeaturedNotFound)
	assert.Equal(t, int64(1), countFeatured(t, db))

	_, err = s.GetOrCreate(ctx, "2025-03-08")
	require.NoError(t, err)
	past, err := s.ForDay(ctx, "2025-03-08")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-08", past.FeaturedDate)

	_, err = s.ForDay(ctx, "2025-03-11")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.ForDay(ctx, "10.03.2025")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// racingRepo lets another writer claim the day just before our insert.
type racingRepo struct {
	GormFeaturedRepo
	winner uint

	mu      sync.Mutex
	creates int
}

func (r *racingRepo) CreateFeatured(ctx context.Context, db *gorm.DB, poemID uint, day string) (*domain.FeaturedPoem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.creates == 1 {
		if _, err := repo.CreateFeatured(ctx, db, r.winner, day); err != nil {
			return nil, err
		}
	}
	return repo.CreateFeatured(ctx, db, poemID, day)
}

func TestFeatured_ConflictIsAbsorbed(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	p1 := mkPoem(t, db, "dawn", a.ID, 0)
	p2 := mkPoem(t, db, "dusk", a.ID, 1)

	r := &racingRepo{winner: p2.ID}
	s := NewFeaturedService(db, r)
	s.Int64N = func(int64) int64 { return 0 } // we would pick p1

	fp, err := s.GetOrCreate(context.Background(), "2025-04-04")
	require.NoError(t, err, "the conflict must not surface")
	assert.Equal(t, p2.ID, fp.PoemID, "the stored winner is returned")
	assert.NotEqual(t, p1.ID, fp.PoemID)
	assert.Equal(t, 1, r.creates)
	assert.Equal(t, int64(1), countFeatured(t, db))
}

// stuckRepo never lets a selection become visible.
type stuckRepo struct {
	GormFeaturedRepo
	creates int
}

func (r *stuckRepo) GetFeaturedByDate(context.Context, *gorm.DB, string) (*domain.FeaturedPoem, error) {
	return nil, repo.ErrNotFound
}

func (r *stuckRepo) CreateFeatured(context.Context, *gorm.DB, uint, string) (*domain.FeaturedPoem, error) {
	r.creates++
	return nil, repo.ErrDuplicate
}

func TestFeatured_RetriesAreBounded(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	mkPoem(t, db, "dawn", a.ID, 0)

	r := &stuckRepo{}
	s := NewFeaturedService(db, r)
	s.MaxRetries = 2

	_, err := s.GetOrCreate(context.Background(), "2025-04-04")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFeaturedConflict))
	assert.Equal(t, 3, r.creates)
}

func TestFeatured_ConcurrentFirstRequestsAgree(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	for i, title := range []string{"a", "b", "c", "d", "e"} {
		mkPoem(t, db, title, a.ID, i)
	}
	s := newFeatured(db, nil)

	const n = 8
	ids := make([]uint, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fp, err := s.GetOrCreate(context.Background(), "2025-09-09")
			errs[i] = err
			if fp != nil {
				ids[i] = fp.PoemID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(1), countFeatured(t, db))
}

func TestFeatured_History(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	mkPoem(t, db, "dawn", a.ID, 0)
	mkPoem(t, db, "dusk", a.ID, 1)
	s := newFeatured(db, nil)
	ctx := context.Background()

	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		_, err := s.GetOrCreate(ctx, d)
		require.NoError(t, err)
	}
	hist, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, "2025-01-03", hist[0].FeaturedDate)
}
