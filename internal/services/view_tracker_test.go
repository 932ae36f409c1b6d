package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/viewer"
)

func TestViewTracker_CountsOncePerViewer(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	v := newTracker(db)
	ctx := context.Background()

	n, counted, err := v.RecordView(ctx, KindAuthor, a.ID, "viewer-a")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, int64(1), n)

	n, counted, err = v.RecordView(ctx, KindAuthor, a.ID, "viewer-a")
	require.NoError(t, err)
	assert.False(t, counted)
	assert.Equal(t, int64(1), n)

	n, counted, err = v.RecordView(ctx, KindAuthor, a.ID, "viewer-b")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, int64(2), n)

	seen, _ := viewer.Contains(ctx, v.Store, "viewer-a", "viewed_authors", "1")
	assert.True(t, seen)
}

func TestViewTracker_KindsAreIndependent(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	p := mkPoem(t, db, "dawn", a.ID, 0)
	th := mkTheme(t, db, "nature")
	v := newTracker(db)
	ctx := context.Background()

	for _, c := range []struct {
		kind Kind
		id   uint
	}{{KindAuthor, a.ID}, {KindPoem, p.ID}, {KindTheme, th.ID}} {
		_, counted, err := v.RecordView(ctx, c.kind, c.id, "v")
		require.NoError(t, err)
		assert.True(t, counted, "kind %s", c.kind)
	}
}

func TestViewTracker_NoViewerNeverCounts(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	v := newTracker(db)

	for i := 0; i < 3; i++ {
		n, counted, err := v.RecordView(context.Background(), KindAuthor, a.ID, "")
		require.NoError(t, err)
		assert.False(t, counted)
		assert.Equal(t, int64(0), n)
	}
}

func TestViewTracker_MissingEntityLeavesViewerUntouched(t *testing.T) {
	db := newSvcDB(t)
	v := newTracker(db)
	ctx := context.Background()

	_, _, err := v.RecordView(ctx, KindPoem, 404, "v")
	assert.ErrorIs(t, err, ErrPoemNotFound)
	_, _, err = v.RecordView(ctx, KindAuthor, 404, "v")
	assert.ErrorIs(t, err, ErrAuthorNotFound)
	_, _, err = v.RecordView(ctx, KindTheme, 404, "v")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	_, ok, err := v.Store.Get(ctx, "v", "viewed_poems")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestViewTracker_LikesOncePerViewer(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	p := mkPoem(t, db, "dawn", a.ID, 0)
	v := newTracker(db)
	ctx := context.Background()

	n, counted, err := v.RecordLike(ctx, p.ID, "v")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, int64(1), n)
	n, counted, _ = v.RecordLike(ctx, p.ID, "v")
	assert.False(t, counted)
	assert.Equal(t, int64(1), n)

	// a like is not a view
	_, counted, _ = v.RecordView(ctx, KindPoem, p.ID, "v")
	assert.True(t, counted)

	_, _, err = v.RecordLike(ctx, 404, "v")
	assert.ErrorIs(t, err, ErrPoemNotFound)
}

type brokenStore struct{ viewer.Store }

func (brokenStore) Add(context.Context, string, string, string) (bool, error) {
	return false, errors.New("connection refused")
}

// vanishingStore deletes the author right after the viewer is marked, as if
// an admin removed it between the existence check and the increment.
type vanishingStore struct {
	*viewer.MemoryStore
	db *gorm.DB
}

func (s vanishingStore) Add(ctx context.Context, contextID, key, value string) (bool, error) {
	added, err := s.MemoryStore.Add(ctx, contextID, key, value)
	if err == nil {
		err = s.db.Delete(&domain.Author{}, value).Error
	}
	return added, err
}

func TestViewTracker_FailedIncrementForgetsTheViewer(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	store := vanishingStore{MemoryStore: viewer.NewMemoryStore(time.Hour), db: db}
	v := &ViewTracker{DB: db, Store: store}
	ctx := context.Background()

	_, counted, err := v.RecordView(ctx, KindAuthor, a.ID, "v")
	require.ErrorIs(t, err, ErrAuthorNotFound)
	assert.False(t, counted)

	seen, err := viewer.Contains(ctx, store, "v", "viewed_authors", strconv.FormatUint(uint64(a.ID), 10))
	require.NoError(t, err)
	assert.False(t, seen, "an uncounted view must not stay in the seen-set")
}

func TestViewTracker_StoreFailureDoesNotFailTheRead(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	v := &ViewTracker{DB: db, Store: brokenStore{}}

	n, counted, err := v.RecordView(context.Background(), KindAuthor, a.ID, "v")
	require.NoError(t, err)
	assert.False(t, counted)
	assert.Equal(t, int64(0), n)
}
