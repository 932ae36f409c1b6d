package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

func TestPoemsStats(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	st, err := PoemsStats(ctx, db)
	if err != nil || st.Count != 0 || st.MaxUpdatedAt != nil {
		t.Fatalf("empty: %+v err=%v", st, err)
	}

	s := seed(t, db)
	st, err = PoemsStats(ctx, db)
	if err != nil || st.Count != 2 || st.MaxUpdatedAt == nil {
		t.Fatalf("seeded: %+v err=%v", st, err)
	}
	p, _ := GetPoem(ctx, db, s.dusk.ID)
	if st.MaxUpdatedAt.Before(p.UpdatedAt) {
		t.Fatalf("max %v is before a row's updated_at %v", st.MaxUpdatedAt, p.UpdatedAt)
	}
	if st.IDSum != int64(s.dawn.ID+s.dusk.ID) || st.ThemeSum != int64(s.nature.ID) {
		t.Fatalf("sums: %+v", st)
	}
}

// Changes that leave updated_at alone must still move the fingerprint.
func TestPoemsStats_FingerprintTracksCountersAndThemes(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	s := seed(t, db)

	fingerprint := func() string {
		t.Helper()
		st, err := PoemsStats(ctx, db)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		return st.Fingerprint()
	}

	steps := []struct {
		name   string
		change func() error
	}{
		{"view", func() error { _, err := IncrementCounter(ctx, db, PoemViews, s.dawn.ID); return err }},
		{"like", func() error { _, err := IncrementCounter(ctx, db, PoemLikes, s.dusk.ID); return err }},
		{"theme detach", func() error { return DeleteTheme(ctx, db, s.nature.ID, domain.ThemeDeleteSetNull) }},
	}
	prev := fingerprint()
	for _, step := range steps {
		if err := step.change(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		next := fingerprint()
		if next == prev {
			t.Fatalf("%s left the fingerprint at %s", step.name, next)
		}
		prev = next
	}
	if fingerprint() != prev {
		t.Fatal("fingerprint is not stable without changes")
	}
}
