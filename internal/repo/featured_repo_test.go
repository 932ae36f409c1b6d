package repo

import (
	"context"
	"errors"
	"testing"
)

func TestFeatured_CreateGetAndUniqueDay(t *testing.T) {
	db := newRepoDB(t)
	s := seed(t, db)
	ctx := context.Background()

	fp, err := CreateFeatured(ctx, db, s.dawn.ID, "2025-03-01")
	if err != nil || fp.ID == 0 {
		t.Fatalf("CreateFeatured = %+v, %v", fp, err)
	}
	if _, err := CreateFeatured(ctx, db, s.dusk.ID, "2025-03-01"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for second selection of a day, got %v", err)
	}

	got, err := GetFeaturedByDate(ctx, db, "2025-03-01")
	if err != nil {
		t.Fatalf("GetFeaturedByDate: %v", err)
	}
	if got.PoemID != s.dawn.ID || got.Poem.Title != "Dawn" || got.Poem.Author.Name != "Nart" {
		t.Fatalf("unexpected featured row: %+v", got)
	}
	if _, err := GetFeaturedByDate(ctx, db, "2025-03-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestFeaturedBefore(t *testing.T) {
	db := newRepoDB(t)
	s := seed(t, db)
	ctx := context.Background()

	if _, err := LatestFeaturedBefore(ctx, db, "2025-03-10"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty history: expected ErrNotFound, got %v", err)
	}
	for day, id := range map[string]uint{"2025-02-28": s.dawn.ID, "2025-03-05": s.dusk.ID, "2025-03-10": s.dawn.ID} {
		if _, err := CreateFeatured(ctx, db, id, day); err != nil {
			t.Fatalf("CreateFeatured(%s): %v", day, err)
		}
	}

	prev, err := LatestFeaturedBefore(ctx, db, "2025-03-10")
	if err != nil || prev.FeaturedDate != "2025-03-05" || prev.PoemID != s.dusk.ID {
		t.Fatalf("LatestFeaturedBefore = %+v, %v", prev, err)
	}
	prev, _ = LatestFeaturedBefore(ctx, db, "2025-03-01")
	if prev.FeaturedDate != "2025-02-28" {
		t.Fatalf("expected 2025-02-28, got %s", prev.FeaturedDate)
	}

	hist, err := ListFeaturedHistory(ctx, db, 2)
	if err != nil || len(hist) != 2 || hist[0].FeaturedDate != "2025-03-10" || hist[1].FeaturedDate != "2025-03-05" {
		t.Fatalf("ListFeaturedHistory = %+v, %v", hist, err)
	}
	if _, err := ListFeaturedHistory(ctx, db, 0); err == nil {
		t.Fatalf("expected error for non-positive limit")
	}
}
