package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

func poemTitles(ps []domain.Poem) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func TestPoemService_ListPage_Clamps(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	for i := 0; i < 5; i++ {
		mkPoem(t, db, "p"+string(rune('a'+i)), a.ID, i)
	}
	s := NewPoemService(db, nil)
	ctx := context.Background()

	cases := []struct {
		page, size         int
		wantPage, wantSize int
		wantFirst          string
	}{
		{1, 2, 1, 2, "pe"},
		{0, 2, 1, 2, "pe"},
		{-3, 2, 1, 2, "pe"},
		{3, 2, 3, 2, "pa"},
		{9999, 2, 3, 2, "pa"},
		{1, 0, 1, 21, "pe"},
		{1, 1000, 1, 100, "pe"},
	}
	for _, c := range cases {
		pg, err := s.ListPage(ctx, c.page, c.size)
		if err != nil {
			t.Fatalf("ListPage(%d,%d): %v", c.page, c.size, err)
		}
		if pg.Page != c.wantPage || pg.PageSize != c.wantSize || pg.Total != 5 {
			t.Fatalf("ListPage(%d,%d) = page %d size %d total %d", c.page, c.size, pg.Page, pg.PageSize, pg.Total)
		}
		if len(pg.Items) == 0 || pg.Items[0].Title != c.wantFirst {
			t.Fatalf("ListPage(%d,%d) items = %v", c.page, c.size, poemTitles(pg.Items))
		}
	}
}

func TestPoemService_ListPage_EmptyHasOnePage(t *testing.T) {
	s := NewPoemService(newSvcDB(t), nil)
	pg, err := s.ListPage(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if pg.Page != 1 || pg.TotalPages != 1 || pg.Items == nil || len(pg.Items) != 0 {
		t.Fatalf("unexpected empty page: %+v", pg)
	}
}

func TestPoemService_Search(t *testing.T) {
	db := newSvcDB(t)
	nart := mkAuthor(t, db, "Nart")
	zara := mkAuthor(t, db, "Zara")
	mkPoem(t, db, "Dawn", nart.ID, 0)
	mkPoem(t, db, "Dusk", zara.ID, 1)
	s := NewPoemService(db, nil)
	ctx := context.Background()

	got, err := s.Search(ctx, "dawn")
	if err != nil || len(got) != 1 || got[0].Title != "Dawn" {
		t.Fatalf("search(dawn) = %v, %v", poemTitles(got), err)
	}
	got, _ = s.Search(ctx, "  ZARA ")
	if len(got) != 1 || got[0].Title != "Dusk" {
		t.Fatalf("search(zara) = %v", poemTitles(got))
	}
	got, _ = s.Search(ctx, "nothing")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := s.Search(ctx, q); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("Search(%q): expected ErrEmptyQuery, got %v", q, err)
		}
	}
}

func TestPoemService_SearchUnionWithoutDuplicates(t *testing.T) {
	db := newSvcDB(t)
	lover := mkAuthor(t, db, "Lovelace")
	other := mkAuthor(t, db, "Other")
	mkPoem(t, db, "Love Song", lover.ID, 0) // title and author match
	mkPoem(t, db, "Winter", lover.ID, 1)    // author match
	mkPoem(t, db, "Glove", other.ID, 2)     // title match
	mkPoem(t, db, "Rain", other.ID, 3)      // no match
	s := NewPoemService(db, nil)

	got, err := s.Search(context.Background(), "love")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"Glove", "Winter", "Love Song"}
	if strings.Join(poemTitles(got), ",") != strings.Join(want, ",") {
		t.Fatalf("search(love) = %v; want %v", poemTitles(got), want)
	}
}

func TestPoemService_ListLatest(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	for i := 0; i < 12; i++ {
		mkPoem(t, db, "p"+string(rune('a'+i)), a.ID, i)
	}
	s := NewPoemService(db, nil)
	ctx := context.Background()

	got, _ := s.ListLatest(ctx, 0)
	if len(got) != 9 || got[0].Title != "pl" {
		t.Fatalf("default latest = %v", poemTitles(got))
	}
	s.LatestMax = 3
	got, _ = s.ListLatest(ctx, 50)
	if len(got) != 3 {
		t.Fatalf("capped latest = %v", poemTitles(got))
	}
}

func TestPoemService_GetCountsViewOncePerViewer(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	p := mkPoem(t, db, "dawn", a.ID, 0)
	s := NewPoemService(db, newTracker(db))
	ctx := context.Background()

	got, err := s.Get(ctx, p.ID, "v1")
	if err != nil || got.Views != 1 || got.Author.Name != "nart" {
		t.Fatalf("first Get = %+v, %v", got, err)
	}
	got, _ = s.Get(ctx, p.ID, "v1")
	if got.Views != 1 {
		t.Fatalf("repeat view counted: %d", got.Views)
	}
	got, _ = s.Get(ctx, p.ID, "v2")
	if got.Views != 2 {
		t.Fatalf("second viewer not counted: %d", got.Views)
	}
	if _, err := s.Get(ctx, 404, "v1"); !errors.Is(err, ErrPoemNotFound) {
		t.Fatalf("expected ErrPoemNotFound, got %v", err)
	}

	likes, counted, err := s.Like(ctx, p.ID, "v1")
	if err != nil || !counted || likes != 1 {
		t.Fatalf("Like = %d %v %v", likes, counted, err)
	}
}

func TestPoemService_Create(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	th := mkTheme(t, db, "nature")
	s := NewPoemService(db, nil)
	ctx := context.Background()

	p, err := s.Create(ctx, CreatePoemInput{
		Title:    "  Morning   Song ",
		AuthorID: a.ID,
		Text:     "<p>Line&nbsp;one</p>\r\n<b>two</b>",
		Tag:      "Nature",
		ThemeID:  &th.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Title != "Morning Song" || p.Slug != "morning-song" || p.Tag != domain.TagNature {
		t.Fatalf("unexpected poem: %+v", p)
	}
	if strings.Contains(p.Text, "<") || !strings.Contains(p.Text, "one") {
		t.Fatalf("text not cleaned: %q", p.Text)
	}
	if p.Category == nil || p.Category.ID != th.ID || p.Author.ID != a.ID {
		t.Fatalf("refs not loaded: %+v", p)
	}

	again, err := s.Create(ctx, CreatePoemInput{Title: "Morning song", AuthorID: a.ID, Text: "x"})
	if err != nil || again.Slug != "morning-song-2" {
		t.Fatalf("derived slug clash = %+v, %v", again, err)
	}
	if _, err := s.Create(ctx, CreatePoemInput{Title: "Other", Slug: "morning-song", AuthorID: a.ID}); !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("explicit slug clash: expected ErrDuplicateSlug, got %v", err)
	}
	if _, err := s.Create(ctx, CreatePoemInput{Title: "X", AuthorID: a.ID, Tag: "gossip"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad tag: expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.Create(ctx, CreatePoemInput{Title: "  ", AuthorID: a.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.Create(ctx, CreatePoemInput{Title: "X", AuthorID: 404}); !errors.Is(err, ErrAuthorNotFound) {
		t.Fatalf("unknown author: expected ErrAuthorNotFound, got %v", err)
	}
	missing := uint(404)
	if _, err := s.Create(ctx, CreatePoemInput{Title: "X", AuthorID: a.ID, ThemeID: &missing}); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("unknown theme: expected ErrThemeNotFound, got %v", err)
	}
}

func TestPoemService_Delete(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	p := mkPoem(t, db, "dawn", a.ID, 0)
	s := NewPoemService(db, nil)

	if err := s.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(context.Background(), p.ID); !errors.Is(err, ErrPoemNotFound) {
		t.Fatalf("expected ErrPoemNotFound, got %v", err)
	}
}
