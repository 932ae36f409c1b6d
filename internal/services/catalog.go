package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/search"
)

// Catalog is a bulk description of themes, authors and their poems, as read
// by the import command.
type Catalog struct {
	Themes  []CatalogTheme  `yaml:"themes"`
	Authors []CatalogAuthor `yaml:"authors"`
}

// CatalogTheme is one theme entry of a Catalog.
type CatalogTheme struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug,omitempty"`
}

// CatalogAuthor is one author entry of a Catalog with the poems they wrote.
type CatalogAuthor struct {
	Name  string        `yaml:"name"`
	Slug  string        `yaml:"slug,omitempty"`
	Bio   string        `yaml:"bio,omitempty"`
	Photo string        `yaml:"photo,omitempty"`
	Poems []CatalogPoem `yaml:"poems,omitempty"`
}

// CatalogPoem is one poem entry. Theme holds a theme slug, either declared
// in the same catalog or already stored.
type CatalogPoem struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug,omitempty"`
	Theme string `yaml:"theme,omitempty"`
	Tag   string `yaml:"tag,omitempty"`
	Text  string `yaml:"text"`
}

// ImportReport counts what Import created and what it found already stored.
type ImportReport struct {
	ThemesCreated  int `json:"themes_created"`
	ThemesExisting int `json:"themes_existing"`

	AuthorsCreated  int `json:"authors_created"`
	AuthorsExisting int `json:"authors_existing"`

	PoemsCreated  int `json:"poems_created"`
	PoemsExisting int `json:"poems_existing"`
}

// DecodeCatalog reads a YAML catalog. Unknown fields are rejected.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("%w: catalog: %v", ErrInvalidInput, err)
	}
	return &c, nil
}

// Importer loads a Catalog into the store.
type Importer struct {
	DB *gorm.DB
}

// Import stores every entry of c in one transaction. Themes and authors are
// matched by slug (given, or derived from the title or name). Poems are
// matched by their explicit slug, or else by author and title, so two
// authors may each have a poem with the same title. Matched entries are
// reused and left unchanged; importing the same catalog twice creates
// nothing the second time.
func (im *Importer) Import(ctx context.Context, c *Catalog) (*ImportReport, error) {
	tr := otel.Tracer("services/Importer")
	ctx, span := tr.Start(ctx, "Import",
		trace.WithAttributes(
			attribute.Int("themes", len(c.Themes)),
			attribute.Int("authors", len(c.Authors)),
		),
	)
	defer span.End()

	rep := &ImportReport{}
	err := im.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		themes := NewThemeService(tx, nil)
		authors := NewAuthorService(tx, nil)
		poems := NewPoemService(tx, nil)

		themeIDs := map[string]uint{}
		for _, t := range c.Themes {
			id, created, err := upsertBySlug(ctx, tx, repo.ThemeIDBySlug, t.Slug, t.Title, func(slug string) (uint, error) {
				th, err := themes.Create(ctx, CreateThemeInput{Title: t.Title, Slug: slug})
				if err != nil {
					return 0, err
				}
				return th.ID, nil
			})
			if err != nil {
				return fmt.Errorf("theme %q: %w", t.Title, err)
			}
			tally(created, &rep.ThemesCreated, &rep.ThemesExisting)
			themeIDs[slugKey(t.Slug, t.Title)] = id
		}

		for _, a := range c.Authors {
			authorID, created, err := upsertBySlug(ctx, tx, repo.AuthorIDBySlug, a.Slug, a.Name, func(slug string) (uint, error) {
				out, err := authors.Create(ctx, CreateAuthorInput{Name: a.Name, Slug: slug, Bio: a.Bio, Photo: a.Photo})
				if err != nil {
					return 0, err
				}
				return out.ID, nil
			})
			if err != nil {
				return fmt.Errorf("author %q: %w", a.Name, err)
			}
			tally(created, &rep.AuthorsCreated, &rep.AuthorsExisting)

			for _, p := range a.Poems {
				themeID, err := resolveTheme(ctx, tx, themeIDs, p.Theme)
				if err != nil {
					return fmt.Errorf("poem %q: %w", p.Title, err)
				}
				created, err := importPoem(ctx, tx, poems, authorID, themeID, p)
				if err != nil {
					return fmt.Errorf("poem %q: %w", p.Title, err)
				}
				tally(created, &rep.PoemsCreated, &rep.PoemsExisting)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("poems.created", rep.PoemsCreated))
	return rep, nil
}

func slugKey(slug, source string) string {
	if slug != "" {
		return search.Slugify(slug)
	}
	return search.Slugify(source)
}

// upsertBySlug returns the id stored under the entry's slug, or creates the
// entry through create when the slug is free.
func upsertBySlug(
	ctx context.Context,
	db *gorm.DB,
	lookup func(context.Context, *gorm.DB, string) (uint, error),
	slug, source string,
	create func(slug string) (uint, error),
) (uint, bool, error) {
	key := slugKey(slug, source)
	if key != "" {
		id, err := lookup(ctx, db, key)
		if err == nil {
			return id, false, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return 0, false, err
		}
	}
	id, err := create(key)
	return id, err == nil, err
}

// importPoem stores p for authorID unless it is already there. A poem
// without an explicit slug gets one derived from its title, suffixed when
// another poem holds it.
func importPoem(ctx context.Context, db *gorm.DB, poems *PoemService, authorID uint, themeID *uint, p CatalogPoem) (bool, error) {
	create := func(slug string) (uint, error) {
		out, err := poems.Create(ctx, CreatePoemInput{
			Title:    p.Title,
			Slug:     slug,
			AuthorID: authorID,
			Text:     p.Text,
			Tag:      p.Tag,
			ThemeID:  themeID,
		})
		if err != nil {
			return 0, err
		}
		return out.ID, nil
	}

	if strings.TrimSpace(p.Slug) != "" {
		_, created, err := upsertBySlug(ctx, db, repo.PoemIDBySlug, p.Slug, p.Title, create)
		return created, err
	}
	_, err := repo.PoemIDByAuthorTitle(ctx, db, authorID, search.Normalize(p.Title))
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, repo.ErrNotFound):
		return false, err
	}
	_, err = create("")
	return err == nil, err
}

func resolveTheme(ctx context.Context, db *gorm.DB, known map[string]uint, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	key := search.Slugify(slug)
	if id, ok := known[key]; ok {
		return &id, nil
	}
	id, err := repo.ThemeIDBySlug(ctx, db, key)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrThemeNotFound
	}
	if err != nil {
		return nil, err
	}
	known[key] = id
	return &id, nil
}

func tally(created bool, made, existing *int) {
	if created {
		*made++
		return
	}
	*existing++
}
