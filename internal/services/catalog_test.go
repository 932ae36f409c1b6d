package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

const catalogYAML = `
themes:
  - title: Nature
  - title: Homeland
    slug: home
authors:
  - name: Нало Заур
    slug: nalo
    bio: "<p>Poet &amp; translator</p>"
    poems:
      - title: Dawn
        theme: nature
        tag: nature
        text: "<b>light</b>\r\n  over   hills"
      - title: Road
        slug: road
        theme: home
        text: dust
  - name: Zara
    poems:
      - title: Untitled
        text: quiet
`

func TestDecodeCatalog(t *testing.T) {
	c, err := DecodeCatalog(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.Len(t, c.Themes, 2)
	require.Len(t, c.Authors, 2)
	assert.Equal(t, "home", c.Themes[1].Slug)
	assert.Len(t, c.Authors[0].Poems, 2)

	empty, err := DecodeCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Authors)

	_, err = DecodeCatalog(strings.NewReader("poets: []\n"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImporter_Import(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	c, err := DecodeCatalog(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	im := &Importer{DB: db}
	rep, err := im.Import(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{ThemesCreated: 2, AuthorsCreated: 2, PoemsCreated: 3}, *rep)

	var dawn domain.Poem
	require.NoError(t, db.Where("slug = ?", "dawn").First(&dawn).Error)
	assert.Equal(t, "light\n over hills", dawn.Text)
	require.NotNil(t, dawn.CategoryID)

	var nature domain.Theme
	require.NoError(t, db.Where("slug = ?", "nature").First(&nature).Error)
	assert.Equal(t, nature.ID, *dawn.CategoryID)

	var nalo domain.Author
	require.NoError(t, db.Where("slug = ?", "nalo").First(&nalo).Error)
	assert.Equal(t, "Poet & translator", nalo.Bio)
	assert.Equal(t, nalo.ID, dawn.AuthorID)

	// a second run matches every entry
	rep, err = im.Import(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{ThemesExisting: 2, AuthorsExisting: 2, PoemsExisting: 3}, *rep)

	var n int64
	require.NoError(t, db.Model(&domain.Poem{}).Count(&n).Error)
	assert.EqualValues(t, 3, n)
}

func TestImporter_SameTitleDifferentAuthors(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	c, err := DecodeCatalog(strings.NewReader(`
authors:
  - name: Nart
    poems:
      - title: Spring
        text: thaw
  - name: Zara
    poems:
      - title: Spring
        text: blossom
      - title: "  Spring "
        text: repeated entry
`))
	require.NoError(t, err)

	im := &Importer{DB: db}
	rep, err := im.Import(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{AuthorsCreated: 2, PoemsCreated: 2, PoemsExisting: 1}, *rep)

	var got []domain.Poem
	require.NoError(t, db.Order("id").Find(&got).Error)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"spring", "spring-2"}, []string{got[0].Slug, got[1].Slug})
	assert.Equal(t, "blossom", got[1].Text)
	assert.NotEqual(t, got[0].AuthorID, got[1].AuthorID)

	rep, err = im.Import(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{AuthorsExisting: 2, PoemsExisting: 3}, *rep)
}

func TestImporter_UsesStoredTheme(t *testing.T) {
	db := newSvcDB(t)
	th := mkTheme(t, db, "love")

	c := &Catalog{Authors: []CatalogAuthor{{
		Name:  "Amin",
		Poems: []CatalogPoem{{Title: "Letter", Theme: "love", Text: "ink"}},
	}}}
	rep, err := (&Importer{DB: db}).Import(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.PoemsCreated)

	var p domain.Poem
	require.NoError(t, db.Where("slug = ?", "letter").First(&p).Error)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, th.ID, *p.CategoryID)
}

func TestImporter_RollsBackOnError(t *testing.T) {
	db := newSvcDB(t)

	cases := []struct {
		name string
		cat  *Catalog
		want error
	}{
		{
			name: "unknown_theme",
			cat: &Catalog{Authors: []CatalogAuthor{{
				Name:  "Amin",
				Poems: []CatalogPoem{{Title: "Letter", Theme: "missing", Text: "ink"}},
			}}},
			want: ErrThemeNotFound,
		},
		{
			name: "bad_tag",
			cat: &Catalog{
				Themes: []CatalogTheme{{Title: "Sea"}},
				Authors: []CatalogAuthor{{
					Name:  "Amin",
					Poems: []CatalogPoem{{Title: "Wave", Tag: "nope", Text: "salt"}},
				}},
			},
			want: ErrInvalidInput,
		},
		{
			name: "blank_author",
			cat:  &Catalog{Authors: []CatalogAuthor{{Name: "  "}}},
			want: ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&Importer{DB: db}).Import(context.Background(), tc.cat)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			for _, m := range []any{&domain.Author{}, &domain.Theme{}, &domain.Poem{}} {
				var n int64
				require.NoError(t, db.Model(m).Count(&n).Error)
				assert.Zero(t, n, "%T rows left behind", m)
			}
		})
	}
}

func TestPoemService_CleanTexts(t *testing.T) {
	db := newSvcDB(t)
	a := mkAuthor(t, db, "nart")
	dirty := domain.Poem{Title: "Raw", Slug: "raw", AuthorID: a.ID, Text: "<i>wind</i> &amp;\t rain"}
	require.NoError(t, db.Omit("Author", "Category").Create(&dirty).Error)
	mkPoem(t, db, "Clean", a.ID, 1)

	svc := NewPoemService(db, nil)
	scanned, changed, err := svc.CleanTexts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, scanned)
	assert.Equal(t, 1, changed)

	var got domain.Poem
	require.NoError(t, db.First(&got, dirty.ID).Error)
	assert.Equal(t, "wind & rain", got.Text)

	// already clean
	_, changed, err = svc.CleanTexts(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, changed)
}
