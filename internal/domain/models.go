// Package domain defines the persistence models for poems, authors, themes
// and the featured-poem history. These types are mapped with GORM and form
// the core data layer of the poetry API.
package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/search"
)

// Field limits shared by validation and column definitions.
const (
	MaxTitleRunes      = 250
	MaxNameRunes       = 150
	MaxThemeTitleRunes = 150
	MaxSlugLen         = 255
)

// Author is a poet. Deleting an author deletes their poems.
//
// Fields:
//   - Slug: unique, URL-safe handle.
//   - Photo: optional reference (path or URL) to a portrait.
//   - Views: per-viewer deduplicated detail views.
//   - NameFolded: case-folded Name maintained on save; used by search.
//   - CreatedAt: set once at insert; UpdatedAt: touched on every save.
type Author struct {
	ID         uint      `json:"id"         gorm:"primaryKey"`
	Name       string    `json:"name"       gorm:"type:varchar(150);not null"`
	Slug       string    `json:"slug"       gorm:"type:varchar(255);not null;uniqueIndex"`
	Bio        string    `json:"bio"        gorm:"type:text"`
	Photo      string    `json:"photo"      gorm:"type:varchar(255)"`
	Views      int64     `json:"views"      gorm:"not null;default:0;check:chk_authors_views,views >= 0"`
	NameFolded string    `json:"-"          gorm:"type:varchar(150);index"`
	CreatedAt  time.Time `json:"created_at" gorm:"<-:create;autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the database table name for Author.
func (Author) TableName() string { return "authors" }

// BeforeSave keeps the search column in sync with Name.
func (a *Author) BeforeSave(*gorm.DB) error {
	a.NameFolded = search.Fold(a.Name)
	return nil
}

// Theme is a topical category. Poems reference it optionally; what happens to
// them when a theme is deleted is decided by ThemeDeletePolicy.
type Theme struct {
	ID    uint   `json:"id"    gorm:"primaryKey"`
	Title string `json:"title" gorm:"type:varchar(150);not null"`
	Slug  string `json:"slug"  gorm:"type:varchar(255);not null;uniqueIndex"`
	Views int64  `json:"views" gorm:"not null;default:0;check:chk_themes_views,views >= 0"`
}

// TableName returns the database table name for Theme.
func (Theme) TableName() string { return "themes" }

// Poem is the primary content entity.
//
// Fields:
//   - Tag: legacy free-text theme kept for imported data (see PoemTag).
//   - CategoryID: optional reference to a Theme.
//   - Views / Likes: counters, only ever incremented store-side.
//   - TitleFolded: case-folded Title maintained on save; used by search.
//   - CreatedAt: set once at insert and never written again.
type Poem struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	Title       string    `json:"title"       gorm:"type:varchar(250);not null;index"`
	Slug        string    `json:"slug"        gorm:"type:varchar(255);not null;uniqueIndex"`
	AuthorID    uint      `json:"author_id"   gorm:"not null;index"`
	Text        string    `json:"text"        gorm:"type:text;not null"`
	Tag         PoemTag   `json:"tag,omitempty" gorm:"type:varchar(100)"`
	CategoryID  *uint     `json:"category_id,omitempty" gorm:"index"`
	Views       int64     `json:"views"       gorm:"not null;default:0;check:chk_poems_views,views >= 0"`
	Likes       int64     `json:"likes"       gorm:"not null;default:0;check:chk_poems_likes,likes >= 0"`
	TitleFolded string    `json:"-"           gorm:"type:varchar(250);index"`
	CreatedAt   time.Time `json:"created_at"  gorm:"<-:create;autoCreateTime;index"`
	UpdatedAt   time.Time `json:"updated_at"  gorm:"autoUpdateTime"`

	Author   Author `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Category *Theme `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Poem.
func (Poem) TableName() string { return "poems" }

// BeforeSave keeps the search column in sync with Title.
func (p *Poem) BeforeSave(*gorm.DB) error {
	p.TitleFolded = search.Fold(p.Title)
	return nil
}

// FeaturedPoem assigns one poem to one calendar day. Rows are append-only:
// the unique index on FeaturedDate is what serialises concurrent first
// requests for the same day.
type FeaturedPoem struct {
	ID           uint      `json:"id"            gorm:"primaryKey"`
	PoemID       uint      `json:"poem_id"       gorm:"not null;index"`
	FeaturedDate string    `json:"featured_date" gorm:"type:varchar(10);not null;uniqueIndex:ux_featured_date"`
	CreatedAt    time.Time `json:"created_at"    gorm:"<-:create;autoCreateTime"`

	Poem Poem `json:"-" gorm:"foreignKey:PoemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for FeaturedPoem.
func (FeaturedPoem) TableName() string { return "featured_poems" }

// Models lists every persistent type in migration order.
func Models() []any {
	return []any{
		&Author{},
		&Theme{},
		&Poem{},
		&FeaturedPoem{},
		&Idempotency{},
	}
}
