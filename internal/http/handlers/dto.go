package handlers

import (
	"time"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/services"
)

//
// Response DTOs
//

// AuthorRef is the compact author embedded in poem payloads.
type AuthorRef struct {
	ID   uint   `json:"id"   example:"3"`
	Name string `json:"name" example:"Нало Заур"`
	Slug string `json:"slug" example:"nalo-zaur"`
}

// ThemeRef is the compact theme embedded in poem payloads.
type ThemeRef struct {
	ID    uint   `json:"id"    example:"2"`
	Title string `json:"title" example:"Щӏыуэпс"`
	Slug  string `json:"slug"  example:"nature"`
}

// PoemSummary is a poem in listings (no body text).
type PoemSummary struct {
	ID        uint      `json:"id"        example:"12"`
	Title     string    `json:"title"     example:"Пщэдджыжь"`
	Slug      string    `json:"slug"      example:"pshchedzhyzh"`
	Author    AuthorRef `json:"author"`
	Theme     *ThemeRef `json:"theme,omitempty"`
	Tag       string    `json:"tag,omitempty"       example:"nature"`
	TagLabel  string    `json:"tag_label,omitempty" example:"Щӏыуэпс"`
	Views     int64     `json:"views"     example:"40"`
	Likes     int64     `json:"likes"     example:"7"`
	CreatedAt time.Time `json:"created_at"`
}

// PoemDetail is a single poem with its text.
type PoemDetail struct {
	PoemSummary
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorView is an author with the number of their poems.
type AuthorView struct {
	ID         uint      `json:"id"          example:"3"`
	Name       string    `json:"name"        example:"Нало Заур"`
	Slug       string    `json:"slug"        example:"nalo-zaur"`
	Bio        string    `json:"bio,omitempty"`
	Photo      string    `json:"photo,omitempty" example:"authors/nalo.jpg"`
	Views      int64     `json:"views"       example:"120"`
	PoemsCount int64     `json:"poems_count" example:"14"`
	CreatedAt  time.Time `json:"created_at"`
}

// ThemeView is a theme with the number of poems filed under it.
type ThemeView struct {
	ID         uint   `json:"id"          example:"2"`
	Title      string `json:"title"       example:"Щӏыуэпс"`
	Slug       string `json:"slug"        example:"nature"`
	Views      int64  `json:"views"       example:"9"`
	PoemsCount int64  `json:"poems_count" example:"31"`
}

// FeaturedPoemView is the poem of one calendar day.
type FeaturedPoemView struct {
	Date string     `json:"date" example:"2025-05-01"`
	Poem PoemDetail `json:"poem"`
}

// LikeResponse reports the like counter after a like request.
type LikeResponse struct {
	PoemID uint  `json:"poem_id" example:"12"`
	Likes  int64 `json:"likes"   example:"8"`
	// Counted is false when this viewer had already liked the poem.
	Counted bool `json:"counted" example:"true"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListPoemsResponse wraps a page of poems and pagination information.
type ListPoemsResponse struct {
	Poems      []PoemSummary `json:"poems"`
	Pagination Pagination    `json:"pagination"`
}

// ListAuthorsResponse wraps authors; Pagination is present only when a page
// was requested.
type ListAuthorsResponse struct {
	Authors    []AuthorView `json:"authors"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

//
// Request DTOs
//

// CreatePoemRequest is the JSON payload for creating a poem.
type CreatePoemRequest struct {
	Title    string `json:"title"     binding:"required" example:"Пщэдджыжь"`
	Slug     string `json:"slug"      example:"pshchedzhyzh"`
	AuthorID uint   `json:"author_id" binding:"required" example:"3"`
	Text     string `json:"text"      binding:"required"`
	Tag      string `json:"tag"       example:"nature"`
	ThemeID  *uint  `json:"theme_id"  example:"2"`
}

// CreateAuthorRequest is the JSON payload for creating an author.
type CreateAuthorRequest struct {
	Name  string `json:"name"  binding:"required" example:"Нало Заур"`
	Slug  string `json:"slug"  example:"nalo-zaur"`
	Bio   string `json:"bio"`
	Photo string `json:"photo" example:"authors/nalo.jpg"`
}

// CreateThemeRequest is the JSON payload for creating a theme.
type CreateThemeRequest struct {
	Title string `json:"title" binding:"required" example:"Щӏыуэпс"`
	Slug  string `json:"slug"  example:"nature"`
}

//
// Mapping
//

func toPoemSummary(p domain.Poem) PoemSummary {
	out := PoemSummary{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Author:    AuthorRef{ID: p.Author.ID, Name: p.Author.Name, Slug: p.Author.Slug},
		Tag:       string(p.Tag),
		TagLabel:  p.Tag.Label(),
		Views:     p.Views,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt,
	}
	if out.Author.ID == 0 {
		out.Author.ID = p.AuthorID
	}
	if p.Category != nil {
		out.Theme = &ThemeRef{ID: p.Category.ID, Title: p.Category.Title, Slug: p.Category.Slug}
	}
	return out
}

func toPoemDetail(p domain.Poem) PoemDetail {
	return PoemDetail{PoemSummary: toPoemSummary(p), Text: p.Text, UpdatedAt: p.UpdatedAt}
}

func toPoemSummaries(ps []domain.Poem) []PoemSummary {
	out := make([]PoemSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPoemSummary(p))
	}
	return out
}

func toAuthorView(a domain.AuthorWithCount) AuthorView {
	return AuthorView{
		ID:         a.ID,
		Name:       a.Name,
		Slug:       a.Slug,
		Bio:        a.Bio,
		Photo:      a.Photo,
		Views:      a.Views,
		PoemsCount: a.PoemsCount,
		CreatedAt:  a.CreatedAt,
	}
}

func toAuthorViews(as []domain.AuthorWithCount) []AuthorView {
	out := make([]AuthorView, 0, len(as))
	for _, a := range as {
		out = append(out, toAuthorView(a))
	}
	return out
}

func toThemeView(t domain.ThemeWithCount) ThemeView {
	return ThemeView{ID: t.ID, Title: t.Title, Slug: t.Slug, Views: t.Views, PoemsCount: t.PoemsCount}
}

func toThemeViews(ts []domain.ThemeWithCount) []ThemeView {
	out := make([]ThemeView, 0, len(ts))
	for _, t := range ts {
		out = append(out, toThemeView(t))
	}
	return out
}

func toFeaturedView(fp domain.FeaturedPoem) FeaturedPoemView {
	return FeaturedPoemView{Date: fp.FeaturedDate, Poem: toPoemDetail(fp.Poem)}
}

func paginationOf[T any](p *services.Page[T]) Pagination {
	return Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.Page < p.TotalPages,
	}
}
