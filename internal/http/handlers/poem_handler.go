// Poem HTTP handlers.
//
// This file exposes REST endpoints for poem resources:
//   - GET    /poems             (list, paginated, ETag support)
//   - GET    /poems/latest      (newest n)
//   - GET    /poems/search      (title or author name)
//   - GET    /poems/{id}        (detail, counts one view per viewer)
//   - POST   /poems/{id}/like   (one like per viewer)
//   - POST   /poems             (admin create, idempotent)
//   - DELETE /poems/{id}        (admin delete)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/http/middleware"
	"github.com/tbourn/go-poetry-api/internal/services"
	"github.com/tbourn/go-poetry-api/internal/utils"
)

// ListPoems godoc
// @ID          listPoems
// @Summary     List poems (paginated)
// @Description Returns a page of poems, newest first. Supports weak ETag via If-None-Match and may return 304. Out-of-range pages are clamped.
// @Tags        Poems
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"poems:1:21:12:1735689600000000000:40:7:78:5\")
// @Param       page           query   int     false "Page number (non-numeric → 1)" minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(21)
//
// @Success     200  {object} handlers.ListPoemsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems [get]
func (h *Handlers) ListPoems(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := h.pageParams(c)

	// ETag pre-check (best effort). The requested window is part of the tag
	// so different pages never share one.
	if st, err := h.poems.Stats(ctx); err == nil {
		etag := fmt.Sprintf(`W/"poems:%d:%d:%s"`, page, pageSize, st.Fingerprint())
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	p, err := h.poems.ListPage(ctx, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, ListPoemsResponse{Poems: toPoemSummaries(p.Items), Pagination: paginationOf(p)})
}

// ListLatestPoems godoc
// @ID          listLatestPoems
// @Summary     Latest poems
// @Description Returns the n most recently added poems (default 9, capped at 100).
// @Tags        Poems
// @Produce     json
// @Param       n  query  int  false  "How many"  minimum(1) maximum(100) default(9)
// @Success     200  {array}  handlers.PoemSummary
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems/latest [get]
func (h *Handlers) ListLatestPoems(c *gin.Context) {
	items, err := h.poems.ListLatest(c.Request.Context(), utils.AtoiDefault(c.Query("n"), 0))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toPoemSummaries(items))
}

// SearchPoems godoc
// @ID          searchPoems
// @Summary     Search poems
// @Description Case-insensitive substring match on poem title or author name; each poem appears once, newest first.
// @Tags        Poems
// @Produce     json
// @Param       q  query  string  true  "Search term"  example(гъатхэ)
// @Success     200  {array}  handlers.PoemSummary
// @Failure     400  {object} handlers.ErrorResponse "Empty query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems/search [get]
func (h *Handlers) SearchPoems(c *gin.Context) {
	items, err := h.poems.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toPoemSummaries(items))
}

// GetPoem godoc
// @ID          getPoem
// @Summary     Get a poem
// @Description Returns a poem with its text. The first view by each viewer increments the view counter.
// @Tags        Poems
// @Produce     json
// @Param       X-Viewer-ID  header  string  false "Viewer id (cookie viewer_id is preferred)"  format(uuid)
// @Param       id           path    int     true  "Poem ID"  minimum(1)
// @Success     200  {object} handlers.PoemDetail
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Poem not found"
// @Failure     409  {object} handlers.ErrorResponse "Poem has been featured"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems/{id} [get]
func (h *Handlers) GetPoem(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	p, err := h.poems.Get(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toPoemDetail(*p))
}

// LikePoem godoc
// @ID          likePoem
// @Summary     Like a poem
// @Description Adds one like per viewer; repeated likes are accepted but not counted.
// @Tags        Poems
// @Produce     json
// @Param       X-Viewer-ID  header  string  false "Viewer id (cookie viewer_id is preferred)"  format(uuid)
// @Param       id           path    int     true  "Poem ID"  minimum(1)
// @Success     200  {object} handlers.LikeResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Poem not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems/{id}/like [post]
func (h *Handlers) LikePoem(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	likes, counted, err := h.poems.Like(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, LikeResponse{PoemID: id, Likes: likes, Counted: counted})
}

// CreatePoem godoc
// @ID          createPoem
// @Summary     Create a poem (admin)
// @Description Creates a poem. The slug is derived from the title when omitted; HTML is stripped from the text. Supports Idempotency-Key.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreatePoemRequest  true  "Poem"
// @Success     201  {object} handlers.PoemDetail
// @Success     200  {object} handlers.PoemDetail "Replayed"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing API key"
// @Failure     409  {object} handlers.ErrorResponse "Slug taken"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems [post]
func (h *Handlers) CreatePoem(c *gin.Context) {
	ctx := c.Request.Context()
	if replayed(c, func(id uint) (any, error) {
		p, err := h.poems.Get(ctx, id, "")
		if err != nil {
			return nil, err
		}
		return toPoemDetail(*p), nil
	}) {
		return
	}

	var req CreatePoemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title, author_id and text are required")
		return
	}
	p, err := h.poems.Create(ctx, services.CreatePoemInput{
		Title:    req.Title,
		Slug:     req.Slug,
		AuthorID: req.AuthorID,
		Text:     req.Text,
		Tag:      req.Tag,
		ThemeID:  req.ThemeID,
	})
	if err != nil {
		// A dangling reference in the payload is the client's mistake, not a missing route resource.
		if errors.Is(err, services.ErrAuthorNotFound) || errors.Is(err, services.ErrThemeNotFound) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		failErr(c, err)
		return
	}
	h.remember(c, p.ID, http.StatusCreated)
	ok(c, http.StatusCreated, toPoemDetail(*p))
}

// DeletePoem godoc
// @ID          deletePoem
// @Summary     Delete a poem (admin)
// @Tags        Admin
// @Security    ApiKeyAuth
// @Param       id  path  int  true  "Poem ID"  minimum(1)
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing API key"
// @Failure     404  {object} handlers.ErrorResponse "Poem not found"
// @Router      /poems/{id} [delete]
func (h *Handlers) DeletePoem(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.poems.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
