// Author HTTP handlers.
//
// Endpoints:
//   - GET    /authors             (authors with poems; paginated when page is given)
//   - GET    /authors/{id}        (detail, counts one view per viewer)
//   - GET    /authors/{id}/poems  (the author's poems)
//   - POST   /authors             (admin create, idempotent)
//   - DELETE /authors/{id}        (admin delete, cascades to poems)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/http/middleware"
	"github.com/tbourn/go-poetry-api/internal/services"
)

// ListAuthors godoc
// @ID          listAuthors
// @Summary     List authors
// @Description Authors with at least one poem, ordered by name, each with poems_count. Without page the full list is returned.
// @Tags        Authors
// @Produce     json
// @Param       page       query  int  false  "Page number (non-numeric → 1)"  minimum(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(21)
// @Success     200  {object} handlers.ListAuthorsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /authors [get]
func (h *Handlers) ListAuthors(c *gin.Context) {
	ctx := c.Request.Context()
	if _, paged := c.GetQuery("page"); !paged {
		items, err := h.authors.List(ctx)
		if err != nil {
			failErr(c, err)
			return
		}
		ok200(c, ListAuthorsResponse{Authors: toAuthorViews(items)})
		return
	}

	page, pageSize := h.pageParams(c)
	p, err := h.authors.ListPage(ctx, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	pg := paginationOf(p)
	ok200(c, ListAuthorsResponse{Authors: toAuthorViews(p.Items), Pagination: &pg})
}

// GetAuthor godoc
// @ID          getAuthor
// @Summary     Get an author
// @Description Returns an author with poems_count. The first view by each viewer increments the view counter.
// @Tags        Authors
// @Produce     json
// @Param       X-Viewer-ID  header  string  false "Viewer id (cookie viewer_id is preferred)"  format(uuid)
// @Param       id           path    int     true  "Author ID"  minimum(1)
// @Success     200  {object} handlers.AuthorView
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Author not found"
// @Router      /authors/{id} [get]
func (h *Handlers) GetAuthor(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	a, err := h.authors.Get(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toAuthorView(*a))
}

// ListPoemsByAuthor godoc
// @ID          listPoemsByAuthor
// @Summary     Poems of an author
// @Tags        Authors
// @Produce     json
// @Param       id  path  int  true  "Author ID"  minimum(1)
// @Success     200  {array}  handlers.PoemSummary
// @Failure     404  {object} handlers.ErrorResponse "Author not found"
// @Router      /authors/{id}/poems [get]
func (h *Handlers) ListPoemsByAuthor(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	items, err := h.authors.Poems(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toPoemSummaries(items))
}

// CreateAuthor godoc
// @ID          createAuthor
// @Summary     Create an author (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.CreateAuthorRequest  true  "Author"
// @Success     201  {object} handlers.AuthorView
// @Success     200  {object} handlers.AuthorView "Replayed"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Slug taken"
// @Router      /authors [post]
func (h *Handlers) CreateAuthor(c *gin.Context) {
	ctx := c.Request.Context()
	if replayed(c, func(id uint) (any, error) {
		a, err := h.authors.Get(ctx, id, "")
		if err != nil {
			return nil, err
		}
		return toAuthorView(*a), nil
	}) {
		return
	}

	var req CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
		return
	}
	a, err := h.authors.Create(ctx, services.CreateAuthorInput{
		Name:  req.Name,
		Slug:  req.Slug,
		Bio:   req.Bio,
		Photo: req.Photo,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, a.ID, http.StatusCreated)
	ok(c, http.StatusCreated, toAuthorView(*a))
}

// DeleteAuthor godoc
// @ID          deleteAuthor
// @Summary     Delete an author and their poems (admin)
// @Tags        Admin
// @Security    ApiKeyAuth
// @Param       id  path  int  true  "Author ID"  minimum(1)
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Author not found"
// @Failure     409  {object} handlers.ErrorResponse "One of the poems has been featured"
// @Router      /authors/{id} [delete]
func (h *Handlers) DeleteAuthor(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.authors.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
