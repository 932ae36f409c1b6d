// Theme HTTP handlers.
//
// Endpoints:
//   - GET    /themes             (all themes with poems_count)
//   - GET    /themes/{id}        (detail, counts one view per viewer)
//   - GET    /themes/{id}/poems  (poems filed under the theme)
//   - POST   /themes             (admin create, idempotent)
//   - DELETE /themes/{id}        (admin delete, per THEME_DELETE_POLICY)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/http/middleware"
	"github.com/tbourn/go-poetry-api/internal/services"
)

// ListThemes godoc
// @ID          listThemes
// @Summary     List themes
// @Tags        Themes
// @Produce     json
// @Success     200  {array}  handlers.ThemeView
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /themes [get]
func (h *Handlers) ListThemes(c *gin.Context) {
	items, err := h.themes.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toThemeViews(items))
}

// GetTheme godoc
// @ID          getTheme
// @Summary     Get a theme
// @Tags        Themes
// @Produce     json
// @Param       id  path  int  true  "Theme ID"  minimum(1)
// @Success     200  {object} handlers.ThemeView
// @Failure     404  {object} handlers.ErrorResponse "Theme not found"
// @Router      /themes/{id} [get]
func (h *Handlers) GetTheme(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	th, err := h.themes.Get(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toThemeView(*th))
}

// ListPoemsByTheme godoc
// @ID          listPoemsByTheme
// @Summary     Poems of a theme
// @Tags        Themes
// @Produce     json
// @Param       id  path  int  true  "Theme ID"  minimum(1)
// @Success     200  {array}  handlers.PoemSummary
// @Failure     404  {object} handlers.ErrorResponse "Theme not found"
// @Router      /themes/{id}/poems [get]
func (h *Handlers) ListPoemsByTheme(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	items, err := h.themes.Poems(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toPoemSummaries(items))
}

// CreateTheme godoc
// @ID          createTheme
// @Summary     Create a theme (admin)
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.CreateThemeRequest  true  "Theme"
// @Success     201  {object} handlers.ThemeView
// @Success     200  {object} handlers.ThemeView "Replayed"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Slug taken"
// @Router      /themes [post]
func (h *Handlers) CreateTheme(c *gin.Context) {
	ctx := c.Request.Context()
	if replayed(c, func(id uint) (any, error) {
		th, err := h.themes.Get(ctx, id, "")
		if err != nil {
			return nil, err
		}
		return toThemeView(*th), nil
	}) {
		return
	}

	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
		return
	}
	th, err := h.themes.Create(ctx, services.CreateThemeInput{Title: req.Title, Slug: req.Slug})
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, th.ID, http.StatusCreated)
	ok(c, http.StatusCreated, toThemeView(*th))
}

// DeleteTheme godoc
// @ID          deleteTheme
// @Summary     Delete a theme (admin)
// @Description What happens to the theme's poems is decided by THEME_DELETE_POLICY (restrict, set_null, cascade).
// @Tags        Admin
// @Security    ApiKeyAuth
// @Param       id  path  int  true  "Theme ID"  minimum(1)
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Theme not found"
// @Failure     409  {object} handlers.ErrorResponse "Theme still has poems, or a cascaded poem has been featured"
// @Router      /themes/{id} [delete]
func (h *Handlers) DeleteTheme(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.themes.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
