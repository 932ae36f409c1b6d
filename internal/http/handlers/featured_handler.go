package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/utils"
)

// GetFeaturedPoem godoc
// @ID          getFeaturedPoem
// @Summary     Poem of the day
// @Description Returns the featured poem for today (selected on first request) or for a past date. Past dates that were never requested return 404; future dates return 400.
// @Tags        Poems
// @Produce     json
// @Param       date  query  string  false  "Calendar day (YYYY-MM-DD) in FEATURED_TZ; default today"  example(2025-05-01)
// @Success     200  {object} handlers.FeaturedPoemView
// @Failure     400  {object} handlers.ErrorResponse "Bad or future date"
// @Failure     404  {object} handlers.ErrorResponse "No selection for that day"
// @Failure     503  {object} handlers.ErrorResponse "No poems to feature"
// @Router      /poems/featured [get]
func (h *Handlers) GetFeaturedPoem(c *gin.Context) {
	fp, err := h.featured.ForDay(c.Request.Context(), c.Query("date"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok200(c, toFeaturedView(*fp))
}

// ListFeaturedHistory godoc
// @ID          listFeaturedHistory
// @Summary     Featured poem history
// @Description Past selections, latest day first.
// @Tags        Poems
// @Produce     json
// @Param       limit  query  int  false  "How many days"  minimum(1) maximum(100) default(30)
// @Success     200  {array}  handlers.FeaturedPoemView
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /poems/history [get]
func (h *Handlers) ListFeaturedHistory(c *gin.Context) {
	items, err := h.featured.History(c.Request.Context(), utils.AtoiDefault(c.Query("limit"), 0))
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]FeaturedPoemView, 0, len(items))
	for _, fp := range items {
		out = append(out, toFeaturedView(fp))
	}
	ok200(c, out)
}
