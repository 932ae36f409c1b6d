// Package handlers exposes the REST endpoints of the poetry API.
//
// Handlers are transport-thin: they parse path and query input, call the
// application services and translate results into HTTP responses (including
// conditional responses and idempotent replays).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/http/middleware"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/services"
	"github.com/tbourn/go-poetry-api/internal/utils"
)

//
// Service contracts (context-aware)
//

// PoemService defines poem reads and admin writes consumed by handlers.
type PoemService interface {
	ListPage(ctx context.Context, page, pageSize int) (*services.Page[domain.Poem], error)
	ListLatest(ctx context.Context, n int) ([]domain.Poem, error)
	Search(ctx context.Context, q string) ([]domain.Poem, error)
	// Get returns a poem and counts the view once per viewer.
	Get(ctx context.Context, id uint, viewerID string) (*domain.Poem, error)
	Like(ctx context.Context, id uint, viewerID string) (likes int64, counted bool, err error)
	Create(ctx context.Context, in services.CreatePoemInput) (*domain.Poem, error)
	Delete(ctx context.Context, id uint) error
	// Stats summarizes the stored poems, used for ETags.
	Stats(ctx context.Context) (repo.PoemStats, error)
}

// AuthorService defines author operations consumed by handlers.
type AuthorService interface {
	List(ctx context.Context) ([]domain.AuthorWithCount, error)
	ListPage(ctx context.Context, page, pageSize int) (*services.Page[domain.AuthorWithCount], error)
	Get(ctx context.Context, id uint, viewerID string) (*domain.AuthorWithCount, error)
	Poems(ctx context.Context, id uint) ([]domain.Poem, error)
	Create(ctx context.Context, in services.CreateAuthorInput) (*domain.AuthorWithCount, error)
	Delete(ctx context.Context, id uint) error
}

// ThemeService defines theme operations consumed by handlers.
type ThemeService interface {
	List(ctx context.Context) ([]domain.ThemeWithCount, error)
	Get(ctx context.Context, id uint, viewerID string) (*domain.ThemeWithCount, error)
	Poems(ctx context.Context, id uint) ([]domain.Poem, error)
	Create(ctx context.Context, in services.CreateThemeInput) (*domain.ThemeWithCount, error)
	Delete(ctx context.Context, id uint) error
}

// FeaturedService defines the poem-of-the-day operations.
type FeaturedService interface {
	ForDay(ctx context.Context, day string) (*domain.FeaturedPoem, error)
	History(ctx context.Context, limit int) ([]domain.FeaturedPoem, error)
}

// IdempotencyRecorder remembers which resource a create request with an
// Idempotency-Key produced.
type IdempotencyRecorder interface {
	Remember(ctx context.Context, scope, key string, resourceID uint, status int) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for poems, authors, themes and the
// featured poem.
type Handlers struct {
	poems    PoemService
	authors  AuthorService
	themes   ThemeService
	featured FeaturedService
	idem     IdempotencyRecorder

	// pageSize is the default page_size when the query omits it.
	pageSize int
}

// New constructs Handlers bound to the given services. idem may be nil, in
// which case Idempotency-Key headers are validated but not remembered.
func New(poems PoemService, authors AuthorService, themes ThemeService, featured FeaturedService, idem IdempotencyRecorder) *Handlers {
	return &Handlers{
		poems:    poems,
		authors:  authors,
		themes:   themes,
		featured: featured,
		idem:     idem,
		pageSize: services.DefaultPaging.DefaultSize,
	}
}

// WithPageSize overrides the default page size used when page_size is absent.
func (h *Handlers) WithPageSize(n int) *Handlers {
	if n > 0 {
		h.pageSize = n
	}
	return h
}

//
// Helpers
//

// pathID parses the :id path parameter, writing a 400 on failure.
func pathID(c *gin.Context) (uint, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// pageParams reads page and page_size. Non-numeric values fall back to the
// defaults; range clamping is the service's job.
func (h *Handlers) pageParams(c *gin.Context) (page, pageSize int) {
	return utils.AtoiDefault(c.Query("page"), 1), utils.AtoiDefault(c.Query("page_size"), h.pageSize)
}

// replayed serves a replayed create: when the Idempotency-Key matched an
// earlier request, load() fetches the original resource and it is returned
// with Idempotency-Replayed: true. It reports whether the response was
// written.
func replayed(c *gin.Context, load func(id uint) (any, error)) bool {
	st := middleware.IdempotencyFrom(c)
	if !st.Replay() {
		return false
	}
	body, err := load(st.ReplayOf)
	if err != nil {
		// The original resource is gone; treat the request as new.
		return false
	}
	c.Header(middleware.HeaderReplayed, "true")
	ok200(c, body)
	return true
}

// remember records the created resource against the request's key, best
// effort: a failure only costs the replay.
func (h *Handlers) remember(c *gin.Context, id uint, status int) {
	st := middleware.IdempotencyFrom(c)
	if st == nil || h.idem == nil {
		return
	}
	if err := h.idem.Remember(c.Request.Context(), st.Scope, st.Key, id, status); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("key", st.Key).Msg("idempotency record not stored")
	}
}

func ok200(c *gin.Context, body any) { ok(c, http.StatusOK, body) }
