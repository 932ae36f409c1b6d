// Package httpapi assembles the Gin engine of the poetry API: services,
// middleware chain and routes. Read endpoints are public; write endpoints
// exist only when an admin key is configured.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-poetry-api/docs" // registers the swagger spec
	"github.com/tbourn/go-poetry-api/internal/config"
	"github.com/tbourn/go-poetry-api/internal/domain"
	"github.com/tbourn/go-poetry-api/internal/http/handlers"
	"github.com/tbourn/go-poetry-api/internal/http/middleware"
	"github.com/tbourn/go-poetry-api/internal/services"
	"github.com/tbourn/go-poetry-api/internal/viewer"
)

// corsHeaders are the request headers browser clients may send.
var corsHeaders = []string{
	"Origin", "Content-Type", "Accept", "If-None-Match",
	middleware.HeaderViewerID,
	middleware.HeaderAPIKey,
	middleware.HeaderIdempotencyKey,
}

// corsExposed are the response headers browser clients may read.
var corsExposed = []string{"X-Request-ID", middleware.HeaderViewerID, "ETag", middleware.HeaderReplayed, "Content-Length"}

// Services bundles the application services behind the routes. Build it
// with NewServices or supply fakes in tests.
type Services struct {
	Poems       *services.PoemService
	Authors     *services.AuthorService
	Themes      *services.ThemeService
	Featured    *services.FeaturedService
	Idempotency *services.IdempotencyService
}

// NewServices wires the services to db and the viewer store using the
// listing, featured and idempotency settings from cfg.
func NewServices(db *gorm.DB, store viewer.Store, cfg config.Config) (*Services, error) {
	views := &services.ViewTracker{DB: db, Store: store}
	paging := services.Paging{DefaultSize: cfg.PageSize, MaxSize: cfg.MaxPageSize}

	poems := services.NewPoemService(db, views)
	poems.Paging = paging
	if cfg.LatestLimit > 0 {
		poems.LatestDefault = cfg.LatestLimit
	}
	if cfg.LatestMax > 0 {
		poems.LatestMax = cfg.LatestMax
	}

	authors := services.NewAuthorService(db, views)
	authors.Paging = paging

	themes := services.NewThemeService(db, views)
	if cfg.ThemeDelete != "" {
		policy, err := domain.ParseThemeDeletePolicy(cfg.ThemeDelete)
		if err != nil {
			return nil, err
		}
		themes.DeletePolicy = policy
	}

	featured := services.NewFeaturedService(db, services.GormFeaturedRepo{})
	featured.Location = cfg.FeaturedLocation()
	featured.MaxRetries = cfg.FeaturedRetry

	return &Services{
		Poems:       poems,
		Authors:     authors,
		Themes:      themes,
		Featured:    featured,
		Idempotency: services.NewIdempotencyService(db, cfg.IdempotencyTTL),
	}, nil
}

// RegisterRoutes installs the middleware chain and every endpoint on r.
// Order matters: tracing first, then the request and viewer ids so that the
// access log and panic recovery can report both. Idempotency runs before the
// rate limiter so a replay does not spend a token.
func RegisterRoutes(r *gin.Engine, svc *Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		middleware.ViewerContext(middleware.ViewerOptions{
			MaxAge: int(cfg.Viewer.TTL / time.Second),
			Secure: cfg.Viewer.CookieSecure,
		}),
		middleware.AccessLog(middleware.AccessLogOptions{
			Redact:     cfg.LogRedact,
			QuietPaths: []string{"/health", "/metrics"},
		}),
		middleware.Recovery(),
		limitBody(cfg.MaxBodyBytes),
		middleware.Metrics(),
	)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, svc.Idempotency.Lookup),
		middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP()).Handler(),
		corsPolicy(cfg.CORS.AllowedOrigins),
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS:   cfg.Security.EnableHSTS,
			HSTSMaxAge:   cfg.Security.HSTSMaxAge,
			EnablePolicy: true,
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc.Poems, svc.Authors, svc.Themes, svc.Featured, svc.Idempotency).
		WithPageSize(cfg.PageSize)

	api := groupWithPrefix(r, cfg.APIBasePath)
	var admin gin.IRoutes
	if cfg.AdminEnabled() {
		admin = api.Group("", middleware.RequireAPIKey(cfg.AdminAPIKey))
	}
	h.Mount(api, admin)
}

// corsPolicy allows any origin without credentials when origins is empty.
// With an allowlist, credentials are allowed so the viewer cookie travels
// with cross-origin reads.
func corsPolicy(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  corsHeaders,
		ExposeHeaders: corsExposed,
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
		cc.AllowCredentials = true
	}
	return cors.New(cc)
}

// limitBody caps request bodies at maxBytes (1 MiB when unset); reading past
// the cap fails in the handler.
func limitBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix; "" and "/" mean the root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "/" {
		prefix = ""
	}
	return r.Group(prefix)
}
