package web

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jusunglee/polonizacyja/internal/db"
	"github.com/jusunglee/polonizacyja/internal/health"
	"github.com/jusunglee/polonizacyja/internal/web/handlers"
	"github.com/jusunglee/polonizacyja/internal/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes leaves room for JSON escaping around db.MaxTextBytes of text.
const maxBodyBytes = 4 * db.MaxTextBytes

type Router struct {
	repo    db.Repository
	log     *slog.Logger
	site    fs.FS
	origins []string
}

// NewRouter serves the API backed by repo and the static pages in site.
// site may be nil when no pages are embedded.
func NewRouter(repo db.Repository, log *slog.Logger, site fs.FS, origins []string) *Router {
	return &Router{
		repo:    repo,
		log:     log,
		site:    site,
		origins: origins,
	}
}

// Handler builds the mux. ctx bounds the lifetime of the rate limiter.
func (r *Router) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	transliterateHandler := handlers.NewTransliterateHandler(r.log)
	savedHandler := handlers.NewSavedHandler(r.repo, r.log)

	rateLimiter := middleware.NewRateLimiter(ctx, 60, time.Minute)
	saveLimiter := middleware.NewRateLimiter(ctx, 10, time.Minute)

	mux.Handle("POST /api/v1/transliterate",
		middleware.Chain(
			http.HandlerFunc(transliterateHandler.Transliterate),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(rateLimiter),
			middleware.MaxBytes(maxBodyBytes),
		),
	)

	mux.Handle("POST /trans",
		middleware.Chain(
			http.HandlerFunc(transliterateHandler.Legacy),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(rateLimiter),
			middleware.MaxBytes(maxBodyBytes),
		),
	)

	mux.Handle("POST /api/v1/transliterations",
		middleware.Chain(
			http.HandlerFunc(savedHandler.Create),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(saveLimiter),
			middleware.MaxBytes(maxBodyBytes),
		),
	)

	mux.Handle("GET /api/v1/transliterations",
		middleware.Chain(
			http.HandlerFunc(savedHandler.List),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.CacheControl("public, s-maxage=5, max-age=0"),
		),
	)

	mux.Handle("GET /api/v1/transliterations/{id}",
		middleware.Chain(
			http.HandlerFunc(savedHandler.Get),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.CacheControl("public, max-age=3600"),
		),
	)

	mux.Handle("GET /health", health.Handler(map[string]health.Check{"db": r.repo.Ping}))
	mux.Handle("GET /metrics", promhttp.Handler())

	if r.site != nil {
		static := middleware.Chain(r.staticHandler(), middleware.PrometheusMetrics())
		mux.Handle("GET /texts/{path...}", static)
		mux.Handle("GET /", static)
	}

	return middleware.CORS(r.origins)(mux)
}

// staticHandler serves index.html at / and files such as texts/*.txt by path.
func (r *Router) staticHandler() http.Handler {
	fileServer := http.FileServer(http.FS(r.site))
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimPrefix(req.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}
		if info, err := fs.Stat(r.site, path); err != nil || info.IsDir() {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Cache-Control", "public, s-maxage=60, max-age=0")
		fileServer.ServeHTTP(w, req)
	})
}
