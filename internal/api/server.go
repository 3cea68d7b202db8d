package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/studymap/internal/config"
	"github.com/dgallion1/studymap/internal/generate"
	"github.com/dgallion1/studymap/internal/pipeline"
	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/dgallion1/studymap/internal/search"
)

// Generator produces roadmaps and notes.
type Generator interface {
	Roadmap(ctx context.Context, topic string) (roadmap.Tree, error)
	Notes(ctx context.Context, topic string) (string, error)
}

// Resources looks up videos and articles.
type Resources interface {
	Video(ctx context.Context, topic string) (*search.Video, error)
	Articles(ctx context.Context, topic string, limit int) ([]search.Article, error)
	Load(ctx context.Context, topic string) search.Bundle
}

// Exports runs asynchronous document exports.
type Exports interface {
	Submit(job *pipeline.Job) error
	GetJob(id string) *pipeline.Job
	QueueDepth() int
}

// Deps are the collaborators behind the HTTP surface. Stats may be nil.
type Deps struct {
	Generator Generator
	Resources Resources
	Exports   Exports
	Stats     *generate.LLMStats
	Provider  string
}

// Server is the HTTP API server for studymap.
type Server struct {
	router   chi.Router
	gen      Generator
	res      Resources
	exports  Exports
	stats    *generate.LLMStats
	provider string
	log      *slog.Logger
	cfg      config.Config
	now      func() time.Time
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		gen:      deps.Generator,
		res:      deps.Resources,
		exports:  deps.Exports,
		stats:    deps.Stats,
		provider: deps.Provider,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Helmet-style defaults, minus a content security policy.
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"Referrer-Policy", "no-referrer"},
	{"X-DNS-Prefetch-Control", "off"},
	{"Strict-Transport-Security", "max-age=15552000; includeSubDomains"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
	{"X-XSS-Protection", "0"},
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	for _, h := range securityHeaders {
		r.Use(middleware.SetHeader(h[0], h[1]))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.ClientURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	limiter := NewRateLimiter(s.cfg.RateLimitWindow, s.cfg.RateLimitMaxRequests)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/health", s.handleHealth)
		r.Get("/stats/llm", s.handleLLMStats)

		r.Get("/resources/youtube/{query}", s.handleYouTube)
		r.Get("/resources/articles/{query}", s.handleArticles)
		r.Get("/resources/bundle/{query}", s.handleBundle)

		r.Get("/export/{jobID}/status", s.handleExportStatus)
		r.Get("/export/{jobID}/download", s.handleExportDownload)

		// JSON bodies.
		r.Group(func(r chi.Router) {
			r.Use(RequireJSON(s.cfg.MaxBodyBytes))

			r.Post("/ai/generate-roadmap", s.handleGenerateRoadmap)
			r.Post("/ai/generate-notes", s.handleGenerateNotes)
			r.Post("/resources/generate-pdf", s.handleGeneratePDF)
			r.Post("/roadmap/diagram", s.handleDiagram)
			r.Post("/export", s.handleExport)
		})
	})

	s.router = r
}
