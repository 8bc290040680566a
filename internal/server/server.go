// Package server exposes document generation over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// MaxRequestBody bounds the JSON body of /api/generate. Presenter logos
// arrive as data URIs and set the scale.
const MaxRequestBody = 8 << 20

// Generator builds documents.
type Generator interface {
	Generate(ctx context.Context, req contenttopdf.Request) (*contenttopdf.Result, error)
}

// PDFRenderer prints generated documents.
type PDFRenderer interface {
	Render(ctx context.Context, res *contenttopdf.Result) ([]byte, error)
}

// Compile-time interface checks.
var (
	_ Generator   = (*contenttopdf.Generator)(nil)
	_ PDFRenderer = (*contenttopdf.RendererPool)(nil)
)

// Server is the HTTP API.
type Server struct {
	router     chi.Router
	gen        Generator
	lister     source.Lister
	pdf        PDFRenderer
	log        *logger.Logger
	corsOrigin string
}

// Option configures a Server.
type Option func(*Server)

// WithPDFRenderer enables "format": "pdf" on /api/generate.
func WithPDFRenderer(r PDFRenderer) Option {
	return func(s *Server) {
		s.pdf = r
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCORSOrigin allows browser calls from origin. "*" allows any.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

// New creates a Server generating with gen and listing with lister.
func New(gen Generator, lister source.Lister, opts ...Option) *Server {
	s := &Server{
		gen:    gen,
		lister: lister,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))
	if s.corsOrigin != "" {
		r.Use(corsHandler(s.corsOrigin))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Compress(5)).Get("/courses", s.handleCourses)
		r.Get("/languages", s.handleLanguages)
		r.Post("/generate", s.handleGenerate)
	})

	s.router = r
}

// HTTPServer wraps handler with the timeouts used in production. Browser
// renders of long courses set the write timeout.
func HTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
}
