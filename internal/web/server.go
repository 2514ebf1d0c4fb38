// Package web serves the lookup tool over HTTP: a JSON API, an HTML page and
// an HTMX results fragment.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/blo/internal/config"
	"github.com/JonMunkholm/blo/internal/core"
	"github.com/JonMunkholm/blo/internal/translit"
	blomw "github.com/JonMunkholm/blo/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Translator previews how a name query will be searched.
type Translator interface {
	NormalizeResult(ctx context.Context, text string) translit.Result
}

// Server is the HTTP server for the lookup tool.
type Server struct {
	service    *core.Service
	translator Translator
	cfg        *config.Config
	router     *chi.Mux
	server     *http.Server

	stopLimiters context.CancelFunc
}

// NewServer creates a Server. translator may be nil, in which case the
// translate preview echoes its input.
func NewServer(service *core.Service, translator Translator, cfg *config.Config) *Server {
	s := &Server{
		service:    service,
		translator: translator,
		cfg:        cfg,
		router:     chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(blomw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(blomw.Logger)
	s.router.Use(middleware.Recoverer)
	timeout := s.cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	s.router.Use(middleware.Timeout(timeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))
	s.router.Use(withClientIP)
}

func (s *Server) setupRoutes() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopLimiters = cancel

	limit := func(perMinute int) func(http.Handler) http.Handler {
		if !s.cfg.Rate.Enabled {
			return func(next http.Handler) http.Handler { return next }
		}
		rl := newIPRateLimiter(perMinute)
		go rl.run(ctx)
		return rl.middleware
	}
	general := limit(s.cfg.Rate.RequestsPerMinute)
	uploads := limit(s.cfg.Rate.UploadLimit)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(general)

		// Pages
		r.Get("/", s.handleIndex)
		r.Get("/results", s.handleResults)
		r.With(uploads).Post("/merge", s.handleMergeForm)

		r.Route("/api", func(r chi.Router) {
			r.With(uploads).Post("/merge", s.handleMerge)
			r.Get("/search", s.handleSearchQuery)
			r.Post("/search", s.handleSearchJSON)
			r.Get("/criteria/default", s.handleDefaultCriteria)
			r.Get("/dataset", s.handleDataset)
			r.Get("/export", s.handleExport)
			r.Get("/translate", s.handleTranslate)
		})
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and its background limiters.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopLimiters != nil {
		s.stopLimiters()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

const csp = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestTimeout is used when the config leaves it unset.
const requestTimeout = 60 * time.Second
