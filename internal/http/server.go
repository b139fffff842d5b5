package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"incometracker/internal/core"
	"incometracker/internal/log"
	"incometracker/internal/metrics"
)

// Tracker is the part of tracker.Tracker the HTTP host drives.
type Tracker interface {
	Process(ctx context.Context, ev core.Event, state core.State) (string, bool)
	Summary(now time.Time) core.Summary
	Reset(ctx context.Context) error
	Preferences() core.Preferences
	SetPreferences(ctx context.Context, p core.Preferences) error
	HourlyRate(now time.Time) decimal.Decimal
}

type Options struct {
	Logger  *log.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
	// Ping reports store health for /health; nil means always healthy.
	Ping func(ctx context.Context) error
}

type Server struct {
	http.Server
	tracker Tracker
	metrics *metrics.Metrics
	logger  *log.Logger
	now     func() time.Time
	ping    func(ctx context.Context) error

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, tr Tracker, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		tracker: tr,
		metrics: opts.Metrics,
		logger:  logger.WithComponent(log.ComponentHTTP),
		now:     now,
		ping:    opts.Ping,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/summary", s.handleSummary)
		r.Get("/preferences", s.handleGetPreferences)
		r.Post("/reset", s.handleReset)
		r.With(middleware.AllowContentType("application/json")).Post("/events", s.handleEvents)
		r.With(middleware.AllowContentType("application/json")).Put("/preferences", s.handlePutPreferences)
	})
	if s.metrics != nil {
		s.metrics.TrackRate(func() float64 { return tr.HourlyRate(s.now()).InexactFloat64() })
		r.Handle("/metrics", s.metrics.Handler())
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// securityHeaders marks every response as uncacheable and not to be framed
// or sniffed.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
