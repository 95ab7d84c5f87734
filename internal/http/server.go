package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/thywillbedone/movies2u/internal/aggregate"
	"github.com/thywillbedone/movies2u/internal/auth"
	"github.com/thywillbedone/movies2u/internal/config"
	"github.com/thywillbedone/movies2u/internal/geocode"
	"github.com/thywillbedone/movies2u/internal/metrics"
	"github.com/thywillbedone/movies2u/internal/repository"
	"github.com/thywillbedone/movies2u/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg        config.Config
	store      *store.Store
	repo       *repository.Repository
	geocoder   geocode.Client
	tokens     *auth.TokenIssuer
	aggregator *aggregate.Aggregator
	rec        metrics.Recorder
	gatherer   prometheus.Gatherer
	logger     zerolog.Logger
	limiter    *clientLimiter
	router     chi.Router
	httpSrv    *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(
	cfg config.Config,
	st *store.Store,
	repo *repository.Repository,
	geocoder geocode.Client,
	tokens *auth.TokenIssuer,
	aggregator *aggregate.Aggregator,
	rec metrics.Recorder,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if rec == nil {
		rec = metrics.Nop{}
	}

	s := &Server{
		cfg:        cfg,
		store:      st,
		repo:       repo,
		geocoder:   geocoder,
		tokens:     tokens,
		aggregator: aggregator,
		rec:        rec,
		gatherer:   gatherer,
		logger:     logger,
		limiter:    newClientLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst),
		router:     r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.statusMetrics)

	s.router.Get("/healthz", s.handleHealthz)
	if s.gatherer != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	s.router.Get("/search", s.handleSearch)

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.With(s.rateLimit, s.requireAuth).Post("/", s.handleCreateMovie)
		r.Route("/{movieid}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.With(s.rateLimit, s.requireAuth).Put("/", s.handleUpdateMovie)
			r.With(s.rateLimit, s.requireAuth).Delete("/", s.handleDeleteMovie)
			r.Route("/reviews", func(r chi.Router) {
				// Review creation and reads stay public; only edits and
				// deletes go through the auth gate.
				r.With(s.rateLimit).Post("/", s.handleCreateReview)
				r.Route("/{reviewid}", func(r chi.Router) {
					r.Get("/", s.handleGetReview)
					r.With(s.rateLimit, s.requireAuth).Put("/", s.handleUpdateReview)
					r.With(s.rateLimit, s.requireAuth).Delete("/", s.handleDeleteReview)
				})
			})
		})
	})

	s.router.Route("/users", func(r chi.Router) {
		r.With(s.rateLimit).Post("/", s.handleRegister)
		r.With(s.rateLimit).Post("/login", s.handleLogin)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})
}

// statusMetrics counts every response by status code.
func (s *Server) statusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.rec.RecordHTTPStatus(ww.Status())
	})
}

// Start boots the HTTP server and blocks until ctx is done or it fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
