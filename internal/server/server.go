// Package server wires the application together: store, services,
// handlers, middleware and routes, and runs the HTTP listeners.
//
//	config → Store → services → handlers → chi router
//
// Everything is assembled in New; main only loads config and calls Start.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/notes-news/internal/auth"
	"github.com/sakif/notes-news/internal/config"
	"github.com/sakif/notes-news/internal/handler"
	"github.com/sakif/notes-news/internal/middleware"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/service"
	"github.com/sakif/notes-news/web"
)

// Server owns the router and the store. The store is closed when Start
// returns, or by Close if the server never starts.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	router   *chi.Mux
	store    repository.Store
	renderer handler.Renderer
	registry *prometheus.Registry
}

type Option func(*Server)

// WithStore injects an already opened store instead of opening the one in
// the config.
func WithStore(store repository.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithRenderer replaces the embedded templates.
func WithRenderer(r handler.Renderer) Option {
	return func(s *Server) { s.renderer = r }
}

// WithRegistry collects metrics into reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		tr, err := handler.NewTemplateRenderer(web.Templates)
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		s.renderer = tr
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.store == nil {
		store, err := OpenStore(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.store = store
	}

	if err := s.setupRoutes(); err != nil {
		s.store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler is the main application handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router exposes the routes for documentation.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Store() repository.Store {
	return s.store
}

func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}
	metrics, err := middleware.NewMetrics(s.registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return err
	}

	var github *auth.GitHubProvider
	if s.cfg.Auth.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.cfg.Auth.GitHubClientID, s.cfg.Auth.GitHubClientSecret, s.cfg.Auth.GitHubCallbackURL)
	}

	// services
	noteService := service.NewNoteService(s.store.Notes(), s.logger)
	newsService := service.NewNewsService(s.store.News(), s.store.Comments(), service.NewsServiceConfig{
		PerPage: s.cfg.News.CountOnHomePage,
		Logger:  s.logger,
	})
	commentService := service.NewCommentService(s.store.News(), s.store.Comments(), s.logger)
	authService := service.NewAuthService(s.store.Users(), tokens, auth.NewPasswordService(s.cfg.Auth.BcryptCost), s.logger)

	// handlers
	pages := handler.NewPageHandler(s.renderer, s.logger)
	notes := handler.NewNoteHandler(noteService, s.renderer, s.logger)
	news := handler.NewNewsHandler(newsService, commentService, s.renderer, s.logger)
	authHandler := handler.NewAuthHandler(authService, github, s.cfg.Auth.SecureCookie, s.renderer, s.logger)
	api := handler.NewAPIHandler(newsService, commentService, noteService, authService, s.logger)

	login := auth.RequireLogin(tokens, handler.LoginURL)
	limiter := middleware.NewRateLimiter(s.cfg.Auth.LoginRate, s.cfg.Auth.LoginBurst)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Handler)
	r.Use(auth.OptionalAuth(tokens))

	r.NotFound(pages.HandleNotFound)
	r.MethodNotAllowed(pages.HandleMethodNotAllowed)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/", pages.HandleIndex)

	r.Route("/notes", func(r chi.Router) {
		r.Use(login)
		r.Get("/", notes.HandleList)
		r.Get("/add/", notes.HandleAddForm)
		r.Post("/add/", notes.HandleAdd)
		r.Get("/done/", notes.HandleDone)
		r.Get("/{slug}/", notes.HandleDetail)
		r.Get("/{slug}/edit/", notes.HandleEditForm)
		r.Post("/{slug}/edit/", notes.HandleEdit)
		r.Get("/{slug}/delete/", notes.HandleDeleteConfirm)
		r.Post("/{slug}/delete/", notes.HandleDelete)
		r.Delete("/{slug}/delete/", notes.HandleDelete)
	})

	r.Route("/news", func(r chi.Router) {
		r.Get("/", news.HandleHome)
		r.Get("/{id}/", news.HandleDetail)
		r.Group(func(r chi.Router) {
			r.Use(login)
			r.Post("/{id}/", news.HandleComment)
			// {id} below is a comment id
			r.Get("/{id}/edit/", news.HandleEditCommentForm)
			r.Post("/{id}/edit/", news.HandleEditComment)
			r.Get("/{id}/delete/", news.HandleDeleteCommentConfirm)
			r.Post("/{id}/delete/", news.HandleDeleteComment)
			r.Delete("/{id}/delete/", news.HandleDeleteComment)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/", authHandler.HandleLoginForm)
		r.With(limiter.Handler).Post("/login/", authHandler.HandleLogin)
		r.Get("/logout/", authHandler.HandleLogout)
		r.Post("/logout/", authHandler.HandleLogout)
		r.Get("/signup/", authHandler.HandleSignupForm)
		r.With(limiter.Handler).Post("/signup/", authHandler.HandleSignup)
		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/news", api.HandleListNews)
		r.Get("/news/{id}", api.HandleGetNews)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/news/{id}/comments", api.HandleCreateComment)
			r.Get("/notes", api.HandleListNotes)
			r.Get("/me", api.HandleMe)
		})
	})

	return nil
}

// DiagHandler serves Prometheus metrics and a health check that touches
// the database.
func (s *Server) DiagHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := s.store.Stats(ctx); err != nil {
			s.logger.Warn("health check failed", slog.String("error", err.Error()))
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start serves until ctx is cancelled, then shuts the listeners down,
// waiting up to the configured shutdown timeout for in-flight requests.
// The store is closed before Start returns.
func (s *Server) Start(ctx context.Context) error {
	defer s.store.Close()

	servers := []*http.Server{{
		Addr:         s.cfg.HTTP.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
	}}
	if s.cfg.Diag.Addr != "" {
		servers = append(servers, &http.Server{
			Addr:              s.cfg.Diag.Addr,
			Handler:           s.DiagHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			s.logger.Info("server starting", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
