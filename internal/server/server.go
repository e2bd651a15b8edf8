// Package server is the blog's development HTTP server: a JSON API over
// the listing pipeline, rendered post pages, reader preferences, live
// reload and the site's static files.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/blogdeck/internal/blog"
	"github.com/ziadkadry99/blogdeck/internal/livereload"
	"github.com/ziadkadry99/blogdeck/internal/logging"
	"github.com/ziadkadry99/blogdeck/internal/posts"
	"github.com/ziadkadry99/blogdeck/internal/preferences"
	"github.com/ziadkadry99/blogdeck/internal/render"
)

// DefaultRequestTimeout bounds every request except the live reload socket.
const DefaultRequestTimeout = 60 * time.Second

// Config holds server configuration.
type Config struct {
	Port       int
	SiteDir    string // directory served as static files
	AllowAll   bool   // allow all CORS origins
	LiveReload bool

	PageSize    int
	RecentCount int
	Locale      string // fallback locale when the request names none

	RequestTimeout time.Duration
}

// Server serves one blog. The post store can be swapped while serving.
type Server struct {
	cfg        Config
	store      atomic.Pointer[posts.Store]
	renderer   *render.Renderer
	prefs      *preferences.Store
	hub        *livereload.Hub
	router     chi.Router
	httpServer *http.Server
	log        zerolog.Logger
}

// New creates a server over store. prefs may be nil, in which case the
// preference endpoints are not mounted and pages use the light theme.
func New(cfg Config, store *posts.Store, renderer *render.Renderer, prefs *preferences.Store) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		prefs:    prefs,
		log:      logging.Component("server"),
	}
	s.store.Store(store)
	if cfg.LiveReload {
		s.hub = livereload.NewHub()
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	// The socket lives as long as the page, so it stays out of the timeout.
	if s.hub != nil {
		r.Get("/livereload", s.hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/api/posts", s.handleListPosts)
		r.Get("/api/posts/{id}", s.handleGetPost)
		r.Get("/api/categories", s.handleCategories)
		r.Get("/api/recent", s.handleRecent)

		// Names with a dot, such as posts.json or 3.md, stay static files.
		r.Get("/posts/{id:[^.]+}", s.handlePostPage)

		if s.prefs != nil {
			preferences.RegisterRoutes(r, s.prefs)
		}

		r.Handle("/*", s.staticFiles())
	})

	return r
}

// requestLogger logs one line per request through zerolog.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// staticFiles serves the site directory. The index and the documents change
// while authoring, so browsers are told to revalidate.
func (s *Server) staticFiles() http.Handler {
	fs := http.FileServer(http.Dir(s.cfg.SiteDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	})
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Store returns the post store in use.
func (s *Server) Store() *posts.Store { return s.store.Load() }

// SetStore swaps the post store. Requests already running keep the old one.
func (s *Server) SetStore(store *posts.Store) { s.store.Store(store) }

// Hub returns the live reload hub, or nil when live reload is off.
func (s *Server) Hub() *livereload.Hub { return s.hub }

// Reload swaps in store and tells connected pages to reload.
func (s *Server) Reload(store *posts.Store) {
	s.SetStore(store)
	if s.hub != nil {
		s.hub.Broadcast(livereload.Reload)
	}
	s.log.Info().Int("posts", len(store.Summaries())).Msg("content reloaded")
}

// coordinator builds a fresh listing for one request.
func (s *Server) coordinator(msgs blog.Messages) *blog.Coordinator {
	return blog.New(s.Store(), blog.Options{
		PageSize:    s.cfg.PageSize,
		RecentCount: s.cfg.RecentCount,
		Messages:    msgs,
	})
}

// messages picks the locale from the lang query parameter, then the
// Accept-Language header, then the configured locale.
func (s *Server) messages(r *http.Request) blog.Messages {
	var tags []string
	for _, t := range []string{r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), s.cfg.Locale} {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return blog.MessagesFor(tags...)
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Str("site", s.cfg.SiteDir).Msg("listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server and closes live reload sockets.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
