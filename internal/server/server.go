// Package server exposes the pipeline over HTTP: audio upload and mood
// prediction, mood-based recommendation, catalog search passthrough and the
// Spotify authorization-code flow.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/moodcast/moodcast/internal/catalog"
	"github.com/moodcast/moodcast/internal/pipeline"
	"github.com/moodcast/moodcast/pkg/logging"
)

// Config holds the HTTP server settings
type Config struct {
	Addr           string
	AllowedOrigins []string
	MaxUploadBytes int64
	ResultLimit    int
}

// Server is the HTTP front end
type Server struct {
	cfg      Config
	router   chi.Router
	pipeline *pipeline.Pipeline
	search   *catalog.SearchClient
	auth     *spotifyauth.Authenticator
	tokens   *catalog.FileTokenCache
	states   *pendingStates
	logger   logging.Logger

	httpServer *http.Server
}

// New wires the server. auth and tokens may be nil to disable the /auth
// routes; search may be nil to disable the passthrough routes.
func New(cfg Config, p *pipeline.Pipeline, search *catalog.SearchClient, auth *spotifyauth.Authenticator, tokens *catalog.FileTokenCache, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 25 << 20
	}

	s := &Server{
		cfg:      cfg,
		pipeline: p,
		search:   search,
		auth:     auth,
		tokens:   tokens,
		states:   newPendingStates(),
		logger:   logger.WithFields(logging.Fields{"component": "http_server"}),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleRoot)

	r.Post("/predict_audio", s.handlePredictAudio)

	r.Route("/recommend_v3", func(r chi.Router) {
		r.Post("/search_by_mood", s.handleSearchByMood)
		r.Post("/from_audio", s.handleRecommendFromAudio)
	})

	if s.search != nil {
		r.Route("/search", func(r chi.Router) {
			r.Get("/tracks", s.handleSearchTracks)
			r.Get("/artists", s.handleSearchArtists)
		})
	}

	if s.auth != nil && s.tokens != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", s.handleAuthLogin)
			r.Get("/callback", s.handleAuthCallback)
		})
	}

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.AllowedOrigins
}

// Run serves until the context is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.Fields{"addr": s.cfg.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}
