// Package app wires configuration, artifacts and clients into a runnable
// application.
package app

import (
	"context"
	"fmt"

	"github.com/moodcast/moodcast/configs"
	"github.com/moodcast/moodcast/internal/catalog"
	"github.com/moodcast/moodcast/internal/language"
	"github.com/moodcast/moodcast/internal/pipeline"
	"github.com/moodcast/moodcast/internal/server"
	"github.com/moodcast/moodcast/pkg/audio/features"
	"github.com/moodcast/moodcast/pkg/logging"
	"github.com/moodcast/moodcast/pkg/mood"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

// App holds the assembled application components
type App struct {
	config   *configs.Config
	logger   logging.Logger
	model    *mood.Model
	pipeline *pipeline.Pipeline
	search   *catalog.SearchClient
	tokens   *catalog.TokenProvider
}

// New loads model artifacts and builds the pipeline from configuration
func New(config *configs.Config) (*App, error) {
	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogging(config)

	model, err := mood.LoadModel(config.Model.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifacts from %s: %w", config.Model.Dir, err)
	}

	var (
		tokens *catalog.TokenProvider
		search *catalog.SearchClient
	)
	if config.Spotify.ClientID != "" && config.Spotify.ClientSecret != "" {
		tokens, err = catalog.NewClientCredentialsProvider(config.Spotify.ClientID, config.Spotify.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to build token provider: %w", err)
		}
		search = catalog.NewSearchClient(tokens, logger)
	} else {
		logger.Warn("Spotify credentials not configured, recommendation endpoints disabled")
	}

	var detector language.Detector = language.NoopDetector{}
	if config.Whisper.Enabled {
		detector = language.NewWhisperClientWithTimeout(config.Whisper.URL, config.Whisper.Timeout)
	}

	pipelineCfg := pipeline.Config{
		Features: features.Config{
			SampleRate:       config.Audio.SampleRate,
			WindowSize:       config.Audio.WindowSize,
			HopSize:          config.Audio.HopSize,
			MaxWindowSeconds: config.Audio.MaxWindowSeconds,
		},
		SearchWorkers: config.Search.Workers,
		QueryLimit:    config.Search.QueryLimit,
		ResultLimit:   config.Search.ResultLimit,
	}
	var p *pipeline.Pipeline
	if search != nil {
		p = pipeline.New(pipelineCfg, model, detector, search, tokens, logger)
	} else {
		p = pipeline.New(pipelineCfg, model, detector, nil, nil, logger)
	}

	logger.Info("Application initialized", logging.Fields{
		"model_dir":       config.Model.Dir,
		"whisper_enabled": config.Whisper.Enabled,
		"search_workers":  config.Search.Workers,
		"per_query_limit": config.Search.QueryLimit,
		"result_limit":    config.Search.ResultLimit,
	})

	return &App{
		config:   config,
		logger:   logger,
		model:    model,
		pipeline: p,
		search:   search,
		tokens:   tokens,
	}, nil
}

// Pipeline exposes the assembled analysis and recommendation pipeline
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

// Logger exposes the application logger
func (a *App) Logger() logging.Logger {
	return a.logger
}

// RunServer starts the HTTP server and blocks until ctx is canceled
func (a *App) RunServer(ctx context.Context) error {
	var auth *spotifyauth.Authenticator
	var cache *catalog.FileTokenCache
	if a.config.Spotify.ClientID != "" && a.config.Spotify.RedirectURL != "" {
		auth = spotifyauth.New(
			spotifyauth.WithClientID(a.config.Spotify.ClientID),
			spotifyauth.WithClientSecret(a.config.Spotify.ClientSecret),
			spotifyauth.WithRedirectURL(a.config.Spotify.RedirectURL),
			spotifyauth.WithScopes(spotifyauth.ScopeUserReadPrivate),
		)
		cache = catalog.NewFileTokenCache(a.config.Spotify.TokenCachePath)
	}

	srv := server.New(server.Config{
		Addr:           a.config.Server.Addr,
		AllowedOrigins: a.config.Server.AllowedOrigins,
		MaxUploadBytes: a.config.Server.MaxUploadBytes,
		ResultLimit:    a.config.Search.ResultLimit,
	}, a.pipeline, a.search, auth, cache, a.logger)

	return srv.Run(ctx)
}

func setupLogging(config *configs.Config) logging.Logger {
	level := config.LogLevel
	if config.Verbose {
		level = "debug"
	}
	return logging.NewLogger(level)
}
