package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose   bool   `mapstructure:"verbose"`
	LogLevel  string `mapstructure:"log_level"`
	ConfigDir string `mapstructure:"config_dir"`
	DataDir   string `mapstructure:"data_dir"`

	// HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Spotify catalog configuration
	Spotify SpotifyConfig `mapstructure:"spotify"`

	// Language detection configuration
	Whisper WhisperConfig `mapstructure:"whisper"`

	// Mood model artifacts
	Model ModelConfig `mapstructure:"model"`

	// Audio feature extraction configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Query expansion and ranking configuration
	Search SearchConfig `mapstructure:"search"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string   `mapstructure:"addr"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	MaxUploadBytes  int64    `mapstructure:"max_upload_bytes"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout_seconds"`
}

// SpotifyConfig contains catalog API credentials and OAuth settings
type SpotifyConfig struct {
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	RedirectURL    string `mapstructure:"redirect_url"`
	TokenCachePath string `mapstructure:"token_cache_path"`
}

// WhisperConfig contains language-detection sidecar settings
type WhisperConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ModelConfig locates the regression artifacts on disk
type ModelConfig struct {
	Dir string `mapstructure:"dir"`
}

// AudioConfig contains feature extraction settings
type AudioConfig struct {
	SampleRate       int     `mapstructure:"sample_rate"`
	WindowSize       int     `mapstructure:"window_size"`
	HopSize          int     `mapstructure:"hop_size"`
	MaxWindowSeconds float64 `mapstructure:"max_window_seconds"`
}

// SearchConfig contains recommendation settings
type SearchConfig struct {
	Workers     int `mapstructure:"workers"`
	QueryLimit  int `mapstructure:"query_limit"`
	ResultLimit int `mapstructure:"result_limit"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Server.Addr == "" {
		return fmt.Errorf("server address must be set")
	}

	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	if config.Audio.WindowSize <= 0 || config.Audio.HopSize <= 0 {
		return fmt.Errorf("audio window and hop sizes must be positive")
	}

	if config.Audio.HopSize > config.Audio.WindowSize {
		return fmt.Errorf("audio hop size cannot exceed window size")
	}

	if config.Search.Workers <= 0 {
		return fmt.Errorf("search workers must be positive")
	}

	if config.Search.QueryLimit <= 0 || config.Search.QueryLimit > 50 {
		return fmt.Errorf("search query limit must be between 1 and 50")
	}

	if config.Search.ResultLimit <= 0 {
		return fmt.Errorf("search result limit must be positive")
	}

	if config.Whisper.Enabled && config.Whisper.URL == "" {
		return fmt.Errorf("whisper URL must be set when language detection is enabled")
	}

	return nil
}
