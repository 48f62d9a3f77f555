package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components. Values
// already provided by a config file, flag or environment variable win.
func SetDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("config_dir", defaultConfigDir())
	v.SetDefault("data_dir", defaultDataDir())

	// Server defaults
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_bytes", int64(25<<20))
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	// Spotify defaults
	v.SetDefault("spotify.redirect_url", "http://localhost:8000/auth/callback")
	v.SetDefault("spotify.token_cache_path", filepath.Join(defaultConfigDir(), "token.json"))

	// Whisper defaults
	v.SetDefault("whisper.enabled", false)
	v.SetDefault("whisper.url", "http://localhost:8090")
	v.SetDefault("whisper.timeout", 30*time.Second)

	// Model defaults
	v.SetDefault("model.dir", filepath.Join(defaultDataDir(), "model"))

	// Audio defaults
	v.SetDefault("audio.sample_rate", 22050)
	v.SetDefault("audio.window_size", 2048)
	v.SetDefault("audio.hop_size", 512)
	v.SetDefault("audio.max_window_seconds", 10.0)

	// Search defaults
	v.SetDefault("search.workers", 4)
	v.SetDefault("search.query_limit", 25)
	v.SetDefault("search.result_limit", 30)
}

// GetDefaultConfig returns a fully populated default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:   false,
		LogLevel:  "info",
		ConfigDir: defaultConfigDir(),
		DataDir:   defaultDataDir(),
		Server:    GetDefaultServerConfig(),
		Spotify:   GetDefaultSpotifyConfig(),
		Whisper:   GetDefaultWhisperConfig(),
		Model:     ModelConfig{Dir: filepath.Join(defaultDataDir(), "model")},
		Audio:     GetDefaultAudioConfig(),
		Search:    GetDefaultSearchConfig(),
	}
}

// GetDefaultServerConfig returns default HTTP server settings
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8000",
		AllowedOrigins:  []string{"*"},
		MaxUploadBytes:  25 << 20,
		ShutdownTimeout: 10,
	}
}

// GetDefaultSpotifyConfig returns default catalog settings. Credentials are
// expected from the environment or a config file.
func GetDefaultSpotifyConfig() SpotifyConfig {
	return SpotifyConfig{
		RedirectURL:    "http://localhost:8000/auth/callback",
		TokenCachePath: filepath.Join(defaultConfigDir(), "token.json"),
	}
}

// GetDefaultWhisperConfig returns default language-detection settings
func GetDefaultWhisperConfig() WhisperConfig {
	return WhisperConfig{
		Enabled: false,
		URL:     "http://localhost:8090",
		Timeout: 30 * time.Second,
	}
}

// GetDefaultAudioConfig returns default feature extraction settings
func GetDefaultAudioConfig() AudioConfig {
	return AudioConfig{
		SampleRate:       22050,
		WindowSize:       2048,
		HopSize:          512,
		MaxWindowSeconds: 10,
	}
}

// GetDefaultSearchConfig returns default recommendation settings
func GetDefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Workers:     4,
		QueryLimit:  25,
		ResultLimit: 30,
	}
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "moodcast")
	}
	return ".moodcast"
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".moodcast")
	}
	return ".moodcast"
}
