package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultsProducesValidConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	config := &Config{}
	require.NoError(t, v.Unmarshal(config))
	require.NoError(t, ValidateConfig(config))

	assert.Equal(t, ":8000", config.Server.Addr)
	assert.Equal(t, 22050, config.Audio.SampleRate)
	assert.Equal(t, 30, config.Search.ResultLimit)
	assert.False(t, config.Whisper.Enabled)
}

func TestSetDefaultsDoesNotOverrideExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("server.addr", ":9000")
	v.Set("audio.sample_rate", 44100)
	SetDefaults(v)

	config := &Config{}
	require.NoError(t, v.Unmarshal(config))

	assert.Equal(t, ":9000", config.Server.Addr)
	assert.Equal(t, 44100, config.Audio.SampleRate)
}

func TestGetDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(GetDefaultConfig()))
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"hop exceeds window", func(c *Config) { c.Audio.HopSize = c.Audio.WindowSize + 1 }},
		{"no workers", func(c *Config) { c.Search.Workers = 0 }},
		{"query limit too high", func(c *Config) { c.Search.QueryLimit = 51 }},
		{"no result limit", func(c *Config) { c.Search.ResultLimit = 0 }},
		{"whisper enabled without url", func(c *Config) {
			c.Whisper.Enabled = true
			c.Whisper.URL = ""
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := GetDefaultConfig()
			tc.mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}
}
