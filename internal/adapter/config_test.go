package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Catalogue.BaseURL, "empty base URL selects the public API")
	assert.Equal(t, uint64(3), cfg.Catalogue.MaxRetries)
	assert.Equal(t, "mpv", cfg.Player.Command)
	assert.Equal(t, "viewer", cfg.Profile.Name)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestCatalogueConfigDurations(t *testing.T) {
	cfg := CatalogueConfig{BackoffMS: 1000, StaleMinutes: 60}

	assert.Equal(t, time.Second, cfg.BackoffBase())
	assert.Equal(t, time.Hour, cfg.StaleAfter())
}

func TestLauncherOffsetFlagAutoDetect(t *testing.T) {
	tests := []struct {
		command  string
		wantFlag string
	}{
		{"mpv", "--start="},
		{"/usr/bin/mpv", "--start="},
		{"vlc", "--start-time="},
		{"celluloid", "--mpv-start="},
		{"some-unknown-player", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			l := NewLauncher(tt.command, nil, "", NullLogger())
			assert.Equal(t, tt.wantFlag, l.startFlag)
		})
	}
}

func TestLauncherConfiguredFlagWins(t *testing.T) {
	l := NewLauncher("mpv", nil, "--custom=", NullLogger())
	assert.Equal(t, "--custom=", l.startFlag)
}
