package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalogue CatalogueConfig `mapstructure:"catalogue"`
	Player    PlayerConfig    `mapstructure:"player"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CatalogueConfig tunes the remote catalogue client
type CatalogueConfig struct {
	BaseURL      string `mapstructure:"base_url"`      // Empty selects the public API
	MaxRetries   uint64 `mapstructure:"max_retries"`   // Extra attempts after a 429
	BackoffMS    int    `mapstructure:"backoff_ms"`    // Initial backoff delay
	StaleMinutes int    `mapstructure:"stale_minutes"` // Query-cache staleness window
}

// BackoffBase returns the initial retry delay as a duration
func (c CatalogueConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffMS) * time.Millisecond
}

// StaleAfter returns the query-cache staleness window as a duration
func (c CatalogueConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleMinutes) * time.Minute
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command   string   `mapstructure:"command"`
	Args      []string `mapstructure:"args"`
	StartFlag string   `mapstructure:"start_flag"` // e.g., "--start=" or "--start-time="
}

// StorageConfig locates the local durable store
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// ProfileConfig identifies the local viewer for comments and ratings
type ProfileConfig struct {
	Name string `mapstructure:"name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalogue: CatalogueConfig{
			BaseURL:      "",
			MaxRetries:   3,
			BackoffMS:    1000,
			StaleMinutes: 60,
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Profile: ProfileConfig{
			Name: "viewer",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "aniwatch")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "aniwatch")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return filepath.Join(defaultDataPath(), "aniwatch.log")
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "aniwatch")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "aniwatch")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("ANIWATCH")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("catalogue.base_url", cfg.Catalogue.BaseURL)
	viper.Set("catalogue.max_retries", cfg.Catalogue.MaxRetries)
	viper.Set("catalogue.backoff_ms", cfg.Catalogue.BackoffMS)
	viper.Set("catalogue.stale_minutes", cfg.Catalogue.StaleMinutes)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)
	viper.Set("player.start_flag", cfg.Player.StartFlag)

	viper.Set("storage.dir", cfg.Storage.Dir)
	viper.Set("profile.name", cfg.Profile.Name)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
