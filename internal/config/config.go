package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey  string
	TMDBBaseURL string

	// Server
	ServerPort string

	// Snapshot
	SnapshotSchedule string // cron expression for periodic database snapshots

	// Paths
	DatabaseFile string // $CONFIG_DIR/streamlist.db
	SnapshotFile string // $CONFIG_DIR/streamlist.db.bak

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SNAPSHOT_SCHEDULE", "0 */6 * * *")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "streamlistd")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB. The API key is deliberately not required at startup: a
		// missing credential is reported inline when a search is attempted.
		TMDBAPIKey:  viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL: viper.GetString("TMDB_BASE_URL"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Snapshot
		SnapshotSchedule: viper.GetString("SNAPSHOT_SCHEDULE"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "streamlist.db"),
		SnapshotFile: filepath.Join(configDir, "streamlist.db.bak"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	return config, nil
}
