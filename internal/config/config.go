package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Seed
		Search
		UI
		Bootstrap
		Export
		Global
	}

	Database struct {
		Path     string
		LogLevel string // silent, error, warn, info
	}
	Seed struct {
		DatasetPath string // Empty means the bundled dataset
	}
	Search struct {
		Limit int
	}
	UI struct {
		DefaultCollection string // Listed when the search input is empty
	}
	Bootstrap struct {
		MaxAttempts int
		RetryDelay  time.Duration
	}
	Export struct {
		Dir      string
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// NewConfig builds the configuration from the environment. Variables found in
// a .env file in the working directory are loaded first but never override
// variables that are already set.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("seed_dataset_path", "")
	v.SetDefault("search_limit", DefaultSearchLimit)
	v.SetDefault("default_collection", DefaultCollection)
	v.SetDefault("bootstrap_max_attempts", 1)
	v.SetDefault("bootstrap_retry_delay", "2s")
	v.SetDefault("export_dir", "./export")
	v.SetDefault("export_schedule", "0 3 * * *")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	cfg := &Config{
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Seed: Seed{
			DatasetPath: v.GetString("SEED_DATASET_PATH"),
		},
		Search: Search{
			Limit: v.GetInt("SEARCH_LIMIT"),
		},
		UI: UI{
			DefaultCollection: v.GetString("DEFAULT_COLLECTION"),
		},
		Bootstrap: Bootstrap{
			MaxAttempts: v.GetInt("BOOTSTRAP_MAX_ATTEMPTS"),
			RetryDelay:  v.GetDuration("BOOTSTRAP_RETRY_DELAY"),
		},
		Export: Export{
			Dir:      v.GetString("EXPORT_DIR"),
			Schedule: v.GetString("EXPORT_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}

	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}
	if cfg.Bootstrap.MaxAttempts < 1 {
		cfg.Bootstrap.MaxAttempts = 1
	}

	return cfg
}
