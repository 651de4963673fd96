package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Images
		Auth
		Seed
		Audit
		Tasks
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Images struct {
		Dir string // Managed directory for pet images, served under /images
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local use without HTTPS
		CSRFEnabled     bool

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Seed struct {
		AdminUsername string
		AdminPassword string
		AdminEmail    string
		SamplePets    bool // Insert the sample pets into an empty store
	}
	Audit struct {
		RetentionDays   int    // Days to keep audit events (default: 30)
		PruneSchedule   string // Cron schedule for pruning, empty disables it
		PruneBatchSize  int    // Events deleted per statement (default: 500)
		PruneMaxDeletes int    // Events deleted per scheduled run, 0 for no limit (default: 10000)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration // Stuck tasks go back to the queue after this long
		CleanupInterval time.Duration // How often finished tasks are purged
	}
	Log struct {
		Level  string
		Format string // "console" or "json"
	}
)

// NewConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables win.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("images_dir", DefaultImagesDir)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", false)    // Local service, plain HTTP by default
	v.SetDefault("auth_csrf_enabled", true)       // CSRF tokens on state-changing requests
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	// First-run seeding
	v.SetDefault("seed_admin_username", DefaultAdminUsername)
	v.SetDefault("seed_admin_password", DefaultAdminPassword)
	v.SetDefault("seed_admin_email", DefaultAdminEmail)
	v.SetDefault("seed_sample_pets", true)

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_prune_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("audit_prune_batch_size", 500)
	v.SetDefault("audit_prune_max_deletes", 10000)

	// Background task queue
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_workers", 1)
	v.SetDefault("tasks_release_after", "15m")
	v.SetDefault("tasks_cleanup_interval", "1h")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Images: Images{
			Dir: v.GetString("IMAGES_DIR"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			CSRFEnabled:      v.GetBool("AUTH_CSRF_ENABLED"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Seed: Seed{
			AdminUsername: v.GetString("SEED_ADMIN_USERNAME"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
			AdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			SamplePets:    v.GetBool("SEED_SAMPLE_PETS"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			PruneSchedule:   v.GetString("AUDIT_PRUNE_SCHEDULE"),
			PruneBatchSize:  v.GetInt("AUDIT_PRUNE_BATCH_SIZE"),
			PruneMaxDeletes: v.GetInt("AUDIT_PRUNE_MAX_DELETES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASKS_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASKS_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASKS_CLEANUP_INTERVAL"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
