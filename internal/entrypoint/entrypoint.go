package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	auditsvc "github.com/mrlokans/petadoption/internal/audit"
	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/database"
	"github.com/mrlokans/petadoption/internal/database/adoptions"
	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/database/pets"
	"github.com/mrlokans/petadoption/internal/database/users"
	http_controllers "github.com/mrlokans/petadoption/internal/http"
	"github.com/mrlokans/petadoption/internal/images"
	"github.com/mrlokans/petadoption/internal/logging"
	"github.com/mrlokans/petadoption/internal/scheduler"
	"github.com/mrlokans/petadoption/internal/shelter"
	"github.com/mrlokans/petadoption/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is the wired server: the router and everything it needs to shut down.
type App struct {
	Router *gin.Engine

	db             *database.Database
	authController *auth.AuthController

	taskClient  *tasks.Client
	taskCancel  context.CancelFunc
	auditPruner *scheduler.AuditPruneScheduler
}

// NewApp opens the store, seeds it on first run and wires every service
// into the HTTP router.
func NewApp(cfg *config.Config, log zerolog.Logger, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, database.Options{
		Logger: log,
		Seed: database.SeedOptions{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
			AdminEmail:    cfg.Seed.AdminEmail,
			SamplePets:    cfg.Seed.SamplePets,
			HashPassword: func(pw string) (string, error) {
				return auth.HashPassword(pw, cfg.Auth.BcryptCost)
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	imageStore, err := images.NewStore(cfg.Images.Dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Str("dir", imageStore.Dir()).Msg("image store initialized")

	auditor := auditsvc.NewService(audit.NewRepository(db.DB), log)

	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	authController := auth.NewAuthController(authService, sessionManager, auditor, cfg.Auth, log)

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		csrfSecret, err = loadCSRFSecret(cfg.Auth.SessionSecret, log)
		if err != nil {
			authController.Stop()
			_ = db.Close()
			return nil, err
		}
	} else {
		log.Warn().Msg("CSRF protection disabled")
	}

	shelterService := shelter.NewService(
		pets.NewRepository(db.DB),
		adoptions.NewRepository(db.DB),
		imageStore,
		auditor,
		log,
	)

	app := &App{
		db:             db,
		authController: authController,
	}

	if cfg.Tasks.Enabled {
		if err := app.startBackgroundTasks(cfg, auditor, log); err != nil {
			_ = app.Close()
			return nil, err
		}
	} else {
		log.Info().Msg("background tasks disabled")
	}

	app.Router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Shelter:        shelterService,
		Database:       db,
		Logger:         log,
		AuthController: authController,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		ImagesDir:      imageStore.Dir(),
		Version:        version,
	})

	return app, nil
}

// startBackgroundTasks starts the task queue workers and the cron job that
// feeds them audit prunes.
func (a *App) startBackgroundTasks(cfg *config.Config, cleaner tasks.AuditEventCleaner, log zerolog.Logger) error {
	client, err := tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks), log)
	if err != nil {
		return fmt.Errorf("failed to initialize task queue: %w", err)
	}
	client.Register(tasks.NewCleanupAuditEventsQueue(cleaner, tasks.CleanupLimits{
		BatchSize:  cfg.Audit.PruneBatchSize,
		MaxDeletes: cfg.Audit.PruneMaxDeletes,
	}, log))
	a.taskClient = client

	var ctx context.Context
	ctx, a.taskCancel = context.WithCancel(context.Background())
	go client.Start(ctx)

	pruner := scheduler.NewAuditPruneScheduler(cfg.Audit.PruneSchedule, cfg.Audit.RetentionDays, client, log)
	if err := pruner.Start(); err != nil {
		return err
	}
	a.auditPruner = pruner
	return nil
}

// Shutdown stops the scheduler and waits for running tasks until ctx expires.
func (a *App) Shutdown(ctx context.Context) {
	if a.auditPruner != nil {
		a.auditPruner.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
		a.taskCancel()
	}
}

// Close releases the task queue and the store. Call Shutdown first when the
// app served requests.
func (a *App) Close() error {
	a.authController.Stop()
	if a.taskClient != nil {
		a.taskCancel()
		if err := a.taskClient.Close(); err != nil {
			return err
		}
	}
	return a.db.Close()
}

// loadCSRFSecret uses the configured secret, hex-encoded or raw, or generates
// one for this process.
func loadCSRFSecret(configured string, log zerolog.Logger) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			secret = []byte(configured)
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	secret, err := hex.DecodeString(generated)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("generated CSRF secret (set AUTH_SESSION_SECRET to persist)")
	return secret, nil
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router http.Handler, cfg *config.Config, log zerolog.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

// Run builds the application from cfg and serves it. Startup failures are fatal.
func Run(cfg *config.Config, version string) {
	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log.Info().Str("version", version).Msg("starting pet adoption service")

	if logging.ParseLevel(cfg.Log.Level) > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := NewApp(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	if err := Serve(app.Router, cfg, log, app.Shutdown); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
