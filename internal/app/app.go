package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/donelist/internal/config"
	"github.com/dori/donelist/internal/db"
	"github.com/dori/donelist/internal/logging"
	"github.com/dori/donelist/internal/notify"
	"github.com/dori/donelist/internal/service"
	"github.com/gofrs/flock"
)

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB
	Service  *service.TaskService
	Logger   *logging.Logger
	Notifier *notify.Notifier
	DataDir  string
	lockFile *flock.Flock
}

// Options controls optional parts of startup
type Options struct {
	// Exclusive takes the single-instance lock. The TUI needs it; one-shot
	// CLI commands do not.
	Exclusive bool
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, err := logging.NewLogger(cfg.DataDir, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Logger:   logger,
		Notifier: notify.NewNotifier(cfg.Notifications.Enabled),
	}

	if opts.Exclusive {
		if err := app.acquireLock(); err != nil {
			logger.Close()
			return nil, err
		}
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath(), "error", err)
		app.releaseLock()
		logger.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database
	app.Service = service.New(database, logger)

	logger.Debug("app started", "db_path", cfg.DatabasePath(), "exclusive", opts.Exclusive)
	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "donelist.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of donelist is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
		a.lockFile = nil
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
