package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dori/taskdeck/internal/config"
	"github.com/dori/taskdeck/internal/db"
	"github.com/dori/taskdeck/internal/kvstore"
	"github.com/dori/taskdeck/internal/notify"
	"github.com/dori/taskdeck/internal/persist"
	"github.com/dori/taskdeck/internal/tracker"
	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another process holds the data dir lock
var ErrAlreadyRunning = errors.New("another instance of taskdeck is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    kvstore.Gateway
	Writer   *persist.Writer
	Notifier *notify.Notifier
	Logger   *slog.Logger

	Tasks *tracker.TaskStore
	Goals *tracker.GoalStore
	Prefs *tracker.Preferences

	DataDir  string
	lockFile *flock.Flock
	logFile  *os.File
}

// Option tweaks construction
type Option func(*settings)

type settings struct {
	bellOut io.Writer
	sender  notify.Sender
}

// WithBellOutput redirects the terminal bell
func WithBellOutput(w io.Writer) Option {
	return func(s *settings) { s.bellOut = w }
}

// WithNotificationSender replaces notify-send
func WithNotificationSender(send notify.Sender) Option {
	return func(s *settings) { s.sender = send }
}

// New creates a new application instance
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:  cfg,
		DataDir: cfg.DataDir,
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	if err := app.openLog(); err != nil {
		app.releaseLock()
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		app.closeLog()
		app.releaseLock()
		return nil, err
	}
	app.Store = store
	attrs := []any{"backend", cfg.Storage.Backend}
	if sqlite, ok := store.(*db.DB); ok {
		if version, err := sqlite.SchemaVersion(context.Background()); err == nil {
			attrs = append(attrs, "schema", version)
		}
	}
	app.Logger.Debug("store opened", attrs...)

	notifyOpts := []notify.Option{
		notify.WithDesktop(cfg.Notifications.Desktop),
		notify.WithBell(cfg.Notifications.Bell),
		notify.WithLogger(app.Logger),
	}
	if set.bellOut != nil {
		notifyOpts = append(notifyOpts, notify.WithBellOutput(set.bellOut))
	}
	if set.sender != nil {
		notifyOpts = append(notifyOpts, notify.WithSender(set.sender))
	}
	app.Notifier = notify.NewNotifier(notifyOpts...)
	app.Writer = persist.NewWriter(store, app.Logger)

	storeOpts := []tracker.Option{
		tracker.WithPersister(app.Writer),
		tracker.WithNotifier(app.Notifier),
		tracker.WithLogger(app.Logger),
	}
	app.Tasks = tracker.NewTaskStore(storeOpts...)
	app.Goals = tracker.NewGoalStore(storeOpts...)
	app.Prefs = tracker.NewPreferences(storeOpts...)

	app.Tasks.Load(store)
	app.Goals.Load(store)
	app.Prefs.Load(store)

	return app, nil
}

func openStore(cfg *config.Config) (kvstore.Gateway, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		database, err := db.OpenWithConfig(context.Background(), db.Config{Path: cfg.DBPath()})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	case config.BackendFile:
		store, err := kvstore.NewFile(filepath.Join(cfg.DataDir, "store"))
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return store, nil
	case config.BackendMemory:
		return kvstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openLog sends slog output to <data_dir>/taskdeck.log; the TUI owns stdout.
// TASKDECK_DEBUG=1 forces debug level.
func (a *App) openLog() error {
	path := filepath.Join(a.DataDir, "taskdeck.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f

	level := a.Config.LogLevel()
	if os.Getenv("TASKDECK_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	a.Logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "taskdeck.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close flushes pending writes and cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Writer != nil {
		if err := a.Writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush writes: %w", err))
		}
	}
	if a.Notifier != nil {
		a.Notifier.Wait()
	}

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.closeLog()
	a.releaseLock()

	return errors.Join(errs...)
}
