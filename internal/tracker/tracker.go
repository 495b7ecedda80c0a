// Package tracker owns the task and goal collections, the mutations on them,
// and the read-only projections (filters, stats) derived from them.
//
// Stores are single-owner and synchronous: every operation runs to completion
// before the next begins. Each mutation hands a full snapshot to a Persister,
// which must not block, and never fails because persistence failed.
package tracker

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dori/taskdeck/internal/model"
	"github.com/google/uuid"
)

// Persistence keys
const (
	KeyTasks    = "tasks"
	KeyGoals    = "goals"
	KeyDarkMode = "darkMode"
)

var (
	// ErrValidationRejected is returned when task text or goal name is blank.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrNotFound is returned by lookups for an unknown or ambiguous id.
	ErrNotFound = errors.New("not found")

	// ErrPersistenceCorrupt wraps decode failures of a stored snapshot.
	ErrPersistenceCorrupt = errors.New("persisted snapshot is corrupt")
)

// Getter reads a stored blob. ok is false when the key has never been set.
type Getter interface {
	Get(key string) (value string, ok bool, err error)
}

// Persister accepts snapshots for durable storage. Persist must return
// promptly and must not report failures to the caller.
type Persister interface {
	Persist(key, value string)
}

// Notifier receives fire-and-forget event signals.
type Notifier interface {
	Notify(event model.Event)
}

type discardPersister struct{}

func (discardPersister) Persist(string, string) {}

type discardNotifier struct{}

func (discardNotifier) Notify(model.Event) {}

type options struct {
	now       func() time.Time
	newID     func() string
	persister Persister
	notifier  Notifier
	logger    *slog.Logger
}

// Option configures a store
type Option func(*options)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs overrides the uuid generator
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithPersister sets where snapshots are written after each mutation
func WithPersister(p Persister) Option {
	return func(o *options) { o.persister = p }
}

// WithNotifier sets the event sink
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger sets the logger used for recovered failures
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		persister: discardPersister{},
		notifier:  discardNotifier{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// clock returns now at the millisecond precision snapshots carry.
func (o options) clock() time.Time {
	return time.UnixMilli(o.now().UnixMilli())
}

// loadBlob reads key and reports whether a usable value was found. Read
// errors are treated like an absent key.
func loadBlob(g Getter, key string, logger *slog.Logger) (string, bool) {
	if g == nil {
		return "", false
	}
	value, ok, err := g.Get(key)
	if err != nil {
		logger.Warn("failed to read snapshot, starting empty", "key", key, "error", err)
		return "", false
	}
	return value, ok
}
