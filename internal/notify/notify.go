package notify

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/dori/taskdeck/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

const sendTimeout = 5 * time.Second

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Sender delivers a desktop notification
type Sender func(Notification) error

// Notifier turns store events into desktop notifications and a terminal
// bell. Delivery is best effort and never reported back to the caller.
type Notifier struct {
	mu       sync.Mutex
	desktop  bool
	bell     bool
	inFlight sync.WaitGroup

	send   Sender
	out    io.Writer
	logger *slog.Logger
}

// Option configures a Notifier
type Option func(*Notifier)

// WithDesktop enables or disables notify-send delivery
func WithDesktop(enabled bool) Option {
	return func(n *Notifier) { n.desktop = enabled }
}

// WithBell enables or disables the terminal bell
func WithBell(enabled bool) Option {
	return func(n *Notifier) { n.bell = enabled }
}

// WithSender replaces notify-send
func WithSender(s Sender) Option {
	return func(n *Notifier) { n.send = s }
}

// WithBellOutput sets where the bell character is written
func WithBellOutput(w io.Writer) Option {
	return func(n *Notifier) { n.out = w }
}

// WithLogger sets the logger for delivery failures
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// NewNotifier creates a new notifier
func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{
		desktop: true,
		bell:    true,
		send:    notifySend,
		out:     os.Stderr,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetEnabled enables or disables desktop notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.desktop = enabled
}

// IsEnabled returns whether desktop notifications are enabled
func (n *Notifier) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.desktop
}

// Notify signals a store event. It returns immediately.
func (n *Notifier) Notify(event model.Event) {
	n.mu.Lock()
	desktop, bell := n.desktop, n.bell
	n.mu.Unlock()

	if bell {
		n.ring(event)
	}
	if !desktop {
		return
	}
	n.inFlight.Add(1)
	go func() {
		defer n.inFlight.Done()
		err := n.send(Notification{
			Title:   event.Title(),
			Urgency: UrgencyLow,
			Timeout: 2 * time.Second,
			Icon:    eventIcon(event),
		})
		if err != nil {
			n.logger.Debug("desktop notification failed", "event", string(event), "error", err)
		}
	}()
}

// Wait blocks until in-flight desktop notifications have been handed off
func (n *Notifier) Wait() {
	n.inFlight.Wait()
}

// ring writes one BEL for add/delete and two for complete
func (n *Notifier) ring(event model.Event) {
	bells := "\a"
	if event == model.EventComplete {
		bells = "\a\a"
	}
	if _, err := io.WriteString(n.out, bells); err != nil {
		n.logger.Debug("bell failed", "error", err)
	}
}

// SendDueReminder sends a task due reminder
func (n *Notifier) SendDueReminder(taskTitle string, dueIn time.Duration) error {
	if !n.IsEnabled() {
		return nil
	}

	var body string
	if dueIn <= 0 {
		body = "Task is now overdue!"
	} else if dueIn < time.Hour {
		body = "Task due in less than an hour"
	} else {
		body = "Task due soon"
	}

	urgency := UrgencyNormal
	if dueIn <= 0 {
		urgency = UrgencyCritical
	}

	return n.send(Notification{
		Title:   taskTitle,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}

func eventIcon(event model.Event) string {
	switch event {
	case model.EventComplete:
		return "emblem-ok-symbolic"
	case model.EventDelete:
		return "user-trash-symbolic"
	default:
		return "list-add-symbolic"
	}
}

// notifySend sends a desktop notification using notify-send
func notifySend(notification Notification) error {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "taskdeck")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "notify-send", args...)
	return cmd.Run()
}

// Recorder is a Notifier that only remembers events
type Recorder struct {
	mu     sync.Mutex
	events []model.Event
}

// Notify records event
func (r *Recorder) Notify(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns the recorded events in order
func (r *Recorder) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Event, len(r.events))
	copy(out, r.events)
	return out
}
