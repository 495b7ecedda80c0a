// Package persist writes store snapshots to a key-value gateway off the
// caller's path.
package persist

import (
	"io"
	"log/slog"
	"sync"
)

// Setter is the write side of a key-value gateway
type Setter interface {
	Set(key, value string) error
}

// Writer coalesces snapshots per key and writes them from a background
// goroutine. Only the latest value for a key is written. Write failures are
// logged and dropped; the in-memory state stays authoritative.
type Writer struct {
	gw     Setter
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]string
	closed  bool

	wake  chan struct{}
	flush chan chan struct{}
	quit  chan struct{}
	done  chan struct{}
}

// NewWriter starts a writer over gw. A nil logger discards log output.
func NewWriter(gw Setter, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Writer{
		gw:      gw,
		logger:  logger,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Persist queues value for key and returns immediately. After Close the
// write happens synchronously.
func (w *Writer) Persist(key, value string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.write(key, value)
		return
	}
	w.pending[key] = value
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until everything queued before the call has been written
func (w *Writer) Flush() {
	reply := make(chan struct{})
	select {
	case w.flush <- reply:
		<-reply
	case <-w.done:
	}
}

// Close flushes pending writes and stops the background goroutine
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	<-w.done
	return nil
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case reply := <-w.flush:
			w.drain()
			close(reply)
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]string)
	w.mu.Unlock()

	for key, value := range batch {
		w.write(key, value)
	}
}

func (w *Writer) write(key, value string) {
	if err := w.gw.Set(key, value); err != nil {
		w.logger.Error("failed to persist snapshot", "key", key, "bytes", len(value), "error", err)
		return
	}
	w.logger.Debug("persisted snapshot", "key", key, "bytes", len(value))
}
