// Package queue decouples auth flows from audit persistence: entries are
// buffered on a channel and drained to the underlying recorder by a small
// pool of workers, so a slow audit store never blocks a login.
package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// AuditWriter is an asynchronous ports.AuditRecorder. Record never blocks:
// when the buffer is full the entry is dropped with a warning.
type AuditWriter struct {
	entries chan ports.AuditEntry
	sink    ports.AuditRecorder
	log     zerolog.Logger
}

var _ ports.AuditRecorder = (*AuditWriter)(nil)

// NewAuditWriter wraps sink with a buffered asynchronous writer.
func NewAuditWriter(sink ports.AuditRecorder, log zerolog.Logger) *AuditWriter {
	return &AuditWriter{
		entries: make(chan ports.AuditEntry, channelBuffer),
		sink:    sink,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is
// cancelled.
func (w *AuditWriter) Start(ctx context.Context) {
	for i := 0; i < defaultWorkers; i++ {
		go w.run(ctx)
	}
}

// Record enqueues the entry for background persistence.
func (w *AuditWriter) Record(_ context.Context, entry ports.AuditEntry) error {
	select {
	case w.entries <- entry:
	default:
		w.log.Warn().Str("event", entry.Event).Msg("audit buffer full, entry dropped")
	}
	return nil
}

func (w *AuditWriter) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-w.entries:
			if err := w.sink.Record(ctx, entry); err != nil {
				w.log.Error().Err(err).Str("event", entry.Event).Msg("audit write failed")
			}
		}
	}
}
