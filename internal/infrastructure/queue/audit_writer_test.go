package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/ports"
)

type collectingSink struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
}

func (s *collectingSink) Record(_ context.Context, entry ports.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *collectingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestAuditWriter_DrainsToSink(t *testing.T) {
	sink := &collectingSink{}
	writer := NewAuditWriter(sink, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	writer.Start(ctx)

	for i := 0; i < 10; i++ {
		if err := writer.Record(context.Background(), ports.AuditEntry{Event: ports.AuditLogin}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 10 entries drained, got %d", sink.count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAuditWriter_RecordNeverBlocks(t *testing.T) {
	// No workers started: the buffer fills and overflow is dropped.
	writer := NewAuditWriter(&collectingSink{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+50; i++ {
			_ = writer.Record(context.Background(), ports.AuditEntry{Event: ports.AuditLogout})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}
}
