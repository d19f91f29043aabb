package deadletter

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestWriter_FlushesOnStop(t *testing.T) {
	sink := NewMemorySink()
	writer := NewWriter(sink, 16, nil)
	writer.Start()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := writer.Record(ctx, record(fmt.Sprintf("w%d", i), time.Now())); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := writer.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if sink.Count() != 10 {
		t.Errorf("sink count = %d, want 10 after flush", sink.Count())
	}
}

func TestWriter_ConcurrentProducers(t *testing.T) {
	sink := NewMemorySink()
	writer := NewWriter(sink, 8, nil)
	writer.Start()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				id := fmt.Sprintf("p%d-%d", worker, j)
				_ = writer.Record(ctx, record(id, time.Now()))
			}
		}(i)
	}
	wg.Wait()

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := writer.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if sink.Count() != 80 {
		t.Errorf("sink count = %d, want 80", sink.Count())
	}
}

func TestWriter_RecordGivesUpOnCancelledContext(t *testing.T) {
	sink := NewMemorySink()
	// Tiny buffer, never started: the channel fills and Record must fall
	// through to the context branch.
	writer := NewWriter(sink, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	_ = writer.Record(ctx, record("fill", time.Now()))

	cancel()
	if err := writer.Record(ctx, record("blocked", time.Now())); err == nil {
		t.Error("Record on a full buffer with cancelled context should fail")
	}
}
