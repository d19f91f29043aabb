package deadletter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
)

// Writer decouples workers from the sink's backing store: Record is a bounded
// enqueue onto a buffered channel, and a single goroutine drains it. Workers
// therefore never wait on the store, and appends are single-writer.
type Writer struct {
	sink Sink
	ch   chan *domain.DeadLetterRecord
	done chan struct{}
	once sync.Once
	log  *slog.Logger
}

// NewWriter creates a Writer draining into sink. buffer <= 0 defaults to 1024.
func NewWriter(sink Sink, buffer int, log *slog.Logger) *Writer {
	if buffer <= 0 {
		buffer = 1024
	}
	if log == nil {
		log = slog.Default()
	}
	return &Writer{
		sink: sink,
		ch:   make(chan *domain.DeadLetterRecord, buffer),
		done: make(chan struct{}),
		log:  log,
	}
}

// Start launches the drain goroutine.
func (w *Writer) Start() {
	go w.drain()
}

// Record enqueues a record. Blocks only while the buffer is full, and gives
// up if ctx is cancelled first.
func (w *Writer) Record(ctx context.Context, rec *domain.DeadLetterRecord) error {
	select {
	case w.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueryRange delegates to the underlying sink.
func (w *Writer) QueryRange(
	ctx context.Context,
	from, to time.Time,
) ([]*domain.DeadLetterRecord, error) {
	return w.sink.QueryRange(ctx, from, to)
}

// Stop closes the queue and waits until buffered records are flushed or ctx
// expires. Callers must stop all producers first.
func (w *Writer) Stop(ctx context.Context) error {
	w.once.Do(func() { close(w.ch) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) drain() {
	defer close(w.done)
	for rec := range w.ch {
		// Flushing continues through shutdown; each append gets its own budget.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.sink.Record(ctx, rec); err != nil {
			w.log.Error("Failed to record dead letter",
				"task_id", rec.TaskID,
				"error", err,
			)
		}
		cancel()
	}
}
