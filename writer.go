package platypus

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WriteJob is a single deferred write to the warm tier.
type WriteJob struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// Writer asynchronously pushes refreshed values to the warm tier on a
// dedicated goroutine, off the request-handling path. Writes are
// best-effort at-least-once: a failed write is logged and dropped
// rather than retried, since the next refresh cycle will attempt
// again on its own schedule.
type Writer struct {
	client   *WarmTierClient
	jobs     chan WriteJob
	shutdown chan struct{}
	done     chan struct{}
	log      zerolog.Logger
}

// NewWriter starts the writer goroutine. A nil client produces a
// Writer whose Send is a no-op, for configurations with no warm tier.
func NewWriter(client *WarmTierClient, queueSize int, log zerolog.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 1024
	}

	w := &Writer{
		client:   client,
		jobs:     make(chan WriteJob, queueSize),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		log:      log.With().Str("component", "writer").Logger(),
	}

	go w.run()
	return w
}

// Send enqueues a write. It never blocks the caller on the network;
// if the queue is full the job is dropped and logged, since a hot key
// will be refreshed again shortly anyway.
func (w *Writer) Send(job WriteJob) {
	if w.client == nil {
		return
	}
	select {
	case w.jobs <- job:
	default:
		w.log.Warn().Str("key", job.Key).Msg("write queue full, dropping job")
	}
}

// Shutdown signals the writer to drain its queue and stop, blocking
// until the goroutine has exited.
func (w *Writer) Shutdown() {
	close(w.shutdown)
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	ctx := context.Background()
	for {
		select {
		case job := <-w.jobs:
			w.write(ctx, job)
		case <-w.shutdown:
			w.drain(ctx)
			return
		}
	}
}

func (w *Writer) drain(ctx context.Context) {
	for {
		select {
		case job := <-w.jobs:
			w.write(ctx, job)
		default:
			return
		}
	}
}

func (w *Writer) write(ctx context.Context, job WriteJob) {
	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := w.client.Set(writeCtx, job.Key, job.Value, job.TTL); err != nil {
		w.log.Warn().Err(err).Str("key", job.Key).Msg("warm tier write failed")
	}
}
