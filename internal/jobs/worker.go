package jobs

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"augmend/internal/pkg/logger"
)

// ErrPermanent marks a handler failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent job failure")

type Queue interface {
	Claim(ctx context.Context, workerID string) (*Job, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	RetryLater(ctx context.Context, id uuid.UUID, attempts int, runAt time.Time, errMsg string) error
}

type HandlerFunc func(ctx context.Context, job *Job) error

type Worker struct {
	ID       string
	queue    Queue
	clock    clock.Clock
	interval time.Duration
	log      *logger.Logger
	handlers map[string]HandlerFunc
}

func NewWorker(id string, q Queue, clk clock.Clock, interval time.Duration, baseLog *logger.Logger) *Worker {
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	return &Worker{
		ID:       id,
		queue:    q,
		clock:    clk,
		interval: interval,
		log:      baseLog.With("worker", id),
		handlers: map[string]HandlerFunc{},
	}
}

func (w *Worker) Register(typ string, h HandlerFunc) {
	w.handlers[typ] = h
}

func (w *Worker) Run(ctx context.Context) {
	ticker := w.clock.Ticker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick claims and handles at most one job. It reports whether a job was
// claimed.
func (w *Worker) tick(ctx context.Context) bool {
	job, err := w.queue.Claim(ctx, w.ID)
	if err != nil {
		w.log.Error("worker claim error", "error", err)
		return false
	}
	if job == nil {
		return false
	}
	w.handle(ctx, job)
	return true
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	h, ok := w.handlers[job.Type]
	if !ok {
		w.markFailed(ctx, job, "unknown job type")
		return
	}

	if err := h(ctx, job); err != nil {
		if errors.Is(err, ErrPermanent) {
			w.markFailed(ctx, job, err.Error())
			return
		}
		w.retry(ctx, job, err.Error())
		return
	}
	if err := w.queue.MarkDone(ctx, job.ID); err != nil {
		w.log.Error("mark job done", "job_id", job.ID, "error", err)
	}
}

func (w *Worker) markFailed(ctx context.Context, job *Job, errMsg string) {
	w.log.Warn("job failed", "job_id", job.ID, "type", job.Type, "error", errMsg)
	if err := w.queue.MarkFailed(ctx, job.ID, errMsg); err != nil {
		w.log.Error("mark job failed", "job_id", job.ID, "error", err)
	}
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		w.markFailed(ctx, job, errMsg)
		return
	}

	next := w.clock.Now().Add(Backoff(attempts))
	if err := w.queue.RetryLater(ctx, job.ID, attempts, next, errMsg); err != nil {
		w.log.Error("reschedule job", "job_id", job.ID, "error", err)
	}
}

// Backoff is 2^attempts seconds, capped at ten minutes.
func Backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	return time.Duration(sec) * time.Second
}
