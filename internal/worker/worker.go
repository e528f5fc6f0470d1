package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/mailer"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/ratelimiter"
)

// Worker is a single goroutine that continuously pulls notification events
// from the queue, renders the email body, applies rate limiting, and hands
// the message to the mailer. A failure on one event never stops the loop:
// the event's terminal state is a log line, not a retry.
type Worker struct {
	id       int
	q        *queue.EventQueue
	renderer *mailer.Renderer
	mail     mailer.Mailer
	limiter  *ratelimiter.Limiter
	logger   *zap.Logger

	// Hooks for metrics, injected by the pool so the worker stays metrics-agnostic.
	onDelivered func(category domain.Category, latency time.Duration)
	onFailed    func(category domain.Category)
}

// NewWorker constructs a worker. onDelivered and onFailed are optional (nil = no-op).
func NewWorker(
	id int,
	q *queue.EventQueue,
	renderer *mailer.Renderer,
	mail mailer.Mailer,
	limiter *ratelimiter.Limiter,
	logger *zap.Logger,
	onDelivered func(domain.Category, time.Duration),
	onFailed func(domain.Category),
) *Worker {
	if onDelivered == nil {
		onDelivered = func(domain.Category, time.Duration) {}
	}
	if onFailed == nil {
		onFailed = func(domain.Category) {}
	}
	return &Worker{
		id: id, q: q, renderer: renderer, mail: mail,
		limiter: limiter, logger: logger,
		onDelivered: onDelivered, onFailed: onFailed,
	}
}

// Run blocks until ctx is cancelled, processing one event per iteration.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", zap.Int("id", w.id))
	for {
		ev, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("worker stopping", zap.Int("id", w.id))
			return
		}
		w.process(ctx, ev)
	}
}

func (w *Worker) process(ctx context.Context, ev domain.NotificationEvent) {
	start := time.Now()
	log := w.logger.With(
		zap.String("event_id", ev.ID),
		zap.String("category", string(ev.Category)),
		zap.String("recipient", ev.RecipientEmail),
		zap.String("service_id", ev.ServiceID),
	)

	body, err := w.renderer.Render(ev)
	if err != nil {
		log.Error("failed to render email body", zap.Error(err))
		w.onFailed(ev.Category)
		return
	}

	// Block here until the limiter grants a token.
	if err := w.limiter.Wait(ctx); err != nil {
		// ctx cancelled while waiting: worker is shutting down.
		return
	}

	if err := w.mail.Send(ctx, ev.RecipientEmail, ev.Subject, body); err != nil {
		// Terminal for this event. Delivery is best effort; the queue
		// transport owns any retry semantics, this loop owns none.
		log.Warn("email delivery failed", zap.Error(err))
		w.onFailed(ev.Category)
		return
	}

	w.onDelivered(ev.Category, time.Since(start))
	log.Info("notification delivered", zap.Duration("latency", time.Since(start)))
}
