package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/mailer"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/ratelimiter"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the pool constructor signature clean.
type MetricHooks struct {
	OnDelivered func(category domain.Category, latency time.Duration)
	OnFailed    func(category domain.Category)
}

// Pool manages the lifecycle of the consumer workers. All workers share
// the same queue; the queue's double-select pattern handles urgency
// ordering internally, so the workers are identical.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

func NewPool(
	size int,
	q *queue.EventQueue,
	renderer *mailer.Renderer,
	mail mailer.Mailer,
	limiter *ratelimiter.Limiter,
	logger *zap.Logger,
	hooks MetricHooks,
) *Pool {
	workers := make([]*Worker, size)
	for i := range workers {
		workers[i] = NewWorker(
			i, q, renderer, mail, limiter,
			logger.With(zap.Int("worker_id", i)),
			hooks.OnDelivered,
			hooks.OnFailed,
		)
	}
	return &Pool{workers: workers}
}

// Start launches all workers as goroutines. The provided ctx is forwarded
// to every worker; cancelling it triggers a graceful shutdown of the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
// Call this after cancelling the context so in-flight messages finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}
