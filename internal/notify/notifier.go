package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/queue"
)

// Notifier runs the assignment-change pipeline: diff the two snapshots,
// compose events for everyone who changed, hand the batch to the queue.
// Everything up to the enqueue happens synchronously on the caller's
// request; the enqueue itself never blocks and never fails the caller.
type Notifier struct {
	composer *Composer
	q        *queue.EventQueue
	logger   *zap.Logger

	// onDispatched is invoked once per successfully enqueued event.
	// Injected by main for metrics; nil-safe via NewNotifier.
	onDispatched func(category domain.Category)
}

func NewNotifier(composer *Composer, q *queue.EventQueue, logger *zap.Logger, onDispatched func(domain.Category)) *Notifier {
	if onDispatched == nil {
		onDispatched = func(domain.Category) {}
	}
	return &Notifier{composer: composer, q: q, logger: logger, onDispatched: onDispatched}
}

// ComputeAndNotify diffs the old and new assignment sets for a service and
// dispatches one event per changed, resolvable recipient. It returns how
// many assignment and removal notifications were generated.
//
// Per-recipient failures (stale IDs, full queue) are logged and absorbed;
// only invalid input surfaces as an error. The caller has already
// persisted the new assignments and must never roll them back on a
// notification failure.
func (n *Notifier) ComputeAndNotify(ctx context.Context, svc *domain.Service, old, updated domain.AssignmentSet) (domain.NotifyResult, error) {
	if svc == nil || svc.ID == "" {
		return domain.NotifyResult{}, domain.ErrInvalidServiceID
	}

	diff := domain.DiffAssignments(old, updated)
	if diff.IsEmpty() {
		return domain.NotifyResult{}, nil
	}

	events := n.composer.FromDiff(ctx, svc, diff)

	var result domain.NotifyResult
	for _, ev := range events {
		switch ev.Category {
		case domain.CategoryAssignment:
			result.Assigned++
		case domain.CategoryRemoval:
			result.Removed++
		}
	}

	n.Dispatch(events)

	n.logger.Info("assignment notifications dispatched",
		zap.String("service_id", svc.ID),
		zap.Int("assigned", result.Assigned),
		zap.Int("removed", result.Removed),
	)
	return result, nil
}

// Dispatch enqueues a batch of events, fire-and-continue. A full queue
// drops the event with a warning; there is no retry and no rollback.
// Returns the number of events actually enqueued.
func (n *Notifier) Dispatch(events []domain.NotificationEvent) int {
	enqueued := 0
	for _, ev := range events {
		if err := n.q.Enqueue(ev); err != nil {
			n.logger.Warn("dropping notification: queue full",
				zap.String("event_id", ev.ID),
				zap.String("category", string(ev.Category)),
				zap.String("recipient", ev.RecipientEmail),
			)
			continue
		}
		enqueued++
		n.onDispatched(ev.Category)
	}
	return enqueued
}
