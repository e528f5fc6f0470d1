package queue

import (
	"context"

	"github.com/worshipops/rosterd/internal/domain"
)

// EventQueue dispatches notification events to one of two buffered channels
// based on category. Assignment and removal events ride the urgent channel:
// they follow a human action and should reach the inbox promptly. Reminders
// are produced in bulk by the scheduled scan and can wait behind them.
//
// Workers dequeue via the double-select pattern, which guarantees that
// urgent events are always served before reminders while still letting a
// worker sleep instead of spinning when both channels are empty.
type EventQueue struct {
	urgent    chan domain.NotificationEvent
	reminders chan domain.NotificationEvent
}

// New creates an EventQueue with the given channel capacities.
func New(urgentCap, reminderCap int) *EventQueue {
	return &EventQueue{
		urgent:    make(chan domain.NotificationEvent, urgentCap),
		reminders: make(chan domain.NotificationEvent, reminderCap),
	}
}

// Enqueue places an event on the channel for its category.
// It is non-blocking: if the target channel is full, ErrQueueFull is
// returned immediately rather than blocking the caller. The caller logs
// and drops; the assignment update that produced the event stands.
func (q *EventQueue) Enqueue(ev domain.NotificationEvent) error {
	target := q.urgent
	if ev.Category == domain.CategoryReminder {
		target = q.reminders
	}
	select {
	case target <- ev:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Dequeue blocks until an event is available or ctx is cancelled.
//
// The urgency guarantee, in two steps:
//  1. A non-blocking select drains the urgent channel first. If an event
//     is waiting there, it is returned regardless of pending reminders.
//  2. Only when urgent is empty does the goroutine enter a fair blocking
//     select across both channels plus the done signal.
//
// Returns (zero event, false) when ctx is cancelled (graceful shutdown).
func (q *EventQueue) Dequeue(ctx context.Context) (domain.NotificationEvent, bool) {
	select {
	case ev := <-q.urgent:
		return ev, true
	default:
	}

	select {
	case ev := <-q.urgent:
		return ev, true
	case ev := <-q.reminders:
		return ev, true
	case <-ctx.Done():
		return domain.NotificationEvent{}, false
	}
}

// Depths returns the current number of events waiting in each tier.
// Used by the metrics handler for the queue-depth snapshot.
func (q *EventQueue) Depths() (urgent, reminders int) {
	return len(q.urgent), len(q.reminders)
}
