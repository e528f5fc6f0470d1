package worker

import (
	"context"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/notify"
)

// ServiceLookup is the slice of the service repository the scanner needs.
type ServiceLookup interface {
	ListAll(ctx context.Context) ([]*domain.Service, error)
}

// ReminderScanner periodically finds services coming up within the
// configured window and dispatches one REMINDER event per currently
// assigned person, per service, per scan. It reuses the same composer and
// dispatcher as the assignment-change path; no diffing is involved.
//
// There is deliberately no "already reminded" state: a service inside the
// window is reminded on every scan until its date passes.
type ReminderScanner struct {
	services   ServiceLookup
	composer   *notify.Composer
	notifier   *notify.Notifier
	rule       *rrule.RRule
	windowDays int
	logger     *zap.Logger

	// OnScanComplete is invoked after each completed scan. Injected by
	// main for metrics; may be left nil.
	OnScanComplete func()

	// scanning serializes scan runs: if a scheduled or manual scan fires
	// while another is still going, it is skipped rather than doubled up.
	scanning sync.Mutex

	// now is replaced in tests to pin the clock.
	now func() time.Time
}

func NewReminderScanner(
	services ServiceLookup,
	composer *notify.Composer,
	notifier *notify.Notifier,
	recurrence string,
	windowDays int,
	logger *zap.Logger,
) (*ReminderScanner, error) {
	rule, err := rrule.StrToRRule(recurrence)
	if err != nil {
		return nil, err
	}
	return &ReminderScanner{
		services:   services,
		composer:   composer,
		notifier:   notifier,
		rule:       rule,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Run sleeps until each next occurrence of the recurrence rule and runs a
// scan. Stops cleanly when ctx is cancelled.
func (s *ReminderScanner) Run(ctx context.Context) {
	s.logger.Info("reminder scanner started",
		zap.String("recurrence", s.rule.String()),
		zap.Int("window_days", s.windowDays),
	)

	for {
		next := s.rule.After(s.now(), false)
		if next.IsZero() {
			s.logger.Info("reminder recurrence exhausted, scanner stopping")
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("reminder scanner stopping")
			return
		case <-timer.C:
			if _, err := s.Scan(ctx); err != nil {
				s.logger.Error("scheduled reminder scan failed", zap.Error(err))
			}
		}
	}
}

// Scan finds upcoming services and dispatches reminders for each one.
// Safe to call manually (the HTTP trigger does); a call that overlaps a
// running scan is skipped and reported with ran=false so the caller can
// tell the difference. One service failing never aborts the remaining
// services.
func (s *ReminderScanner) Scan(ctx context.Context) (ran bool, err error) {
	if !s.scanning.TryLock() {
		s.logger.Warn("reminder scan already running, skipping")
		return false, nil
	}
	defer s.scanning.Unlock()

	today := s.now()
	upcoming, err := s.FindUpcoming(ctx, today)
	if err != nil {
		return true, err
	}
	if len(upcoming) == 0 {
		s.logger.Info("no services within the reminder window")
		if s.OnScanComplete != nil {
			s.OnScanComplete()
		}
		return true, nil
	}

	dispatched := 0
	for _, svc := range upcoming {
		dispatched += s.remindService(ctx, svc, today)
	}

	s.logger.Info("reminder scan complete",
		zap.Int("services", len(upcoming)),
		zap.Int("reminders", dispatched),
	)
	if s.OnScanComplete != nil {
		s.OnScanComplete()
	}
	return true, nil
}

// FindUpcoming returns services whose date falls within
// [today, today+windowDays], inclusive on both ends. Services without a
// date are excluded.
func (s *ReminderScanner) FindUpcoming(ctx context.Context, today time.Time) ([]*domain.Service, error) {
	services, err := s.services.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.UpcomingWithin(services, today, s.windowDays), nil
}

func (s *ReminderScanner) remindService(ctx context.Context, svc *domain.Service, today time.Time) int {
	practiceIn := domain.DaysUntil(today, reminderTarget(svc))

	var events []domain.NotificationEvent
	for _, directorID := range svc.Assignments.DirectorIDs {
		if ev, ok := s.composer.Reminder(ctx, svc, directorID, domain.RoleDirector, ""); ok {
			events = append(events, ev)
		}
	}
	for _, ma := range svc.Assignments.Musicians {
		if ev, ok := s.composer.Reminder(ctx, svc, ma.MusicianID, domain.RoleMusician, ma.Instrument); ok {
			events = append(events, ev)
		}
	}

	enqueued := s.notifier.Dispatch(events)
	s.logger.Info("service reminders dispatched",
		zap.String("service_id", svc.ID),
		zap.Int("recipients", enqueued),
		zap.Int("days_until_practice", practiceIn),
	)
	return enqueued
}

// reminderTarget picks the date the reminder counts down to: the practice
// date when one is planned, otherwise the service date.
func reminderTarget(svc *domain.Service) time.Time {
	if svc.PracticeDate != nil {
		return *svc.PracticeDate
	}
	if svc.ServiceDate != nil {
		return *svc.ServiceDate
	}
	return time.Time{}
}

