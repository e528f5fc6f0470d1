package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/notify"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/repository"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestScanner(t *testing.T, services *repository.MockServiceRepository, q *queue.EventQueue) *ReminderScanner {
	t.Helper()

	users := repository.NewMockUserRepository()
	users.Seed(
		&domain.User{ID: "d1", Name: "Dana", Email: "dana@example.com", Roles: domain.RoleSet{domain.RoleDirector}},
		&domain.User{ID: "m1", Name: "Mara", Email: "mara@example.com", Roles: domain.RoleSet{domain.RoleMusician}},
	)
	composer := notify.NewComposer(users, zap.NewNop())
	notifier := notify.NewNotifier(composer, q, zap.NewNop(), nil)

	scanner, err := NewReminderScanner(services, composer, notifier, "FREQ=WEEKLY;BYDAY=SU,WE", 10, zap.NewNop())
	require.NoError(t, err)
	scanner.now = func() time.Time {
		return time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	}
	return scanner
}

func TestReminderScanner_Scan_WindowIsInclusive(t *testing.T) {
	assignments := domain.NewAssignmentSet([]string{"d1"}, nil)

	services := repository.NewMockServiceRepository()
	services.Seed(
		&domain.Service{ID: "today", ServiceDate: date(2025, time.June, 1), Assignments: assignments},
		&domain.Service{ID: "edge", ServiceDate: date(2025, time.June, 11), Assignments: assignments},
		&domain.Service{ID: "past", ServiceDate: date(2025, time.May, 31), Assignments: assignments},
		&domain.Service{ID: "beyond", ServiceDate: date(2025, time.June, 12), Assignments: assignments},
		&domain.Service{ID: "undated", Assignments: assignments},
	)

	q := queue.New(4, 16)
	scanner := newTestScanner(t, services, q)

	ran, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	// Only "today" and "edge" fall inside [today, today+10].
	urgent, reminders := q.Depths()
	assert.Zero(t, urgent)
	assert.Equal(t, 2, reminders)
}

func TestReminderScanner_Scan_OneReminderPerAssignee(t *testing.T) {
	services := repository.NewMockServiceRepository()
	services.Seed(&domain.Service{
		ID:           "svc-1",
		ServiceDate:  date(2025, time.June, 8),
		PracticeDate: date(2025, time.June, 5),
		Location:     "Main Hall",
		Assignments: domain.NewAssignmentSet(
			[]string{"d1"},
			[]domain.MusicianAssignment{{MusicianID: "m1", Instrument: "Piano"}},
		),
	})

	q := queue.New(4, 16)
	scanner := newTestScanner(t, services, q)

	ran, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	first, ok := q.Dequeue(ctx)
	require.True(t, ok)
	second, ok := q.Dequeue(ctx)
	require.True(t, ok)

	// Directors first, then musicians; all events are reminders.
	assert.Equal(t, domain.CategoryReminder, first.Category)
	assert.Equal(t, "d1", first.RecipientID)
	assert.Equal(t, notify.TemplateReminder, first.Template)
	assert.Equal(t, "05/06/2025", first.PracticeDate)

	assert.Equal(t, "m1", second.RecipientID)
	assert.Equal(t, "Piano", second.Instrument)

	_, reminders := q.Depths()
	assert.Zero(t, reminders)
}

func TestReminderScanner_Scan_RepeatsOnEveryScan(t *testing.T) {
	services := repository.NewMockServiceRepository()
	services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: date(2025, time.June, 8),
		Assignments: domain.NewAssignmentSet([]string{"d1"}, nil),
	})

	q := queue.New(4, 16)
	scanner := newTestScanner(t, services, q)

	ran, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.True(t, ran)
	ran, err = scanner.Scan(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	// No dedup state between scans: the same assignee is reminded again.
	_, reminders := q.Depths()
	assert.Equal(t, 2, reminders)
}

func TestReminderScanner_Scan_ListFailure(t *testing.T) {
	services := repository.NewMockServiceRepository()
	services.ListAllErr = errors.New("db down")

	q := queue.New(4, 16)
	scanner := newTestScanner(t, services, q)

	ran, err := scanner.Scan(context.Background())
	assert.Error(t, err)
	assert.True(t, ran)
}

func TestReminderScanner_Scan_ReportsSkipWhileRunning(t *testing.T) {
	services := repository.NewMockServiceRepository()

	q := queue.New(4, 16)
	scanner := newTestScanner(t, services, q)

	// Simulate a scan in progress; the overlapping call must report the
	// skip instead of claiming a scan happened.
	scanner.scanning.Lock()
	ran, err := scanner.Scan(context.Background())
	scanner.scanning.Unlock()

	require.NoError(t, err)
	assert.False(t, ran)

	ran, err = scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestReminderScanner_Scan_SkipsUnresolvedAssignees(t *testing.T) {
	services := repository.NewMockServiceRepository()
	services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: date(2025, time.June, 8),
		Assignments: domain.NewAssignmentSet([]string{"d1", "ghost"}, nil),
	})

	q := queue.New(4, 16)
	scanner := newTestScanner(t, services, q)

	ran, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.True(t, ran)

	_, reminders := q.Depths()
	assert.Equal(t, 1, reminders)
}

func TestNewReminderScanner_InvalidRecurrence(t *testing.T) {
	_, err := NewReminderScanner(
		repository.NewMockServiceRepository(),
		nil, nil, "FREQ=NOPE", 10, zap.NewNop(),
	)
	assert.Error(t, err)
}

func TestReminderTarget(t *testing.T) {
	svcDate := date(2025, time.June, 8)
	practice := date(2025, time.June, 5)

	assert.Equal(t, *practice, reminderTarget(&domain.Service{ServiceDate: svcDate, PracticeDate: practice}))
	assert.Equal(t, *svcDate, reminderTarget(&domain.Service{ServiceDate: svcDate}))
	assert.True(t, reminderTarget(&domain.Service{}).IsZero())
}
