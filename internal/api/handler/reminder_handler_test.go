package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/notify"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/repository"
	"github.com/worshipops/rosterd/internal/worker"
)

// gatedLookup blocks ListAll until released, so a test can hold a scan
// open while firing a second trigger at it.
type gatedLookup struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedLookup) ListAll(_ context.Context) ([]*domain.Service, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return nil, nil
}

func newReminderHandler(t *testing.T, services worker.ServiceLookup) *ReminderHandler {
	t.Helper()
	users := repository.NewMockUserRepository()
	q := queue.New(4, 4)
	composer := notify.NewComposer(users, zap.NewNop())
	notifier := notify.NewNotifier(composer, q, zap.NewNop(), nil)

	scanner, err := worker.NewReminderScanner(services, composer, notifier, "FREQ=DAILY", 10, zap.NewNop())
	if err != nil {
		t.Fatalf("NewReminderScanner() error = %v", err)
	}
	return NewReminderHandler(scanner, zap.NewNop())
}

func TestReminderHandler_Run(t *testing.T) {
	h := newReminderHandler(t, repository.NewMockServiceRepository())

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/run", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestReminderHandler_Run_ConflictWhileScanRunning(t *testing.T) {
	gate := &gatedLookup{entered: make(chan struct{}), release: make(chan struct{})}
	h := newReminderHandler(t, gate)

	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := httptest.NewRecorder()
		h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/run", nil))
	}()

	// Wait for the first scan to be mid-flight, then trigger again.
	<-gate.entered
	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/run", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("overlapping trigger: status = %d, want %d", rec.Code, http.StatusConflict)
	}

	close(gate.release)
	<-done
}

func TestReminderHandler_Run_ScanFailure(t *testing.T) {
	services := repository.NewMockServiceRepository()
	services.ListAllErr = errors.New("db down")
	h := newReminderHandler(t, services)

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/run", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
