package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/notify"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/repository"
)

type fixture struct {
	svc      *Service
	users    *repository.MockUserRepository
	services *repository.MockServiceRepository
	q        *queue.EventQueue
}

func newFixture() *fixture {
	users := repository.NewMockUserRepository()
	services := repository.NewMockServiceRepository()
	q := queue.New(64, 64)

	composer := notify.NewComposer(users, zap.NewNop())
	notifier := notify.NewNotifier(composer, q, zap.NewNop(), nil)

	return &fixture{
		svc:      New(users, services, notifier, zap.NewNop()),
		users:    users,
		services: services,
		q:        q,
	}
}

func (f *fixture) seedPeople() {
	f.users.Seed(
		&domain.User{ID: "d1", Name: "Dana", Email: "dana@example.com", Roles: domain.RoleSet{domain.RoleDirector}},
		&domain.User{ID: "m1", Name: "Mara", Email: "mara@example.com", Roles: domain.RoleSet{domain.RoleMusician}},
		&domain.User{ID: "plain", Name: "Pat", Email: "pat@example.com", Roles: domain.RoleSet{domain.RoleAdmin}},
	)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCreateUser(t *testing.T) {
	f := newFixture()

	u, err := f.svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Name:        "Dana",
		Email:       "dana@example.com",
		PhoneNumber: "+15550001111",
		Roles:       []string{"DIRECTOR", "MUSICIAN"},
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.ID == "" {
		t.Error("expected a generated user ID")
	}
	if !u.Roles.Has(domain.RoleDirector) || !u.Roles.Has(domain.RoleMusician) {
		t.Errorf("roles not preserved: %v", u.Roles)
	}

	got, err := f.users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if got.Email != "dana@example.com" {
		t.Errorf("persisted email = %q", got.Email)
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Name:  "Dana",
		Email: "dana@example.com",
		Roles: []string{"DIRECTOR", "WIZARD"},
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("error = %v, want ErrInvalidRole", err)
	}
}

func TestCreateService_NotifiesInitialAssignees(t *testing.T) {
	f := newFixture()
	f.seedPeople()

	svc, result, err := f.svc.CreateService(context.Background(), domain.CreateServiceRequest{
		ServiceDate:  datePtr(2025, time.June, 15),
		PracticeDate: datePtr(2025, time.June, 12),
		Location:     "Main Hall",
		DirectorIDs:  []string{"d1"},
		Musicians:    []domain.MusicianAssignment{{MusicianID: "m1", Instrument: "Piano"}},
	})
	if err != nil {
		t.Fatalf("CreateService() error = %v", err)
	}
	if svc.ID == "" {
		t.Error("expected a generated service ID")
	}

	// Creation diffs against the empty set: everyone assigned is notified.
	if result.Assigned != 2 || result.Removed != 0 {
		t.Errorf("result = %+v, want 2 assigned, 0 removed", result)
	}
	urgent, _ := f.q.Depths()
	if urgent != 2 {
		t.Errorf("urgent queue depth = %d, want 2", urgent)
	}
}

func TestCreateService_Validation(t *testing.T) {
	f := newFixture()
	f.seedPeople()

	tests := []struct {
		name    string
		req     domain.CreateServiceRequest
		wantErr error
	}{
		{
			name:    "missing date",
			req:     domain.CreateServiceRequest{Location: "Main Hall"},
			wantErr: domain.ErrInvalidServiceDate,
		},
		{
			name:    "blank location",
			req:     domain.CreateServiceRequest{ServiceDate: datePtr(2025, time.June, 15), Location: "   "},
			wantErr: domain.ErrInvalidLocation,
		},
		{
			name: "practice after service",
			req: domain.CreateServiceRequest{
				ServiceDate:  datePtr(2025, time.June, 15),
				PracticeDate: datePtr(2025, time.June, 16),
				Location:     "Main Hall",
			},
			wantErr: domain.ErrPracticeAfterDate,
		},
		{
			name: "blank musician instrument",
			req: domain.CreateServiceRequest{
				ServiceDate: datePtr(2025, time.June, 15),
				Location:    "Main Hall",
				Musicians:   []domain.MusicianAssignment{{MusicianID: "m1", Instrument: ""}},
			},
			wantErr: domain.ErrInvalidAssignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.CreateService(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateService_UnknownAssignee(t *testing.T) {
	f := newFixture()
	f.seedPeople()

	_, _, err := f.svc.CreateService(context.Background(), domain.CreateServiceRequest{
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		DirectorIDs: []string{"ghost"},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateService_GrantsMissingRole(t *testing.T) {
	f := newFixture()
	f.seedPeople()

	_, _, err := f.svc.CreateService(context.Background(), domain.CreateServiceRequest{
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		DirectorIDs: []string{"plain"},
	})
	if err != nil {
		t.Fatalf("CreateService() error = %v", err)
	}

	u, err := f.users.GetByID(context.Background(), "plain")
	if err != nil {
		t.Fatal(err)
	}
	if !u.Roles.Has(domain.RoleDirector) {
		t.Errorf("DIRECTOR role not granted, roles = %v", u.Roles)
	}
	if !u.Roles.Has(domain.RoleAdmin) {
		t.Errorf("existing roles must be kept, roles = %v", u.Roles)
	}
}

func TestUpdateAssignments_NotifiesOnlyChanged(t *testing.T) {
	f := newFixture()
	f.seedPeople()
	f.users.Seed(&domain.User{ID: "m2", Name: "Milo", Email: "milo@example.com", Roles: domain.RoleSet{domain.RoleMusician}})

	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet(
			[]string{"d1"},
			[]domain.MusicianAssignment{{MusicianID: "m1", Instrument: "Piano"}},
		),
	})

	svc, result, err := f.svc.UpdateAssignments(context.Background(), "svc-1", domain.UpdateAssignmentsRequest{
		DirectorIDs: []string{"d1"},
		Musicians: []domain.MusicianAssignment{
			{MusicianID: "m1", Instrument: "Piano"},
			{MusicianID: "m2", Instrument: "Drums"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateAssignments() error = %v", err)
	}

	// d1 and m1 are unchanged; only m2 joining generates an event.
	if result.Assigned != 1 || result.Removed != 0 {
		t.Errorf("result = %+v, want 1 assigned, 0 removed", result)
	}
	urgent, _ := f.q.Depths()
	if urgent != 1 {
		t.Errorf("urgent queue depth = %d, want 1", urgent)
	}

	if len(svc.Assignments.Musicians) != 2 {
		t.Errorf("assignments not updated: %+v", svc.Assignments)
	}
}

func TestUpdateAssignments_InstrumentChange(t *testing.T) {
	f := newFixture()
	f.seedPeople()

	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet(nil,
			[]domain.MusicianAssignment{{MusicianID: "m1", Instrument: "Piano"}},
		),
	})

	_, result, err := f.svc.UpdateAssignments(context.Background(), "svc-1", domain.UpdateAssignmentsRequest{
		Musicians: []domain.MusicianAssignment{{MusicianID: "m1", Instrument: "Bass"}},
	})
	if err != nil {
		t.Fatalf("UpdateAssignments() error = %v", err)
	}

	// A seat change is a removal of the old seat plus an addition of the new one.
	if result.Assigned != 1 || result.Removed != 1 {
		t.Errorf("result = %+v, want 1 assigned, 1 removed", result)
	}
}

func TestUpdateAssignments_Errors(t *testing.T) {
	f := newFixture()
	f.seedPeople()

	if _, _, err := f.svc.UpdateAssignments(context.Background(), "  ", domain.UpdateAssignmentsRequest{}); !errors.Is(err, domain.ErrInvalidServiceID) {
		t.Errorf("blank id: error = %v, want ErrInvalidServiceID", err)
	}
	if _, _, err := f.svc.UpdateAssignments(context.Background(), "missing", domain.UpdateAssignmentsRequest{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown id: error = %v, want ErrNotFound", err)
	}
}

func TestSetSongList(t *testing.T) {
	f := newFixture()
	f.seedPeople()
	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet([]string{"d1"}, nil),
	})

	songs := []domain.Song{
		{Name: "Amazing Grace", Artist: "John Newton", Tone: "G"},
		{Name: "How Great Thou Art", Tone: "Bb", YouTubeLink: "https://youtube.com/watch?v=abc123"},
	}

	svc, err := f.svc.SetSongList(context.Background(), "svc-1", domain.SetSongListRequest{
		DirectorID: "d1",
		Songs:      songs,
	})
	if err != nil {
		t.Fatalf("SetSongList() error = %v", err)
	}
	if len(svc.Songs) != 2 || svc.Songs[0].Name != "Amazing Grace" {
		t.Errorf("songs not applied: %+v", svc.Songs)
	}

	stored, err := f.services.GetByID(context.Background(), "svc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Songs) != 2 {
		t.Errorf("songs not persisted: %+v", stored.Songs)
	}
}

func TestSetSongList_ReplacesExistingList(t *testing.T) {
	f := newFixture()
	f.seedPeople()
	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet([]string{"d1"}, nil),
		Songs:       []domain.Song{{Name: "Old Hymn"}, {Name: "Older Hymn"}},
	})

	svc, err := f.svc.SetSongList(context.Background(), "svc-1", domain.SetSongListRequest{
		DirectorID: "d1",
		Songs:      []domain.Song{{Name: "New Song", Tone: "D"}},
	})
	if err != nil {
		t.Fatalf("SetSongList() error = %v", err)
	}

	// Wholesale replacement, not append.
	if len(svc.Songs) != 1 || svc.Songs[0].Name != "New Song" {
		t.Errorf("songs = %+v, want the single new song", svc.Songs)
	}
}

func TestSetSongList_RequiresAssignedDirector(t *testing.T) {
	f := newFixture()
	f.seedPeople()
	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet([]string{"d1"}, nil),
	})

	songs := []domain.Song{{Name: "Amazing Grace"}}

	// A director not assigned to this service is refused, as is a
	// musician who happens to hold an ID on the roster.
	for _, caller := range []string{"m1", "plain", "ghost"} {
		_, err := f.svc.SetSongList(context.Background(), "svc-1", domain.SetSongListRequest{
			DirectorID: caller,
			Songs:      songs,
		})
		if !errors.Is(err, domain.ErrNotServiceDirector) {
			t.Errorf("caller %q: error = %v, want ErrNotServiceDirector", caller, err)
		}
	}
}

func TestSetSongList_Validation(t *testing.T) {
	f := newFixture()
	f.seedPeople()
	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet([]string{"d1"}, nil),
	})

	if _, err := f.svc.SetSongList(context.Background(), "svc-1", domain.SetSongListRequest{
		DirectorID: "d1",
	}); !errors.Is(err, domain.ErrEmptySongList) {
		t.Errorf("empty list: error = %v, want ErrEmptySongList", err)
	}
	if _, err := f.svc.SetSongList(context.Background(), " ", domain.SetSongListRequest{
		DirectorID: "d1",
		Songs:      []domain.Song{{Name: "Amazing Grace"}},
	}); !errors.Is(err, domain.ErrInvalidServiceID) {
		t.Errorf("blank service id: error = %v, want ErrInvalidServiceID", err)
	}
	if _, err := f.svc.SetSongList(context.Background(), "missing", domain.SetSongListRequest{
		DirectorID: "d1",
		Songs:      []domain.Song{{Name: "Amazing Grace"}},
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown service: error = %v, want ErrNotFound", err)
	}
}

func TestUpdateAssignments_PersistFailureSkipsNotify(t *testing.T) {
	f := newFixture()
	f.seedPeople()
	f.services.Seed(&domain.Service{
		ID:          "svc-1",
		ServiceDate: datePtr(2025, time.June, 15),
		Location:    "Main Hall",
		Assignments: domain.NewAssignmentSet(nil, nil),
	})
	f.services.UpdateAssignmentsErr = errors.New("db down")

	_, _, err := f.svc.UpdateAssignments(context.Background(), "svc-1", domain.UpdateAssignmentsRequest{
		DirectorIDs: []string{"d1"},
	})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}

	urgent, reminders := f.q.Depths()
	if urgent != 0 || reminders != 0 {
		t.Errorf("no notifications may be dispatched when the write fails, depths = %d/%d", urgent, reminders)
	}
}
