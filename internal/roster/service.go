package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
	"github.com/worshipops/rosterd/internal/notify"
	"github.com/worshipops/rosterd/internal/repository"
)

// Service coordinates the repositories and the notification pipeline.
// Business rules (date validation, role granting, diff-and-notify on
// assignment changes) live here. HTTP handlers depend on this service,
// not on the repositories or queue directly.
//
// Persistence is authoritative and notifications are best effort: once
// the assignment write commits, nothing on the notification side can
// fail the request.
type Service struct {
	users    repository.UserRepository
	services repository.ServiceRepository
	notifier *notify.Notifier
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	services repository.ServiceRepository,
	notifier *notify.Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{users: users, services: services, notifier: notifier, logger: logger}
}

// CreateUser registers a new user with the given roles.
func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	roles := domain.RoleSetFromStrings(req.Roles)
	if len(roles) != len(req.Roles) {
		return nil, domain.ErrInvalidRole
	}

	u := &domain.User{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Roles:       roles,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, role *domain.Role) ([]*domain.User, error) {
	return s.users.List(ctx, role)
}

// CreateService creates a service with its initial assignments and
// notifies everyone assigned (the previous snapshot is the empty set).
func (s *Service) CreateService(ctx context.Context, req domain.CreateServiceRequest) (*domain.Service, domain.NotifyResult, error) {
	if req.ServiceDate == nil {
		return nil, domain.NotifyResult{}, domain.ErrInvalidServiceDate
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, domain.NotifyResult{}, domain.ErrInvalidLocation
	}
	if req.PracticeDate != nil && req.PracticeDate.After(*req.ServiceDate) {
		return nil, domain.NotifyResult{}, domain.ErrPracticeAfterDate
	}

	set, err := s.buildAssignmentSet(ctx, req.DirectorIDs, req.Musicians)
	if err != nil {
		return nil, domain.NotifyResult{}, err
	}

	svc := &domain.Service{
		ID:           uuid.New().String(),
		ServiceDate:  req.ServiceDate,
		PracticeDate: req.PracticeDate,
		Location:     req.Location,
		Assignments:  set,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, domain.NotifyResult{}, fmt.Errorf("persist service: %w", err)
	}

	result, err := s.notifier.ComputeAndNotify(ctx, svc, domain.NewAssignmentSet(nil, nil), set)
	if err != nil {
		// The service row is committed; a notify error here means bad
		// input that already passed validation, so just log it.
		s.logger.Error("creation notifications failed", zap.String("service_id", svc.ID), zap.Error(err))
	}
	return svc, result, nil
}

func (s *Service) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}

// ListUpcoming returns services dated within [today, today+windowDays].
func (s *Service) ListUpcoming(ctx context.Context, windowDays int) ([]*domain.Service, error) {
	services, err := s.services.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.UpcomingWithin(services, time.Now(), windowDays), nil
}

// UpdateAssignments replaces a service's assignment set and notifies
// exactly the people whose assignment changed. The previous snapshot is
// read from storage, diffed against the incoming one after persistence.
func (s *Service) UpdateAssignments(ctx context.Context, serviceID string, req domain.UpdateAssignmentsRequest) (*domain.Service, domain.NotifyResult, error) {
	if strings.TrimSpace(serviceID) == "" {
		return nil, domain.NotifyResult{}, domain.ErrInvalidServiceID
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, domain.NotifyResult{}, err
	}
	old := svc.Assignments

	updated, err := s.buildAssignmentSet(ctx, req.DirectorIDs, req.Musicians)
	if err != nil {
		return nil, domain.NotifyResult{}, err
	}

	if err := s.services.UpdateAssignments(ctx, serviceID, updated); err != nil {
		return nil, domain.NotifyResult{}, fmt.Errorf("persist assignments: %w", err)
	}
	svc.Assignments = updated

	result, err := s.notifier.ComputeAndNotify(ctx, svc, old, updated)
	if err != nil {
		s.logger.Error("assignment notifications failed", zap.String("service_id", serviceID), zap.Error(err))
	}
	return svc, result, nil
}

// SetSongList replaces a service's song list. Only a director currently
// assigned to the service may curate its songs, and the list must not be
// empty (clearing is done by re-staffing, not by blanking the list).
func (s *Service) SetSongList(ctx context.Context, serviceID string, req domain.SetSongListRequest) (*domain.Service, error) {
	if strings.TrimSpace(serviceID) == "" {
		return nil, domain.ErrInvalidServiceID
	}
	if len(req.Songs) == 0 {
		return nil, domain.ErrEmptySongList
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !isDirectorOf(svc, req.DirectorID) {
		return nil, domain.ErrNotServiceDirector
	}

	if err := s.services.ReplaceSongs(ctx, serviceID, req.Songs); err != nil {
		return nil, fmt.Errorf("persist song list: %w", err)
	}
	svc.Songs = req.Songs

	s.logger.Info("song list updated",
		zap.String("service_id", serviceID),
		zap.String("director_id", req.DirectorID),
		zap.Int("songs", len(req.Songs)),
	)
	return svc, nil
}

func isDirectorOf(svc *domain.Service, userID string) bool {
	for _, id := range svc.Assignments.DirectorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// buildAssignmentSet validates the raw assignment lists, verifies every
// referenced user exists, grants missing DIRECTOR/MUSICIAN roles, and
// returns the normalized snapshot.
func (s *Service) buildAssignmentSet(ctx context.Context, directorIDs []string, musicians []domain.MusicianAssignment) (domain.AssignmentSet, error) {
	for _, id := range directorIDs {
		if strings.TrimSpace(id) == "" {
			return domain.AssignmentSet{}, domain.ErrInvalidAssignment
		}
		if err := s.ensureRole(ctx, id, domain.RoleDirector); err != nil {
			return domain.AssignmentSet{}, err
		}
	}
	for _, ma := range musicians {
		if strings.TrimSpace(ma.MusicianID) == "" || strings.TrimSpace(ma.Instrument) == "" {
			return domain.AssignmentSet{}, domain.ErrInvalidAssignment
		}
		if err := s.ensureRole(ctx, ma.MusicianID, domain.RoleMusician); err != nil {
			return domain.AssignmentSet{}, err
		}
	}
	return domain.NewAssignmentSet(directorIDs, musicians), nil
}

func (s *Service) ensureRole(ctx context.Context, userID string, role domain.Role) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("assignee %s: %w", userID, err)
	}
	if u.Roles.Has(role) {
		return nil
	}
	if err := s.users.UpdateRoles(ctx, userID, u.Roles.Add(role)); err != nil {
		return fmt.Errorf("grant %s to %s: %w", role, userID, err)
	}
	return nil
}
