package repository

import (
	"context"

	"github.com/worshipops/rosterd/internal/domain"
)

// ServiceRepository defines persistence operations for services and their
// assignments. The pgx implementation is in pg_service_repo.go.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	// ListAll returns every service with its assignments loaded.
	// The reminder scan and the upcoming-services endpoint filter the
	// result by date window in memory.
	ListAll(ctx context.Context) ([]*domain.Service, error)
	UpdateAssignments(ctx context.Context, serviceID string, set domain.AssignmentSet) error
	// ReplaceSongs swaps the service's song list for the given one.
	ReplaceSongs(ctx context.Context, serviceID string, songs []domain.Song) error
}
