package repository

import (
	"context"

	"github.com/worshipops/rosterd/internal/domain"
)

// UserRepository defines persistence operations for users.
// The pgx implementation is in pg_user_repo.go.
// Tests use a hand-written mock (mock_user_repo.go).
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, role *domain.Role) ([]*domain.User, error)
	// UpdateRoles replaces a user's role set. Used when an assignment
	// grants a role the user does not hold yet.
	UpdateRoles(ctx context.Context, id string, roles domain.RoleSet) error
}
