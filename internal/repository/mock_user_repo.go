package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/worshipops/rosterd/internal/domain"
)

// MockUserRepository is a hand-written, in-memory implementation of
// UserRepository used in unit tests. No mock-generation library needed.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Optional error overrides, set in tests to simulate failure paths.
	CreateErr  error
	GetByIDErr error
	ListErr    error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// Seed stores users directly, bypassing error overrides. Test setup helper.
func (m *MockUserRepository) Seed(users ...*domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		clone := *u
		m.users[u.ID] = &clone
	}
}

func (m *MockUserRepository) Create(_ context.Context, u *domain.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *MockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepository) List(_ context.Context, role *domain.Role) ([]*domain.User, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		if role != nil && !u.Roles.Has(*role) {
			continue
		}
		clone := *u
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (m *MockUserRepository) UpdateRoles(_ context.Context, id string, roles domain.RoleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Roles = roles
	return nil
}

var _ UserRepository = (*MockUserRepository)(nil)
