package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/worshipops/rosterd/internal/domain"
)

// MockServiceRepository is a hand-written, in-memory implementation of
// ServiceRepository used in unit tests.
type MockServiceRepository struct {
	mu       sync.RWMutex
	services map[string]*domain.Service

	CreateErr            error
	GetByIDErr           error
	ListAllErr           error
	UpdateAssignmentsErr error
	ReplaceSongsErr      error
}

func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{services: make(map[string]*domain.Service)}
}

// Seed stores services directly, bypassing error overrides. Test setup helper.
func (m *MockServiceRepository) Seed(services ...*domain.Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range services {
		clone := *s
		m.services[s.ID] = &clone
	}
}

func (m *MockServiceRepository) Create(_ context.Context, s *domain.Service) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *s
	m.services[s.ID] = &clone
	return nil
}

func (m *MockServiceRepository) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *MockServiceRepository) ListAll(_ context.Context) ([]*domain.Service, error) {
	if m.ListAllErr != nil {
		return nil, m.ListAllErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var services []*domain.Service
	for _, s := range m.services {
		clone := *s
		services = append(services, &clone)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

func (m *MockServiceRepository) UpdateAssignments(_ context.Context, serviceID string, set domain.AssignmentSet) error {
	if m.UpdateAssignmentsErr != nil {
		return m.UpdateAssignmentsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[serviceID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Assignments = set
	return nil
}

func (m *MockServiceRepository) ReplaceSongs(_ context.Context, serviceID string, songs []domain.Song) error {
	if m.ReplaceSongsErr != nil {
		return m.ReplaceSongsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[serviceID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Songs = append([]domain.Song(nil), songs...)
	return nil
}

var _ ServiceRepository = (*MockServiceRepository)(nil)
