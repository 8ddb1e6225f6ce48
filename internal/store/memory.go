package store

import (
	"context"
	"sync"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
)

// MemoryRepo is a map-backed Repo for tests and for embedding the engine
// without persistence.
type MemoryRepo struct {
	mu        sync.Mutex
	reminders map[string]domain.Reminder
	settings  map[string]domain.NotificationSettings
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *MemoryRepo {
	return &MemoryRepo{
		reminders: make(map[string]domain.Reminder),
		settings:  make(map[string]domain.NotificationSettings),
	}
}

func (m *MemoryRepo) LoadAll(_ context.Context, ownerID string) ([]domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []domain.Reminder
	for _, r := range m.reminders {
		if r.OwnerID == ownerID {
			res = append(res, *r.Clone())
		}
	}
	return res, nil
}

func (m *MemoryRepo) Save(_ context.Context, r *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[r.ID] = *r.Clone()
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, id)
	return nil
}

func (m *MemoryRepo) LoadSettings(_ context.Context, ownerID string) (domain.NotificationSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[ownerID]; ok {
		return s, nil
	}
	return domain.DefaultSettings(), nil
}

func (m *MemoryRepo) SaveSettings(_ context.Context, ownerID string, s domain.NotificationSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[ownerID] = s
	return nil
}

func (m *MemoryRepo) Close() error { return nil }
