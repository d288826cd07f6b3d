package alertstore

import (
	"context"
	"sync"

	"github.com/arbiscout/backend/internal/domain"
)

// MemoryStore is an in-memory AlertRepository used in development and tests
type MemoryStore struct {
	mutex  sync.RWMutex
	alerts []domain.Alert
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save appends the alert
func (s *MemoryStore) Save(ctx context.Context, alert *domain.Alert) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.alerts = append(s.alerts, *alert)
	return nil
}

// RecentByProduct returns the newest alerts for a product, newest first
func (s *MemoryStore) RecentByProduct(ctx context.Context, productID string, limit int) ([]domain.Alert, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var matched []domain.Alert
	for i := len(s.alerts) - 1; i >= 0 && len(matched) < limit; i-- {
		if s.alerts[i].ProductID == productID {
			matched = append(matched, s.alerts[i])
		}
	}
	return matched, nil
}

// Len returns the number of stored alerts
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.alerts)
}
