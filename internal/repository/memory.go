package repository

import (
	"context"
	"sync"
)

type MemoryBestScoreStore struct {
	mu     sync.RWMutex
	scores map[string]float64
}

func NewMemoryBestScoreStore() *MemoryBestScoreStore {
	return &MemoryBestScoreStore{scores: make(map[string]float64)}
}

func (m *MemoryBestScoreStore) Load(_ context.Context, key string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.scores[key]
	return score, ok, nil
}

func (m *MemoryBestScoreStore) Save(_ context.Context, key string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[key] = score
	return nil
}
