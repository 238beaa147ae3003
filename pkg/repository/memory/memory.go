package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
)

// Memory is a process local Storage. Contents are lost on exit.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ interfaces.Storage = &Memory{}

func New() *Memory {
	return &Memory{
		items: make(map[string]string),
	}
}

func (m *Memory) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *Memory) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *Memory) Close() error {
	return nil
}
