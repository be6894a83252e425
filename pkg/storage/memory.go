package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory keeps items in a map. It can be switched off with SetAvailable to
// emulate a storage that disappears at runtime.
type Memory struct {
	mu          sync.RWMutex
	items       map[string]string
	unavailable bool
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// SetAvailable toggles availability. Items survive being switched off.
func (m *Memory) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = !available
}

func (m *Memory) Supported() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.unavailable
}

func (m *Memory) GetItem(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return "", ErrUnavailable
	}
	return m.items[key], nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return ErrUnavailable
	}
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return ErrUnavailable
	}
	delete(m.items, key)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return ErrUnavailable
	}
	clear(m.items)
	return nil
}

func (m *Memory) Keys(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return nil, ErrUnavailable
	}
	return slices.Sorted(maps.Keys(m.items)), nil
}
