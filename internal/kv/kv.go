// Package kv provides the byte-oriented key-value capability used to persist
// the cached timetable and user settings. Backends are chosen by
// configuration: memory, postgres (pgxpool), redis, sqlite or mongo.
package kv

import (
	"context"
	"sync"
)

// Store is a byte-oriented get/set capability. Get reports false for an
// absent key; errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Backend is a Store with lifecycle and health hooks.
type Backend interface {
	Store
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// --------------------------------------------------------------------------
// Memory backend
// --------------------------------------------------------------------------

// Memory is an in-process Store. Values are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Name() string                 { return "memory" }
func (m *Memory) Ping(_ context.Context) error { return nil }
func (m *Memory) Close() error                 { return nil }
