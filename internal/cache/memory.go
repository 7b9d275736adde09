package cache

import (
    "context"
    "strings"
    "sync"
    "time"
)

type entry struct {
    value   []byte
    expires time.Time // zero means no expiry
}

// Memory is an in-process cache for tests and single-node deployments.
type Memory struct {
    mu   sync.RWMutex
    data map[string]entry
}

func NewMemory() *Memory { return &Memory{data: map[string]entry{}} }

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
    m.mu.RLock()
    e, ok := m.data[key]
    m.mu.RUnlock()
    if !ok {
        return nil, false, nil
    }
    if !e.expires.IsZero() && time.Now().After(e.expires) {
        m.mu.Lock()
        delete(m.data, key)
        m.mu.Unlock()
        return nil, false, nil
    }
    return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
    e := entry{value: value}
    if ttl > 0 {
        e.expires = time.Now().Add(ttl)
    }
    m.mu.Lock()
    m.data[key] = e
    m.mu.Unlock()
    return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
    m.mu.Lock()
    for _, k := range keys {
        delete(m.data, k)
    }
    m.mu.Unlock()
    return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
    m.mu.Lock()
    for k := range m.data {
        if strings.HasPrefix(k, prefix) {
            delete(m.data, k)
        }
    }
    m.mu.Unlock()
    return nil
}

// Len reports live entry count; used in tests.
func (m *Memory) Len() int {
    m.mu.RLock()
    defer m.mu.RUnlock()
    return len(m.data)
}
