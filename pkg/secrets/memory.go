// Copyright 2026 fanjia1024
// In-memory secret store (for tests and local runs)

package secrets

import (
	"context"
	"fmt"
	"sync"

	apperrors "nlp-gateway/pkg/errors"
)

// MemoryStore 内存 secret store
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewMemoryStore 创建内存 secret store
func NewMemoryStore(initial map[string]string) *MemoryStore {
	secrets := make(map[string]string, len(initial))
	for k, v := range initial {
		secrets[k] = v
	}
	return &MemoryStore{secrets: secrets}
}

// Get 实现 Store
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.secrets[key]
	if !ok {
		return "", fmt.Errorf("secret %s: %w", key, apperrors.ErrNotFound)
	}
	return value, nil
}

// Set 写入 secret
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	m.secrets[key] = value
	m.mu.Unlock()
}
