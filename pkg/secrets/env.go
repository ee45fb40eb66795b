// Copyright 2026 fanjia1024
// Environment variable based secret store

package secrets

import (
	"context"
	"fmt"
	"os"

	apperrors "nlp-gateway/pkg/errors"
)

type envStore struct{}

// NewEnvStore 创建环境变量 secret store，key 即变量名
func NewEnvStore() Store {
	return &envStore{}
}

func (e *envStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("environment variable %s: %w", key, apperrors.ErrNotFound)
	}
	return value, nil
}
