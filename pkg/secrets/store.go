// Copyright 2026 fanjia1024
// Credential lookup for provider configuration

// Package secrets 解析配置中的 secret:<key> 凭据引用，后端可以是环境变量、内存或 Vault
package secrets

import (
	"context"
	"fmt"
	"strings"
)

// Prefix 配置值以此开头时视为凭据引用
const Prefix = "secret:"

// Store 只读凭据存储
type Store interface {
	// Get 获取 secret 值
	Get(ctx context.Context, key string) (string, error)
}

// Config Secret Store 配置
type Config struct {
	Provider string      `mapstructure:"provider"` // env | memory | vault，空表示不解析引用
	Vault    VaultConfig `mapstructure:"vault"`
}

// NewStore 创建 Secret Store
func NewStore(config Config) (Store, error) {
	switch config.Provider {
	case "env":
		return NewEnvStore(), nil
	case "memory":
		return NewMemoryStore(nil), nil
	case "vault":
		return NewVaultStore(config.Vault)
	default:
		return nil, fmt.Errorf("unsupported secret provider: %q", config.Provider)
	}
}

// IsReference 判断配置值是否为凭据引用
func IsReference(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Resolve 解析单个配置值：secret:<key> 从 store 读取，其余原样返回
func Resolve(ctx context.Context, store Store, value string) (string, error) {
	if !IsReference(value) {
		return value, nil
	}
	key := strings.TrimSpace(strings.TrimPrefix(value, Prefix))
	if key == "" {
		return "", fmt.Errorf("empty secret reference")
	}
	if store == nil {
		return "", fmt.Errorf("secret %q referenced but no secret store configured", key)
	}
	secret, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", key, err)
	}
	return secret, nil
}
