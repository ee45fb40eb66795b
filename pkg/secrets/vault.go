// Copyright 2026 fanjia1024
// HashiCorp Vault secret store

package secrets

import (
	"context"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"

	apperrors "nlp-gateway/pkg/errors"
)

// VaultConfig Vault 配置
type VaultConfig struct {
	Address    string `mapstructure:"address"`     // Vault server address (e.g., http://vault:8200)
	Token      string `mapstructure:"token"`       // Vault token，空时使用 VAULT_TOKEN
	PathPrefix string `mapstructure:"path_prefix"` // Secret path prefix (e.g., "secret/data")
}

// vaultStore 读取 KV secret。key 形如 "<path>#<field>"，无 field 时取 "value" 或第一个字符串字段；
// 同时支持 KV v1（字段在 data 下）与 KV v2（字段在 data.data 下）。
type vaultStore struct {
	client     *vault.Client
	pathPrefix string
}

// NewVaultStore 创建 Vault secret store，并检查服务可达
func NewVaultStore(config VaultConfig) (Store, error) {
	if config.Address == "" {
		config.Address = "http://localhost:8200"
	}

	cfg := vault.DefaultConfig()
	cfg.Address = config.Address

	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Token != "" {
		client.SetToken(config.Token)
	}

	if _, err := client.Sys().Health(); err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}

	prefix := "secret"
	if config.PathPrefix != "" {
		prefix = strings.Trim(config.PathPrefix, "/")
	}

	return &vaultStore{client: client, pathPrefix: prefix}, nil
}

func (v *vaultStore) Get(ctx context.Context, key string) (string, error) {
	path, field, _ := strings.Cut(key, "#")

	secret, err := v.client.Logical().ReadWithContext(ctx, v.pathPrefix+"/"+strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("failed to read secret from vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault secret %s: %w", path, apperrors.ErrNotFound)
	}

	data := secret.Data
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}

	if field == "" {
		field = "value"
		if _, ok := data[field]; !ok {
			for _, val := range data {
				if str, ok := val.(string); ok {
					return str, nil
				}
			}
		}
	}
	if str, ok := data[field].(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("vault secret %s field %q: %w", path, field, apperrors.ErrNotFound)
}
