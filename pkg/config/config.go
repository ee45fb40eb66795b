// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nlp-gateway/pkg/secrets"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "configs/nlp.yaml"

// Config 应用配置结构体，进程启动时构造一次，按引用传入各工厂
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Log         LogConfig         `mapstructure:"log"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Prompts     PromptsConfig     `mapstructure:"prompts"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	Translation TranslationConfig `mapstructure:"translation"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
	Secrets     secrets.Config    `mapstructure:"secrets"`
}

// APIConfig HTTP 网关配置（cmd/api）
type APIConfig struct {
	Host string   `mapstructure:"host"`
	Port int      `mapstructure:"port"`
	Keys []string `mapstructure:"keys"` // 允许的 API key，空表示不鉴权
}

// Addr 返回监听地址
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HTTPConfig 底层 HTTP 传输配置；核心不强制超时，由此处交给 http.Client
type HTTPConfig struct {
	Timeout string `mapstructure:"timeout"` // 如 "60s"，空表示不设超时
}

// TimeoutDuration 解析 Timeout，空串返回 0
func (c HTTPConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid http.timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// PromptsConfig 系统提示词配置
type PromptsConfig struct {
	Dir     string            `mapstructure:"dir"`     // 文件目录，每个名称一个 <name>.txt
	Default string            `mapstructure:"default"` // 名为 "default" 的内存提示词
	Inline  map[string]string `mapstructure:"inline"`  // 其他内存提示词
}

// LLMConfig 生成模型配置
type LLMConfig struct {
	Provider string         `mapstructure:"provider"` // openrouter | openai | eino
	APIKey   string         `mapstructure:"api_key"`
	Model    string         `mapstructure:"model"`
	Endpoint string         `mapstructure:"endpoint"`
	Options  map[string]any `mapstructure:"options"` // 默认透传到请求体的参数，如 temperature
}

// EmbeddingConfig 向量化配置
type EmbeddingConfig struct {
	Provider string         `mapstructure:"provider"` // yandex | openai | local
	APIKey   string         `mapstructure:"api_key"`
	Model    string         `mapstructure:"model"`    // yandex: folder id 或完整 URI；openai: 模型名；local: 模型标识
	Endpoint string         `mapstructure:"endpoint"` // openai 兼容端点或本地运行时地址
	Options  map[string]any `mapstructure:"options"`
}

// TranslationConfig 翻译配置
type TranslationConfig struct {
	Provider string `mapstructure:"provider"` // yandex
	Token    string `mapstructure:"token"`
	FolderID string `mapstructure:"folder_id"`
	Endpoint string `mapstructure:"endpoint"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Tracing TracingConfig `mapstructure:"tracing"`
}

// TracingConfig 链路追踪配置（OpenTelemetry）
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("prompts.dir", "prompts")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("monitoring.tracing.service_name", "nlp-gateway")
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	replaceEnvVars(&config)
	return &config, nil
}

// LoadFromEnv 不读文件，仅用环境变量构造配置（兼容 .env 中的变量名）
func LoadFromEnv() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindings := map[string][]string{
		"llm.provider":          {"LLM_PROVIDER"},
		"llm.api_key":           {"OPENROUTER_API_KEY"},
		"llm.model":             {"OPENROUTER_MODEL"},
		"llm.endpoint":          {"OPENROUTER_ENDPOINT"},
		"embedding.provider":    {"EMBEDDER_PROVIDER"},
		"embedding.model":       {"EMBEDDER_MODEL"},
		"embedding.endpoint":    {"EMBEDDER_ENDPOINT", "OLLAMA_HOST"},
		"translation.token":     {"YANDEX_OAUTH_TOKEN"},
		"translation.folder_id": {"YANDEX_FOLDER_ID"},
		"prompts.dir":           {"SYSTEM_PROMPTS_DIR"},
		"prompts.default":       {"SYSTEM_PROMPT"},
		"log.level":             {"LOG_LEVEL"},
		"http.timeout":          {"HTTP_TIMEOUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析环境变量配置: %w", err)
	}

	if config.LLM.Provider == "" && config.LLM.APIKey != "" {
		config.LLM.Provider = "openrouter"
	}
	if config.Translation.Token != "" && config.Translation.FolderID != "" {
		config.Translation.Provider = "yandex"
	}
	// 嵌入凭据随 provider 变化：yandex 复用翻译的 IAM token，openai 用 OPENAI_API_KEY
	config.Embedding.Provider = strings.ToLower(strings.TrimSpace(config.Embedding.Provider))
	switch config.Embedding.Provider {
	case "yandex":
		config.Embedding.APIKey = config.Translation.Token
		if config.Embedding.Model == "" {
			config.Embedding.Model = config.Translation.FolderID
		}
	case "openai":
		config.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	case "hf":
		config.Embedding.APIKey = os.Getenv("HF_API_TOKEN")
	}
	return &config, nil
}

// credentialFields 可能携带密钥或引用的字段
func (c *Config) credentialFields() []*string {
	return []*string{
		&c.LLM.APIKey,
		&c.LLM.Endpoint,
		&c.Embedding.APIKey,
		&c.Translation.Token,
		&c.Translation.FolderID,
	}
}

// replaceEnvVars 替换配置中 ${VAR} 形式的密钥
func replaceEnvVars(config *Config) {
	for _, field := range config.credentialFields() {
		*field = expandEnv(*field)
	}
}

// HasSecretReferences 是否存在 secret:<key> 形式的凭据引用
func (c *Config) HasSecretReferences() bool {
	for _, field := range c.credentialFields() {
		if secrets.IsReference(*field) {
			return true
		}
	}
	return false
}

// ResolveSecrets 用 store 解析凭据字段中的 secret:<key> 引用
func (c *Config) ResolveSecrets(ctx context.Context, store secrets.Store) error {
	for _, field := range c.credentialFields() {
		value, err := secrets.Resolve(ctx, store, *field)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}

func expandEnv(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}
	envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
	envVar = strings.TrimPrefix(envVar, "$")
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return ""
}
