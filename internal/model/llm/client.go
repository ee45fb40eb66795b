package llm

import (
	"context"
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// 生成 provider 及其默认端点
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"

	OpenRouterChatURL = "https://openrouter.ai/api/v1/chat/completions"
	OpenAIChatURL     = "https://api.openai.com/v1/chat/completions"
)

// Client 生成上下文：持有一个 Strategy 与默认选项，应用代码只持有它
type Client struct {
	strategy Strategy
	defaults GenerateOptions
}

// NewClient 创建 Client
func NewClient(strategy Strategy, defaults GenerateOptions) *Client {
	return &Client{strategy: strategy, defaults: defaults}
}

// Strategy 返回当前策略
func (c *Client) Strategy() Strategy { return c.strategy }

// Generate 合并默认选项（调用时的值优先）后生成文本
func (c *Client) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	return c.strategy.Generate(ctx, prompt, c.defaults.Merge(options))
}

// NewProviderClient 按 provider 名称创建 Client；endpoint 为空时使用该 provider 的默认端点
func NewProviderClient(provider, model, apiKey, endpoint string, prompts *Prompts, opts ...transport.Option) (*Client, error) {
	name := strings.ToLower(provider)
	var defaultURL string
	switch name {
	case ProviderOpenRouter:
		defaultURL = OpenRouterChatURL
	case ProviderOpenAI:
		defaultURL = OpenAIChatURL
	default:
		return nil, apperrors.UnsupportedProvider("llm", provider)
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultURL
	}
	strategy, err := newChatStrategy(name, apiKey, model, endpoint, prompts, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(strategy, GenerateOptions{}), nil
}
