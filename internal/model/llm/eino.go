package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	apperrors "nlp-gateway/pkg/errors"
)

// ProviderEino 经由 eino ChatModel 生成；endpoint 可为 base URL（https://openrouter.ai/api/v1）
// 或完整的 chat completions URL，后者会被还原为 base URL
const ProviderEino = "eino"

const chatCompletionsPath = "/chat/completions"

// EinoStrategy 以 eino ChatModel 作为生成后端，消息构造与推理段处理同 ChatStrategy
type EinoStrategy struct {
	chatModel model.BaseChatModel
	prompts   *Prompts
}

// NewEinoStrategy 包装任意 eino ChatModel
func NewEinoStrategy(chatModel model.BaseChatModel, prompts *Prompts) (*EinoStrategy, error) {
	if chatModel == nil {
		return nil, apperrors.Configuration("eino strategy requires a chat model")
	}
	if prompts == nil {
		prompts = NewPrompts(nil, "")
	}
	return &EinoStrategy{chatModel: chatModel, prompts: prompts}, nil
}

// NewEinoClient 使用 eino-ext OpenAI ChatModel 创建 Client；baseURL 为空时用 OpenAI 官方地址
func NewEinoClient(ctx context.Context, modelName, apiKey, baseURL string, prompts *Prompts) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(modelName) == "" {
		return nil, apperrors.Configuration("eino chat model requires api key and model")
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		Model:   modelName,
		APIKey:  apiKey,
		BaseURL: EinoBaseURL(baseURL),
	})
	if err != nil {
		return nil, fmt.Errorf("create eino chat model: %w", err)
	}
	strategy, err := NewEinoStrategy(chatModel, prompts)
	if err != nil {
		return nil, err
	}
	return NewClient(strategy, GenerateOptions{}), nil
}

// EinoBaseURL 去掉结尾的 /chat/completions，eino 客户端会自行拼接该路径
func EinoBaseURL(endpoint string) string {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(base, chatCompletionsPath)
}

// Generate 实现 Strategy.Generate；Extra 无对应的 eino 选项，忽略
func (s *EinoStrategy) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	system, err := s.prompts.Resolve(options.PromptName())
	if err != nil {
		return "", fmt.Errorf("eino generate: %w", err)
	}
	messages := make([]*schema.Message, 0, 2)
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	messages = append(messages, schema.UserMessage(prompt))

	out, err := s.chatModel.Generate(ctx, messages, modelOptions(options)...)
	if err != nil {
		return "", fmt.Errorf("eino generate: %w", err)
	}
	if out == nil {
		return "", nil
	}
	return StripReasoning(out.Content), nil
}

func modelOptions(o GenerateOptions) []model.Option {
	var opts []model.Option
	if o.Temperature != nil {
		opts = append(opts, model.WithTemperature(float32(*o.Temperature)))
	}
	if o.MaxTokens != 0 {
		opts = append(opts, model.WithMaxTokens(o.MaxTokens))
	}
	if o.TopP != nil {
		opts = append(opts, model.WithTopP(float32(*o.TopP)))
	}
	if len(o.Stop) > 0 {
		opts = append(opts, model.WithStop(o.Stop))
	}
	return opts
}

var _ Strategy = (*EinoStrategy)(nil)
