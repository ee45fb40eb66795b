package llm

import (
	"context"
)

// DefaultPromptName 未指定系统提示名时使用的名称
const DefaultPromptName = "default"

// Strategy 文本生成能力
type Strategy interface {
	// Generate 以单条用户消息生成文本
	Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error)
}

// GenerateOptions 生成选项；指针字段为 nil 时不写入请求体
type GenerateOptions struct {
	SystemPromptName string         `json:"-"` // 空则使用 "default"
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxTokens        int            `json:"max_tokens,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	Stop             []string       `json:"stop,omitempty"`
	Extra            map[string]any `json:"-"` // 其余 provider 特定字段，原样透传
}

// Merge 以 override 覆盖 o：已设置的字段替换，Extra 按 key 合并（override 优先），不修改入参
func (o GenerateOptions) Merge(override GenerateOptions) GenerateOptions {
	out := o
	if override.SystemPromptName != "" {
		out.SystemPromptName = override.SystemPromptName
	}
	if override.Temperature != nil {
		out.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		out.MaxTokens = override.MaxTokens
	}
	if override.TopP != nil {
		out.TopP = override.TopP
	}
	if override.Stop != nil {
		out.Stop = override.Stop
	}
	if len(o.Extra) > 0 || len(override.Extra) > 0 {
		out.Extra = make(map[string]any, len(o.Extra)+len(override.Extra))
		for k, v := range o.Extra {
			out.Extra[k] = v
		}
		for k, v := range override.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// PromptName 返回生效的系统提示名
func (o GenerateOptions) PromptName() string {
	if o.SystemPromptName == "" {
		return DefaultPromptName
	}
	return o.SystemPromptName
}

// Fields 展开为请求体字段：先 Extra，再命名字段
func (o GenerateOptions) Fields() map[string]any {
	fields := make(map[string]any, len(o.Extra)+4)
	for k, v := range o.Extra {
		fields[k] = v
	}
	if o.Temperature != nil {
		fields["temperature"] = *o.Temperature
	}
	if o.MaxTokens != 0 {
		fields["max_tokens"] = o.MaxTokens
	}
	if o.TopP != nil {
		fields["top_p"] = *o.TopP
	}
	if len(o.Stop) > 0 {
		fields["stop"] = o.Stop
	}
	return fields
}

// Float 返回 v 的指针，便于设置 Temperature/TopP
func Float(v float64) *float64 { return &v }

// Message 聊天消息
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}
