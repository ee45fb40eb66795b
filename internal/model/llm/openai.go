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

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// ChatStrategy OpenAI 兼容 chat completions 生成（OpenRouter、OpenAI 等）
type ChatStrategy struct {
	provider string
	model    string
	apiKey   string
	prompts  *Prompts
	client   *transport.Client
}

// NewChatStrategy 创建 chat completions 策略；apiKey、model、endpoint 均必填，prompts 为 nil 时使用空注册表
func NewChatStrategy(apiKey, model, endpoint string, prompts *Prompts, opts ...transport.Option) (*ChatStrategy, error) {
	return newChatStrategy("chat", apiKey, model, endpoint, prompts, opts...)
}

func newChatStrategy(provider, apiKey, model, endpoint string, prompts *Prompts, opts ...transport.Option) (*ChatStrategy, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(model) == "" || strings.TrimSpace(endpoint) == "" {
		return nil, apperrors.Configuration("chat strategy requires api key, model and endpoint")
	}
	if prompts == nil {
		prompts = NewPrompts(nil, "")
	}
	return &ChatStrategy{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		prompts:  prompts,
		client:   transport.New("llm", provider, endpoint, opts...),
	}, nil
}

// Model 返回模型名称
func (s *ChatStrategy) Model() string { return s.model }

// Provider 返回提供商名称
func (s *ChatStrategy) Provider() string { return s.provider }

// Endpoint 返回生效的端点
func (s *ChatStrategy) Endpoint() string { return s.client.Endpoint() }

// Prompts 返回系统提示注册表
func (s *ChatStrategy) Prompts() *Prompts { return s.prompts }

// Messages 构造请求消息：解析到非空系统提示时在用户消息前加 system 消息
func (s *ChatStrategy) Messages(prompt string, options GenerateOptions) ([]Message, error) {
	system, err := s.prompts.Resolve(options.PromptName())
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	return append(messages, Message{Role: "user", Content: prompt}), nil
}

// Generate 实现 Strategy.Generate，返回去掉推理段后的回复文本
func (s *ChatStrategy) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	messages, err := s.Messages(prompt, options)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", s.provider, err)
	}

	request := map[string]interface{}{
		"model":    s.model,
		"messages": messages,
	}
	for k, v := range options.Fields() {
		request[k] = v
	}

	resp, err := s.client.Post(ctx, s.apiKey, request)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", s.provider, err)
	}

	content := resp.Get("choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%s generate: %w", s.provider, resp.Malformed(errors.New("missing choices[0].message.content")))
	}
	return StripReasoning(content.String()), nil
}

var _ Strategy = (*ChatStrategy)(nil)
