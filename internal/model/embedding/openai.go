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

package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// OpenAIEmbeddingsURL OpenAI 官方 embeddings 端点
const OpenAIEmbeddingsURL = "https://api.openai.com/v1/embeddings"

// OpenAIStrategy OpenAI 兼容的单端点向量化（OpenAI、OpenRouter 等），短/长文本请求完全相同
type OpenAIStrategy struct {
	apiKey string
	model  string
	client *transport.Client
}

// NewOpenAIStrategy 创建 OpenAI 兼容向量化策略，apiKey、model、endpoint 均必填
func NewOpenAIStrategy(apiKey, model, endpoint string, opts ...transport.Option) (*OpenAIStrategy, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(model) == "" || strings.TrimSpace(endpoint) == "" {
		return nil, apperrors.Configuration("openai embedder requires api key, model and endpoint")
	}
	return &OpenAIStrategy{
		apiKey: apiKey,
		model:  model,
		client: transport.New("embedding", "openai", endpoint, opts...),
	}, nil
}

// Model 返回模型名称
func (s *OpenAIStrategy) Model() string { return s.model }

// EmbedShort 实现 Strategy.EmbedShort
func (s *OpenAIStrategy) EmbedShort(ctx context.Context, text string, opts Options) ([]float64, error) {
	return s.embed(ctx, text, opts)
}

// EmbedLong 实现 Strategy.EmbedLong，与 EmbedShort 相同
func (s *OpenAIStrategy) EmbedLong(ctx context.Context, text string, opts Options) ([]float64, error) {
	return s.embed(ctx, text, opts)
}

func (s *OpenAIStrategy) embed(ctx context.Context, text string, opts Options) ([]float64, error) {
	body := map[string]any{
		"model": s.model,
		"input": text,
	}
	// 选项最后展开，可按次覆盖 model
	for k, v := range opts.Fields() {
		body[k] = v
	}

	resp, err := s.client.Post(ctx, s.apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	embedding := resp.Get("data.0.embedding")
	if !embedding.IsArray() {
		return nil, fmt.Errorf("openai embedding: %w", resp.Malformed(errors.New("missing data[0].embedding")))
	}
	return vector(embedding), nil
}

var _ Strategy = (*OpenAIStrategy)(nil)
