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
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// 向量化 provider 名称
const (
	ProviderYandex = "yandex"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
	ProviderHF     = "hf"
	ProviderOllama = "ollama"
)

// Embedder 向量化上下文：持有一个 Strategy 与默认选项，应用代码只持有它
type Embedder struct {
	strategy Strategy
	defaults Options
}

// NewEmbedder 创建 Embedder
func NewEmbedder(strategy Strategy, defaults Options) *Embedder {
	return &Embedder{strategy: strategy, defaults: defaults}
}

// Strategy 返回当前策略
func (e *Embedder) Strategy() Strategy { return e.strategy }

// EmbedShort 合并默认选项（调用时的值优先）后嵌入查询文本
func (e *Embedder) EmbedShort(ctx context.Context, text string, opts Options) ([]float64, error) {
	return e.strategy.EmbedShort(ctx, text, e.defaults.Merge(opts))
}

// EmbedLong 合并默认选项（调用时的值优先）后嵌入文档文本
func (e *Embedder) EmbedLong(ctx context.Context, text string, opts Options) ([]float64, error) {
	return e.strategy.EmbedLong(ctx, text, e.defaults.Merge(opts))
}

// CreateEmbedder 按 provider 名称创建 Embedder。
// apiKey：yandex 为 IAM token，openai 为 API key，本地模型不使用；
// model：yandex 为 folder id 或完整 URI，openai 为模型名，本地为模型标识。
func CreateEmbedder(ctx context.Context, apiKey, provider, model string, opts ...transport.Option) (*Embedder, error) {
	var (
		strategy Strategy
		err      error
	)
	switch strings.ToLower(provider) {
	case ProviderYandex:
		strategy, err = NewYandexStrategy(apiKey, model, opts...)
	case ProviderOpenAI:
		strategy, err = NewOpenAIStrategy(apiKey, model, OpenAIEmbeddingsURL, opts...)
	case ProviderLocal, ProviderHF, ProviderOllama:
		strategy, err = NewLocalStrategy(ctx, NewOllamaLoader(opts...), model)
	default:
		return nil, apperrors.UnsupportedProvider("embedder", provider)
	}
	if err != nil {
		return nil, err
	}
	return NewEmbedder(strategy, Options{}), nil
}
