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
	"fmt"
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// YandexEmbeddingURL Yandex Cloud Foundation Models 向量化端点
const YandexEmbeddingURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/textEmbedding"

// 由 folder id 推导默认模型 URI 的模板：查询用 / 文档用
const (
	yandexQueryModelTemplate = "emb://%s/text-search-query/latest"
	yandexDocModelTemplate   = "emb://%s/text-search-doc/latest"
)

var yandexModelPrefixes = []string{"emb://", "gpt://"}

// YandexStrategy 通过 Yandex Cloud 做向量化，短/长文本使用不同模型
type YandexStrategy struct {
	iamToken      string
	shortModelURI string
	longModelURI  string
	client        *transport.Client
}

// NewYandexStrategy 创建 Yandex 向量化策略。
// model 为完整模型 URI（emb:// 或 gpt://）时短/长共用；否则视为 folder id，按模板推导两个 URI。
func NewYandexStrategy(iamToken, model string, opts ...transport.Option) (*YandexStrategy, error) {
	if strings.TrimSpace(iamToken) == "" || strings.TrimSpace(model) == "" {
		return nil, apperrors.Configuration("yandex embedder requires iam token and folder id or model URI")
	}
	shortURI, longURI := YandexModelURIs(model)
	return &YandexStrategy{
		iamToken:      iamToken,
		shortModelURI: shortURI,
		longModelURI:  longURI,
		client:        transport.New("embedding", "yandex", YandexEmbeddingURL, opts...),
	}, nil
}

// YandexModelURIs 返回 (short, long) 模型 URI
func YandexModelURIs(model string) (string, string) {
	for _, prefix := range yandexModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return model, model
		}
	}
	return fmt.Sprintf(yandexQueryModelTemplate, model), fmt.Sprintf(yandexDocModelTemplate, model)
}

// ShortModelURI 查询用模型 URI
func (s *YandexStrategy) ShortModelURI() string { return s.shortModelURI }

// LongModelURI 文档用模型 URI
func (s *YandexStrategy) LongModelURI() string { return s.longModelURI }

// EmbedShort 实现 Strategy.EmbedShort
func (s *YandexStrategy) EmbedShort(ctx context.Context, text string, opts Options) ([]float64, error) {
	return s.embed(ctx, s.shortModelURI, text, opts)
}

// EmbedLong 实现 Strategy.EmbedLong
func (s *YandexStrategy) EmbedLong(ctx context.Context, text string, opts Options) ([]float64, error) {
	return s.embed(ctx, s.longModelURI, text, opts)
}

func (s *YandexStrategy) embed(ctx context.Context, modelURI, text string, opts Options) ([]float64, error) {
	// 仅透传 Extra；OpenAI 风格的命名字段该 API 不识别
	body := make(map[string]any, len(opts.Extra)+2)
	for k, v := range opts.Extra {
		body[k] = v
	}
	body["modelUri"] = modelURI
	body["text"] = text

	resp, err := s.client.Post(ctx, s.iamToken, body)
	if err != nil {
		return nil, fmt.Errorf("yandex embedding: %w", err)
	}
	return vector(resp.Get("embedding")), nil
}

var _ Strategy = (*YandexStrategy)(nil)
