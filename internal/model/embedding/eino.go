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

	einoembed "github.com/cloudwego/eino/components/embedding"
)

// Kind 选择 eino 适配器走查询模型还是文档模型
type Kind int

const (
	// KindQuery 使用 EmbedShort（检索时的查询）
	KindQuery Kind = iota
	// KindDocument 使用 EmbedLong（入库时的文档）
	KindDocument
)

// EinoAdapter 将 Embedder 适配为 eino/components/embedding.Embedder（EmbedStrings）
type EinoAdapter struct {
	embedder *Embedder
	kind     Kind
}

// NewEinoAdapter 创建 Eino Embedder 适配器
func NewEinoAdapter(embedder *Embedder, kind Kind) *EinoAdapter {
	return &EinoAdapter{embedder: embedder, kind: kind}
}

// EmbedStrings 实现 eino/components/embedding.Embedder，逐条调用，忽略 eino 选项
func (a *EinoAdapter) EmbedStrings(ctx context.Context, texts []string, _ ...einoembed.Option) ([][]float64, error) {
	if a.embedder == nil || len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		var (
			vec []float64
			err error
		)
		if a.kind == KindDocument {
			vec, err = a.embedder.EmbedLong(ctx, text, Options{})
		} else {
			vec, err = a.embedder.EmbedShort(ctx, text, Options{})
		}
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Ensure *EinoAdapter 实现 einoembed.Embedder
var _ einoembed.Embedder = (*EinoAdapter)(nil)
