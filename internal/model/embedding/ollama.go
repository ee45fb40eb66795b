package embedding

import (
	"context"
	"errors"
	"fmt"

	"nlp-gateway/internal/model/transport"
)

// DefaultOllamaURL 本地 Ollama 运行时默认地址
const DefaultOllamaURL = "http://localhost:11434"

// OllamaLoader 以本机 Ollama 作为本地模型运行时：
//   - POST /api/show      ：加载时确认模型已拉取到本地
//   - POST /api/embeddings：单条文本编码
type OllamaLoader struct {
	client *transport.Client
}

// NewOllamaLoader 创建 loader，WithEndpoint 可覆盖默认地址
func NewOllamaLoader(opts ...transport.Option) *OllamaLoader {
	return &OllamaLoader{client: transport.New("embedding", "local", DefaultOllamaURL, opts...)}
}

// Load 实现 ModelLoader
func (l *OllamaLoader) Load(ctx context.Context, modelID string) (LocalModel, error) {
	if _, err := l.client.PostPath(ctx, "/api/show", "", map[string]any{"model": modelID}); err != nil {
		return nil, err
	}
	return &ollamaModel{client: l.client, modelID: modelID}, nil
}

type ollamaModel struct {
	client  *transport.Client
	modelID string
}

func (m *ollamaModel) Encode(ctx context.Context, text string) ([]float64, error) {
	resp, err := m.client.PostPath(ctx, "/api/embeddings", "", map[string]any{
		"model":  m.modelID,
		"prompt": text,
	})
	if err != nil {
		return nil, err
	}
	embedding := resp.Get("embedding")
	if !embedding.IsArray() {
		return nil, fmt.Errorf("ollama: %w", resp.Malformed(errors.New("missing embedding")))
	}
	return vector(embedding), nil
}

var _ ModelLoader = (*OllamaLoader)(nil)
