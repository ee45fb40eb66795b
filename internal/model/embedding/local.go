package embedding

import (
	"context"
	"fmt"
	"strings"

	apperrors "nlp-gateway/pkg/errors"
)

// LocalModel 已加载的本地嵌入模型，同步编码
type LocalModel interface {
	Encode(ctx context.Context, text string) ([]float64, error)
}

// ModelLoader 按标识加载本地模型（可能很慢，只在构造时调用一次）
type ModelLoader interface {
	Load(ctx context.Context, modelID string) (LocalModel, error)
}

// LocalStrategy 使用本地模型做向量化。
// EmbedLong 直接复用 EmbedShort，不对长文档分块；超出模型上下文的部分由运行时自行截断。
type LocalStrategy struct {
	modelID string
	model   LocalModel
}

// NewLocalStrategy 加载模型并创建策略
func NewLocalStrategy(ctx context.Context, loader ModelLoader, modelID string) (*LocalStrategy, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, apperrors.Configuration("local embedder requires a model identifier")
	}
	if loader == nil {
		return nil, apperrors.Configuration("local embedder requires a model loader")
	}
	model, err := loader.Load(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("load local model %q: %w", modelID, err)
	}
	return &LocalStrategy{modelID: modelID, model: model}, nil
}

// ModelID 返回模型标识
func (s *LocalStrategy) ModelID() string { return s.modelID }

// EmbedShort 实现 Strategy.EmbedShort；本地模型不识别任何选项
func (s *LocalStrategy) EmbedShort(ctx context.Context, text string, _ Options) ([]float64, error) {
	vec, err := s.model.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("local embedding: %w", err)
	}
	return vec, nil
}

// EmbedLong 实现 Strategy.EmbedLong
func (s *LocalStrategy) EmbedLong(ctx context.Context, text string, opts Options) ([]float64, error) {
	return s.EmbedShort(ctx, text, opts)
}

var _ Strategy = (*LocalStrategy)(nil)
