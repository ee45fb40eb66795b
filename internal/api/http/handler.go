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

package http

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"nlp-gateway/internal/model"
	"nlp-gateway/internal/model/embedding"
	"nlp-gateway/internal/model/llm"
	apperrors "nlp-gateway/pkg/errors"
	"nlp-gateway/pkg/metrics"
)

// Handler HTTP 处理器，所有能力都委托给 model.Set
type Handler struct {
	set *model.Set
}

// NewHandler 创建新的 HTTP 处理器
func NewHandler(set *model.Set) *Handler {
	if set == nil {
		set = &model.Set{}
	}
	return &Handler{set: set}
}

// GenerateRequest POST /api/generate
type GenerateRequest struct {
	Prompt       string         `json:"prompt"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
	Temperature  *float64       `json:"temperature,omitempty"`
	MaxTokens    int            `json:"max_tokens,omitempty"`
	TopP         *float64       `json:"top_p,omitempty"`
	Stop         []string       `json:"stop,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// TranslateRequest POST /api/translate
type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EmbedRequest POST /api/embed
type EmbedRequest struct {
	Text           string         `json:"text"`
	Kind           string         `json:"kind,omitempty"` // short（默认）| long
	Dimensions     int            `json:"dimensions,omitempty"`
	EncodingFormat string         `json:"encoding_format,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// HealthCheck 健康检查，列出已配置的能力
func (h *Handler) HealthCheck(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "nlp-gateway",
		"capabilities": map[string]bool{
			"llm":         h.set.LLM != nil,
			"translation": h.set.Translator != nil,
			"embedding":   h.set.Embedder != nil,
		},
	})
}

// Generate 文本生成
func (h *Handler) Generate(c context.Context, ctx *app.RequestContext) {
	if h.set.LLM == nil {
		notConfigured(ctx, "llm")
		return
	}
	var req GenerateRequest
	if err := ctx.BindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		badRequest(ctx, "prompt is required")
		return
	}
	if req.SystemPrompt != "" && !llm.ValidPromptName(req.SystemPrompt) {
		badRequest(ctx, "system_prompt must be a plain prompt name")
		return
	}

	text, err := h.set.LLM.Generate(c, req.Prompt, llm.GenerateOptions{
		SystemPromptName: req.SystemPrompt,
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		Stop:             req.Stop,
		Extra:            req.Extra,
	})
	if err != nil {
		writeError(c, ctx, "generate", err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"text": text})
}

// Translate 文本翻译
func (h *Handler) Translate(c context.Context, ctx *app.RequestContext) {
	if h.set.Translator == nil {
		notConfigured(ctx, "translation")
		return
	}
	var req TranslateRequest
	if err := ctx.BindJSON(&req); err != nil || req.Source == "" || req.Target == "" {
		badRequest(ctx, "text, source and target are required")
		return
	}

	text, err := h.set.Translator.Translate(c, req.Text, req.Source, req.Target)
	if err != nil {
		writeError(c, ctx, "translate", err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"text": text})
}

// Embed 文本向量化
func (h *Handler) Embed(c context.Context, ctx *app.RequestContext) {
	if h.set.Embedder == nil {
		notConfigured(ctx, "embedding")
		return
	}
	var req EmbedRequest
	if err := ctx.BindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body")
		return
	}
	opts := embedding.Options{Dimensions: req.Dimensions, EncodingFormat: req.EncodingFormat, Extra: req.Extra}

	var (
		vec []float64
		err error
	)
	switch req.Kind {
	case "", "short":
		vec, err = h.set.Embedder.EmbedShort(c, req.Text, opts)
	case "long":
		vec, err = h.set.Embedder.EmbedLong(c, req.Text, opts)
	default:
		badRequest(ctx, "kind must be short or long")
		return
	}
	if err != nil {
		writeError(c, ctx, "embed", err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"embedding": vec,
		"dim":       len(vec),
	})
}

// Metrics Prometheus 文本格式指标
func (h *Handler) Metrics(c context.Context, ctx *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		ctx.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	ctx.Data(consts.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
}

// StatusFor 把 provider 错误映射为 HTTP 状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArg):
		return consts.StatusBadRequest
	case errors.Is(err, apperrors.ErrConfiguration), errors.Is(err, apperrors.ErrUnsupportedProvider):
		return consts.StatusInternalServerError
	case errors.Is(err, apperrors.ErrNetwork):
		return consts.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrTransport), errors.Is(err, apperrors.ErrMalformedResponse):
		return consts.StatusBadGateway
	default:
		return consts.StatusInternalServerError
	}
}

func writeError(c context.Context, ctx *app.RequestContext, op string, err error) {
	hlog.CtxErrorf(c, "%s failed: %v", op, err)
	body := map[string]interface{}{"error": err.Error()}
	var te *apperrors.TransportError
	if errors.As(err, &te) {
		body["upstream_status"] = te.StatusCode
	}
	ctx.JSON(StatusFor(err), body)
}

func badRequest(ctx *app.RequestContext, msg string) {
	ctx.JSON(consts.StatusBadRequest, map[string]string{"error": msg})
}

func notConfigured(ctx *app.RequestContext, capability string) {
	ctx.JSON(consts.StatusServiceUnavailable, map[string]string{
		"error": capability + " provider is not configured",
	})
}
