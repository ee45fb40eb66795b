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

package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"nlp-gateway/internal/model/embedding"
	"nlp-gateway/internal/model/llm"
	"nlp-gateway/internal/model/transport"
	"nlp-gateway/internal/model/translate"
	"nlp-gateway/pkg/config"
	apperrors "nlp-gateway/pkg/errors"
)

// Set 进程内的模型集合，启动时按配置构造一次；provider 为空的能力对应成员为 nil
type Set struct {
	LLM        *llm.Client
	Embedder   *embedding.Embedder
	Translator translate.Translator
	Prompts    *llm.Prompts
}

// NewSet 按配置构造 LLM、Embedding、Translation；opts 传给每个 provider 的 transport（HTTP 客户端、日志等）
func NewSet(ctx context.Context, cfg *config.Config, opts ...transport.Option) (*Set, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: model set requires config", apperrors.ErrInvalidArg)
	}
	set := &Set{Prompts: NewPrompts(cfg.Prompts)}

	if cfg.LLM.Provider != "" {
		defaults, err := GenerateDefaults(cfg.LLM.Options)
		if err != nil {
			return nil, apperrors.Wrap(err, "llm options")
		}
		var client *llm.Client
		if strings.EqualFold(cfg.LLM.Provider, llm.ProviderEino) {
			client, err = llm.NewEinoClient(ctx, cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.Endpoint, set.Prompts)
		} else {
			client, err = llm.NewProviderClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.Endpoint, set.Prompts, opts...)
		}
		if err != nil {
			return nil, apperrors.Wrap(err, "create llm")
		}
		set.LLM = llm.NewClient(client.Strategy(), defaults)
	}

	if cfg.Embedding.Provider != "" {
		defaults, err := EmbeddingDefaults(cfg.Embedding.Options)
		if err != nil {
			return nil, apperrors.Wrap(err, "embedding options")
		}
		embedOpts := withEndpoint(opts, cfg.Embedding.Endpoint)
		e, err := embedding.CreateEmbedder(ctx, cfg.Embedding.APIKey, cfg.Embedding.Provider, cfg.Embedding.Model, embedOpts...)
		if err != nil {
			return nil, apperrors.Wrap(err, "create embedder")
		}
		set.Embedder = embedding.NewEmbedder(e.Strategy(), defaults)
	}

	if cfg.Translation.Provider != "" {
		tr, err := translate.NewTranslator(cfg.Translation.Provider, cfg.Translation.Token, cfg.Translation.FolderID,
			withEndpoint(opts, cfg.Translation.Endpoint)...)
		if err != nil {
			return nil, apperrors.Wrap(err, "create translator")
		}
		set.Translator = tr
	}

	return set, nil
}

// NewPrompts 由配置构造系统提示注册表：inline 提示加上 default
func NewPrompts(cfg config.PromptsConfig) *llm.Prompts {
	initial := make(map[string]string, len(cfg.Inline)+1)
	for name, text := range cfg.Inline {
		initial[name] = text
	}
	if cfg.Default != "" {
		initial[llm.DefaultPromptName] = cfg.Default
	}
	return llm.NewPrompts(initial, cfg.Dir)
}

// GenerateDefaults 把配置中的 llm.options 转为默认 GenerateOptions；未识别的 key 放入 Extra
func GenerateDefaults(options map[string]any) (llm.GenerateOptions, error) {
	var out llm.GenerateOptions
	for key, value := range options {
		switch key {
		case "system_prompt":
			out.SystemPromptName = cast.ToString(value)
		case "temperature":
			f, err := cast.ToFloat64E(value)
			if err != nil {
				return out, apperrors.Wrap(err, key)
			}
			out.Temperature = llm.Float(f)
		case "top_p":
			f, err := cast.ToFloat64E(value)
			if err != nil {
				return out, apperrors.Wrap(err, key)
			}
			out.TopP = llm.Float(f)
		case "max_tokens":
			n, err := cast.ToIntE(value)
			if err != nil {
				return out, apperrors.Wrap(err, key)
			}
			out.MaxTokens = n
		case "stop":
			stop, err := cast.ToStringSliceE(value)
			if err != nil {
				return out, apperrors.Wrap(err, key)
			}
			out.Stop = stop
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[key] = value
		}
	}
	return out, nil
}

// EmbeddingDefaults 把配置中的 embedding.options 转为默认 Options；未识别的 key 放入 Extra
func EmbeddingDefaults(options map[string]any) (embedding.Options, error) {
	var out embedding.Options
	for key, value := range options {
		switch key {
		case "dimensions":
			n, err := cast.ToIntE(value)
			if err != nil {
				return out, apperrors.Wrap(err, key)
			}
			out.Dimensions = n
		case "encoding_format":
			out.EncodingFormat = cast.ToString(value)
		case "user":
			out.User = cast.ToString(value)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[key] = value
		}
	}
	return out, nil
}

func withEndpoint(opts []transport.Option, endpoint string) []transport.Option {
	if endpoint == "" {
		return opts
	}
	out := make([]transport.Option, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, transport.WithEndpoint(endpoint))
}
