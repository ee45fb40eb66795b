package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"nlp-gateway/internal/model"
	"nlp-gateway/internal/model/embedding"
	"nlp-gateway/internal/model/llm"
	apperrors "nlp-gateway/pkg/errors"
	"nlp-gateway/pkg/log"
)

const (
	defaultPipelinePrompt = "custom"
	defaultPipelineQuery  = "Расскажи о погоде в Праге."
)

// runPipeline 生成 → 翻译（ru→en）→ 短/长向量化。
// 生成阶段的网络失败（如 chunked 响应中断）视为空回答继续，其余错误直接返回。
func runPipeline(ctx context.Context, set *model.Set, logger *log.Logger, w io.Writer, query, promptName string) error {
	if set.LLM == nil || set.Translator == nil || set.Embedder == nil {
		return fmt.Errorf("pipeline requires llm, translation and embedding providers")
	}

	if promptName != "" {
		text, err := set.Prompts.Load(promptName)
		if err != nil {
			return err
		}
		if text != "" {
			set.Prompts.Set(promptName, text)
		}
	}

	answer, err := set.LLM.Generate(ctx, query, llm.GenerateOptions{SystemPromptName: promptName})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNetwork) {
			return err
		}
		logger.Warn("llm response interrupted, continuing with empty answer", "error", err)
		answer = ""
	}
	fmt.Fprintf(w, "LLM answer (ru): %s\n", answer)

	translated, err := set.Translator.Translate(ctx, answer, "ru", "en")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Translation (en): %s\n", translated)

	short, err := set.Embedder.EmbedShort(ctx, translated, embedding.Options{})
	if err != nil {
		return err
	}
	long, err := set.Embedder.EmbedLong(ctx, translated, embedding.Options{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Embed short len=%d\n", len(short))
	fmt.Fprintf(w, "Embed long len=%d\n", len(long))
	return nil
}
