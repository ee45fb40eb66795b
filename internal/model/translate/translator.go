// Package translate 文本翻译：Translator 接口与 provider 工厂
package translate

import (
	"context"
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// ProviderYandex Yandex Cloud Translate
const ProviderYandex = "yandex"

// Translator 单条文本翻译
type Translator interface {
	// Translate 将 text 从 sourceLang 翻译为 targetLang（语言代码如 "ru"、"en"）
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// CreateTranslator 创建翻译器（目前只有 Yandex Cloud）
func CreateTranslator(token, folderID string, opts ...transport.Option) (Translator, error) {
	return NewYandexTranslator(token, folderID, opts...)
}

// NewTranslator 按配置中的 provider 名称创建翻译器
func NewTranslator(provider, token, folderID string, opts ...transport.Option) (Translator, error) {
	switch strings.ToLower(provider) {
	case ProviderYandex:
		return NewYandexTranslator(token, folderID, opts...)
	default:
		return nil, apperrors.UnsupportedProvider("translator", provider)
	}
}
