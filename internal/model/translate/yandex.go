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

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// YandexTranslateURL Yandex Cloud Translate v2 端点
const YandexTranslateURL = "https://translate.api.cloud.yandex.net/translate/v2/translate"

// YandexTranslator 通过 Yandex Cloud Translate v2 翻译
type YandexTranslator struct {
	token    string
	folderID string
	client   *transport.Client
}

// NewYandexTranslator 创建翻译器；token（OAuth/IAM）与 folderID 均必填
func NewYandexTranslator(token, folderID string, opts ...transport.Option) (*YandexTranslator, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(folderID) == "" {
		return nil, apperrors.Configuration("yandex translator requires token and folder id")
	}
	return &YandexTranslator{
		token:    token,
		folderID: folderID,
		client:   transport.New("translation", ProviderYandex, YandexTranslateURL, opts...),
	}, nil
}

// FolderID 返回 folder id
func (t *YandexTranslator) FolderID() string { return t.folderID }

// Translate 实现 Translator
func (t *YandexTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	resp, err := t.client.Post(ctx, t.token, map[string]interface{}{
		"folderId":           t.folderID,
		"texts":              []string{text},
		"sourceLanguageCode": sourceLang,
		"targetLanguageCode": targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("yandex translate: %w", err)
	}
	translated := resp.Get("translations.0.text")
	if !translated.Exists() {
		return "", fmt.Errorf("yandex translate: %w", resp.Malformed(errors.New("missing translations[0].text")))
	}
	return translated.String(), nil
}

var _ Translator = (*YandexTranslator)(nil)
