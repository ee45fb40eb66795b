package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

func TestYandexTranslator_Translate(t *testing.T) {
	var body map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"text":"Hello, world!","detectedLanguageCode":"ru"}]}`))
	}))
	defer srv.Close()

	tr, err := CreateTranslator("oauth", "folder1", transport.WithEndpoint(srv.URL))
	require.NoError(t, err)

	out, err := tr.Translate(context.Background(), "Привет, мир!", "ru", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", out)

	assert.Equal(t, "Bearer oauth", auth)
	assert.Equal(t, "folder1", body["folderId"])
	assert.Equal(t, []any{"Привет, мир!"}, body["texts"])
	assert.Equal(t, "ru", body["sourceLanguageCode"])
	assert.Equal(t, "en", body["targetLanguageCode"])
}

func TestYandexTranslator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"forbidden", http.StatusForbidden, `{"message":"permission denied"}`, apperrors.ErrTransport},
		{"no translations", http.StatusOK, `{"translations":[]}`, apperrors.ErrMalformedResponse},
		{"html", http.StatusOK, `<html>oops</html>`, apperrors.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr, err := NewYandexTranslator("oauth", "folder", transport.WithEndpoint(srv.URL))
			require.NoError(t, err)
			_, err = tr.Translate(context.Background(), "x", "ru", "en")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNewTranslator(t *testing.T) {
	tr, err := NewTranslator("Yandex", "tok", "folder")
	require.NoError(t, err)
	assert.Equal(t, "folder", tr.(*YandexTranslator).FolderID())

	_, err = NewTranslator("deepl", "tok", "folder")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedProvider)

	_, err = CreateTranslator("tok", "")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	_, err = CreateTranslator("", "folder")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}
