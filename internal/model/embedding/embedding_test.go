// Copyright 2026 fanjia1024
// Tests for embedding strategies, context and factory

package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlp-gateway/internal/model/transport"
	apperrors "nlp-gateway/pkg/errors"
)

// recorder 记录请求次数与最后一次请求体
type recorder struct {
	calls int32
	body  map[string]any
	auth  string
}

func newServer(t *testing.T, rec *recorder, status int, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rec.calls, 1)
		rec.auth = r.Header.Get("Authorization")
		rec.body = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYandexModelURIs(t *testing.T) {
	for _, folder := range []string{"folder123", "b1g", "x-y_z"} {
		short, long := YandexModelURIs(folder)
		assert.NotEqual(t, short, long)
		assert.Contains(t, short, folder)
		assert.Contains(t, long, folder)
	}

	short, long := YandexModelURIs("folder123")
	assert.Equal(t, "emb://folder123/text-search-query/latest", short)
	assert.Equal(t, "emb://folder123/text-search-doc/latest", long)

	for _, uri := range []string{"emb://f/custom/latest", "gpt://f/yandexgpt/latest"} {
		short, long := YandexModelURIs(uri)
		assert.Equal(t, uri, short)
		assert.Equal(t, uri, long)
	}
}

func TestNewYandexStrategy_RequiresTokenAndModel(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusOK, `{"embedding":[1]}`)

	_, err := NewYandexStrategy("", "folder", transport.WithEndpoint(srv.URL))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	_, err = NewYandexStrategy("tok", "  ", transport.WithEndpoint(srv.URL))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Equal(t, int32(0), atomic.LoadInt32(&rec.calls))
}

func TestYandexStrategy_ShortAndLongUseDifferentModels(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusOK, `{"embedding":[0.1,0.2,0.3],"numTokens":"2"}`)

	s, err := NewYandexStrategy("iam", "folder123", transport.WithEndpoint(srv.URL))
	require.NoError(t, err)

	vec, err := s.EmbedShort(context.Background(), "hello", Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "emb://folder123/text-search-query/latest", rec.body["modelUri"])
	assert.Equal(t, "hello", rec.body["text"])
	assert.Equal(t, "Bearer iam", rec.auth)

	_, err = s.EmbedLong(context.Background(), "a document", Options{Extra: map[string]any{"modelUri": "ignored", "dim": 8}})
	require.NoError(t, err)
	assert.Equal(t, "emb://folder123/text-search-doc/latest", rec.body["modelUri"])
	assert.Equal(t, float64(8), rec.body["dim"])
}

func TestYandexStrategy_MissingEmbeddingIsEmpty(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusOK, `{"numTokens":"0"}`)

	s, err := NewYandexStrategy("iam", "folder", transport.WithEndpoint(srv.URL))
	require.NoError(t, err)

	vec, err := s.EmbedShort(context.Background(), "x", Options{})
	require.NoError(t, err)
	assert.NotNil(t, vec)
	assert.Empty(t, vec)
}

func TestYandexStrategy_Non2xx(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusUnauthorized, `{"message":"bad token"}`)

	s, err := NewYandexStrategy("iam", "folder", transport.WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = s.EmbedLong(context.Background(), "x", Options{})
	require.Error(t, err)
	var te *apperrors.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	assert.Contains(t, err.Error(), "bad token")
}

func TestOpenAIStrategy_Embed(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusOK, `{"data":[{"embedding":[1,2]},{"embedding":[3]}]}`)

	s, err := NewOpenAIStrategy("key", "text-embedding-3-small", srv.URL)
	require.NoError(t, err)

	vec, err := s.EmbedShort(context.Background(), "q", Options{Dimensions: 2, Extra: map[string]any{"model": "override"}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vec)
	assert.Equal(t, "q", rec.body["input"])
	assert.Equal(t, "override", rec.body["model"])
	assert.Equal(t, float64(2), rec.body["dimensions"])

	long, err := s.EmbedLong(context.Background(), "doc", Options{})
	require.NoError(t, err)
	assert.Equal(t, vec, long)
	assert.Equal(t, "text-embedding-3-small", rec.body["model"])
}

func TestOpenAIStrategy_MissingDataIsMalformed(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusOK, `{"object":"list","data":[]}`)

	s, err := NewOpenAIStrategy("key", "m", srv.URL)
	require.NoError(t, err)

	_, err = s.EmbedShort(context.Background(), "q", Options{})
	assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)
}

func TestNewOpenAIStrategy_RequiresAllFields(t *testing.T) {
	_, err := NewOpenAIStrategy("key", "", "http://x")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	_, err = NewOpenAIStrategy("", "m", "http://x")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	_, err = NewOpenAIStrategy("key", "m", "")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

type fakeModel struct {
	calls []string
}

func (m *fakeModel) Encode(_ context.Context, text string) ([]float64, error) {
	m.calls = append(m.calls, text)
	return []float64{float64(len(text))}, nil
}

type countingLoader struct {
	loads int
	model *fakeModel
}

func (l *countingLoader) Load(_ context.Context, _ string) (LocalModel, error) {
	l.loads++
	return l.model, nil
}

func TestLocalStrategy_LongDelegatesToShort(t *testing.T) {
	loader := &countingLoader{model: &fakeModel{}}
	s, err := NewLocalStrategy(context.Background(), loader, "all-MiniLM-L6-v2")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.loads)
	assert.Equal(t, "all-MiniLM-L6-v2", s.ModelID())

	short, err := s.EmbedShort(context.Background(), "abc", Options{})
	require.NoError(t, err)
	long, err := s.EmbedLong(context.Background(), "abc", Options{Dimensions: 5})
	require.NoError(t, err)
	assert.Equal(t, short, long)
	assert.Equal(t, []string{"abc", "abc"}, loader.model.calls)
	assert.Equal(t, 1, loader.loads)
}

func TestLocalStrategy_MissingModelDoesNotLoad(t *testing.T) {
	loader := &countingLoader{model: &fakeModel{}}
	_, err := NewLocalStrategy(context.Background(), loader, "")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Equal(t, 0, loader.loads)
}

func TestOllamaLoader(t *testing.T) {
	var paths []string
	var last map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		last = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&last)
		switch r.URL.Path {
		case "/api/show":
			_, _ = w.Write([]byte(`{"modelfile":"FROM nomic"}`))
		case "/api/embeddings":
			_, _ = w.Write([]byte(`{"embedding":[0.25,0.75]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s, err := NewLocalStrategy(context.Background(), NewOllamaLoader(transport.WithEndpoint(srv.URL+"/")), "nomic-embed-text")
	require.NoError(t, err)

	vec, err := s.EmbedLong(context.Background(), "doc", Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, vec)
	assert.Equal(t, []string{"/api/show", "/api/embeddings"}, paths)
	assert.Equal(t, "nomic-embed-text", last["model"])
	assert.Equal(t, "doc", last["prompt"])
}

func TestOllamaLoader_UnknownModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	_, err := NewLocalStrategy(context.Background(), NewOllamaLoader(transport.WithEndpoint(srv.URL)), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.True(t, strings.Contains(err.Error(), "missing"))
}

func TestOptionsMerge(t *testing.T) {
	base := Options{Dimensions: 256, User: "u1", Extra: map[string]any{"a": 1, "b": 2}}
	override := Options{User: "u2", Extra: map[string]any{"b": 3}}

	merged := base.Merge(override)
	assert.Equal(t, 256, merged.Dimensions)
	assert.Equal(t, "u2", merged.User)
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, merged.Extra)
	assert.Equal(t, 2, base.Extra["b"])

	fields := Options{Dimensions: 8, Extra: map[string]any{"dimensions": 4, "x": true}}.Fields()
	assert.Equal(t, 8, fields["dimensions"])
	assert.Equal(t, true, fields["x"])
}

type stubStrategy struct {
	short, long []Options
}

func (s *stubStrategy) EmbedShort(_ context.Context, _ string, opts Options) ([]float64, error) {
	s.short = append(s.short, opts)
	return []float64{1}, nil
}

func (s *stubStrategy) EmbedLong(_ context.Context, _ string, opts Options) ([]float64, error) {
	s.long = append(s.long, opts)
	return []float64{2}, nil
}

func TestEmbedder_MergesDefaults(t *testing.T) {
	stub := &stubStrategy{}
	e := NewEmbedder(stub, Options{Dimensions: 128, EncodingFormat: "float"})
	assert.Same(t, stub, e.Strategy())

	_, err := e.EmbedShort(context.Background(), "q", Options{Dimensions: 64})
	require.NoError(t, err)
	_, err = e.EmbedLong(context.Background(), "d", Options{})
	require.NoError(t, err)

	require.Len(t, stub.short, 1)
	assert.Equal(t, 64, stub.short[0].Dimensions)
	assert.Equal(t, "float", stub.short[0].EncodingFormat)
	require.Len(t, stub.long, 1)
	assert.Equal(t, 128, stub.long[0].Dimensions)
}

func TestCreateEmbedder_Yandex(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, http.StatusOK, `{"embedding":[0.5]}`)

	e, err := CreateEmbedder(context.Background(), "token", "yandex", "folder123", transport.WithEndpoint(srv.URL))
	require.NoError(t, err)
	require.IsType(t, &YandexStrategy{}, e.Strategy())

	vec, err := e.EmbedShort(context.Background(), "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, vec)
	assert.Equal(t, "emb://folder123/text-search-query/latest", rec.body["modelUri"])
	assert.Equal(t, "hi", rec.body["text"])
}

func TestCreateEmbedder_Providers(t *testing.T) {
	e, err := CreateEmbedder(context.Background(), "key", "OpenAI", "text-embedding-3-small")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIStrategy{}, e.Strategy())

	_, err = CreateEmbedder(context.Background(), "key", "cohere", "m")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedProvider)

	_, err = CreateEmbedder(context.Background(), "", "yandex", "folder")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestEinoAdapter(t *testing.T) {
	stub := &stubStrategy{}
	e := NewEmbedder(stub, Options{})

	vecs, err := NewEinoAdapter(e, KindDocument).EmbedStrings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {2}}, vecs)
	assert.Len(t, stub.long, 2)

	vecs, err = NewEinoAdapter(e, KindQuery).EmbedStrings(context.Background(), []string{"q"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}}, vecs)

	vecs, err = NewEinoAdapter(e, KindQuery).EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}
