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

// Package transport 各 provider 共用的 JSON POST 客户端：Bearer 鉴权、请求 ID、span、指标与错误分类
package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"

	apperrors "nlp-gateway/pkg/errors"
	"nlp-gateway/pkg/log"
	"nlp-gateway/pkg/metrics"
	"nlp-gateway/pkg/tracing"
)

// RequestIDHeader 每次请求携带的关联 ID
const RequestIDHeader = "X-Request-Id"

// Option 配置 Client
type Option func(*settings)

type settings struct {
	httpClient *http.Client
	endpoint   string
	logger     *log.Logger
}

// WithHTTPClient 使用调用方的 http.Client（超时、代理等在此配置）
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithEndpoint 覆盖 provider 默认端点
func WithEndpoint(url string) Option {
	return func(s *settings) { s.endpoint = url }
}

// WithLogger 注入 Logger，默认丢弃
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Client 单个 provider 的 HTTP 客户端，不做重试
type Client struct {
	capability string
	provider   string
	endpoint   string
	client     *resty.Client
	logger     *log.Logger
}

// New 创建 Client；defaultEndpoint 在未通过 WithEndpoint 覆盖时使用
func New(capability, provider, defaultEndpoint string, opts ...Option) *Client {
	s := settings{endpoint: defaultEndpoint}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.Nop()
	}

	var rc *resty.Client
	if s.httpClient != nil {
		rc = resty.NewWithClient(s.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetRetryCount(0)

	return &Client{
		capability: capability,
		provider:   provider,
		endpoint:   s.endpoint,
		client:     rc,
		logger:     s.logger,
	}
}

// Endpoint 返回生效的端点
func (c *Client) Endpoint() string { return c.endpoint }

// Provider 返回 provider 名称
func (c *Client) Provider() string { return c.provider }

// Response 成功（2xx 且为合法 JSON）的响应
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Get 按 gjson 路径取字段，如 "data.0.embedding"
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Malformed 构造携带本响应诊断信息的 MalformedResponseError
func (r *Response) Malformed(err error) error {
	return &apperrors.MalformedResponseError{
		StatusCode:  r.StatusCode,
		ContentType: r.ContentType,
		Snippet:     apperrors.Snippet(r.Body, apperrors.SnippetLimit),
		Err:         err,
	}
}

// Post 向 Endpoint 发送 JSON body
func (c *Client) Post(ctx context.Context, token string, body interface{}) (*Response, error) {
	return c.PostTo(ctx, c.endpoint, token, body)
}

// PostPath 向 Endpoint + path 发送 JSON body（用于以 base URL 配置的 provider）
func (c *Client) PostPath(ctx context.Context, path, token string, body interface{}) (*Response, error) {
	return c.PostTo(ctx, strings.TrimRight(c.endpoint, "/")+path, token, body)
}

// PostTo 发送一次 JSON POST。token 为空时不带 Authorization 头。
// 非 2xx 返回 *TransportError；网络失败返回 *NetworkError；响应体不是 JSON 返回 *MalformedResponseError。
func (c *Client) PostTo(ctx context.Context, url, token string, body interface{}) (*Response, error) {
	requestID := uuid.NewString()
	ctx, span := tracing.StartProviderSpan(ctx, c.capability, c.provider, requestID)
	start := time.Now()

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(RequestIDHeader, requestID).
		SetBody(body)
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Post(url)
	elapsed := time.Since(start)
	metrics.ProviderRequestDuration.WithLabelValues(c.capability, c.provider).Observe(elapsed.Seconds())

	if err != nil {
		netErr := &apperrors.NetworkError{Op: "POST " + url, Err: err}
		c.finish(span, requestID, 0, elapsed, metrics.OutcomeNetwork, netErr)
		return nil, netErr
	}

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		httpErr := &apperrors.TransportError{
			StatusCode: status,
			Status:     resp.Status(),
			Body:       apperrors.Snippet(resp.Body(), apperrors.SnippetLimit),
		}
		c.finish(span, requestID, status, elapsed, metrics.OutcomeHTTPError, httpErr)
		return nil, httpErr
	}

	out := &Response{
		StatusCode:  status,
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}
	if !gjson.ValidBytes(out.Body) {
		malformed := out.Malformed(nil)
		c.finish(span, requestID, status, elapsed, metrics.OutcomeMalformed, malformed)
		return nil, malformed
	}

	c.finish(span, requestID, status, elapsed, metrics.OutcomeOK, nil)
	return out, nil
}

func (c *Client) finish(span trace.Span, requestID string, status int, elapsed time.Duration, outcome string, err error) {
	tracing.EndSpan(span, status, err)
	metrics.ProviderRequestTotal.WithLabelValues(c.capability, c.provider, outcome).Inc()
	attrs := []any{
		"capability", c.capability,
		"provider", c.provider,
		"request_id", requestID,
		"status", status,
		"duration", elapsed,
	}
	if err != nil {
		c.logger.Warn("provider request failed", append(attrs, "error", err)...)
		return
	}
	c.logger.Debug("provider request", attrs...)
}
