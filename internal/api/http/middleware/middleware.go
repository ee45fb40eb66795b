package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
)

// RequestIDHeader 请求关联 ID
const RequestIDHeader = "X-Request-Id"

// Middleware 中间件管理器
type Middleware struct {
	apiKeys map[string]struct{}
}

// NewMiddleware 创建中间件管理器；apiKeys 为空时不做鉴权
func NewMiddleware(apiKeys []string) *Middleware {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	return &Middleware{apiKeys: keys}
}

// RequestID 透传或生成 X-Request-Id，并写回响应头
func (m *Middleware) RequestID() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id := string(c.Request.Header.Peek(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Response.Header.Set(RequestIDHeader, id)
		c.Next(ctx)
	}
}
