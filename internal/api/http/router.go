package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"

	"nlp-gateway/internal/api/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	handler    *Handler
	middleware *middleware.Middleware
}

// NewRouter 创建新的 HTTP 路由器
func NewRouter(handler *Handler, mw *middleware.Middleware) *Router {
	if mw == nil {
		mw = middleware.NewMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw}
}

// Build 创建 Hertz 实例并注册路由；opts 可附加 tracer 等服务端选项
func (r *Router) Build(addr string, opts ...config.Option) *server.Hertz {
	h := server.Default(append([]config.Option{server.WithHostPorts(addr)}, opts...)...)
	h.Use(r.middleware.RequestID())

	api := h.Group("/api")
	api.GET("/health", r.handler.HealthCheck)
	api.GET("/metrics", r.handler.Metrics)

	protected := api.Group("", r.middleware.RequireAPIKey())
	protected.POST("/generate", r.handler.Generate)
	protected.POST("/translate", r.handler.Translate)
	protected.POST("/embed", r.handler.Embed)

	return h
}
