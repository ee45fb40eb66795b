package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"
	"github.com/hertz-contrib/obs-opentelemetry/provider"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"nlp-gateway/internal/api/http"
	"nlp-gateway/internal/api/http/middleware"
	"nlp-gateway/internal/app"
	"nlp-gateway/pkg/config"
)

// otelProviderShutdown 用于优雅关闭时关闭 OpenTelemetry provider
type otelProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

func main() {
	configPath := pflag.String("config", "", "配置文件路径（默认 configs/nlp.yaml，不存在时仅用环境变量）")
	envFile := pflag.String("env", ".env", "启动前加载的 .env 文件")
	pflag.Parse()

	ctx := context.Background()
	cfg, err := app.LoadConfig(*configPath, *envFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	bootstrap, err := app.NewBootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	if err := setHertzLogger(cfg.Log); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	router := http.NewRouter(http.NewHandler(bootstrap.Models), middleware.NewMiddleware(cfg.API.Keys))

	// 链路追踪（OpenTelemetry）：provider 设为全局 TracerProvider，服务端 span 与 provider 调用 span 一并导出
	var otelProvider otelProviderShutdown
	var h *server.Hertz
	if tc := cfg.Monitoring.Tracing; tc.Enable && tc.ExportEndpoint != "" {
		opts := []provider.Option{
			provider.WithServiceName(tc.ServiceName),
			provider.WithExportEndpoint(tc.ExportEndpoint),
		}
		if tc.Insecure {
			opts = append(opts, provider.WithInsecure())
		}
		otelProvider = provider.NewOpenTelemetryProvider(opts...)
		tracerOpt, traceCfg := hertztracing.NewServerTracer()
		h = router.Build(cfg.API.Addr(), tracerOpt)
		h.Use(hertztracing.ServerMiddleware(traceCfg))
		bootstrap.Logger.Info("链路追踪已启用", "service_name", tc.ServiceName, "endpoint", tc.ExportEndpoint)
	} else {
		h = router.Build(cfg.API.Addr())
	}

	go func() {
		bootstrap.Logger.Info("API 服务启动", "addr", cfg.API.Addr())
		if err := h.Run(); err != nil {
			bootstrap.Logger.Error("API 服务异常退出", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		bootstrap.Logger.Warn("关闭失败", "error", err)
	}
	if otelProvider != nil {
		_ = otelProvider.Shutdown(shutdownCtx)
	}
	bootstrap.Logger.Info("API 服务已关闭")
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭 tracer/日志失败: %v", err)
	}
}

// setHertzLogger 使用 Hertz slog 扩展，与 log 配置对齐
func setHertzLogger(cfg config.LogConfig) error {
	var output io.Writer = os.Stdout
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		output = f
	}
	levelVar := &slog.LevelVar{}
	switch cfg.Level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
	hlog.SetLogger(hertzslog.NewLogger(
		hertzslog.WithOutput(output),
		hertzslog.WithLevel(levelVar),
	))
	return nil
}
