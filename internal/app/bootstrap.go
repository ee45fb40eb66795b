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

package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"nlp-gateway/internal/model"
	"nlp-gateway/internal/model/transport"
	"nlp-gateway/pkg/config"
	apperrors "nlp-gateway/pkg/errors"
	"nlp-gateway/pkg/log"
	"nlp-gateway/pkg/secrets"
	"nlp-gateway/pkg/tracing"
)

// Bootstrap 统一初始化：供 api 与 cli 复用，避免在 cmd 内写业务
type Bootstrap struct {
	Config *config.Config
	Logger *log.Logger
	Models *model.Set

	tracerProvider *sdktrace.TracerProvider
}

// LoadConfig 先加载 envFile（不存在时忽略），再读取配置：
// 显式 configPath 必须存在；为空时尝试默认路径，默认路径也不存在则只用环境变量。
func LoadConfig(configPath, envFile string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrapf(err, "load %s", envFile)
		}
	}
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadConfig(config.DefaultConfigPath)
	}
	return config.LoadFromEnv()
}

// NewBootstrap 根据配置创建 Bootstrap：解析凭据引用、日志、模型集合
func NewBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: bootstrap requires config", apperrors.ErrInvalidArg)
	}
	if cfg.HasSecretReferences() {
		store, err := secrets.NewStore(cfg.Secrets)
		if err != nil {
			return nil, apperrors.Wrap(err, "初始化 secret store failed")
		}
		if err := cfg.ResolveSecrets(ctx, store); err != nil {
			return nil, err
		}
	}

	logger, err := log.NewLogger(&log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return nil, apperrors.Wrap(err, "初始化日志failed")
	}

	b := &Bootstrap{Config: cfg, Logger: logger}
	timeout, err := cfg.HTTP.TimeoutDuration()
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	models, err := model.NewSet(ctx, cfg,
		transport.WithHTTPClient(&http.Client{Timeout: timeout}),
		transport.WithLogger(logger),
	)
	if err != nil {
		_ = logger.Close()
		return nil, apperrors.Wrap(err, "初始化模型failed")
	}
	b.Models = models
	return b, nil
}

// InitTracer monitoring.tracing.enable 时安装 OTLP tracer，provider 调用 span 随之导出
func (b *Bootstrap) InitTracer() error {
	tc := b.Config.Monitoring.Tracing
	if !tc.Enable {
		return nil
	}
	tp, err := tracing.InitTracer(tracing.OTelConfig{
		ServiceName:    tc.ServiceName,
		ExportEndpoint: tc.ExportEndpoint,
		Insecure:       tc.Insecure,
	})
	if err != nil {
		return apperrors.Wrap(err, "初始化链路追踪failed")
	}
	b.tracerProvider = tp
	return nil
}

// Shutdown 刷新并关闭 tracer，再关闭日志文件
func (b *Bootstrap) Shutdown(ctx context.Context) error {
	var errs []error
	if b.tracerProvider != nil {
		errs = append(errs, b.tracerProvider.Shutdown(ctx))
	}
	errs = append(errs, b.Logger.Close())
	return errors.Join(errs...)
}
