package main

import (
	"context"
	"fmt"
	"os"

	"nlp-gateway/internal/app"
	"nlp-gateway/pkg/config"
)

func loadConfig(c *commonFlags) (*config.Config, error) {
	return app.LoadConfig(c.configPath, c.envFile)
}

func newBootstrap(ctx context.Context, c *commonFlags) (*app.Bootstrap, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	b, err := app.NewBootstrap(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := b.InitTracer(); err != nil {
		_ = b.Shutdown(ctx)
		return nil, err
	}
	return b, nil
}

func shutdown(ctx context.Context, b *app.Bootstrap) {
	if err := b.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
