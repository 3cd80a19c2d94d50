package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mau4gdp/HTML-Renderer/pkg/config"
)

// env carries state prepared in Before to the subcommands.
type env struct {
	Cfg   *config.Config
	Log   *zap.Logger
	start time.Time
}

type envKey struct{}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &env{Log: zap.NewNop(), start: time.Now()})
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{Cfg: config.Default(), Log: zap.NewNop(), start: time.Now()}
}

func (e *env) uptime() time.Duration { return time.Since(e.start) }
