package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/artprompt-backend/internal/config"
	httpserver "github.com/yungbote/artprompt-backend/internal/http"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Config   *config.Config
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services

	server       *httpserver.Server
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithConfig(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithConfig wires the service from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Env, cfg.Telemetry)
	metrics := observability.Init(cfg.Telemetry.MetricsEnabled)

	clients := wireClients(log, cfg)
	serviceset, err := wireServices(log, cfg, clients, metrics)
	if err != nil {
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Config:       cfg,
		Metrics:      metrics,
		Clients:      clients,
		Services:     serviceset,
		server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Server() *httpserver.Server {
	return a.server
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return errors.New("app not initialized")
	}
	a.Log.Info("http server listening",
		"addr", a.Config.HTTP.Addr,
		"unsplash_configured", a.Clients.Unsplash.Configured(),
		"metrics_enabled", a.Metrics != nil,
	)
	return a.server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
