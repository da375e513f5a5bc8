package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/qualityhub/internal/config"
	"github.com/MrSnakeDoc/qualityhub/internal/findings"
	"github.com/MrSnakeDoc/qualityhub/internal/httpserver"
	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qualityhub/internal/logger"
	"github.com/MrSnakeDoc/qualityhub/internal/sources/instances"
	"github.com/MrSnakeDoc/qualityhub/internal/sources/quality"
	"github.com/MrSnakeDoc/qualityhub/internal/version"
)

// Core holds what every entry point needs: configuration, logger and the
// findings service with its upstream client.
type Core struct {
	Config   *config.Config
	Logger   logger.Logger
	Findings *findings.Service

	client *quality.Client
}

// NewCore loads the configuration and the instance registry.
// Registry errors (conflict, incomplete) abort startup.
func NewCore() (*Core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	loggerClient, err := logger.New(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	registry, err := instances.LoadRegistry(cfg.InstancesFile)
	if err != nil {
		return nil, fmt.Errorf("load instances from %s: %w", cfg.InstancesFile, err)
	}
	loggerClient.Info("instance registry loaded",
		logger.String("file", cfg.InstancesFile),
		logger.Int("instances", registry.Len()),
		logger.Bool("has_default", registry.HasDefault()))

	client := quality.NewClient(loggerClient, cfg.UpstreamTimeout)

	return &Core{
		Config:   cfg,
		Logger:   loggerClient,
		Findings: findings.NewService(registry, client, loggerClient, cfg.UpstreamTimeout),
		client:   client,
	}, nil
}

// Close releases the upstream client and flushes the logger.
func (c *Core) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.Logger.Warnf("failed to close quality client: %v", err)
		}
	}
	_ = c.Logger.Sync()
}

type App struct {
	core   *Core
	server *httpserver.Server
}

func New() (*App, error) {
	core, err := NewCore()
	if err != nil {
		return nil, err
	}
	cfg := core.Config

	d := deps.Deps{
		Logger:          core.Logger,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		Findings:        core.Findings,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	return &App{
		core:   core,
		server: httpserver.New(cfg, core.Logger, d),
	}, nil
}

func (a *App) Run() error {
	log := a.core.Logger
	defer a.core.Close()

	log.Infof("Starting qualityhub %s on %s", version.String(), a.core.Config.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.core.Config.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("qualityhub stopped cleanly")
	return nil
}
