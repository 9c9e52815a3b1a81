package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Killzin1000/quality-estetica2/config"
)

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown serves HTTP and runs the session registry until SIGINT/SIGTERM
// or until either fails, then stops both.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return runServices(ctx, cfg)
}

func runServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server, err := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("build http server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if reg := cfg.Services.Registry; reg != nil {
		g.Go(func() error {
			logger.InfoContext(gctx, "background service started", "service", "session registry")
			if err := reg.Run(gctx); err != nil {
				return fmt.Errorf("session registry failed: %w", err)
			}
			logger.Info("session registry stopped")
			return nil
		})
	}

	g.Go(func() error {
		return serveHTTP(server, logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		// gctx is already cancelled; shut down on a fresh deadline.
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  server,
			Timeout: shutdownWaitTimeout,
			Logger:  logger,
		})
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
		return err
	}
	return nil
}
