package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "LevelScan/internal/domain/repository"
	"LevelScan/internal/usecase"
	pkgch "LevelScan/pkg/clickhouse"
	"LevelScan/pkg/config"
	xhttp "LevelScan/pkg/http"
	pkgkafka "LevelScan/pkg/kafka"
	applogger "LevelScan/pkg/logger"
)

// App encapsulates the application lifecycle: the HTTP API, the background
// zone monitor, and the alert delivery consumer.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	monitor    *usecase.AlertMonitor
	consumer   *pkgkafka.Consumer
	publisher  domrepo.AlertPublisher
	chClient   *pkgch.Client
}

// New creates an App. Monitor, consumer, and publisher may be nil when
// alerting is disabled in config.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	monitor *usecase.AlertMonitor,
	consumer *pkgkafka.Consumer,
	publisher domrepo.AlertPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:        cfg,
		l:          l,
		httpServer: httpServer,
		monitor:    monitor,
		consumer:   consumer,
		publisher:  publisher,
		chClient:   chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.monitor != nil {
		go a.monitor.Run(ctx)
	}

	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.l.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("app started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("alert publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
