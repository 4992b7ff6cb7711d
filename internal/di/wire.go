//go:build wireinject
// +build wireinject

package di

import (
	"LevelScan/pkg/config"
	"LevelScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCandleStore,
		ProvideResponseCache,

		// Detection
		ProvideDetectorConfig,
		ProvideDetector,

		// Use cases
		ProvideAnalysisUseCase,
		ProvideCandlesUseCase,

		// HTTP surface
		ProvideAPIHandler,
		ProvideStreamHandler,
		ProvideHTTPServer,

		// Alert pipeline
		ProvideAlertPublisher,
		ProvideAlertMonitor,
		ProvideAlertConsumer,

		ProvideApp,
	)
	return &server.App{}, nil
}
