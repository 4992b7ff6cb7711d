package di

import (
	"context"
	"fmt"
	"time"

	"LevelScan/internal/domain/repository"
	"LevelScan/internal/handler/api"
	"LevelScan/internal/handler/ws"
	internalrepo "LevelScan/internal/repository"
	icache "LevelScan/internal/service/cache"
	"LevelScan/internal/service/metrics"
	"LevelScan/internal/service/telegram"
	"LevelScan/internal/services/levels"
	"LevelScan/internal/usecase"
	pkgch "LevelScan/pkg/clickhouse"
	"LevelScan/pkg/config"
	xhttp "LevelScan/pkg/http"
	pkgkafka "LevelScan/pkg/kafka"
	applogger "LevelScan/pkg/logger"
	"LevelScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the candle
// schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCandleStore creates the ClickHouse-backed candle store.
func ProvideCandleStore(chClient *pkgch.Client, l *applogger.Logger) repository.CandleStore {
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideDetectorConfig maps YAML tunables to detector config.
func ProvideDetectorConfig(cfg *config.Config) levels.Config {
	return levels.Config{
		Sensitivity:      cfg.Detector.Sensitivity,
		LeftBars:         cfg.Detector.LeftBars,
		RightBars:        cfg.Detector.RightBars,
		NumBins:          cfg.Detector.NumBins,
		Lookback:         cfg.Detector.Lookback,
		BlockLookback:    cfg.Detector.BlockLookback,
		MoveThreshold:    cfg.Detector.MoveThreshold,
		VolumeMultiplier: cfg.Detector.VolumeMultiplier,
	}
}

// ProvideDetector creates the level detector.
func ProvideDetector(dcfg levels.Config) *levels.Detector {
	return levels.New(dcfg)
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.NewDetectorMetrics()
}

// ProvideAnalysisUseCase creates the detection use case.
func ProvideAnalysisUseCase(store repository.CandleStore, dcfg levels.Config, m repository.Metrics) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(store, dcfg, m)
}

// ProvideCandlesUseCase creates the raw candle retrieval use case.
func ProvideCandlesUseCase(store repository.CandleStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

// ProvideResponseCache creates the response cache: Redis when enabled,
// otherwise an in-process TTL cache.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideAPIHandler creates the REST handler.
func ProvideAPIHandler(
	l *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	candles *usecase.CandlesUseCase,
	chClient *pkgch.Client,
	cache icache.BytesCache,
	cfg *config.Config,
) *api.LevelsEchoHandler {
	h := api.NewLevelsEchoHandler(l, analysis, candles, chClient)
	h.SetCache(cache, cfg.Cache.TTL)
	return h
}

// ProvideStreamHandler creates the websocket handler.
func ProvideStreamHandler(analysis *usecase.AnalysisUseCase, cfg *config.Config, l *applogger.Logger) *ws.StreamHandler {
	return ws.NewStreamHandler(analysis, cfg.Stream.Period, l)
}

// ProvideHTTPServer creates the Echo server with all route handlers.
func ProvideHTTPServer(cfg *config.Config, apiHandler *api.LevelsEchoHandler, streamHandler *ws.StreamHandler) *xhttp.Server {
	return xhttp.NewServer(
		[]xhttp.Handler{apiHandler, streamHandler},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

// ProvideAlertPublisher creates the Kafka alert publisher. Returns nil when
// the monitor is disabled.
func ProvideAlertPublisher(cfg *config.Config, l *applogger.Logger) (repository.AlertPublisher, error) {
	if !cfg.Monitor.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	publisher := internalrepo.NewKafkaAlertPublisher(producer, cfg.Monitor.AlertsTopic)
	publisher.SetLogger(l)
	return publisher, nil
}

// ProvideAlertMonitor creates the background zone monitor. Returns nil when
// the monitor is disabled.
func ProvideAlertMonitor(
	cfg *config.Config,
	store repository.CandleStore,
	detector *levels.Detector,
	publisher repository.AlertPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.AlertMonitor {
	if !cfg.Monitor.Enabled || publisher == nil {
		return nil
	}
	return usecase.NewAlertMonitor(
		usecase.AlertMonitorConfig{
			Symbols:     cfg.Monitor.Symbols,
			Timeframe:   repository.NormalizeTimeframe(cfg.Monitor.Timeframe),
			Interval:    cfg.Monitor.Interval,
			MinStrength: cfg.Monitor.MinStrength,
		},
		store, detector, publisher, m, l,
	)
}

// ProvideAlertConsumer creates the Kafka consumer that delivers alerts to
// Telegram. Returns nil when alerting or Telegram is not configured.
func ProvideAlertConsumer(cfg *config.Config, m repository.Metrics, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Monitor.Enabled || cfg.Telegram.BotToken == "" {
		return nil, nil
	}

	notifier, err := telegram.NewNotifier(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		Timeout:  cfg.Telegram.Timeout,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewKafkaAlertsHandler(cfg.Monitor.AlertsTopic, notifier, m))
	return consumer, nil
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	monitor *usecase.AlertMonitor,
	consumer *pkgkafka.Consumer,
	publisher repository.AlertPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, httpServer, monitor, consumer, publisher, chClient)
}
