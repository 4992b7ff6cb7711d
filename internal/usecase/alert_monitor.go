package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"LevelScan/internal/domain/models"
	domrepo "LevelScan/internal/domain/repository"
	"LevelScan/internal/services/levels"
	applogger "LevelScan/pkg/logger"
)

// AlertMonitorConfig tunes the background zone monitor.
type AlertMonitorConfig struct {
	Symbols     []string
	Timeframe   domrepo.Timeframe
	Interval    time.Duration
	MinStrength float64
	Lookback    int
}

// AlertMonitor periodically re-detects zones for the configured symbols and
// publishes an alert when the price enters a zone's tolerance band. An alert
// fires once per band entry; it re-arms after the price leaves the band.
type AlertMonitor struct {
	cfg       AlertMonitorConfig
	store     domrepo.CandleStore
	detector  *levels.Detector
	publisher domrepo.AlertPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger

	mu     sync.Mutex
	active map[string]struct{} // zone keys currently in-band
}

func NewAlertMonitor(
	cfg AlertMonitorConfig,
	store domrepo.CandleStore,
	detector *levels.Detector,
	publisher domrepo.AlertPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *AlertMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = detector.Config().Lookback
	}
	if cfg.Timeframe == "" {
		cfg.Timeframe = domrepo.DefaultTimeframe()
	}
	return &AlertMonitor{
		cfg:       cfg,
		store:     store,
		detector:  detector,
		publisher: publisher,
		metrics:   metrics,
		l:         l,
		active:    make(map[string]struct{}),
	}
}

// Run blocks until ctx is cancelled.
func (m *AlertMonitor) Run(ctx context.Context) {
	m.l.Info("alert monitor started",
		applogger.Strings("symbols", m.cfg.Symbols),
		applogger.String("tf", string(m.cfg.Timeframe)),
		applogger.Duration("interval", m.cfg.Interval),
	)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.l.Info("alert monitor stopped")
			return
		case <-ticker.C:
			for _, symbol := range m.cfg.Symbols {
				if err := m.checkSymbol(ctx, symbol); err != nil {
					m.metrics.RecordError("monitor_check")
					m.l.Error("monitor check failed",
						applogger.String("symbol", symbol),
						applogger.Error(err),
					)
				}
			}
		}
	}
}

func (m *AlertMonitor) checkSymbol(ctx context.Context, symbol string) error {
	candles, err := m.store.GetLatestNCandles(ctx, symbol, m.cfg.Lookback, m.cfg.Timeframe)
	if err != nil {
		return fmt.Errorf("get candles: %w", err)
	}
	if len(candles) == 0 {
		return nil
	}

	last := candles[len(candles)-1]
	price := last.Close

	analysis, err := m.detector.Zones(candles, price, m.cfg.Lookback)
	if err != nil {
		return fmt.Errorf("detect zones: %w", err)
	}

	tolerance := price * m.detector.Config().Sensitivity
	inBand := make(map[string]models.Zone)
	for _, zone := range append(analysis.Support, analysis.Resistance...) {
		if zone.Strength < m.cfg.MinStrength {
			continue
		}
		if math.Abs(price-zone.Level) <= tolerance {
			inBand[zoneKey(symbol, zone, tolerance)] = zone
		}
	}

	m.mu.Lock()
	fresh := make(map[string]models.Zone, len(inBand))
	for key, zone := range inBand {
		if _, seen := m.active[key]; !seen {
			fresh[key] = zone
		}
	}
	// Re-arm zones whose band the price has left, keep the rest suppressed.
	for key := range m.active {
		if _, still := inBand[key]; !still {
			delete(m.active, key)
		}
	}
	for key := range inBand {
		m.active[key] = struct{}{}
	}
	m.mu.Unlock()

	for _, zone := range fresh {
		alert := &models.ZoneAlert{
			Symbol:    symbol,
			Timestamp: last.Bucket,
			Price:     price,
			Zone:      zone,
			Tolerance: tolerance,
		}
		if err := m.publisher.Publish(ctx, alert); err != nil {
			m.metrics.RecordError("alert_publish")
			return fmt.Errorf("publish alert: %w", err)
		}
		m.metrics.RecordAlertPublished(symbol)
		m.l.Info("zone alert published",
			applogger.String("symbol", symbol),
			applogger.String("zone_type", string(zone.Type)),
			applogger.Float64("level", zone.Level),
			applogger.Float64("price", price),
		)
	}
	return nil
}

// zoneKey quantizes the zone level by the tolerance so small drift between
// detection runs maps to the same key.
func zoneKey(symbol string, zone models.Zone, tolerance float64) string {
	bucket := int64(0)
	if tolerance > 0 {
		bucket = int64(math.Round(zone.Level / tolerance))
	}
	return fmt.Sprintf("%s|%s|%d", symbol, zone.Type, bucket)
}
