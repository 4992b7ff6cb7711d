package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LevelScan/internal/domain/models"
	domrepo "LevelScan/internal/domain/repository"
	"LevelScan/internal/services/levels"
)

// ErrNoData means the store has no candles for the requested symbol.
var ErrNoData = errors.New("no candle data")

// maxBlocks caps how many order blocks an API response carries, strongest
// first.
const maxBlocks = 10

// AnalysisUseCase runs zone and order-block detection over stored candles.
type AnalysisUseCase struct {
	store   domrepo.CandleStore
	cfg     levels.Config
	metrics domrepo.Metrics
}

func NewAnalysisUseCase(store domrepo.CandleStore, cfg levels.Config, metrics domrepo.Metrics) *AnalysisUseCase {
	return &AnalysisUseCase{store: store, cfg: cfg, metrics: metrics}
}

// Levels detects support/resistance zones over the latest N candles.
func (uc *AnalysisUseCase) Levels(ctx context.Context, p models.LevelsRequest) (*models.LevelAnalysis, error) {
	start := time.Now()

	candles, err := uc.store.GetLatestNCandles(ctx, p.Symbol, p.N, domrepo.NormalizeTimeframe(p.TF))
	if err != nil {
		uc.metrics.RecordError("store_get_candles")
		return nil, fmt.Errorf("get candles: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", p.Symbol, ErrNoData)
	}

	cfg := uc.cfg
	cfg.Sensitivity = p.Sensitivity
	det := levels.New(cfg)

	last := candles[len(candles)-1]
	analysis, err := det.Zones(candles, last.Close, p.N)
	if err != nil {
		uc.metrics.RecordError("detect_zones")
		return nil, fmt.Errorf("detect zones: %w", err)
	}
	analysis.Symbol = p.Symbol
	analysis.Timestamp = last.Bucket

	uc.metrics.RecordDetection("levels", p.Symbol)
	uc.metrics.RecordLatency("levels_seconds", time.Since(start).Seconds())
	return &analysis, nil
}

// OrderBlocks detects order blocks over the latest candles, strongest first,
// capped at maxBlocks.
func (uc *AnalysisUseCase) OrderBlocks(ctx context.Context, p models.OrderBlocksRequest) ([]models.OrderBlock, error) {
	start := time.Now()

	// The detector scans the last lookback candles plus the surrounding
	// context bars it needs on each side.
	candles, err := uc.store.GetLatestNCandles(ctx, p.Symbol, p.Lookback+5, domrepo.NormalizeTimeframe(p.TF))
	if err != nil {
		uc.metrics.RecordError("store_get_candles")
		return nil, fmt.Errorf("get candles: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", p.Symbol, ErrNoData)
	}

	det := levels.New(uc.cfg)
	blocks, err := det.OrderBlocks(candles, p.Lookback)
	if err != nil {
		uc.metrics.RecordError("detect_order_blocks")
		return nil, fmt.Errorf("detect order blocks: %w", err)
	}
	if len(blocks) > maxBlocks {
		blocks = blocks[:maxBlocks]
	}

	uc.metrics.RecordDetection("orderblocks", p.Symbol)
	uc.metrics.RecordLatency("orderblocks_seconds", time.Since(start).Seconds())
	return blocks, nil
}

// Pivots computes a pivot set from the latest candle.
func (uc *AnalysisUseCase) Pivots(ctx context.Context, p models.PivotsRequest) (*models.PivotSet, error) {
	candles, err := uc.store.GetLatestNCandles(ctx, p.Symbol, 1, domrepo.NormalizeTimeframe(p.TF))
	if err != nil {
		uc.metrics.RecordError("store_get_candles")
		return nil, fmt.Errorf("get candles: %w", err)
	}

	ps, err := levels.Pivots(candles, models.PivotMethod(p.Method))
	if err != nil {
		uc.metrics.RecordError("detect_pivots")
		return nil, fmt.Errorf("compute pivots: %w", err)
	}
	if ps == nil {
		return nil, fmt.Errorf("symbol %s: %w", p.Symbol, ErrNoData)
	}

	uc.metrics.RecordDetection("pivots", p.Symbol)
	return ps, nil
}
