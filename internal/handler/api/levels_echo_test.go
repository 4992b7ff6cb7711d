package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"LevelScan/internal/domain/models"
	domrepo "LevelScan/internal/domain/repository"
	"LevelScan/internal/services/levels"
	"LevelScan/internal/usecase"
	xlogger "LevelScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fakeStore struct {
	candles []models.Candle
}

func (s *fakeStore) GetCandles(_ context.Context, _ string, from, to time.Time, _ domrepo.Timeframe) ([]models.Candle, error) {
	out := make([]models.Candle, 0, len(s.candles))
	for _, c := range s.candles {
		if !c.Bucket.Before(from) && !c.Bucket.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) GetLatestNCandles(_ context.Context, _ string, n int, _ domrepo.Timeframe) ([]models.Candle, error) {
	if n > len(s.candles) {
		n = len(s.candles)
	}
	return s.candles[len(s.candles)-n:], nil
}

type nopMetrics struct{}

func (nopMetrics) RecordDetection(string, string) {}
func (nopMetrics) RecordError(string)             {}
func (nopMetrics) RecordLatency(string, float64)  {}
func (nopMetrics) RecordAlertPublished(string)    {}

func candleWindow(n int) []models.Candle {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, 0, n)
	price := 100.0
	for i := 0; i < n; i++ {
		if i%8 < 4 {
			price += 0.8
		} else {
			price -= 0.8
		}
		out = append(out, models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: "BTCUSDT",
			Open:   price - 0.4,
			High:   price + 0.8,
			Low:    price - 0.8,
			Close:  price,
			Volume: 1000,
		})
	}
	return out
}

func newTestHandler(t *testing.T, store domrepo.CandleStore) *LevelsEchoHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	analysis := usecase.NewAnalysisUseCase(store, levels.DefaultConfig(), nopMetrics{})
	candles := usecase.NewCandlesUseCase(store)
	return NewLevelsEchoHandler(l, analysis, candles, nil)
}

func doGet(t *testing.T, h func(echo.Context) error, target string) (int, map[string]json.RawMessage) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var status int
	if err := json.Unmarshal(envelope["status"], &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return status, envelope
}

func TestLevelsEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeStore{candles: candleWindow(150)})

	status, envelope := doGet(t, h.Levels, "/api/levels?symbol=BTCUSDT&n=150")
	if status != 200 {
		t.Fatalf("status = %d, body = %s", status, envelope["data"])
	}

	var res models.LevelAnalysis
	if err := json.Unmarshal(envelope["data"], &res); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if res.Symbol != "BTCUSDT" {
		t.Fatalf("unexpected symbol %q", res.Symbol)
	}
	if len(res.Support) == 0 && len(res.Resistance) == 0 {
		t.Fatalf("expected zones on at least one side")
	}
}

func TestLevelsEndpointMissingSymbol(t *testing.T) {
	h := newTestHandler(t, &fakeStore{candles: candleWindow(150)})

	status, _ := doGet(t, h.Levels, "/api/levels")
	if status != 400 {
		t.Fatalf("missing symbol should be rejected, status = %d", status)
	}
}

func TestLevelsEndpointInvalidTF(t *testing.T) {
	h := newTestHandler(t, &fakeStore{candles: candleWindow(150)})

	status, _ := doGet(t, h.Levels, "/api/levels?symbol=BTCUSDT&tf=7h")
	if status != 400 {
		t.Fatalf("unknown timeframe should be rejected, status = %d", status)
	}
}

func TestLevelsEndpointNoData(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})

	status, _ := doGet(t, h.Levels, "/api/levels?symbol=NOPE")
	if status != 404 {
		t.Fatalf("empty store should 404, status = %d", status)
	}
}

func TestOrderBlocksEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeStore{candles: candleWindow(150)})

	status, envelope := doGet(t, h.OrderBlocks, "/api/orderblocks?symbol=BTCUSDT&lookback=100")
	if status != 200 {
		t.Fatalf("status = %d, body = %s", status, envelope["data"])
	}

	var blocks []models.OrderBlock
	if err := json.Unmarshal(envelope["data"], &blocks); err != nil {
		t.Fatalf("decode blocks: %v", err)
	}
	if len(blocks) > 10 {
		t.Fatalf("response must cap blocks at 10, got %d", len(blocks))
	}
}

func TestPivotsEndpoint(t *testing.T) {
	store := &fakeStore{candles: candleWindow(150)}
	h := newTestHandler(t, store)

	status, envelope := doGet(t, h.Pivots, "/api/pivots?symbol=BTCUSDT&method=fibonacci")
	if status != 200 {
		t.Fatalf("status = %d, body = %s", status, envelope["data"])
	}

	var ps models.PivotSet
	if err := json.Unmarshal(envelope["data"], &ps); err != nil {
		t.Fatalf("decode pivot set: %v", err)
	}
	if ps.Method != models.PivotFibonacci {
		t.Fatalf("unexpected method %q", ps.Method)
	}
	if !(ps.S1 < ps.Pivot && ps.Pivot < ps.R1) {
		t.Fatalf("pivot ordering violated: s1=%v p=%v r1=%v", ps.S1, ps.Pivot, ps.R1)
	}
}

func TestPivotsEndpointBadMethod(t *testing.T) {
	h := newTestHandler(t, &fakeStore{candles: candleWindow(150)})

	status, _ := doGet(t, h.Pivots, "/api/pivots?symbol=BTCUSDT&method=woodie")
	if status != 400 {
		t.Fatalf("unknown method should be rejected, status = %d", status)
	}
}

func TestCandlesEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeStore{candles: candleWindow(150)})

	// test data is from June 2024, so pin the range
	target := "/api/candles?symbol=BTCUSDT&tf=1h&from=2024-06-01T00:00:00Z&to=2024-06-03T00:00:00Z"
	status, envelope := doGet(t, h.Candles, target)
	if status != 200 {
		t.Fatalf("status = %d, body = %s", status, envelope["data"])
	}

	var res usecase.GetCandlesResult
	if err := json.Unmarshal(envelope["data"], &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Count == 0 {
		t.Fatalf("expected candles in range")
	}
	if res.Count != len(res.Candles) {
		t.Fatalf("count %d != len(candles) %d", res.Count, len(res.Candles))
	}
}

func TestHealthEndpointWithoutStorage(t *testing.T) {
	h := newTestHandler(t, &fakeStore{})

	status, _ := doGet(t, h.Health, "/api/health")
	if status != 200 {
		t.Fatalf("health without storage should be ok, status = %d", status)
	}
}
