package ws

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"LevelScan/internal/domain/models"
	domrepo "LevelScan/internal/domain/repository"
	"LevelScan/internal/services/levels"
	"LevelScan/internal/usecase"
	xlogger "LevelScan/pkg/logger"

	"github.com/gorilla/websocket"
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

func newTestServer(t *testing.T, period time.Duration) *httptest.Server {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	analysis := usecase.NewAnalysisUseCase(&fakeStore{candles: candleWindow(120)}, levels.DefaultConfig(), nopMetrics{})
	h := NewStreamHandler(analysis, period, l)

	e := echo.New()
	h.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestStreamPushesPeriodically(t *testing.T) {
	srv := newTestServer(t, 50*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/levels?symbol=BTCUSDT&n=120"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The immediate push plus at least two ticker pushes.
	for i := 0; i < 3; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var res models.LevelAnalysis
		if err := conn.ReadJSON(&res); err != nil {
			t.Fatalf("read push %d: %v", i+1, err)
		}
		if res.Symbol != "BTCUSDT" {
			t.Fatalf("push %d: unexpected symbol %q", i+1, res.Symbol)
		}
	}
}

func TestStreamEndsOnClientClose(t *testing.T) {
	srv := newTestServer(t, 50*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/levels?symbol=BTCUSDT&n=120"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("first push: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		t.Fatalf("send close: %v", err)
	}

	// The server must notice the close and tear the connection down; a read
	// timeout here means the push loop is still running.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			t.Fatalf("server did not close the connection: %v", err)
		}
		return
	}
}

func TestStreamRejectsMissingSymbol(t *testing.T) {
	srv := newTestServer(t, 50*time.Millisecond)

	resp, err := http.Get(srv.URL + "/ws/levels")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing symbol should be rejected, status = %d", resp.StatusCode)
	}
}
