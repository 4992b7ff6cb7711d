package ws

import (
	"context"
	"net/http"
	"time"

	"LevelScan/internal/domain/models"
	"LevelScan/internal/usecase"
	xlogger "LevelScan/pkg/logger"
	"LevelScan/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

// StreamHandler pushes fresh level analyses to websocket clients on a fixed
// period. Each connection re-runs detection, so cadence should stay coarse.
type StreamHandler struct {
	analysis *usecase.AnalysisUseCase
	period   time.Duration
	logger   *xlogger.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(analysis *usecase.AnalysisUseCase, period time.Duration, logger *xlogger.Logger) *StreamHandler {
	if period <= 0 {
		period = 15 * time.Second
	}
	return &StreamHandler{
		analysis: analysis,
		period:   period,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/levels", h.Levels)
}

func (h *StreamHandler) Levels(c echo.Context) error {
	req := models.LevelsRequest{
		Symbol:      c.QueryParam("symbol"),
		N:           util.ParseIntDefault(c.QueryParam("n"), 200),
		TF:          c.QueryParam("tf"),
		Sensitivity: util.ParseFloatDefault(c.QueryParam("sensitivity"), 0.02),
	}
	if req.Symbol == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "symbol required"})
	}
	if req.TF == "" {
		req.TF = "1h"
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.logger.Info("ws client connected",
		xlogger.String("symbol", req.Symbol),
		xlogger.String("remote", c.RealIP()),
	)
	// Block until the stream ends: returning cancels the request context,
	// which would kill the push loop immediately.
	h.stream(c.Request().Context(), conn, req)
	return nil
}

func (h *StreamHandler) stream(ctx context.Context, conn *websocket.Conn, req models.LevelsRequest) {
	defer conn.Close()

	// Drain control frames so pong handling and client close are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.period)
	pinger := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer pinger.Stop()

	if err := h.push(ctx, conn, req); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			h.logger.Info("ws client disconnected", xlogger.String("symbol", req.Symbol))
			return
		case <-pinger.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.push(ctx, conn, req); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, req models.LevelsRequest) error {
	res, err := h.analysis.Levels(ctx, req)
	if err != nil {
		h.logger.Warn("ws detection error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		// transient store errors should not kill the stream
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(res)
}
