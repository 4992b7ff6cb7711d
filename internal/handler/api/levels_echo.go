package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"LevelScan/internal/domain/models"
	domrepo "LevelScan/internal/domain/repository"
	icache "LevelScan/internal/service/cache"
	"LevelScan/internal/service/ratelimit"
	"LevelScan/internal/services/levels"
	"LevelScan/internal/usecase"
	xhttp "LevelScan/pkg/http"
	xlogger "LevelScan/pkg/logger"
	"LevelScan/pkg/util"

	"github.com/labstack/echo/v4"
)

// Pinger reports storage health.
type Pinger interface {
	Health(ctx context.Context) error
}

// LevelsEchoHandler serves the detection HTTP API.
type LevelsEchoHandler struct {
	logger   *xlogger.Logger
	analysis *usecase.AnalysisUseCase
	candles  *usecase.CandlesUseCase
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	storage  Pinger
}

func NewLevelsEchoHandler(
	logger *xlogger.Logger,
	analysis *usecase.AnalysisUseCase,
	candles *usecase.CandlesUseCase,
	storage Pinger,
) *LevelsEchoHandler {
	return &LevelsEchoHandler{
		logger:   logger,
		analysis: analysis,
		candles:  candles,
		cacheTTL: 30 * time.Second,
		rl:       ratelimit.New(),
		storage:  storage,
	}
}

// SetCache injects a response cache.
func (h *LevelsEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

func (h *LevelsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/levels", h.Levels)
	g.GET("/orderblocks", h.OrderBlocks)
	g.GET("/pivots", h.Pivots)
	g.GET("/candles", h.Candles)
	g.GET("/health", h.Health)
}

func (h *LevelsEchoHandler) Levels(c echo.Context) error {
	req := &models.LevelsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":levels", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests"))
	}

	key := fmt.Sprintf("levels:%s:%s:%d:%g", req.Symbol, req.TF, req.N, req.Sensitivity)
	if body, ok := h.cached(c, key); ok {
		return xhttp.SuccessResponse(c, body)
	}

	res, err := h.analysis.Levels(c.Request().Context(), *req)
	if err != nil {
		return h.usecaseError(c, "levels", err)
	}
	return h.respondCached(c, key, res)
}

func (h *LevelsEchoHandler) OrderBlocks(c echo.Context) error {
	req := &models.OrderBlocksRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":orderblocks", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests"))
	}

	key := fmt.Sprintf("orderblocks:%s:%s:%d", req.Symbol, req.TF, req.Lookback)
	if body, ok := h.cached(c, key); ok {
		return xhttp.SuccessResponse(c, body)
	}

	res, err := h.analysis.OrderBlocks(c.Request().Context(), *req)
	if err != nil {
		return h.usecaseError(c, "orderblocks", err)
	}
	return h.respondCached(c, key, res)
}

func (h *LevelsEchoHandler) Pivots(c echo.Context) error {
	req := &models.PivotsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":pivots", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests"))
	}

	key := fmt.Sprintf("pivots:%s:%s:%s", req.Symbol, req.TF, req.Method)
	if body, ok := h.cached(c, key); ok {
		return xhttp.SuccessResponse(c, body)
	}

	res, err := h.analysis.Pivots(c.Request().Context(), *req)
	if err != nil {
		return h.usecaseError(c, "pivots", err)
	}
	return h.respondCached(c, key, res)
}

func (h *LevelsEchoHandler) Candles(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol required"))
	}
	tf := domrepo.NormalizeTimeframe(c.QueryParam("tf"))

	now := time.Now().UTC()
	from := util.ParseTimeDefault(c.QueryParam("from"), now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(c.QueryParam("to"), now)
	from, to = util.AlignFromTo(from, to, string(tf))

	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:    symbol,
		From:      from,
		To:        to,
		Timeframe: tf,
		Limit:     util.ParseIntDefault(c.QueryParam("limit"), 0),
	})
	if err != nil {
		return h.usecaseError(c, "candles", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *LevelsEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	if h.storage != nil {
		if err := h.storage.Health(ctx); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			status["status"] = "degraded"
			status["clickhouse"] = err.Error()
			return xhttp.DataResponse(c, 503, status)
		}
		status["clickhouse"] = "ok"
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *LevelsEchoHandler) cached(c echo.Context, key string) (json.RawMessage, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(c.Request().Context(), key)
	if err != nil {
		h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return json.RawMessage(b), true
}

func (h *LevelsEchoHandler) respondCached(c echo.Context, key string, payload interface{}) error {
	if h.cache != nil {
		if b, err := json.Marshal(payload); err == nil {
			if err := h.cache.SetBytes(c.Request().Context(), key, b, h.cacheTTL); err != nil {
				h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, payload)
}

func (h *LevelsEchoHandler) usecaseError(c echo.Context, endpoint string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNoData):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, levels.ErrInvalidArgument):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	default:
		h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
