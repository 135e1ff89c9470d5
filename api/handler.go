package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"mlbacktest/backtest"
	"mlbacktest/config"
)

// Handler API处理器
type Handler struct {
	cfg    *config.Config
	runner *backtest.Runner
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, runner *backtest.Runner) *Handler {
	return &Handler{cfg: cfg, runner: runner}
}

// BacktestRequest 回测请求
// 引擎参数可选，未提供时使用默认值（见 backtest.DefaultRunConfig）
type BacktestRequest struct {
	Ticker         string   `json:"ticker" binding:"required"`
	InitialCapital *float64 `json:"initial_capital"`
	FeeRate        *float64 `json:"fee_rate"`
	TradingDays    *int     `json:"trading_days"`
}

// RunBacktest 运行回测
// 由 Dashboard 的 Run Backtest 按钮触发
func (h *Handler) RunBacktest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求格式错误: " + err.Error(),
		})
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker不能为空"})
		return
	}

	runCfg := backtest.DefaultRunConfig()
	runCfg.Ticker = ticker
	runCfg.Data = filepath.Join(h.cfg.DataDir, ticker+"_signals.csv")
	if req.InitialCapital != nil {
		runCfg.InitialCapital = *req.InitialCapital
	}
	if req.FeeRate != nil {
		runCfg.FeeRate = *req.FeeRate
	}
	if req.TradingDays != nil {
		runCfg.TradingDays = *req.TradingDays
	}
	if err := runCfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.runner.Run(runCfg)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			c.JSON(http.StatusNotFound, gin.H{
				"error":  "未找到该标的的信号数据",
				"ticker": ticker,
			})
		case errors.Is(err, backtest.ErrInvalidInput),
			errors.Is(err, backtest.ErrInsufficientData):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  err.Error(),
				"ticker": ticker,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
