package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"mlbacktest/backtest"
	"mlbacktest/config"
)

func newTestRouter(t *testing.T, dataDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Port: 0, DataDir: dataDir}
	handler := NewHandler(cfg, backtest.NewRunner())

	r := gin.New()
	r.POST("/api/v1/backtest/run", handler.RunBacktest)
	return r
}

func writeSignalsCSV(t *testing.T, dir, ticker, content string) {
	t.Helper()
	path := filepath.Join(dir, ticker+"_signals.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

const sampleCSV = "Date,Open,High,Low,Close,Volume,Signal\n" +
	"2024-01-02,100,105,99,104,10000,0\n" +
	"2024-01-03,104,112,103,110,12000,1\n" +
	"2024-01-04,110,122,109,121,9000,-1\n" +
	"2024-01-05,121,125,118,119,8000,0\n"

func postBacktest(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunBacktestEndpoint(t *testing.T) {
	dir := t.TempDir()
	writeSignalsCSV(t, dir, "AAPL", sampleCSV)
	r := newTestRouter(t, dir)

	// Ticker is upper-cased before resolving the data file.
	w := postBacktest(r, `{"ticker":"aapl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res struct {
		Ticker  string         `json:"ticker"`
		Market  map[string]any `json:"market_metrics"`
		ML      map[string]any `json:"ml_metrics"`
		Curve   []any          `json:"equity_curve"`
		Pnl     []any          `json:"pnl_graph"`
		Overlay map[string]any `json:"trade_visualization"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Ticker != "AAPL" {
		t.Fatalf("ticker = %q", res.Ticker)
	}
	if len(res.Curve) != 3 {
		t.Fatalf("equity curve length = %d, want 3", len(res.Curve))
	}
	if len(res.Pnl) != 1 {
		t.Fatalf("pnl points = %d, want 1", len(res.Pnl))
	}
	if res.ML["total_trades"] != float64(1) {
		t.Fatalf("ml total_trades = %v", res.ML["total_trades"])
	}
	if _, ok := res.Market["total_trades"]; ok {
		t.Fatalf("market metrics must not carry trade fields")
	}
}

func TestRunBacktestOverrides(t *testing.T) {
	dir := t.TempDir()
	writeSignalsCSV(t, dir, "AAPL", sampleCSV)
	r := newTestRouter(t, dir)

	w := postBacktest(r, `{"ticker":"AAPL","initial_capital":500000,"fee_rate":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// Invalid override is rejected before the run.
	w = postBacktest(r, `{"ticker":"AAPL","initial_capital":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRunBacktestUnknownTicker(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postBacktest(r, `{"ticker":"MSFT"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRunBacktestBadRequest(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	if w := postBacktest(r, `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing ticker: status = %d, want 400", w.Code)
	}
	if w := postBacktest(r, `{bad json`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d, want 400", w.Code)
	}
}

func TestRunBacktestInsufficientData(t *testing.T) {
	dir := t.TempDir()
	writeSignalsCSV(t, dir, "TINY",
		"Date,Open,High,Low,Close,Volume,Signal\n"+
			"2024-01-02,100,105,99,104,10000,0\n")
	r := newTestRouter(t, dir)

	w := postBacktest(r, `{"ticker":"TINY"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", w.Code, w.Body.String())
	}
}
