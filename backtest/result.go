package backtest

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"mlbacktest/dataset"
)

// Result is the full output contract of one run, as served to the
// transport layer.
type Result struct {
	Ticker             string             `json:"ticker,omitempty"`
	MarketMetrics      Metrics            `json:"market_metrics"`
	MLMetrics          Metrics            `json:"ml_metrics"`
	EquityCurve        []EquityCurvePoint `json:"equity_curve"`
	PnlGraph           []TradePoint       `json:"pnl_graph"`
	TradeVisualization TradeMarks         `json:"trade_visualization"`
}

// Run executes both simulators over the same series and assembles the
// result. Each invocation is independent: all state is local to the run,
// so runs may execute concurrently with different configs.
func Run(bars []Bar, cfg RunConfig) (*Result, error) {
	market, err := RunMarket(bars, cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := RunStrategy(bars, cfg)
	if err != nil {
		return nil, err
	}

	curve, points, marks := BuildGraphs(bars, market.Equity, strategy.Equity, strategy.Trades)

	return &Result{
		Ticker:             cfg.Ticker,
		MarketMetrics:      market.Metrics,
		MLMetrics:          strategy.Metrics,
		EquityCurve:        curve,
		PnlGraph:           points,
		TradeVisualization: marks,
	}, nil
}

// Runner loads a signal series from disk and runs the engine over it.
type Runner struct {
	loader *dataset.Loader
}

func NewRunner() *Runner {
	return &Runner{loader: dataset.NewLoader()}
}

// Load reads and cleans the CSV named by cfg.Data and converts it into a
// bar series sorted ascending by date. Rows dropped by the loader (missing
// fields) are gone here; contract violations that must abort the run are
// left for ValidateSeries.
func (r *Runner) Load(cfg RunConfig) ([]Bar, error) {
	rows, err := r.loader.LoadCSV(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Data, err)
	}

	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, Bar{
			Date:   row.Date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
			Signal: Signal(row.Signal),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// Run is the one-call entry used by the CLI and the HTTP handler.
func (r *Runner) Run(cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bars, err := r.Load(cfg)
	if err != nil {
		return nil, err
	}
	return Run(bars, cfg)
}

func WriteResultJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
