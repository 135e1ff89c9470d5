package backtest

import (
	"errors"
	"testing"
)

func TestRunMarketCurveShape(t *testing.T) {
	bars := mkBars(
		[]float64{100, 110, 99, 110},
		[]Signal{SignalHold, SignalHold, SignalHold, SignalHold},
	)
	cfg := DefaultRunConfig()

	res, err := RunMarket(bars, cfg)
	if err != nil {
		t.Fatalf("RunMarket: %v", err)
	}

	if len(res.Equity) != len(bars)-1 {
		t.Fatalf("curve length = %d, want %d", len(res.Equity), len(bars)-1)
	}
	// First value is the initial capital scaled by the first return.
	want := cfg.InitialCapital * (1 + (110.0/100.0 - 1))
	if !almostEqual(res.Equity[0].Equity, want) {
		t.Fatalf("equity[0] = %v, want %v", res.Equity[0].Equity, want)
	}
	// Compounding: final equity is capital * close_last / close_first.
	wantLast := cfg.InitialCapital * 110.0 / 100.0
	if !almostEqual(res.Equity[len(res.Equity)-1].Equity, wantLast) {
		t.Fatalf("final equity = %v, want %v", res.Equity[len(res.Equity)-1].Equity, wantLast)
	}
}

func TestRunMarketFlatPriceSentinels(t *testing.T) {
	bars := mkBars(
		[]float64{100, 100, 100, 100},
		[]Signal{SignalHold, SignalHold, SignalHold, SignalHold},
	)

	res, err := RunMarket(bars, DefaultRunConfig())
	if err != nil {
		t.Fatalf("RunMarket: %v", err)
	}
	m := res.Metrics
	if m.VolatilityPct != 0 {
		t.Fatalf("volatility = %v, want 0", m.VolatilityPct)
	}
	if m.SharpeRatio != 0 {
		t.Fatalf("sharpe = %v, want 0", m.SharpeRatio)
	}
	if m.MaxDrawdownPct != 0 {
		t.Fatalf("max drawdown = %v, want 0", m.MaxDrawdownPct)
	}
	if m.TotalReturnPct != 0 {
		t.Fatalf("total return = %v, want 0", m.TotalReturnPct)
	}
}

func TestRunMarketRejectsBadSeries(t *testing.T) {
	cfg := DefaultRunConfig()

	// Too short.
	if _, err := RunMarket(mkBars([]float64{100}, []Signal{SignalHold}), cfg); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("want ErrInsufficientData, got %v", err)
	}

	// Duplicate timestamps.
	bars := mkBars([]float64{100, 101, 102}, []Signal{SignalHold, SignalHold, SignalHold})
	bars[2].Date = bars[1].Date
	if _, err := RunMarket(bars, cfg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for duplicate dates, got %v", err)
	}

	// Out-of-order timestamps.
	bars = mkBars([]float64{100, 101, 102}, []Signal{SignalHold, SignalHold, SignalHold})
	bars[0].Date, bars[2].Date = bars[2].Date, bars[0].Date
	if _, err := RunMarket(bars, cfg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for unsorted dates, got %v", err)
	}

	// Non-positive price.
	bars = mkBars([]float64{100, 101, 102}, []Signal{SignalHold, SignalHold, SignalHold})
	bars[1].Close = 0
	bars[1].Low = 0
	if _, err := RunMarket(bars, cfg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for zero price, got %v", err)
	}
}

func TestRunMarketRejectsBadConfig(t *testing.T) {
	bars := mkBars([]float64{100, 101}, []Signal{SignalHold, SignalHold})

	cfg := DefaultRunConfig()
	cfg.InitialCapital = 0
	if _, err := RunMarket(bars, cfg); err == nil {
		t.Fatalf("expected error for zero initial capital")
	}

	cfg = DefaultRunConfig()
	cfg.FeeRate = -0.01
	if _, err := RunMarket(bars, cfg); err == nil {
		t.Fatalf("expected error for negative fee rate")
	}
}
