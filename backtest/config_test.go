package backtest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()
	if cfg.InitialCapital != 1_000_000 {
		t.Fatalf("initial capital = %v", cfg.InitialCapital)
	}
	if cfg.FeeRate != 0.002 {
		t.Fatalf("fee rate = %v", cfg.FeeRate)
	}
	if cfg.TradingDays != 252 {
		t.Fatalf("trading days = %v", cfg.TradingDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func TestLoadRunConfig(t *testing.T) {
	path := writeTempYAML(t, `
backtest:
  ticker: AAPL
  data: data/AAPL_signals.csv
  initial_capital: 500000
  fee_rate: 0.001
  trading_days: 250
`)
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	if cfg.Ticker != "AAPL" || cfg.Data != "data/AAPL_signals.csv" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.InitialCapital != 500000 || cfg.FeeRate != 0.001 || cfg.TradingDays != 250 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRunConfigZeroFeeIsExplicit(t *testing.T) {
	// fee_rate: 0 means zero fees; an absent fee_rate means the default.
	path := writeTempYAML(t, `
backtest:
  data: x.csv
  fee_rate: 0
`)
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	if cfg.FeeRate != 0 {
		t.Fatalf("fee rate = %v, want explicit 0", cfg.FeeRate)
	}

	path = writeTempYAML(t, `
backtest:
  data: x.csv
`)
	cfg, err = LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	if cfg.FeeRate != 0.002 {
		t.Fatalf("fee rate = %v, want default 0.002", cfg.FeeRate)
	}
}

func TestLoadRunConfigRequiresData(t *testing.T) {
	path := writeTempYAML(t, `
backtest:
  ticker: AAPL
`)
	if _, err := LoadRunConfig(path); err == nil {
		t.Fatalf("expected error when backtest.data is missing")
	}
}

func TestRunConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*RunConfig)
	}{
		{"zero capital", func(c *RunConfig) { c.InitialCapital = 0 }},
		{"negative fee", func(c *RunConfig) { c.FeeRate = -1 }},
		{"zero trading days", func(c *RunConfig) { c.TradingDays = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultRunConfig()
		tc.mut(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
