package backtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type YAMLConfig struct {
	Backtest struct {
		Ticker         string   `yaml:"ticker"`
		Data           string   `yaml:"data"`
		InitialCapital float64  `yaml:"initial_capital"`
		FeeRate        *float64 `yaml:"fee_rate"`
		TradingDays    int      `yaml:"trading_days"`
	} `yaml:"backtest"`
}

// RunConfig holds the parameters of a single backtest run. It is passed by
// value into every simulator call so concurrent runs with different
// parameters never interfere.
type RunConfig struct {
	// Ticker is a label only; it is echoed back in the result.
	Ticker string

	// Data is the path of the price+signal CSV to replay.
	Data string

	InitialCapital float64

	// FeeRate is applied symmetrically on entry and exit
	// (0.002 = 0.2% per side).
	FeeRate float64

	// TradingDays is the number of trading periods per year used for
	// annualization.
	TradingDays int
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		InitialCapital: 1_000_000,
		FeeRate:        0.002,
		TradingDays:    252,
	}
}

// Validate rejects parameter combinations the simulators cannot run with.
func (cfg RunConfig) Validate() error {
	if cfg.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %v", cfg.InitialCapital)
	}
	if cfg.FeeRate < 0 {
		return fmt.Errorf("fee_rate must be non-negative, got %v", cfg.FeeRate)
	}
	if cfg.TradingDays <= 0 {
		return fmt.Errorf("trading_days must be positive, got %v", cfg.TradingDays)
	}
	return nil
}

// LoadRunConfig reads a YAML run configuration and merges it over the
// defaults. fee_rate distinguishes "absent" from an explicit 0 so that
// zero-fee runs are expressible.
func LoadRunConfig(path string) (RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}

	var yc YAMLConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return RunConfig{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := DefaultRunConfig()

	cfg.Ticker = yc.Backtest.Ticker
	cfg.Data = yc.Backtest.Data
	if yc.Backtest.InitialCapital > 0 {
		cfg.InitialCapital = yc.Backtest.InitialCapital
	}
	if yc.Backtest.FeeRate != nil {
		cfg.FeeRate = *yc.Backtest.FeeRate
	}
	if yc.Backtest.TradingDays > 0 {
		cfg.TradingDays = yc.Backtest.TradingDays
	}

	if cfg.Data == "" {
		return RunConfig{}, fmt.Errorf("backtest.data: CSV path is required")
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}
