package main

import (
	"fmt"
	"os"

	"mlbacktest/backtest"
)

func runBacktest(configPath, outPath, chartPath string) error {
	cfg, err := backtest.LoadRunConfig(configPath)
	if err != nil {
		return err
	}

	runner := backtest.NewRunner()
	bars, err := runner.Load(cfg)
	if err != nil {
		return err
	}

	result, err := backtest.Run(bars, cfg)
	if err != nil {
		return err
	}

	if chartPath != "" {
		svg, err := backtest.RenderRunSVG(cfg.Ticker, bars, result, backtest.SVGChartOptions{})
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if err := os.WriteFile(chartPath, svg, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}

	if outPath == "" {
		return backtest.WriteResultJSON(os.Stdout, result)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	return backtest.WriteResultJSON(f, result)
}
