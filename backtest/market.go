package backtest

// MarketResult is the buy-and-hold benchmark: an equity curve built from
// the close prices alone, with zero fees, plus its metrics.
type MarketResult struct {
	Equity  []EquityPoint
	Metrics Metrics
}

// RunMarket simulates holding one unit of exposure to the close price from
// the first bar onward, reinvesting compounding. The curve has one point
// per bar from the first usable return on (length = len(bars)-1), so
// equity[0] == initial_capital * (1 + r_1).
func RunMarket(bars []Bar, cfg RunConfig) (*MarketResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}

	equity := make([]EquityPoint, 0, len(bars)-1)
	value := cfg.InitialCapital
	for i := 1; i < len(bars); i++ {
		r := bars[i].Close/bars[i-1].Close - 1
		value *= 1 + r
		equity = append(equity, EquityPoint{
			Date:   bars[i].Date.Format(dateFormat),
			Equity: value,
		})
	}

	return &MarketResult{
		Equity:  equity,
		Metrics: ComputeMetrics(equity, nil, cfg.TradingDays),
	}, nil
}
