package backtest

// Presentation structures for the dashboard. Pure reshaping of simulation
// output; no new computation beyond unit conversion and date formatting.

// EquityCurvePoint compares both runs on one date, each curve divided by
// its own first value.
type EquityCurvePoint struct {
	Date     string  `json:"date"`
	Market   float64 `json:"market"`
	Strategy float64 `json:"ml"`
}

// TradePoint is one closed trade for the PnL scatter.
type TradePoint struct {
	EntryDate  string  `json:"entry_date"`
	ExitDate   string  `json:"exit_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	PnL        float64 `json:"pnl"`
	ReturnPct  float64 `json:"return_pct"`
	Direction  string  `json:"direction"`
	IsProfit   bool    `json:"is_profit"`
}

// TradeMarks is the price chart overlay: the full close series plus the
// dates where BUY and SELL signals occurred.
type TradeMarks struct {
	Dates     []string  `json:"dates"`
	Close     []float64 `json:"close"`
	BuyDates  []string  `json:"buy_dates"`
	SellDates []string  `json:"sell_dates"`
}

// BuildGraphs reshapes the two equity curves and the trade ledger into the
// three presentation structures. Both curves are expected to cover the
// same dates (one point per bar from the first return onward).
func BuildGraphs(bars []Bar, market, strategy []EquityPoint, trades []Trade) ([]EquityCurvePoint, []TradePoint, TradeMarks) {
	n := len(market)
	if len(strategy) < n {
		n = len(strategy)
	}

	curve := make([]EquityCurvePoint, 0, n)
	if n > 0 {
		m0 := market[0].Equity
		s0 := strategy[0].Equity
		for i := 0; i < n; i++ {
			curve = append(curve, EquityCurvePoint{
				Date:     market[i].Date,
				Market:   market[i].Equity / m0,
				Strategy: strategy[i].Equity / s0,
			})
		}
	}

	points := make([]TradePoint, 0, len(trades))
	for _, t := range trades {
		points = append(points, TradePoint{
			EntryDate:  t.EntryDate,
			ExitDate:   t.ExitDate,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			PnL:        t.PnL,
			ReturnPct:  t.ReturnPct,
			Direction:  t.Direction,
			IsProfit:   t.IsProfit,
		})
	}

	marks := TradeMarks{
		Dates:     make([]string, 0, len(bars)),
		Close:     make([]float64, 0, len(bars)),
		BuyDates:  []string{},
		SellDates: []string{},
	}
	for _, b := range bars {
		d := b.Date.Format(dateFormat)
		marks.Dates = append(marks.Dates, d)
		marks.Close = append(marks.Close, b.Close)
		switch b.Signal {
		case SignalBuy:
			marks.BuyDates = append(marks.BuyDates, d)
		case SignalSell:
			marks.SellDates = append(marks.SellDates, d)
		}
	}

	return curve, points, marks
}
