package backtest

import "fmt"

// StrategyResult is the output of the signal-driven simulation: the
// mark-to-market equity curve, the ledger of closed trades, and the
// metrics computed from both.
type StrategyResult struct {
	Equity  []EquityPoint
	Trades  []Trade
	Metrics Metrics
}

// RunStrategy walks the series once in time order and drives a FLAT/LONG
// state machine from the bar signals:
//
//   - BUY while flat opens a position at the bar's close, net of the entry
//     fee, deploying the whole cash balance (fully invested, long only).
//   - SELL while long closes at the bar's close net of the exit fee and
//     appends a Trade to the ledger.
//   - HOLD, BUY while long, and SELL while flat change nothing.
//
// Decisions use only the current bar; there is no lookahead. Equity is
// marked to market at every close: position value while long, realized
// cash while flat. A position still open at the final bar stays in the
// equity curve at its mark-to-market value but is NOT force-closed and
// produces no ledger entry — only realized trades count toward win rate
// and profit factor. Callers relying on trade statistics must be aware of
// this policy.
func RunStrategy(bars []Bar, cfg RunConfig) (*StrategyResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}

	cash := cfg.InitialCapital
	pos := Position{Side: SideFlat}
	trades := []Trade{}
	equity := make([]EquityPoint, 0, len(bars)-1)

	for i, bar := range bars {
		switch {
		case bar.Signal == SignalBuy && pos.Side == SideFlat:
			entryCost := bar.Close * (1 + cfg.FeeRate)
			pos = Position{
				Side:       SideLong,
				Qty:        cash / entryCost,
				EntryDate:  bar.Date,
				EntryPrice: bar.Close,
				EntryCost:  entryCost,
			}
			cash = 0

		case bar.Signal == SignalSell && pos.Side == SideLong:
			exitCost := bar.Close * (1 - cfg.FeeRate)
			cash = pos.Qty * exitCost
			trades = append(trades, closeTrade(pos, bar, exitCost))
			pos = Position{Side: SideFlat}
		}

		// The curve starts at the first usable return, aligned with the
		// benchmark curve. A signal on bar 0 is still processed above.
		if i == 0 {
			continue
		}

		var value float64
		switch pos.Side {
		case SideLong:
			value = pos.Qty * bar.Close
		case SideFlat:
			value = cash
		default:
			panic(fmt.Sprintf("backtest: undefined position state %q at bar %s",
				pos.Side, bar.Date.Format(dateFormat)))
		}
		equity = append(equity, EquityPoint{
			Date:   bar.Date.Format(dateFormat),
			Equity: value,
		})
	}

	return &StrategyResult{
		Equity:  equity,
		Trades:  trades,
		Metrics: ComputeMetrics(equity, trades, cfg.TradingDays),
	}, nil
}

// closeTrade converts an open position into its immutable ledger record.
// PnL and return are net of both fees; entry/exit prices are the raw
// closes at which the signals fired.
func closeTrade(pos Position, bar Bar, exitCost float64) Trade {
	pnl := (exitCost - pos.EntryCost) * pos.Qty
	retPct := 0.0
	if pos.EntryCost > 0 {
		retPct = (exitCost/pos.EntryCost - 1) * 100
	}
	return Trade{
		EntryDate:  pos.EntryDate.Format(dateFormat),
		ExitDate:   bar.Date.Format(dateFormat),
		EntryPrice: pos.EntryPrice,
		ExitPrice:  bar.Close,
		Qty:        pos.Qty,
		PnL:        pnl,
		ReturnPct:  retPct,
		Direction:  "Long",
		IsProfit:   pnl > 0,
	}
}
