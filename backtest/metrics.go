package backtest

import (
	"encoding/json"
	"math"
)

// Metrics is a fixed bundle of performance statistics for one simulated
// run. Numeric fields are percentages or ratios, not raw fractions.
//
// Arithmetic edge cases are sentinels, never errors: CAGR is NaN when the
// horizon is zero, Sharpe and volatility are 0 for a zero-variance curve,
// win rate is 0 with an empty ledger, and profit factor is +Inf when there
// are winners but no losers. MarshalJSON emits null for non-finite values
// so the bundle always serializes.
type Metrics struct {
	TotalReturnPct float64
	CAGRPct        float64
	VolatilityPct  float64
	SharpeRatio    float64
	MaxDrawdownPct float64

	// Ledger statistics, included only when a trade ledger was supplied.
	TotalTrades  int
	WinRatePct   float64
	ProfitFactor float64

	withTrades bool
}

// ComputeMetrics derives the bundle from an equity curve and, for the
// signal-driven run, its trade ledger (pass nil for the benchmark).
// Pure function: computed once per run from immutable inputs.
func ComputeMetrics(equity []EquityPoint, ledger []Trade, periodsPerYear int) Metrics {
	m := Metrics{withTrades: ledger != nil}
	if len(equity) == 0 {
		m.CAGRPct = math.NaN()
		return m
	}

	first := equity[0].Equity
	last := equity[len(equity)-1].Equity
	m.TotalReturnPct = (last/first - 1) * 100

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns = append(returns, equity[i].Equity/equity[i-1].Equity-1)
	}

	nYears := float64(len(returns)) / float64(periodsPerYear)
	if nYears > 0 {
		m.CAGRPct = (math.Pow(last/first, 1/nYears) - 1) * 100
	} else {
		m.CAGRPct = math.NaN()
	}

	sd := stddev(returns)
	m.VolatilityPct = sd * math.Sqrt(float64(periodsPerYear)) * 100
	if sd > 0 {
		m.SharpeRatio = mean(returns) / sd * math.Sqrt(float64(periodsPerYear))
	}

	m.MaxDrawdownPct = maxDrawdown(equity) * 100

	if m.withTrades {
		m.TotalTrades = len(ledger)
		m.WinRatePct = winRate(ledger)
		m.ProfitFactor = profitFactor(ledger)
	}
	return m
}

// MarshalJSON writes the bundle with the wire field names of the output
// contract. Non-finite values (NaN CAGR, +Inf profit factor) become null
// rather than breaking the encoder.
func (m Metrics) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"total_return_pct": finite(m.TotalReturnPct),
		"cagr_pct":         finite(m.CAGRPct),
		"volatility_pct":   finite(m.VolatilityPct),
		"sharpe_ratio":     finite(m.SharpeRatio),
		"max_drawdown_pct": finite(m.MaxDrawdownPct),
	}
	if m.withTrades {
		out["total_trades"] = m.TotalTrades
		out["win_rate_pct"] = finite(m.WinRatePct)
		out["profit_factor"] = finite(m.ProfitFactor)
	}
	return json.Marshal(out)
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator), matching the
// pandas default used by the reference formulas.
func stddev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// maxDrawdown returns the deepest relative decline from the running peak
// of the curve, as a positive fraction. 0 iff the curve never declines.
func maxDrawdown(equity []EquityPoint) float64 {
	peak := equity[0].Equity
	minDD := 0.0
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		dd := (p.Equity - peak) / peak
		if dd < minDD {
			minDD = dd
		}
	}
	return math.Abs(minDD)
}

func winRate(ledger []Trade) float64 {
	if len(ledger) == 0 {
		return 0
	}
	wins := 0
	for _, t := range ledger {
		if t.PnL > 0 {
			wins++
		}
	}
	return 100 * float64(wins) / float64(len(ledger))
}

// profitFactor is gross profit over gross loss magnitude. With no losing
// trades it is +Inf if there are winners, else 0.
func profitFactor(ledger []Trade) float64 {
	var grossProfit, grossLoss float64
	for _, t := range ledger {
		if t.PnL > 0 {
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			grossLoss += -t.PnL
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}
