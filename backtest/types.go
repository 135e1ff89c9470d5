package backtest

import "time"

const dateFormat = "2006-01-02"

// Signal is the per-bar trading signal produced by the upstream ML model.
// The numeric encoding matches the CSV contract: 1 buy, -1 sell, 0 hold.
type Signal int8

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

// Valid reports whether s is one of the three known signal values.
func (s Signal) Valid() bool {
	return s == SignalSell || s == SignalHold || s == SignalBuy
}

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	case SignalHold:
		return "hold"
	default:
		return "invalid"
	}
}

type Side string

const (
	SideFlat Side = "flat"
	SideLong Side = "long"
)

// Bar is one daily price period plus its signal. Immutable once loaded.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Signal Signal
}

// Position is the transient simulation state while a long trade is open.
// EntryPrice is the raw close at entry; EntryCost is the effective fill
// price including the entry fee.
type Position struct {
	Side       Side
	Qty        float64
	EntryDate  time.Time
	EntryPrice float64
	EntryCost  float64
}

// Trade is a closed long round-trip, net of entry and exit fees.
type Trade struct {
	EntryDate  string  `json:"entry_date"`
	ExitDate   string  `json:"exit_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Qty        float64 `json:"qty"`
	PnL        float64 `json:"pnl"`
	ReturnPct  float64 `json:"return_pct"`
	Direction  string  `json:"direction"`
	IsProfit   bool    `json:"is_profit"`
}

// EquityPoint is one point of a portfolio value curve.
type EquityPoint struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}
