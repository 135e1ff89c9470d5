package backtest

import "errors"

// Sentinel errors for callers to match with errors.Is. Detail (which bar,
// which field) is attached by wrapping with fmt.Errorf("%w: ...").
var (
	// ErrInvalidInput means the series violates the input contract:
	// duplicate or non-increasing timestamps, out-of-range prices, or a
	// signal value outside {-1, 0, 1}.
	ErrInvalidInput = errors.New("invalid input series")

	// ErrInsufficientData means fewer than 2 usable bars remain after
	// cleaning, so not even one return is computable.
	ErrInsufficientData = errors.New("insufficient data")
)
