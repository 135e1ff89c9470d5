package backtest

import "fmt"

// ValidateSeries checks the input contract from the data collaborator:
// at least 2 bars, strictly increasing dates, positive prices with
// low <= {open, close} <= high, non-negative volume, and signal values
// inside the enumerated set. The series is expected to arrive already
// sorted and cleaned; a violation here aborts the run before simulation.
func ValidateSeries(bars []Bar) error {
	if len(bars) < 2 {
		return fmt.Errorf("%w: need at least 2 usable bars, got %d", ErrInsufficientData, len(bars))
	}

	for i, b := range bars {
		d := b.Date.Format(dateFormat)

		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			if bars[i-1].Date.Equal(b.Date) {
				return fmt.Errorf("%w: duplicate timestamp %s", ErrInvalidInput, d)
			}
			return fmt.Errorf("%w: timestamps not increasing at %s", ErrInvalidInput, d)
		}

		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: non-positive price at %s", ErrInvalidInput, d)
		}
		if b.Low > b.Open || b.Low > b.Close || b.High < b.Open || b.High < b.Close {
			return fmt.Errorf("%w: low/high range violated at %s", ErrInvalidInput, d)
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: negative volume at %s", ErrInvalidInput, d)
		}
		if !b.Signal.Valid() {
			return fmt.Errorf("%w: unknown signal value %d at %s", ErrInvalidInput, int(b.Signal), d)
		}
	}
	return nil
}
