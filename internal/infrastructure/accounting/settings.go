package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingMode names a decimal rounding strategy for ledger amounts
type RoundingMode string

const (
	RoundingHalfUp   RoundingMode = "half_up"
	RoundingHalfEven RoundingMode = "half_even"
	RoundingUp       RoundingMode = "up"
	RoundingDown     RoundingMode = "down"
	RoundingCeiling  RoundingMode = "ceiling"
	RoundingFloor    RoundingMode = "floor"
)

// IsValid checks if the mode is a known RoundingMode
func (m RoundingMode) IsValid() bool {
	switch m {
	case RoundingHalfUp, RoundingHalfEven, RoundingUp, RoundingDown, RoundingCeiling, RoundingFloor:
		return true
	}
	return false
}

// Settings holds the organization's ledger decimal scale and rounding mode.
// Every intermediate step of a proportional recalculation rounds with these
// settings, not just the final value.
type Settings struct {
	DecimalScale int32
	Mode         RoundingMode
}

// NewSettings creates validated ledger settings
func NewSettings(scale int32, mode RoundingMode) (Settings, error) {
	if scale < 0 {
		return Settings{}, fmt.Errorf("ledger decimal scale cannot be negative: %d", scale)
	}
	if !mode.IsValid() {
		return Settings{}, fmt.Errorf("unknown rounding mode: %q", mode)
	}
	return Settings{DecimalScale: scale, Mode: mode}, nil
}

// DefaultSettings returns two-decimal half-up rounding
func DefaultSettings() Settings {
	return Settings{DecimalScale: 2, Mode: RoundingHalfUp}
}

// Scale returns the ledger decimal scale
func (s Settings) Scale() int32 {
	return s.DecimalScale
}

// Round rounds an amount to the ledger scale using the configured mode
func (s Settings) Round(d decimal.Decimal) decimal.Decimal {
	switch s.Mode {
	case RoundingHalfEven:
		return d.RoundBank(s.DecimalScale)
	case RoundingUp:
		return d.RoundUp(s.DecimalScale)
	case RoundingDown:
		return d.RoundDown(s.DecimalScale)
	case RoundingCeiling:
		return d.RoundCeil(s.DecimalScale)
	case RoundingFloor:
		return d.RoundFloor(s.DecimalScale)
	default:
		return d.Round(s.DecimalScale)
	}
}
