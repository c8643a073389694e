package model

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is a quantity in the smallest unit of the payment currency
type Amount uint64

const (
	// NativeDecimals of the native coin (nano units)
	NativeDecimals int32 = 9

	// DefaultTokenDecimals of the secondary token
	DefaultTokenDecimals int32 = 6
)

// ErrInvalidAmount ...
var ErrInvalidAmount = errors.New("invalid amount")

var maxAmount = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ParseAmount converts a decimal string like "0.1" to smallest units
func ParseAmount(s string, decimals int32) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}

	units := d.Shift(decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, ErrInvalidAmount
	}
	if units.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return Amount(units.BigInt().Uint64()), nil
}

// MustParseAmount panics on error
func MustParseAmount(s string, decimals int32) Amount {
	a, err := ParseAmount(s, decimals)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal ...
func (a Amount) Decimal(decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), -decimals)
}

// Format ...
func (a Amount) Format(decimals int32) string {
	return a.Decimal(decimals).String()
}

// Add returns false on overflow
func (a Amount) Add(b Amount) (Amount, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
