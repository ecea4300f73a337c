package payment

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
)

// Plain decimal notation only. Fractions ("1/2"), hex floats and huge
// exponents are refused before they reach big.Rat.
var amountPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d{1,3})?$`)

var (
	hundred  = big.NewInt(100)
	two      = big.NewInt(2)
	maxMinor = big.NewInt(math.MaxInt64)
)

// ParseAmount converts an amount in major currency units ("12.50") into
// minor units (1250).
//
// The conversion is exact decimal arithmetic. Fractions of a minor unit
// are rounded half away from zero, so "0.005" becomes 1 and "0.004"
// becomes 0, which is then rejected because the result must be positive.
func ParseAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	if !amountPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}

	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	if r.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}

	// floor((num*100*2 + den) / (2*den)) rounds a positive value half up.
	num := new(big.Int).Mul(r.Num(), hundred)
	num.Mul(num, two)
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), two)
	minor := new(big.Int).Quo(num, den)

	if minor.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount rounds to zero", ErrInvalidAmount)
	}
	if minor.Cmp(maxMinor) > 0 {
		return 0, fmt.Errorf("%w: amount is too large", ErrInvalidAmount)
	}
	return minor.Int64(), nil
}

// FormatMinor renders a minor-unit amount in major units with two decimals.
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
