package shared

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// HbarDecimals is the number of tinybar decimal places in one HBAR.
const HbarDecimals = 8

// ToSmallestUnits converts a human amount into the asset's smallest unit.
// Amounts carrying more precision than the asset supports are rejected.
func ToSmallestUnits(amount float64, decimals uint32) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount must be a finite number")
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}

	formatted := strconv.FormatFloat(amount, 'f', -1, 64)
	whole, fraction, _ := strings.Cut(formatted, ".")
	if uint32(len(fraction)) > decimals {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", formatted, decimals)
	}
	fraction += strings.Repeat("0", int(decimals)-len(fraction))

	units, ok := new(big.Int).SetString(whole+fraction, 10)
	if !ok {
		return 0, fmt.Errorf("invalid amount %s", formatted)
	}
	if !units.IsInt64() {
		return 0, fmt.Errorf("amount %s overflows the ledger range", formatted)
	}
	return units.Int64(), nil
}

// FormatUnits renders smallest units as a decimal string without trailing zeros.
func FormatUnits(units int64, decimals uint32) string {
	sign := ""
	magnitude := new(big.Int).SetInt64(units)
	if magnitude.Sign() < 0 {
		sign = "-"
		magnitude.Neg(magnitude)
	}

	digits := magnitude.String()
	if decimals == 0 {
		return sign + digits
	}
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	split := len(digits) - int(decimals)
	whole, fraction := digits[:split], strings.TrimRight(digits[split:], "0")
	if fraction == "" {
		return sign + whole
	}
	return sign + whole + "." + fraction
}

// FormatHbar renders tinybars as an HBAR amount with the ℏ suffix.
func FormatHbar(tinybars int64) string {
	return FormatUnits(tinybars, HbarDecimals) + " ℏ"
}
