package utils

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const currencyPrefix = "PKR "

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatPKR renders a whole-rupee amount with thousands separators, e.g. "PKR 17,837".
func FormatPKR(amount int64) string {
	return currencyPrefix + GroupThousands(amount)
}

// FormatCompactPKR renders an amount for KPI cards and chart axes.
// Example: 2_450_000 -> "PKR 2.5M", 250_000 -> "PKR 250K", 17_837 -> "PKR 17.8K", 950 -> "PKR 950"
func FormatCompactPKR(amount int64) string {
	d := decimal.NewFromInt(amount)
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return currencyPrefix + d.Div(million).StringFixed(1) + "M"
	case abs >= 100_000:
		return currencyPrefix + d.Div(thousand).StringFixed(0) + "K"
	case abs >= 1_000:
		return currencyPrefix + d.Div(thousand).StringFixed(1) + "K"
	default:
		return FormatPKR(amount)
	}
}

// GroupThousands inserts a comma every three digits.
func GroupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}

// FormatPercent renders a rate with one decimal place, e.g. "90.0%".
func FormatPercent(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(1) + "%"
}
