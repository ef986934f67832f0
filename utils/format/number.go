package format

import (
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultNumberDecimals is the fraction digit count used by dashboards when none is given
	DefaultNumberDecimals = 0

	// DefaultCurrency is the ISO 4217 code used when Currency receives an empty code
	DefaultCurrency = "USD"

	// DefaultPercentageDecimals is the fraction digit count for percentages
	DefaultPercentageDecimals = 1
)

// locale is fixed; every formatter renders US English
var locale = language.AmericanEnglish

// Number renders v with group separators and exactly decimals fraction digits.
// Rounding is half away from zero on the shortest decimal representation of v,
// so Number(1.005, 2) is "1.01" and Number(2.5, 0) is "3".
func Number(v float64, decimals int) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return fixed(decimal.NewFromFloat(v), v < 0, decimals)
}

// Currency renders amount with the symbol of the ISO 4217 code prefixed, e.g. "$1,234.56".
// The number of fraction digits follows the currency's standard scale.
func Currency(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}

	symbol, scale := currencyStyle(code)
	if s, ok := nonFinite(amount); ok {
		if amount < 0 {
			return "-" + symbol + strings.TrimPrefix(s, "-")
		}
		return symbol + s
	}

	body := fixed(decimal.NewFromFloat(amount).Abs(), false, scale)
	if amount < 0 {
		return "-" + symbol + body
	}
	return symbol + body
}

// Percentage renders a value on the 0-100 scale as a percent string: Percentage(85.5, 1) is "85.5%".
func Percentage(v float64, decimals int) string {
	if s, ok := nonFinite(v); ok {
		return s + "%"
	}
	// Divide then re-scale in decimal space so the digits match the 0-1 ratio being rendered.
	d := decimal.NewFromFloat(v / 100).Shift(2)
	return fixed(d, v < 0, decimals) + "%"
}

// currencyStyle returns the display symbol and fraction digit count for a currency code.
// Unknown codes render with the upper-cased code, a no-break space and two decimals.
func currencyStyle(code string) (string, int) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(code) + "\u00a0", 2
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol := message.NewPrinter(locale).Sprint(currency.Symbol(unit))
	return symbol, scale
}

// fixed rounds d to decimals places and groups the integer digits.
// neg carries the sign of the original value so that -0.001 renders "-0".
func fixed(d decimal.Decimal, neg bool, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	s := d.Abs().StringFixed(int32(decimals))
	intPart, fracPart, _ := strings.Cut(s, ".")

	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return s
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(humanize.BigComma(n))
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "∞", true
	case math.IsInf(v, -1):
		return "-∞", true
	}
	return "", false
}
