// Package normalize owns the schema-specific transformation from raw typed
// user input into normalized structured values plus a flat map of
// human-rendered display strings per dotted field path, with a deterministic
// missing-field policy: a field that cannot be parsed or resolved always
// degrades to its [[MISSING: path]] marker, never to an error.
package normalize

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the fixed deal currency; offer.currency is forced to this
// literal regardless of input.
const Currency = "AED"

var printer = message.NewPrinter(language.English)

// FormatIntCommas renders an integer with thousands separators:
// 3493236093 -> "3,493,236,093".
func FormatIntCommas(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatCurrencyAED renders a single currency amount. Whole amounts carry no
// decimals ("AED 5,000"); fractional amounts keep up to two decimals with
// trailing zeros stripped ("AED 1,234.5").
func FormatCurrencyAED(amount float64) string {
	r := new(big.Rat).SetFloat64(amount)
	if r.IsInt() {
		return fmt.Sprintf("%s %s", Currency, FormatIntCommas(r.Num().Int64()))
	}
	text := r.FloatString(2)
	whole, frac, _ := strings.Cut(text, ".")
	frac = strings.TrimRight(frac, "0")
	n, _ := strconv.ParseInt(whole, 10, 64)
	if frac == "" {
		return fmt.Sprintf("%s %s", Currency, FormatIntCommas(n))
	}
	return fmt.Sprintf("%s %s.%s", Currency, FormatIntCommas(n), frac)
}

// FormatPriceRangeAED renders a two-bound price range with two-decimal
// precision and an en-dash separator: "AED 1.30 – AED 1.50". Callers are
// responsible for the low < high gate; this function only formats.
func FormatPriceRangeAED(low, high float64) string {
	return fmt.Sprintf("%s %s – %s %s",
		Currency, new(big.Rat).SetFloat64(low).FloatString(2),
		Currency, new(big.Rat).SetFloat64(high).FloatString(2))
}

// FormatAmountAED renders an exact two-decimal currency amount ("AED 1.00"),
// the form used for per-share nominal values.
func FormatAmountAED(amount float64) string {
	return fmt.Sprintf("%s %s", Currency, new(big.Rat).SetFloat64(amount).FloatString(2))
}

// FormatPercent renders a percentage as its normalized decimal with trailing
// zeros stripped and no decimal point for whole numbers: 15 -> "15%",
// 15.5 -> "15.5%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// parseDecimal coerces comma-grouped strings, ints and floats to a finite
// float64. Empty, unparsable or non-finite values return an error; callers
// translate that into missing-field policy rather than failing the
// operation. The finite gate matters: ParseFloat accepts "NaN" and "Inf",
// and big.Rat cannot represent either.
func parseDecimal(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("nil numeric value")
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if cleaned == "" {
			return 0, fmt.Errorf("empty numeric string")
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("parse numeric %q: %w", v, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported numeric value %T", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite numeric value %v", f)
	}
	return f, nil
}

// parseInt64 coerces a value to int64, truncating any fractional part the
// way the decimal pipeline does.
func parseInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := parseDecimal(value)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
