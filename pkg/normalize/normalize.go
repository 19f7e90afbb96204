package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Every function in this package is total: malformed input yields the zero
// value plus ok=false, never a panic or error.

var (
	priceRunRe = regexp.MustCompile(`\d[\d.,]*`)
	weightRe   = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|g)\b`)

	germanPrinter = message.NewPrinter(language.German)
)

// String trims strings, renders finite numbers as their string form and
// returns "" for anything else.
func String(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return String(float64(s))
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// Number accepts numbers as-is. Strings are stripped down to digits, signs
// and separators; a trailing comma-decimal is converted to a dot before
// parsing ("12,5" -> 12.5, "1.234,56" -> 1234.56).
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return Number(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.' || r == ',' {
				return r
			}
			return -1
		}, n)
		return parseSeparated(cleaned)
	default:
		return 0, false
	}
}

// Price extracts the first digit run from a string that may contain
// currency symbols or thousands separators ("1.234,56 €" -> 1234.56).
// Plain numbers pass through unchanged.
func Price(v any) (float64, bool) {
	s, isStr := v.(string)
	if !isStr {
		return Number(v)
	}
	run := priceRunRe.FindString(s)
	if run == "" {
		return 0, false
	}
	run = strings.TrimRight(run, ".,")
	return parseSeparated(run)
}

// FormatPrice renders an amount the way the vendor sites do
// (comma decimal, dotted thousands): 1234.56 -> "1.234,56 €".
func FormatPrice(amount float64) string {
	return germanPrinter.Sprintf("%.2f €", amount)
}

// WeightKg pulls a weight out of free text like "Whey Protein 750g Dose"
// or "2,27 kg". Grams are converted to kilograms.
func WeightKg(s string) (float64, bool) {
	m := weightRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	val, ok := parseSeparated(m[1])
	if !ok || val <= 0 {
		return 0, false
	}
	if strings.EqualFold(m[2], "g") {
		val /= 1000
	}
	return val, true
}

// parseSeparated parses a numeric string where either "," or "." may act as
// the decimal separator. When both appear, the rightmost one wins and the
// other is treated as thousands grouping.
func parseSeparated(s string) (float64, bool) {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot {
		s = strings.ReplaceAll(s[:lastComma], ".", "") + "." + s[lastComma+1:]
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 rounds to two decimal places. Distance and money fields use it so
// serialized values stay stable.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
