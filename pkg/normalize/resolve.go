package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ResolveField returns the first of the candidate paths that resolves to a
// non-null value in the payload. Paths use dotted notation; bracket indices
// ("prices[0].price") are accepted and rewritten to gjson form. Adapters
// declare one candidate list per canonical field so that tolerating a new
// payload shape is a table edit, not new branching.
func ResolveField(payload []byte, paths ...string) gjson.Result {
	for _, p := range paths {
		r := gjson.GetBytes(payload, rewritePath(p))
		if r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

// ResolveString resolves the first candidate path and normalizes it to a
// trimmed string ("" when nothing resolves).
func ResolveString(payload []byte, paths ...string) string {
	r := ResolveField(payload, paths...)
	switch r.Type {
	case gjson.String:
		return strings.TrimSpace(r.Str)
	case gjson.Number:
		return String(r.Num)
	case gjson.True, gjson.False:
		return r.Raw
	default:
		return ""
	}
}

// ResolveNumber resolves the first candidate path into a float, going
// through Number so string-typed numerics ("29,99") still parse.
func ResolveNumber(payload []byte, paths ...string) (float64, bool) {
	r := ResolveField(payload, paths...)
	switch r.Type {
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return Number(r.Str)
	default:
		return 0, false
	}
}

// ResolvePrice is ResolveNumber with price-run extraction for values like
// "ab 24,90 €".
func ResolvePrice(payload []byte, paths ...string) (float64, bool) {
	r := ResolveField(payload, paths...)
	switch r.Type {
	case gjson.Number:
		return Price(r.Num)
	case gjson.String:
		return Price(r.Str)
	default:
		return 0, false
	}
}

func rewritePath(p string) string {
	if !strings.Contains(p, "[") {
		return p
	}
	r := strings.NewReplacer("[", ".", "]", "")
	return strings.Trim(r.Replace(p), ".")
}
