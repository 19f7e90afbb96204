package normalize

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics so "Müsli-Riegel" and "musli-riegel"
// compare equal.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Slugify turns free text into a stable url/id-safe token.
func Slugify(s string) string {
	folded := Fold(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// HashID derives a deterministic identifier from record content for
// providers that ship no usable id. Same input, same id across runs.
func HashID(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "|"))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(joined)).String()
}
