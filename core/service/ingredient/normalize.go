// Package ingredient resolves free-text ingredient names against the catalog.
package ingredient

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizedName holds the comparison forms of a raw ingredient name.
type NormalizedName struct {
	// Lower is trimmed and lower-cased; used by the exact and partial tiers.
	Lower string
	// Stripped is Lower without hyphens, spaces, periods and underscores;
	// used only by the stripped-equality tier.
	Stripped string
}

var stripper = strings.NewReplacer("-", "", " ", "", ".", "", "_", "")

// Normalize builds both comparison forms. It never fails.
func Normalize(raw string) NormalizedName {
	// NFKC folds full-width and ligature glyphs that OCR tends to produce.
	s := norm.NFKC.String(raw)
	// cases.Caser is stateful, so one per call.
	s = cases.Lower(language.Und).String(s)
	lower := strings.Join(strings.Fields(s), " ")
	return NormalizedName{
		Lower:    lower,
		Stripped: Strip(lower),
	}
}

// Strip removes the separator characters ignored by the stripped tier.
func Strip(s string) string {
	return stripper.Replace(s)
}
