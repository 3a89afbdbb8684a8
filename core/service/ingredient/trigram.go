package ingredient

import (
	"strings"
	"unicode"

	"skincheck_server/core/domain"
)

// Similarity returns the trigram similarity of a and b in [0, 1], computed the
// way Postgres pg_trgm does: words are runs of letters and digits, each word is
// padded with two leading blanks and one trailing blank, and the score is the
// number of shared trigrams over the size of the union.
func Similarity(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

func trigrams(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(s)+2*len(words))
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// BestMatch scores every candidate against query and returns the highest.
// Ties keep the earlier candidate, so callers should pass candidates in
// identity order. Returns (nil, 0) for an empty candidate list.
func BestMatch(query string, candidates []*domain.Ingredient) (*domain.Ingredient, float64) {
	var best *domain.Ingredient
	bestScore := -1.0

	for _, c := range candidates {
		if c == nil {
			continue
		}
		score := Similarity(query, c.Name)
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if best == nil {
		return nil, 0
	}
	return best, bestScore
}
