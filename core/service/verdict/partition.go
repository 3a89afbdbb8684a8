package verdict

import "skincheck_server/core/domain"

// BracketSizes returns how many of n list positions fall in each bracket.
//
// Ingredient lists are ordered by descending concentration, so list position
// stands in for concentration: the first ceil(10%) entries are high, the last
// ceil(30%) are low and the rest are moderate. Each of high and low holds at
// least one entry when the list allows it. Brackets never overlap: high is
// sized first, low is clamped to what remains, and moderate may be empty.
// A single ingredient is therefore high only.
func BracketSizes(n int) (high, moderate, low int) {
	if n <= 0 {
		return 0, 0, 0
	}

	high = max(1, (n+9)/10)
	high = min(high, n)

	low = max(1, (3*n+9)/10)
	low = min(low, n-high)

	return high, n - high - low, low
}

// Partition splits an ordered list into the three brackets. The input is not
// modified; concatenating High, Moderate and Low yields it again.
func Partition(items []domain.ClassifiedIngredient) domain.Brackets {
	high, moderate, _ := BracketSizes(len(items))
	return domain.Brackets{
		High:     clone(items[:high]),
		Moderate: clone(items[high : high+moderate]),
		Low:      clone(items[high+moderate:]),
	}
}

func clone(s []domain.ClassifiedIngredient) []domain.ClassifiedIngredient {
	out := make([]domain.ClassifiedIngredient, len(s))
	copy(out, s)
	return out
}
