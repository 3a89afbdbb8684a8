// Package verdict turns resolved ingredients into canonical verdicts and
// scores a product from their list positions.
package verdict

import (
	"strings"
	"sync"

	"skincheck_server/core/domain"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

var (
	badKeywords  = []string{"bad", "danger", "harmful", "toxic"}
	goodKeywords = []string{"good", "beneficial", "safe"}
)

// Classifier maps free-text catalog verdict labels onto domain.Verdict.
// Negative keywords always win over positive ones.
type Classifier struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	badN    int
}

// NewClassifier builds the keyword automaton.
func NewClassifier() *Classifier {
	keywords := make([]string, 0, len(badKeywords)+len(goodKeywords))
	keywords = append(keywords, badKeywords...)
	keywords = append(keywords, goodKeywords...)
	return &Classifier{
		matcher: ahocorasick.NewStringMatcher(keywords),
		badN:    len(badKeywords),
	}
}

// Classify maps a label. Labels matching no keyword are moderate.
func (c *Classifier) Classify(label string) domain.Verdict {
	text := []byte(strings.ToLower(label))

	// Matcher keeps per-call scratch state.
	c.mu.Lock()
	hits := c.matcher.Match(text)
	c.mu.Unlock()

	good := false
	for _, idx := range hits {
		if idx < c.badN {
			return domain.VerdictBad
		}
		good = true
	}
	if good {
		return domain.VerdictGood
	}
	return domain.VerdictModerate
}

// ClassifyResolved produces the classified view of one resolution.
// Unresolved ingredients are unknown regardless of their placeholder label.
func (c *Classifier) ClassifyResolved(r *domain.ResolvedIngredient) domain.ClassifiedIngredient {
	out := domain.ClassifiedIngredient{
		Name: r.DisplayName(),
		Tier: r.Tier,
	}
	if !r.Resolved() {
		out.Verdict = domain.VerdictUnknown
		out.SideEffect = domain.UnresolvedSideEffect
		return out
	}
	out.Verdict = c.Classify(r.Record.Verdict)
	out.SideEffect = r.Record.SideEffect
	return out
}

// ClassifyAll classifies every resolution, preserving order.
func (c *Classifier) ClassifyAll(resolved []*domain.ResolvedIngredient) []domain.ClassifiedIngredient {
	out := make([]domain.ClassifiedIngredient, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, c.ClassifyResolved(r))
	}
	return out
}
