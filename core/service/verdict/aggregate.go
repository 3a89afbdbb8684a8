package verdict

import "skincheck_server/core/domain"

// Aggregate computes the overall verdict from bracketed, classified
// ingredients. Rules apply in order:
//
//  1. bad score above good score: bad
//  2. any bad ingredient in the high bracket: moderate
//  3. good score above bad score: good
//  4. otherwise: moderate
//
// Moderate and unknown ingredients only show up in the summary.
func Aggregate(b domain.Brackets) domain.AggregateResult {
	res := domain.AggregateResult{Brackets: b}

	if b.Len() == 0 {
		res.Overall = domain.VerdictModerate
		res.Rule = domain.RuleEmpty
		return res
	}

	badInHigh := false
	b.Each(func(br domain.Bracket, ci *domain.ClassifiedIngredient) {
		res.Summary.Add(ci.Verdict)
		switch ci.Verdict {
		case domain.VerdictGood:
			res.GoodScore += br.Weight()
		case domain.VerdictBad:
			res.BadScore += br.Weight()
			if br == domain.BracketHigh {
				badInHigh = true
			}
		}
	})

	switch {
	case res.BadScore > res.GoodScore:
		res.Overall, res.Rule = domain.VerdictBad, domain.RuleBadOutweighs
	case badInHigh:
		res.Overall, res.Rule = domain.VerdictModerate, domain.RuleBadInHigh
	case res.GoodScore > res.BadScore:
		res.Overall, res.Rule = domain.VerdictGood, domain.RuleGoodOutweighs
	default:
		res.Overall, res.Rule = domain.VerdictModerate, domain.RuleBalanced
	}
	return res
}

// Scorer runs classification, partitioning and aggregation as one step.
type Scorer struct {
	classifier *Classifier
}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{classifier: NewClassifier()}
}

// Score evaluates resolutions given in list order.
func (s *Scorer) Score(resolved []*domain.ResolvedIngredient) domain.AggregateResult {
	return Aggregate(Partition(s.classifier.ClassifyAll(resolved)))
}
