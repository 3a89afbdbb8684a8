package verdict

import (
	"testing"

	"skincheck_server/core/domain"
)

func classified(verdicts ...domain.Verdict) []domain.ClassifiedIngredient {
	out := make([]domain.ClassifiedIngredient, len(verdicts))
	for i, v := range verdicts {
		out[i] = domain.ClassifiedIngredient{Name: string(v), Verdict: v}
	}
	return out
}

var verdictRank = map[domain.Verdict]int{
	domain.VerdictBad:      0,
	domain.VerdictModerate: 1,
	domain.VerdictGood:     2,
}

func TestAggregate(t *testing.T) {
	const (
		G = domain.VerdictGood
		M = domain.VerdictModerate
		B = domain.VerdictBad
		U = domain.VerdictUnknown
	)

	tests := []struct {
		name      string
		verdicts  []domain.Verdict
		want      domain.Verdict
		wantRule  domain.DecisionRule
		wantGood  int
		wantBad   int
		wantCount domain.Summary
	}{
		{
			name:      "water fragrance glycerin",
			verdicts:  []domain.Verdict{G, B, G},
			want:      G,
			wantRule:  domain.RuleGoodOutweighs,
			wantGood:  4,
			wantBad:   2,
			wantCount: domain.Summary{Good: 2, Bad: 1},
		},
		{
			name:      "fragrance listed first",
			verdicts:  []domain.Verdict{B, G, G},
			want:      M,
			wantRule:  domain.RuleBadInHigh,
			wantGood:  3,
			wantBad:   3,
			wantCount: domain.Summary{Good: 2, Bad: 1},
		},
		{
			name:      "bad outweighs good",
			verdicts:  []domain.Verdict{G, B, B, B},
			want:      B,
			wantRule:  domain.RuleBadOutweighs,
			wantGood:  3,
			wantBad:   4,
			wantCount: domain.Summary{Good: 1, Bad: 3},
		},
		{
			name:      "tie without high bad",
			verdicts:  []domain.Verdict{M, B, G, G},
			want:      M,
			wantRule:  domain.RuleBalanced,
			wantGood:  2,
			wantBad:   2,
			wantCount: domain.Summary{Good: 2, Moderate: 1, Bad: 1},
		},
		{
			name:      "unknown only",
			verdicts:  []domain.Verdict{U, U},
			want:      M,
			wantRule:  domain.RuleBalanced,
			wantCount: domain.Summary{Unknown: 2},
		},
		{
			name:      "single bad ingredient",
			verdicts:  []domain.Verdict{B},
			want:      B,
			wantRule:  domain.RuleBadOutweighs,
			wantBad:   3,
			wantCount: domain.Summary{Bad: 1},
		},
		{
			name:      "high bad wins over good scores",
			verdicts:  []domain.Verdict{B, G, G, G, G, G, G, G, G, G},
			want:      M,
			wantRule:  domain.RuleBadInHigh,
			wantGood:  6*2 + 3*1,
			wantBad:   3,
			wantCount: domain.Summary{Good: 9, Bad: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Aggregate(Partition(classified(tt.verdicts...)))
			if res.Overall != tt.want {
				t.Errorf("Overall = %s, want %s", res.Overall, tt.want)
			}
			if res.Rule != tt.wantRule {
				t.Errorf("Rule = %s, want %s", res.Rule, tt.wantRule)
			}
			if res.GoodScore != tt.wantGood || res.BadScore != tt.wantBad {
				t.Errorf("scores = (%d, %d), want (%d, %d)", res.GoodScore, res.BadScore, tt.wantGood, tt.wantBad)
			}
			if res.Summary != tt.wantCount {
				t.Errorf("Summary = %+v, want %+v", res.Summary, tt.wantCount)
			}
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(Partition(nil))
	if res.Overall != domain.VerdictModerate {
		t.Errorf("Overall = %s, want moderate", res.Overall)
	}
	if res.Rule != domain.RuleEmpty {
		t.Errorf("Rule = %s, want %s", res.Rule, domain.RuleEmpty)
	}
	if res.Summary.Total() != 0 || res.Brackets.Len() != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

// Swapping any good or moderate ingredient for a bad one never improves the verdict.
func TestAggregate_Monotonic(t *testing.T) {
	choices := []domain.Verdict{domain.VerdictGood, domain.VerdictModerate, domain.VerdictBad, domain.VerdictUnknown}

	for n := 1; n <= 5; n++ {
		total := 1
		for i := 0; i < n; i++ {
			total *= len(choices)
		}
		for combo := 0; combo < total; combo++ {
			verdicts := make([]domain.Verdict, n)
			c := combo
			for i := range verdicts {
				verdicts[i] = choices[c%len(choices)]
				c /= len(choices)
			}
			before := Aggregate(Partition(classified(verdicts...))).Overall

			for i, v := range verdicts {
				if v == domain.VerdictBad || v == domain.VerdictUnknown {
					continue
				}
				worse := append([]domain.Verdict(nil), verdicts...)
				worse[i] = domain.VerdictBad
				after := Aggregate(Partition(classified(worse...))).Overall
				if verdictRank[after] > verdictRank[before] {
					t.Fatalf("%v -> %v improved verdict %s -> %s", verdicts, worse, before, after)
				}
			}
		}
	}
}

func TestScorer_Deterministic(t *testing.T) {
	s := NewScorer()
	resolved := []*domain.ResolvedIngredient{
		domain.NewResolved("Water", &domain.Ingredient{Name: "Water", Verdict: "Good"}, domain.TierExactAll),
		domain.NewResolved("Fragrance", &domain.Ingredient{Name: "Fragrance", Verdict: "Bad"}, domain.TierExactGeneral),
		domain.NewResolved("Glycerin", &domain.Ingredient{Name: "Glycerin", Verdict: "Beneficial"}, domain.TierExactSkin),
	}

	first := s.Score(resolved)
	second := s.Score(resolved)
	if first.Overall != domain.VerdictGood || second.Overall != first.Overall {
		t.Errorf("Score() = %s then %s, want good twice", first.Overall, second.Overall)
	}
	if first.Brackets.High[0].Name != "Water" || first.Brackets.Low[0].Name != "Glycerin" {
		t.Errorf("unexpected brackets: %+v", first.Brackets)
	}
}
