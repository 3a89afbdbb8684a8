package domain

// Verdict is the closed set of canonical verdicts used throughout scoring.
type Verdict string

const (
	VerdictGood     Verdict = "good"
	VerdictModerate Verdict = "moderate"
	VerdictBad      Verdict = "bad"
	VerdictUnknown  Verdict = "unknown"
)

// Bracket is an estimated-concentration partition derived from list position.
type Bracket string

const (
	BracketHigh     Bracket = "high"
	BracketModerate Bracket = "moderate"
	BracketLow      Bracket = "low"
)

// Weight is the contribution of one ingredient in this bracket to the weighted scores.
func (b Bracket) Weight() int {
	switch b {
	case BracketHigh:
		return 3
	case BracketModerate:
		return 2
	case BracketLow:
		return 1
	default:
		return 0
	}
}

// ClassifiedIngredient is a resolved ingredient with its canonical verdict.
type ClassifiedIngredient struct {
	Name            string    `json:"ingredient_name"`
	Verdict         Verdict   `json:"verdict"`
	SideEffect      string    `json:"side_effects"`
	Tier            MatchTier `json:"match_tier"`
	AdvisoryVerdict Verdict   `json:"advisory_verdict,omitempty"`
}

// Brackets holds the three partitions of a classified ingredient list.
type Brackets struct {
	High     []ClassifiedIngredient `json:"highly_contributing"`
	Moderate []ClassifiedIngredient `json:"moderate_ingredients"`
	Low      []ClassifiedIngredient `json:"least_contributing"`
}

// Len returns the total number of ingredients across the brackets.
func (b *Brackets) Len() int {
	return len(b.High) + len(b.Moderate) + len(b.Low)
}

// Each calls fn for every ingredient together with its bracket, in list order.
func (b *Brackets) Each(fn func(Bracket, *ClassifiedIngredient)) {
	for i := range b.High {
		fn(BracketHigh, &b.High[i])
	}
	for i := range b.Moderate {
		fn(BracketModerate, &b.Moderate[i])
	}
	for i := range b.Low {
		fn(BracketLow, &b.Low[i])
	}
}

// Summary is the raw (unweighted) count of each canonical verdict.
type Summary struct {
	Good     int `json:"good"`
	Moderate int `json:"moderate"`
	Bad      int `json:"bad"`
	Unknown  int `json:"unknown"`
}

// Add counts one verdict.
func (s *Summary) Add(v Verdict) {
	switch v {
	case VerdictGood:
		s.Good++
	case VerdictBad:
		s.Bad++
	case VerdictModerate:
		s.Moderate++
	default:
		s.Unknown++
	}
}

// Total returns the number of counted verdicts.
func (s Summary) Total() int {
	return s.Good + s.Moderate + s.Bad + s.Unknown
}

// DecisionRule names the aggregation rule that produced the overall verdict.
type DecisionRule string

const (
	RuleEmpty         DecisionRule = "empty_list"
	RuleBadOutweighs  DecisionRule = "bad_score_exceeds_good"
	RuleBadInHigh     DecisionRule = "bad_in_high_bracket"
	RuleGoodOutweighs DecisionRule = "good_score_exceeds_bad"
	RuleBalanced      DecisionRule = "balanced"
)

// AggregateResult is the deterministic outcome of scoring a classified list.
// Overall is never VerdictUnknown.
type AggregateResult struct {
	Overall   Verdict      `json:"overall_verdict"`
	Brackets  Brackets     `json:"brackets"`
	Summary   Summary      `json:"summary"`
	GoodScore int          `json:"good_score"`
	BadScore  int          `json:"bad_score"`
	Rule      DecisionRule `json:"decision_rule"`
}
