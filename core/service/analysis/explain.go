package analysis

import (
	"context"
	"fmt"
	"strings"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"
	"skincheck_server/pkg/logger"
	"skincheck_server/pkg/metrics"
	"skincheck_server/pkg/resilience"
)

func (s *Service) explain(ctx context.Context, product string, skin domain.SkinType, agg *domain.AggregateResult) (string, domain.ExplanationSource, map[string]domain.Verdict) {
	fallback := FallbackExplanation(skin, agg)
	if s.explainer == nil {
		s.metrics.RecordExplanation(metrics.ExplanationSkipped)
		return fallback, domain.ExplanationFallback, nil
	}

	ectx, cancel := context.WithTimeout(ctx, s.cfg.ExplainTimeout)
	defer cancel()

	input := &out.ExplanationInput{
		ProductName:    product,
		SkinType:       skin,
		OverallVerdict: agg.Overall,
		Brackets:       agg.Brackets,
	}
	call := func() (*out.Explanation, error) {
		return s.explainer.Explain(ectx, input)
	}

	var (
		exp *out.Explanation
		err error
	)
	if s.breaker != nil {
		exp, err = resilience.Call(s.breaker, call)
	} else {
		exp, err = call()
	}

	if err == nil && (exp == nil || strings.TrimSpace(exp.Text) == "") {
		err = fmt.Errorf("empty explanation")
	}
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("explanation unavailable, using fallback")
		s.metrics.RecordExplanation(metrics.ExplanationFallback)
		return fallback, domain.ExplanationFallback, nil
	}

	s.metrics.RecordExplanation(metrics.ExplanationGenerated)
	return strings.TrimSpace(exp.Text), domain.ExplanationGenerated, exp.Advisory
}

// FallbackExplanation describes the deterministic result without a model.
func FallbackExplanation(skin domain.SkinType, agg *domain.AggregateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall verdict for %s skin: %s. ", skin, agg.Overall)

	switch agg.Rule {
	case domain.RuleBadOutweighs:
		fmt.Fprintf(&b, "Concerning ingredients outweigh beneficial ones (weighted score %d against %d).", agg.BadScore, agg.GoodScore)
	case domain.RuleBadInHigh:
		b.WriteString("A concerning ingredient appears among the most concentrated ingredients, which caps the verdict at moderate.")
	case domain.RuleGoodOutweighs:
		fmt.Fprintf(&b, "Beneficial ingredients outweigh concerning ones (weighted score %d against %d).", agg.GoodScore, agg.BadScore)
	default:
		b.WriteString("Beneficial and concerning ingredients balance out.")
	}

	if bad := namesWith(agg.Brackets, domain.VerdictBad); len(bad) > 0 {
		fmt.Fprintf(&b, " Watch out for: %s.", strings.Join(bad, ", "))
	}
	if agg.Summary.Unknown > 0 {
		fmt.Fprintf(&b, " %d ingredient(s) could not be matched to our database.", agg.Summary.Unknown)
	}
	b.WriteString(" A detailed explanation is not available right now.")
	return b.String()
}

func namesWith(b domain.Brackets, v domain.Verdict) []string {
	var names []string
	b.Each(func(_ domain.Bracket, ci *domain.ClassifiedIngredient) {
		if ci.Verdict == v {
			names = append(names, ci.Name)
		}
	})
	return names
}
