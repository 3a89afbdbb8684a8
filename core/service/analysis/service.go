// Package analysis orchestrates one product check: resolve, classify,
// partition, aggregate and finally explain.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/in"
	"skincheck_server/core/port/out"
	"skincheck_server/core/service/ingredient"
	"skincheck_server/core/service/verdict"
	"skincheck_server/pkg/apperr"
	"skincheck_server/pkg/logger"
	"skincheck_server/pkg/metrics"
	"skincheck_server/pkg/resilience"
)

// NoDataExplanation is returned for an empty ingredient list.
const NoDataExplanation = "No ingredients were provided for analysis."

// IDGenerator issues report IDs.
type IDGenerator interface {
	NextID() (int64, error)
}

// Config tunes the service.
type Config struct {
	Concurrency    int
	ExplainTimeout time.Duration
	MaxIngredients int
}

func (c *Config) withDefaults() Config {
	out := Config{Concurrency: 8, ExplainTimeout: 20 * time.Second, MaxIngredients: 200}
	if c == nil {
		return out
	}
	if c.Concurrency > 0 {
		out.Concurrency = c.Concurrency
	}
	if c.ExplainTimeout > 0 {
		out.ExplainTimeout = c.ExplainTimeout
	}
	if c.MaxIngredients > 0 {
		out.MaxIngredients = c.MaxIngredients
	}
	return out
}

// Deps are the service collaborators. Only Resolver is required.
type Deps struct {
	Resolver  ingredient.NameResolver
	Explainer out.ExplanationGenerator
	Breaker   *resilience.Breaker
	Reports   out.ReportRepository
	IDs       IDGenerator
	Metrics   *metrics.Metrics
}

var _ in.AnalysisService = (*Service)(nil)

type Service struct {
	resolver  ingredient.NameResolver
	scorer    *verdict.Scorer
	explainer out.ExplanationGenerator
	breaker   *resilience.Breaker
	reports   out.ReportRepository
	ids       IDGenerator
	metrics   *metrics.Metrics
	cfg       Config
}

func NewService(deps Deps, cfg *Config) *Service {
	return &Service{
		resolver:  deps.Resolver,
		scorer:    verdict.NewScorer(),
		explainer: deps.Explainer,
		breaker:   deps.Breaker,
		reports:   deps.Reports,
		ids:       deps.IDs,
		metrics:   deps.Metrics,
		cfg:       cfg.withDefaults(),
	}
}

// Analyze implements in.AnalysisService.
func (s *Service) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	start := time.Now()

	names, skin, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		s.metrics.RecordExplanation(metrics.ExplanationSkipped)
		return &domain.AnalysisResult{
			OverallVerdict:     domain.VerdictModerate,
			OverallExplanation: NoDataExplanation,
			ExplanationSource:  domain.ExplanationNoData,
			HighlyContributing: []domain.ClassifiedIngredient{},
			ModerateIngredient: []domain.ClassifiedIngredient{},
			LeastContributing:  []domain.ClassifiedIngredient{},
			DecisionRule:       domain.RuleEmpty,
			Disposition:        domain.DispositionAccepted,
		}, nil
	}

	resolved, err := ingredient.ResolveAll(ctx, s.resolver, names, skin, s.cfg.Concurrency)
	if err != nil {
		return nil, resolutionError(err)
	}
	for _, r := range resolved {
		s.metrics.RecordResolution(string(r.Tier))
	}

	agg := s.scorer.Score(resolved)

	text, source, advisory := s.explain(ctx, req.ProductName, skin, &agg)
	applyAdvisory(&agg.Brackets, advisory)

	result := &domain.AnalysisResult{
		OverallVerdict:     agg.Overall,
		OverallExplanation: text,
		ExplanationSource:  source,
		HighlyContributing: agg.Brackets.High,
		ModerateIngredient: agg.Brackets.Moderate,
		LeastContributing:  agg.Brackets.Low,
		Summary:            agg.Summary,
		GoodScore:          agg.GoodScore,
		BadScore:           agg.BadScore,
		DecisionRule:       agg.Rule,
		Disposition:        domain.DispositionFor(agg.Overall),
	}

	s.archive(ctx, req, names, skin, result)

	elapsed := time.Since(start)
	s.metrics.ObserveAnalysis(string(result.OverallVerdict), len(names), elapsed)
	logger.WithContext(ctx).
		WithField("verdict", result.OverallVerdict).
		WithField("rule", result.DecisionRule).
		WithField("ingredients", len(names)).
		WithDuration(elapsed).
		Info("product analysed")

	return result, nil
}

// Resolve implements in.AnalysisService.
func (s *Service) Resolve(ctx context.Context, raw string, skinType domain.SkinType) (*domain.ResolvedIngredient, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperr.MissingField("name")
	}
	if skinType.Normalize() == "" {
		return nil, apperr.MissingField("skin_type")
	}

	r, err := s.resolver.Resolve(ctx, raw, skinType)
	if err != nil {
		return nil, resolutionError(err)
	}
	s.metrics.RecordResolution(string(r.Tier))
	return r, nil
}

// Report implements in.AnalysisService.
func (s *Service) Report(ctx context.Context, id int64) (*domain.AnalysisReport, error) {
	if s.reports == nil {
		return nil, apperr.Unavailable("report archive", nil)
	}
	if id <= 0 {
		return nil, apperr.BadRequest("invalid report id")
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.DatabaseError("get report", err)
	}
	if report == nil {
		return nil, apperr.NotFound("report")
	}
	return report, nil
}

func (s *Service) validate(req *domain.AnalysisRequest) ([]string, domain.SkinType, error) {
	if req == nil {
		return nil, "", apperr.BadRequest("request body is required")
	}
	skin := req.SkinType.Normalize()
	if skin == "" {
		return nil, "", apperr.MissingField("skin_type")
	}
	if len(req.Ingredients) > s.cfg.MaxIngredients {
		return nil, "", apperr.Validation(fmt.Sprintf("too many ingredients: %d (max %d)", len(req.Ingredients), s.cfg.MaxIngredients))
	}

	names := make([]string, len(req.Ingredients))
	for i, raw := range req.Ingredients {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, "", apperr.Validation("ingredient names must not be blank").WithDetail("index", i)
		}
		names[i] = name
	}
	return names, skin, nil
}

func resolutionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Timeout("resolve ingredients").WithError(err)
	}
	if errors.Is(err, ingredient.ErrEmptyName) {
		return apperr.Validation(err.Error())
	}
	return apperr.DatabaseError("resolve ingredients", err)
}

func (s *Service) archive(ctx context.Context, req *domain.AnalysisRequest, names []string, skin domain.SkinType, result *domain.AnalysisResult) {
	if s.reports == nil || s.ids == nil {
		return
	}

	id, err := s.ids.NextID()
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("report id generation failed")
		return
	}

	report := &domain.AnalysisReport{
		ID:          id,
		ProductName: req.ProductName,
		ProductType: req.ProductType,
		SkinType:    skin,
		Ingredients: names,
		Result:      result,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("report_id", id).Warn("report archive failed")
		return
	}
	result.ReportID = id
}

// applyAdvisory attaches the generator's per-ingredient opinions. The
// canonical verdicts and counts are left untouched.
func applyAdvisory(b *domain.Brackets, advisory map[string]domain.Verdict) {
	if len(advisory) == 0 {
		return
	}
	b.Each(func(_ domain.Bracket, ci *domain.ClassifiedIngredient) {
		if v, ok := advisory[strings.ToLower(ci.Name)]; ok {
			ci.AdvisoryVerdict = v
		}
	})
}
