package out

import (
	"context"

	"skincheck_server/core/domain"
)

// ExplanationGenerator produces prose for an already computed verdict.
// Its output never changes the deterministic verdict or the counts.
type ExplanationGenerator interface {
	Explain(ctx context.Context, input *ExplanationInput) (*Explanation, error)
}

// ExplanationInput is everything the generator may look at.
type ExplanationInput struct {
	ProductName    string
	SkinType       domain.SkinType
	OverallVerdict domain.Verdict
	Brackets       domain.Brackets
}

// Explanation is the generator's answer. Advisory maps lower-cased ingredient
// names to the generator's own per-ingredient opinion.
type Explanation struct {
	Text     string
	Advisory map[string]domain.Verdict
}

// ReportRepository archives finished analyses. GetByID returns (nil, nil)
// for an unknown id.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.AnalysisReport) error
	GetByID(ctx context.Context, id int64) (*domain.AnalysisReport, error)
}
