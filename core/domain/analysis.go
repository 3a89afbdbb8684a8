package domain

import "time"

// AnalysisRequest is a caller-supplied product to analyse.
type AnalysisRequest struct {
	Ingredients []string `json:"ingredients"`
	SkinType    SkinType `json:"skin_type"`
	ProductName string   `json:"product_name,omitempty"`
	ProductType string   `json:"prod_type,omitempty"`
}

// Disposition mirrors the catalog's accepted/rejected product split.
type Disposition string

const (
	DispositionAccepted Disposition = "accepted"
	DispositionRejected Disposition = "rejected"
)

// DispositionFor maps an overall verdict to a disposition: only bad products are rejected.
func DispositionFor(v Verdict) Disposition {
	if v == VerdictBad {
		return DispositionRejected
	}
	return DispositionAccepted
}

// ExplanationSource records where the prose explanation came from.
type ExplanationSource string

const (
	ExplanationGenerated ExplanationSource = "generated"
	ExplanationFallback  ExplanationSource = "fallback"
	ExplanationNoData    ExplanationSource = "no_data"
)

// AnalysisResult is the caller-facing response.
type AnalysisResult struct {
	OverallVerdict     Verdict                `json:"overall_verdict"`
	OverallExplanation string                 `json:"overall_explanation"`
	ExplanationSource  ExplanationSource      `json:"explanation_source"`
	HighlyContributing []ClassifiedIngredient `json:"highly_contributing"`
	ModerateIngredient []ClassifiedIngredient `json:"moderate_ingredients"`
	LeastContributing  []ClassifiedIngredient `json:"least_contributing"`
	Summary            Summary                `json:"summary"`
	GoodScore          int                    `json:"good_score"`
	BadScore           int                    `json:"bad_score"`
	DecisionRule       DecisionRule           `json:"decision_rule"`
	Disposition        Disposition            `json:"disposition"`
	ReportID           int64                  `json:"report_id,omitempty,string"`
}

// AnalysisReport is the archived record of one analysis.
type AnalysisReport struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductType string          `json:"prod_type,omitempty"`
	SkinType    SkinType        `json:"skin_type"`
	Ingredients []string        `json:"ingredients"`
	Result      *AnalysisResult `json:"result"`
	CreatedAt   time.Time       `json:"created_at"`
}
