package in

import (
	"context"

	"skincheck_server/core/domain"
)

// AnalysisService is the use case behind the product check endpoint and CLI.
type AnalysisService interface {
	// Analyze resolves, classifies and scores a product's ingredient list.
	Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResult, error)

	// Resolve runs a single raw name through the lookup chain.
	Resolve(ctx context.Context, raw string, skinType domain.SkinType) (*domain.ResolvedIngredient, error)

	// Report fetches an archived analysis.
	Report(ctx context.Context, id int64) (*domain.AnalysisReport, error)
}
