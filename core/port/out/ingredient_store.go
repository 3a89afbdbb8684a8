package out

import (
	"context"

	"skincheck_server/core/domain"
)

// IngredientStore is the read-only view of the ingredient reference catalog.
//
// Name comparisons are case-insensitive. When several records match, the
// implementation returns the first one in its identity order so that repeated
// lookups against unchanged data are stable. A miss is (nil, nil).
type IngredientStore interface {
	// LookupExact finds a record whose name equals name. An empty skinType
	// ignores skin types; otherwise the record must list skinType.
	LookupExact(ctx context.Context, name string, skinType domain.SkinType) (*domain.Ingredient, error)

	// LookupPartial finds a record whose name contains substring.
	LookupPartial(ctx context.Context, substring string, skinType domain.SkinType) (*domain.Ingredient, error)

	// LookupStripped compares against names with hyphens, spaces, periods and
	// underscores removed. Skin types are ignored.
	LookupStripped(ctx context.Context, stripped string) (*domain.Ingredient, error)

	// AllRecords returns every record in identity order.
	AllRecords(ctx context.Context) ([]*domain.Ingredient, error)
}

// SimilarityRanker is implemented by stores that can rank by trigram
// similarity themselves (Postgres pg_trgm). The caller applies the threshold.
type SimilarityRanker interface {
	MostSimilar(ctx context.Context, name string) (*domain.Ingredient, float64, error)
}

// ResolutionCache caches resolutions keyed by skin type and normalized name.
// A miss is (nil, false, nil).
type ResolutionCache interface {
	Get(ctx context.Context, skinType domain.SkinType, name string) (*domain.ResolvedIngredient, bool, error)
	Set(ctx context.Context, skinType domain.SkinType, name string, resolved *domain.ResolvedIngredient) error
}
