package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"
	"skincheck_server/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// DefaultSimilarityThreshold is the score a similarity match must exceed.
const DefaultSimilarityThreshold = 0.6

// ErrEmptyName is returned for blank raw entries. Callers validate first.
var ErrEmptyName = errors.New("ingredient name is empty")

// NameResolver maps one raw name to a resolution.
type NameResolver interface {
	Resolve(ctx context.Context, raw string, skinType domain.SkinType) (*domain.ResolvedIngredient, error)
}

// lookupTier is one step of the canonical match chain.
type lookupTier struct {
	tier    domain.MatchTier
	partial bool
	// skin picks the tag to filter on given the requested one; "" ignores skin types.
	skin func(requested domain.SkinType) domain.SkinType
}

func requestedSkin(s domain.SkinType) domain.SkinType { return s }
func allSkin(domain.SkinType) domain.SkinType         { return domain.SkinTypeAll }
func generalSkin(domain.SkinType) domain.SkinType     { return domain.SkinTypeGeneral }
func anySkin(domain.SkinType) domain.SkinType         { return "" }

// matchChain is evaluated strictly in order; the first tier with a hit wins.
// The stripped tier and the similarity fallback follow it.
var matchChain = []lookupTier{
	{tier: domain.TierExactSkin, skin: requestedSkin},
	{tier: domain.TierPartialSkin, partial: true, skin: requestedSkin},
	{tier: domain.TierExactAll, skin: allSkin},
	{tier: domain.TierPartialAll, partial: true, skin: allSkin},
	{tier: domain.TierExactGeneral, skin: generalSkin},
	{tier: domain.TierPartialGeneral, partial: true, skin: generalSkin},
	{tier: domain.TierExactAny, skin: anySkin},
	{tier: domain.TierPartialAny, partial: true, skin: anySkin},
}

// Resolver runs the canonical match chain against a store.
type Resolver struct {
	store     out.IngredientStore
	threshold float64
}

// ResolverConfig tunes the resolver.
type ResolverConfig struct {
	SimilarityThreshold float64
}

// NewResolver creates a resolver. A nil config uses the default threshold.
func NewResolver(store out.IngredientStore, cfg *ResolverConfig) *Resolver {
	threshold := DefaultSimilarityThreshold
	if cfg != nil && cfg.SimilarityThreshold > 0 {
		threshold = cfg.SimilarityThreshold
	}
	return &Resolver{store: store, threshold: threshold}
}

// Threshold returns the similarity acceptance threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve maps raw to exactly one of: a catalog record, or the unresolved sentinel.
// Only store failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, raw string, skinType domain.SkinType) (*domain.ResolvedIngredient, error) {
	name := Normalize(raw)
	if name.Lower == "" {
		return nil, ErrEmptyName
	}
	skin := skinType.Normalize()
	raw = strings.TrimSpace(raw)

	for _, t := range matchChain {
		tag := t.skin(skin)
		// Without a requested skin type the first two tiers would ignore skin
		// types and shadow the wildcard tiers.
		if tag == "" && t.tier != domain.TierExactAny && t.tier != domain.TierPartialAny {
			continue
		}

		var rec *domain.Ingredient
		var err error
		if t.partial {
			rec, err = r.store.LookupPartial(ctx, name.Lower, tag)
		} else {
			rec, err = r.store.LookupExact(ctx, name.Lower, tag)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", t.tier, err)
		}
		if rec != nil {
			return domain.NewResolved(raw, rec, t.tier), nil
		}
	}

	if name.Stripped != "" {
		rec, err := r.store.LookupStripped(ctx, name.Stripped)
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", domain.TierStripped, err)
		}
		if rec != nil {
			return domain.NewResolved(raw, rec, domain.TierStripped), nil
		}
	}

	rec, score, err := r.mostSimilar(ctx, name.Lower)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", domain.TierSimilarity, err)
	}
	if rec != nil && score > r.threshold {
		resolved := domain.NewResolved(raw, rec, domain.TierSimilarity)
		resolved.Similarity = score
		return resolved, nil
	}

	logger.WithContext(ctx).
		WithField("ingredient", raw).
		WithField("best_similarity", score).
		Debug("ingredient unresolved")
	return domain.NewUnresolved(raw), nil
}

func (r *Resolver) mostSimilar(ctx context.Context, query string) (*domain.Ingredient, float64, error) {
	if ranker, ok := r.store.(out.SimilarityRanker); ok {
		return ranker.MostSimilar(ctx, query)
	}

	records, err := r.store.AllRecords(ctx)
	if err != nil {
		return nil, 0, err
	}
	rec, score := BestMatch(query, records)
	return rec, score, nil
}

// ResolveAll resolves every raw name, at most limit at a time, and returns the
// results in input order. Any store failure aborts the batch.
func ResolveAll(ctx context.Context, r NameResolver, raws []string, skinType domain.SkinType, limit int) ([]*domain.ResolvedIngredient, error) {
	results := make([]*domain.ResolvedIngredient, len(raws))
	if len(raws) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			res, err := r.Resolve(gctx, raw, skinType)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
