package domain

import "strings"

// SkinType is the skin type tag a product is analysed for (e.g. "oily", "dry").
type SkinType string

const (
	// Wildcard tags: a record carrying one of these applies to every skin type.
	SkinTypeAll     SkinType = "all"
	SkinTypeGeneral SkinType = "general"
)

// Normalize returns the lower-cased, trimmed tag.
func (s SkinType) Normalize() SkinType {
	return SkinType(strings.ToLower(strings.TrimSpace(string(s))))
}

// Ingredient is a reference record from the ingredient catalog.
// Records are maintained by the catalog process and read-only here.
type Ingredient struct {
	ID         int64    `json:"id" yaml:"id"`
	Name       string   `json:"ingredient_name" yaml:"name"`
	SkinTypes  []string `json:"skin_type" yaml:"skin_types"`
	Verdict    string   `json:"verdict" yaml:"verdict"`
	Effect     string   `json:"effect" yaml:"effect"`
	SideEffect string   `json:"side_effect" yaml:"side_effect"`
	UsageNotes string   `json:"usage_notes" yaml:"usage_notes"`
}

// HasSkinType reports whether the record lists the given tag (case-insensitive).
func (i *Ingredient) HasSkinType(tag SkinType) bool {
	want := tag.Normalize()
	for _, st := range i.SkinTypes {
		if SkinType(st).Normalize() == want {
			return true
		}
	}
	return false
}

// MatchTier identifies which step of the lookup chain bound a raw name to a record.
type MatchTier string

const (
	TierExactSkin      MatchTier = "exact_skin"
	TierPartialSkin    MatchTier = "partial_skin"
	TierExactAll       MatchTier = "exact_all"
	TierPartialAll     MatchTier = "partial_all"
	TierExactGeneral   MatchTier = "exact_general"
	TierPartialGeneral MatchTier = "partial_general"
	TierExactAny       MatchTier = "exact_any"
	TierPartialAny     MatchTier = "partial_any"
	TierStripped       MatchTier = "stripped"
	TierSimilarity     MatchTier = "similarity"
	TierUnresolved     MatchTier = "unresolved"
)

// Placeholder texts carried by unresolved ingredients.
const (
	UnresolvedSideEffect  = "No information found in our database."
	UnresolvedPlaceholder = "N/A"
)

// ResolvedIngredient is the outcome of resolving one raw ingredient entry.
type ResolvedIngredient struct {
	RawName    string      `json:"raw_name"`
	Record     *Ingredient `json:"record"`
	Tier       MatchTier   `json:"tier"`
	Similarity float64     `json:"similarity,omitempty"`
}

// Resolved reports whether a catalog record was bound.
func (r *ResolvedIngredient) Resolved() bool {
	return r.Tier != TierUnresolved && r.Record != nil
}

// NewResolved binds a raw name to a catalog record.
func NewResolved(raw string, rec *Ingredient, tier MatchTier) *ResolvedIngredient {
	return &ResolvedIngredient{RawName: raw, Record: rec, Tier: tier}
}

// NewUnresolved builds the sentinel for a raw name no tier could match.
// The sentinel carries the original name so it still shows up in the breakdown.
func NewUnresolved(raw string) *ResolvedIngredient {
	return &ResolvedIngredient{
		RawName: raw,
		Record: &Ingredient{
			Name:       raw,
			Verdict:    string(VerdictUnknown),
			Effect:     UnresolvedPlaceholder,
			SideEffect: UnresolvedSideEffect,
			UsageNotes: UnresolvedPlaceholder,
		},
		Tier: TierUnresolved,
	}
}

// DisplayName is the canonical name when resolved, else the raw entry.
func (r *ResolvedIngredient) DisplayName() string {
	if r.Record != nil && r.Record.Name != "" {
		return r.Record.Name
	}
	return r.RawName
}
