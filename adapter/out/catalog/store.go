// Package catalog provides an in-memory ingredient store seeded from YAML.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"skincheck_server/core/domain"

	"gopkg.in/yaml.v3"
)

// Store is an immutable in-memory ingredient catalog. Safe for concurrent reads.
type Store struct {
	records []*domain.Ingredient
	lower   []string
	strip   []string
}

type catalogFile struct {
	Ingredients []*domain.Ingredient `yaml:"ingredients"`
}

var separators = strings.NewReplacer("-", "", " ", "", ".", "", "_", "")

// New builds a store from records. Records without an ID get their 1-based
// position; identity order is ascending ID.
func New(records []*domain.Ingredient) *Store {
	recs := make([]*domain.Ingredient, 0, len(records))
	for i, r := range records {
		if r == nil {
			continue
		}
		rec := *r
		if rec.ID == 0 {
			rec.ID = int64(i + 1)
		}
		recs = append(recs, &rec)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })

	s := &Store{
		records: recs,
		lower:   make([]string, len(recs)),
		strip:   make([]string, len(recs)),
	}
	for i, r := range recs {
		s.lower[i] = strings.ToLower(strings.TrimSpace(r.Name))
		s.strip[i] = separators.Replace(s.lower[i])
	}
	return s
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Store, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, r := range f.Ingredients {
		if r == nil || strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("parse catalog: entry %d has no name", i)
		}
	}
	return New(f.Ingredients), nil
}

// Load reads a YAML catalog file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// LookupExact implements out.IngredientStore.
func (s *Store) LookupExact(_ context.Context, name string, skinType domain.SkinType) (*domain.Ingredient, error) {
	name = strings.ToLower(name)
	return s.first(func(i int) bool { return s.lower[i] == name }, skinType), nil
}

// LookupPartial implements out.IngredientStore.
func (s *Store) LookupPartial(_ context.Context, substring string, skinType domain.SkinType) (*domain.Ingredient, error) {
	substring = strings.ToLower(substring)
	return s.first(func(i int) bool { return strings.Contains(s.lower[i], substring) }, skinType), nil
}

// LookupStripped implements out.IngredientStore.
func (s *Store) LookupStripped(_ context.Context, stripped string) (*domain.Ingredient, error) {
	stripped = strings.ToLower(stripped)
	return s.first(func(i int) bool { return s.strip[i] == stripped }, ""), nil
}

// AllRecords implements out.IngredientStore.
func (s *Store) AllRecords(context.Context) ([]*domain.Ingredient, error) {
	out := make([]*domain.Ingredient, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) first(match func(i int) bool, skinType domain.SkinType) *domain.Ingredient {
	for i, r := range s.records {
		if !match(i) {
			continue
		}
		if skinType != "" && !r.HasSkinType(skinType) {
			continue
		}
		return r
	}
	return nil
}
