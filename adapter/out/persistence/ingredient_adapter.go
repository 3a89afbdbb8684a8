// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	_ out.IngredientStore  = (*IngredientAdapter)(nil)
	_ out.SimilarityRanker = (*IngredientAdapter)(nil)
)

// IngredientAdapter implements out.IngredientStore on the ingredients table.
// Identity order is ascending id.
type IngredientAdapter struct {
	db *sqlx.DB
}

// NewIngredientAdapter creates a new IngredientAdapter.
func NewIngredientAdapter(db *sqlx.DB) *IngredientAdapter {
	return &IngredientAdapter{db: db}
}

const ingredientColumns = `id, ingredient_name, skin_type, verdict, effect, side_effect, usage_notes`

// skinFilter matches $2 against the record's tags case-insensitively.
const skinFilter = ` AND EXISTS (SELECT 1 FROM unnest(skin_type) AS st WHERE LOWER(st) = $2)`

// strippedName mirrors the separator removal done on the query side.
const strippedName = `REPLACE(REPLACE(REPLACE(REPLACE(LOWER(ingredient_name), '-', ''), ' ', ''), '.', ''), '_', '')`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ingredientRow represents the database row for ingredients.
type ingredientRow struct {
	ID         int64          `db:"id"`
	Name       string         `db:"ingredient_name"`
	SkinType   pq.StringArray `db:"skin_type"`
	Verdict    sql.NullString `db:"verdict"`
	Effect     sql.NullString `db:"effect"`
	SideEffect sql.NullString `db:"side_effect"`
	UsageNotes sql.NullString `db:"usage_notes"`
}

type scoredIngredientRow struct {
	ingredientRow
	Score float64 `db:"score"`
}

func (r *ingredientRow) toEntity() *domain.Ingredient {
	return &domain.Ingredient{
		ID:         r.ID,
		Name:       r.Name,
		SkinTypes:  []string(r.SkinType),
		Verdict:    r.Verdict.String,
		Effect:     r.Effect.String,
		SideEffect: r.SideEffect.String,
		UsageNotes: r.UsageNotes.String,
	}
}

// LookupExact implements out.IngredientStore.
func (a *IngredientAdapter) LookupExact(ctx context.Context, name string, skinType domain.SkinType) (*domain.Ingredient, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("exact lookup: %w", ErrInvalidInput)
	}
	return a.first(ctx, `LOWER(ingredient_name) = $1`, name, skinType)
}

// LookupPartial implements out.IngredientStore. LIKE metacharacters in
// substring are matched literally.
func (a *IngredientAdapter) LookupPartial(ctx context.Context, substring string, skinType domain.SkinType) (*domain.Ingredient, error) {
	substring = strings.ToLower(strings.TrimSpace(substring))
	if substring == "" {
		return nil, fmt.Errorf("partial lookup: %w", ErrInvalidInput)
	}
	pattern := "%" + likeEscaper.Replace(substring) + "%"
	return a.first(ctx, `LOWER(ingredient_name) LIKE $1 ESCAPE '\'`, pattern, skinType)
}

// LookupStripped implements out.IngredientStore.
func (a *IngredientAdapter) LookupStripped(ctx context.Context, stripped string) (*domain.Ingredient, error) {
	stripped = strings.ToLower(stripped)
	if stripped == "" {
		return nil, fmt.Errorf("stripped lookup: %w", ErrInvalidInput)
	}
	return a.first(ctx, strippedName+` = $1`, stripped, "")
}

// AllRecords implements out.IngredientStore.
func (a *IngredientAdapter) AllRecords(ctx context.Context) ([]*domain.Ingredient, error) {
	var rows []ingredientRow
	query := `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY id`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	records := make([]*domain.Ingredient, len(rows))
	for i := range rows {
		records[i] = rows[i].toEntity()
	}
	return records, nil
}

// MostSimilar implements out.SimilarityRanker using pg_trgm. Ties go to the
// lower id. An empty table is (nil, 0, nil).
func (a *IngredientAdapter) MostSimilar(ctx context.Context, name string) (*domain.Ingredient, float64, error) {
	var row scoredIngredientRow
	query := `SELECT ` + ingredientColumns + `, similarity(LOWER(ingredient_name), $1) AS score
		FROM ingredients
		ORDER BY score DESC, id
		LIMIT 1`

	if err := a.db.GetContext(ctx, &row, query, strings.ToLower(name)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to rank ingredients: %w", err)
	}
	return row.toEntity(), row.Score, nil
}

func (a *IngredientAdapter) first(ctx context.Context, where string, arg string, skinType domain.SkinType) (*domain.Ingredient, error) {
	args := []any{arg}
	if skin := skinType.Normalize(); skin != "" {
		where += skinFilter
		args = append(args, string(skin))
	}

	var row ingredientRow
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE ` + where + ` ORDER BY id LIMIT 1`

	if err := a.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lookup ingredient: %w", err)
	}
	return row.toEntity(), nil
}

// Count returns the number of catalog rows.
func (a *IngredientAdapter) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM ingredients`); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return n, nil
}

// Import inserts records in one transaction and returns how many were written.
// Records with an ID keep it; the rest get the next sequence value.
func (a *IngredientAdapter) Import(ctx context.Context, records []*domain.Ingredient) (int, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	written := 0
	for _, rec := range records {
		if rec == nil || strings.TrimSpace(rec.Name) == "" {
			continue
		}
		row := fromEntity(rec)
		var query string
		if rec.ID > 0 {
			query = `INSERT INTO ingredients (` + ingredientColumns + `)
				VALUES (:id, :ingredient_name, :skin_type, :verdict, :effect, :side_effect, :usage_notes)
				ON CONFLICT (id) DO NOTHING`
		} else {
			query = `INSERT INTO ingredients (ingredient_name, skin_type, verdict, effect, side_effect, usage_notes)
				VALUES (:ingredient_name, :skin_type, :verdict, :effect, :side_effect, :usage_notes)`
		}
		res, err := tx.NamedExecContext(ctx, query, row)
		if err != nil {
			return 0, fmt.Errorf("failed to import %q: %w", rec.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			written += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return written, nil
}

func fromEntity(rec *domain.Ingredient) *ingredientRow {
	return &ingredientRow{
		ID:         rec.ID,
		Name:       strings.TrimSpace(rec.Name),
		SkinType:   pq.StringArray(rec.SkinTypes),
		Verdict:    nullString(rec.Verdict),
		Effect:     nullString(rec.Effect),
		SideEffect: nullString(rec.SideEffect),
		UsageNotes: nullString(rec.UsageNotes),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
