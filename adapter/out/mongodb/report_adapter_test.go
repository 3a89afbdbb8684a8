package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"skincheck_server/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testReport(n int, overall domain.Verdict) *domain.AnalysisReport {
	high := make([]domain.ClassifiedIngredient, 0, n)
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Ingredient %d", i)
		names = append(names, name)
		high = append(high, domain.ClassifiedIngredient{
			Name:       name,
			Verdict:    domain.VerdictGood,
			SideEffect: "None known",
			Tier:       domain.TierExactSkin,
		})
	}

	return &domain.AnalysisReport{
		ID:          7,
		ProductName: "Night Cream",
		ProductType: "cream",
		SkinType:    "dry",
		Ingredients: names,
		Result: &domain.AnalysisResult{
			OverallVerdict:     overall,
			OverallExplanation: "Mostly good.",
			ExplanationSource:  domain.ExplanationFallback,
			HighlyContributing: high,
			ModerateIngredient: []domain.ClassifiedIngredient{},
			LeastContributing:  []domain.ClassifiedIngredient{},
			Summary:            domain.Summary{Good: n},
			GoodScore:          3 * n,
			DecisionRule:       domain.RuleGoodOutweighs,
			Disposition:        domain.DispositionFor(overall),
			ReportID:           7,
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	tests := []struct {
		name           string
		ingredients    int
		wantCompressed bool
	}{
		{"small result stays plain", 1, false},
		{"large result is compressed", 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := testReport(tt.ingredients, domain.VerdictGood)

			doc, err := toDocument(report)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCompressed, doc.IsCompressed)
			assert.Equal(t, "good", doc.OverallVerdict)
			assert.Equal(t, 3*tt.ingredients, doc.GoodScore)
			if tt.wantCompressed {
				assert.Less(t, int64(len(doc.Result)), doc.OriginalSize)
			}

			got, err := toReport(doc)
			require.NoError(t, err)
			assert.Equal(t, report, got)
		})
	}
}

func TestToReport_CorruptResult(t *testing.T) {
	_, err := toReport(&reportDocument{ID: 1, Result: []byte("not gzip"), IsCompressed: true})
	assert.Error(t, err)

	_, err = toReport(&reportDocument{ID: 1, Result: []byte("{bad json")})
	assert.Error(t, err)
}

func TestReportAdapter_CollectionByDisposition(t *testing.T) {
	// Connect does not dial; no server is needed to pick collections.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	a := NewReportAdapter(client.Database("skincheck_test"))
	assert.Equal(t, "accepted_products", a.collectionFor(domain.DispositionAccepted).Name())
	assert.Equal(t, "rejected_products", a.collectionFor(domain.DispositionRejected).Name())
}

func TestReportAdapter_SaveRequiresResult(t *testing.T) {
	a := &ReportAdapter{}
	assert.Error(t, a.Save(context.Background(), &domain.AnalysisReport{ID: 1}))
	assert.Error(t, a.Save(context.Background(), nil))
}
