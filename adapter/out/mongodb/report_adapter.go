package mongodb

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"

	"github.com/goccy/go-json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionAccepted = "accepted_products"
	collectionRejected = "rejected_products"

	// Results larger than this are stored gzip-compressed.
	resultCompressionThreshold = 512
)

var _ out.ReportRepository = (*ReportAdapter)(nil)

// ReportAdapter archives analyses into accepted_products or
// rejected_products depending on their disposition.
type ReportAdapter struct {
	accepted *mongo.Collection
	rejected *mongo.Collection
}

// NewReportAdapter creates a new MongoDB report adapter.
func NewReportAdapter(db *mongo.Database) *ReportAdapter {
	return &ReportAdapter{
		accepted: db.Collection(collectionAccepted),
		rejected: db.Collection(collectionRejected),
	}
}

// EnsureIndexes creates the indexes both collections need.
func (a *ReportAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "skin_type", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "product_name", Value: 1}},
		},
	}

	for _, c := range []*mongo.Collection{a.accepted, a.rejected} {
		if _, err := c.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", c.Name(), err)
		}
	}
	return nil
}

// reportDocument represents the MongoDB document structure.
type reportDocument struct {
	ID          int64    `bson:"id"`
	ProductName string   `bson:"product_name,omitempty"`
	ProductType string   `bson:"prod_type,omitempty"`
	SkinType    string   `bson:"skin_type"`
	Ingredients []string `bson:"ingredients"`

	// Queryable copies of the headline result fields
	OverallVerdict string `bson:"overall_verdict"`
	DecisionRule   string `bson:"decision_rule"`
	GoodScore      int    `bson:"good_score"`
	BadScore       int    `bson:"bad_score"`

	// Full result as JSON, possibly compressed
	Result       []byte `bson:"result"`
	IsCompressed bool   `bson:"is_compressed"`
	OriginalSize int64  `bson:"original_size"`

	CreatedAt time.Time `bson:"created_at"`
}

// Save inserts or replaces a report in the collection for its disposition.
func (a *ReportAdapter) Save(ctx context.Context, report *domain.AnalysisReport) error {
	if report == nil || report.Result == nil {
		return errors.New("report has no result")
	}

	doc, err := toDocument(report)
	if err != nil {
		return fmt.Errorf("failed to convert report to document: %w", err)
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"id": report.ID}

	if _, err := a.collectionFor(report.Result.Disposition).ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetByID looks in both collections. Unknown ids return (nil, nil).
func (a *ReportAdapter) GetByID(ctx context.Context, id int64) (*domain.AnalysisReport, error) {
	filter := bson.M{"id": id}

	for _, c := range []*mongo.Collection{a.accepted, a.rejected} {
		var doc reportDocument
		err := c.FindOne(ctx, filter).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get report: %w", err)
		}
		return toReport(&doc)
	}
	return nil, nil
}

func (a *ReportAdapter) collectionFor(d domain.Disposition) *mongo.Collection {
	if d == domain.DispositionRejected {
		return a.rejected
	}
	return a.accepted
}

func toDocument(report *domain.AnalysisReport) (*reportDocument, error) {
	data, err := json.Marshal(report.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	doc := &reportDocument{
		ID:             report.ID,
		ProductName:    report.ProductName,
		ProductType:    report.ProductType,
		SkinType:       string(report.SkinType),
		Ingredients:    report.Ingredients,
		OverallVerdict: string(report.Result.OverallVerdict),
		DecisionRule:   string(report.Result.DecisionRule),
		GoodScore:      report.Result.GoodScore,
		BadScore:       report.Result.BadScore,
		Result:         data,
		OriginalSize:   int64(len(data)),
		CreatedAt:      report.CreatedAt,
	}

	if len(data) > resultCompressionThreshold {
		compressed, err := compress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to compress result: %w", err)
		}
		doc.Result = compressed
		doc.IsCompressed = true
	}
	return doc, nil
}

func toReport(doc *reportDocument) (*domain.AnalysisReport, error) {
	data := doc.Result
	if doc.IsCompressed {
		decompressed, err := decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress result: %w", err)
		}
		data = decompressed
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	result.ReportID = doc.ID

	return &domain.AnalysisReport{
		ID:          doc.ID,
		ProductName: doc.ProductName,
		ProductType: doc.ProductType,
		SkinType:    domain.SkinType(doc.SkinType),
		Ingredients: doc.Ingredients,
		Result:      &result,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
