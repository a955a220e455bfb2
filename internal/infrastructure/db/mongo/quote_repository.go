package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

const (
	collectionQuotes   = "quotes"
	collectionCounters = "counters"
	quoteSequence      = "quotes"
)

// QuoteRepository implements ports.QuoteRepository using MongoDB. Quote ids
// come from a counter document so that printed numbers stay short.
type QuoteRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewQuoteRepository(db *mongo.Database) *QuoteRepository {
	return &QuoteRepository{
		col:      db.Collection(collectionQuotes),
		counters: db.Collection(collectionCounters),
	}
}

// NextID atomically increments and returns the quote sequence.
func (r *QuoteRepository) NextID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": quoteSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next quote id: %w", err)
	}
	return counter.Seq, nil
}

// Create inserts a new quote document.
func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, q); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// FindByID retrieves a quote with its appointment and line items.
func (r *QuoteRepository) FindByID(ctx context.Context, id int64) (*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var q domain.Quote
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return &q, nil
}

// Totals sums the three quote totals across every stored quote.
func (r *QuoteRepository) Totals(ctx context.Context) (*ports.QuoteTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "assistance", Value: bson.D{{Key: "$sum", Value: "$total_assistance"}}},
			{Key: "clinique", Value: bson.D{{Key: "$sum", Value: "$total_clinique"}}},
			{Key: "quote", Value: bson.D{{Key: "$sum", Value: "$total_quote"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("quote totals: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Count      int64   `bson:"count"`
		Assistance float64 `bson:"assistance"`
		Clinique   float64 `bson:"clinique"`
		Quote      float64 `bson:"quote"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("quote totals: %w", err)
	}

	totals := &ports.QuoteTotals{}
	if len(rows) > 0 {
		totals.Count = rows[0].Count
		totals.TotalAssistance = rows[0].Assistance
		totals.TotalClinique = rows[0].Clinique
		totals.TotalQuote = rows[0].Quote
	}
	return totals, nil
}

// EnsureIndexes creates necessary indexes on the quotes collection.
func (r *QuoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}
