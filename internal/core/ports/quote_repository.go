package ports

import (
	"context"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// QuoteTotals is the aggregate used by the statistics dashboard.
type QuoteTotals struct {
	Count           int64
	TotalAssistance float64
	TotalClinique   float64
	TotalQuote      float64
}

// QuoteRepository defines persistence operations for quotes.
type QuoteRepository interface {
	// NextID reserves the next sequential quote id.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, q *domain.Quote) error
	FindByID(ctx context.Context, id int64) (*domain.Quote, error)
	Totals(ctx context.Context) (*QuoteTotals, error)
}

// DocumentArchive stores rendered documents and returns their storage key.
type DocumentArchive interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}
