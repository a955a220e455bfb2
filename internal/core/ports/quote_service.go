package ports

import (
	"context"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// LineItemInput is a single assistance charge on a new quote.
type LineItemInput struct {
	Label  string
	Amount float64
}

// CreateQuoteInput carries everything needed to issue a quote. Totals are
// derived from the items and the clinique fee.
type CreateQuoteInput struct {
	CliniqueName     string
	PatientFirstName string
	PatientLastName  string
	CliniqueFee      float64
	Items            []LineItemInput
}

// ArchivedDocument describes a rendered document stored in the archive.
type ArchivedDocument struct {
	Key    string
	Number string
	Size   int
}

// QuoteService defines the quote use cases.
type QuoteService interface {
	Create(ctx context.Context, input CreateQuoteInput) (*domain.Quote, error)
	Get(ctx context.Context, id int64) (*domain.Quote, error)
	RenderDocument(ctx context.Context, id int64) (string, error)
	ArchiveDocument(ctx context.Context, id int64) (*ArchivedDocument, error)
}
