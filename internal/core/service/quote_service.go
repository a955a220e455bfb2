package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/core/document"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// QuoteService creates quotes and produces their printable estimate.
type QuoteService struct {
	repo     ports.QuoteRepository
	renderer *document.QuoteRenderer
	archive  ports.DocumentArchive
	logger   zerolog.Logger
	now      func() time.Time
}

func NewQuoteService(repo ports.QuoteRepository, renderer *document.QuoteRenderer, archive ports.DocumentArchive, logger zerolog.Logger) *QuoteService {
	return &QuoteService{
		repo:     repo,
		renderer: renderer,
		archive:  archive,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new quote. The assistance total is the sum of the items and
// the quote total is assistance plus clinique fee, so stored quotes always
// reconcile.
func (s *QuoteService) Create(ctx context.Context, input ports.CreateQuoteInput) (*domain.Quote, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	items := make([]domain.AssistanceLineItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, domain.AssistanceLineItem{Label: strings.TrimSpace(it.Label), Amount: round2(it.Amount)})
	}
	assistance := round2(domain.SumItems(items))
	clinique := round2(input.CliniqueFee)

	q := &domain.Quote{
		ID:              id,
		CreatedAt:       s.now(),
		TotalAssistance: domain.Amount(assistance),
		TotalClinique:   domain.Amount(clinique),
		TotalQuote:      domain.Amount(round2(assistance + clinique)),
		Items:           items,
	}
	if input.CliniqueName != "" || input.PatientFirstName != "" || input.PatientLastName != "" {
		q.Appointment = &domain.Appointment{
			CliniqueName:     domain.Text(strings.TrimSpace(input.CliniqueName)),
			PatientFirstName: domain.Text(strings.TrimSpace(input.PatientFirstName)),
			PatientLastName:  domain.Text(strings.TrimSpace(input.PatientLastName)),
		}
	}

	if err := s.repo.Create(ctx, q); err != nil {
		s.logger.Error().Err(err).Int64("quote_id", id).Msg("failed to create quote")
		return nil, err
	}

	s.logger.Info().Int64("quote_id", id).Float64("total_quote", *q.TotalQuote).Msg("quote created")
	return q, nil
}

func (s *QuoteService) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	return s.repo.FindByID(ctx, id)
}

// RenderDocument loads the quote and renders its estimate as HTML.
func (s *QuoteService) RenderDocument(ctx context.Context, id int64) (string, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	out, err := s.renderer.Render(q)
	if err != nil {
		return "", fmt.Errorf("render quote %d: %w", id, err)
	}
	return out, nil
}

// ArchiveDocument renders the estimate and stores a copy in the document
// archive under quotes/<yyyy>/<mm>/.
func (s *QuoteService) ArchiveDocument(ctx context.Context, id int64) (*ports.ArchivedDocument, error) {
	out, err := s.RenderDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	number := document.DocumentNumber(id)
	key := fmt.Sprintf("quotes/%04d/%02d/%s-%s.html", now.Year(), int(now.Month()), number, uuid.NewString())

	if err := s.archive.Put(ctx, key, "text/html; charset=utf-8", []byte(out)); err != nil {
		return nil, fmt.Errorf("archive quote %d: %w", id, err)
	}

	s.logger.Info().Int64("quote_id", id).Str("key", key).Msg("quote document archived")
	return &ports.ArchivedDocument{Key: key, Number: number, Size: len(out)}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
