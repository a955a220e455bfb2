package handler

import (
	"fmt"

	"github.com/msk-clinic/clinic-portal/internal/core/document"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// --- Request / Response types ---

type lineItemRequest struct {
	Label  string  `json:"label" validate:"required,max=200"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

type createQuoteRequest struct {
	CliniqueName     string            `json:"clinique_name" validate:"max=200"`
	PatientFirstName string            `json:"patient_first_name" validate:"max=100"`
	PatientLastName  string            `json:"patient_last_name" validate:"max=100"`
	CliniqueFee      float64           `json:"clinique_fee" validate:"gte=0"`
	Items            []lineItemRequest `json:"items" validate:"dive"`
}

type quoteLinks struct {
	Self     string `json:"self"`
	Document string `json:"document"`
}

type quoteResponse struct {
	*domain.Quote
	Number string     `json:"number"`
	Links  quoteLinks `json:"_links"`
}

type archiveResponse struct {
	Key    string `json:"key"`
	Number string `json:"number"`
	Size   int    `json:"size"`
}

func toCreateQuoteInput(req createQuoteRequest) ports.CreateQuoteInput {
	items := make([]ports.LineItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.LineItemInput{Label: it.Label, Amount: it.Amount})
	}
	return ports.CreateQuoteInput{
		CliniqueName:     req.CliniqueName,
		PatientFirstName: req.PatientFirstName,
		PatientLastName:  req.PatientLastName,
		CliniqueFee:      req.CliniqueFee,
		Items:            items,
	}
}

func toQuoteResponse(q *domain.Quote) quoteResponse {
	self := fmt.Sprintf("/v1/quotes/%d", q.ID)
	return quoteResponse{
		Quote:  q,
		Number: document.DocumentNumber(q.ID),
		Links: quoteLinks{
			Self:     self,
			Document: self + "/document",
		},
	}
}
