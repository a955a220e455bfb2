package domain

import (
	"errors"
	"time"
)

var ErrQuoteNotFound = errors.New("quote not found")

// AssistanceLineItem is a single labelled charge contributing to the
// assistance total.
type AssistanceLineItem struct {
	Label  string  `json:"label" bson:"label"`
	Amount float64 `json:"amount" bson:"amount"`
}

// Appointment is the booking a quote was issued for. Every field is optional.
type Appointment struct {
	CliniqueName     *string `json:"clinique_name,omitempty" bson:"clinique_name,omitempty"`
	PatientFirstName *string `json:"patient_first_name,omitempty" bson:"patient_first_name,omitempty"`
	PatientLastName  *string `json:"patient_last_name,omitempty" bson:"patient_last_name,omitempty"`
}

// Quote (devis) combines an assistance component and a clinique component
// into a grand total. Totals are pointers so that a missing value can be told
// apart from zero.
type Quote struct {
	ID              int64                `json:"id" bson:"_id"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	TotalAssistance *float64             `json:"total_assistance" bson:"total_assistance,omitempty"`
	TotalClinique   *float64             `json:"total_clinique" bson:"total_clinique,omitempty"`
	TotalQuote      *float64             `json:"total_quote" bson:"total_quote,omitempty"`
	Appointment     *Appointment         `json:"appointment,omitempty" bson:"appointment,omitempty"`
	Items           []AssistanceLineItem `json:"items" bson:"items"`
}

// Amount returns a pointer to v, for building quotes in code.
func Amount(v float64) *float64 { return &v }

// Text returns a pointer to s, or nil when s is empty.
func Text(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SumItems adds up the line item amounts.
func SumItems(items []AssistanceLineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount
	}
	return total
}
