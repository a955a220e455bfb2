// Package document renders printable back-office documents.
//
// The renderers are pure: they read a snapshot of the domain value and write
// HTML ready for printing or PDF conversion. Delivery of the result is the
// caller's concern.
package document

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

const (
	// NumberPrefix is prepended to the quote id to build the document number.
	NumberPrefix = "DEV-MSK"
	// FallbackClinique is shown when the quote has no clinique attached.
	FallbackClinique = "N/A"

	dateLayout = "02/01/2006"
)

const disclaimerText = "The total amount shown above is all-inclusive for the services listed in this estimate. " +
	"It does not cover extra services requested on site, additional nights, personal expenses, " +
	"or the treatment of medical complications arising during or after the procedure."

const stylesheet = `body{font-family:Helvetica,Arial,sans-serif;font-size:12px;color:#222;margin:32px}
header{display:flex;justify-content:space-between;align-items:flex-start;border-bottom:2px solid #1f4e79;padding-bottom:12px}
h1{color:#1f4e79;letter-spacing:2px;margin:0}
table{width:100%;border-collapse:collapse;margin-top:12px}
th,td{border:1px solid #ccc;padding:6px 8px;text-align:left}
td.amount,th.amount{text-align:right}
tr.total td{font-weight:bold;background:#f2f6fa}
section{margin-top:18px}
.summary td{font-size:13px}
.notice{font-size:11px;color:#555}
footer{margin-top:32px;text-align:center;font-size:10px;color:#888}`

// DocumentNumber returns the printed number of the quote, e.g. DEV-MSK42.
func DocumentNumber(id int64) string {
	return NumberPrefix + strconv.FormatInt(id, 10)
}

// QuoteRenderer turns a quote into a standalone HTML estimate.
type QuoteRenderer struct {
	company Company
}

func NewQuoteRenderer(company Company) *QuoteRenderer {
	return &QuoteRenderer{company: company}
}

// Render returns the estimate as a string. The same quote always renders to
// the same bytes.
func (r *QuoteRenderer) Render(q *domain.Quote) (string, error) {
	var b strings.Builder
	if err := r.RenderTo(&b, q); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderTo writes the estimate to w. Nothing is written when a required
// total is missing.
func (r *QuoteRenderer) RenderTo(w io.Writer, q *domain.Quote) error {
	v, err := r.prepare(q)
	if err != nil {
		return err
	}

	var b strings.Builder
	r.writeHead(&b, v)
	r.writeHeader(&b)
	r.writeSummary(&b, v)
	r.writeMetadata(&b, v)
	r.writeItems(&b, v)
	r.writeCliniqueFees(&b, v)
	r.writeDisclaimer(&b, v)
	r.writeBanking(&b)
	r.writeValidity(&b)
	r.writeFooter(&b)

	_, err = io.WriteString(w, b.String())
	return err
}

// quoteView is the quote reduced to display strings, with fallbacks applied.
type quoteView struct {
	number          string
	date            string
	clinique        string
	patient         string
	totalAssistance string
	totalClinique   string
	totalQuote      string
	items           []itemView
}

type itemView struct {
	label  string
	amount string
}

func (r *QuoteRenderer) prepare(q *domain.Quote) (*quoteView, error) {
	if q == nil {
		return nil, &MissingFieldError{Field: "quote"}
	}
	switch {
	case q.TotalQuote == nil:
		return nil, &MissingFieldError{Field: "total_quote"}
	case q.TotalAssistance == nil:
		return nil, &MissingFieldError{Field: "total_assistance"}
	case q.TotalClinique == nil:
		return nil, &MissingFieldError{Field: "total_clinique"}
	}

	v := &quoteView{
		number:          DocumentNumber(q.ID),
		date:            q.CreatedAt.Format(dateLayout),
		clinique:        FallbackClinique,
		totalAssistance: r.money(*q.TotalAssistance),
		totalClinique:   r.money(*q.TotalClinique),
		totalQuote:      r.money(*q.TotalQuote),
		items:           make([]itemView, 0, len(q.Items)),
	}

	if a := q.Appointment; a != nil {
		if a.CliniqueName != nil && strings.TrimSpace(*a.CliniqueName) != "" {
			v.clinique = *a.CliniqueName
		}
		v.patient = domain.JoinName(deref(a.PatientFirstName), deref(a.PatientLastName))
	}

	for _, it := range q.Items {
		v.items = append(v.items, itemView{label: it.Label, amount: r.money(it.Amount)})
	}
	return v, nil
}

// money formats an amount with two decimals, a decimal point and no
// thousands separator.
func (r *QuoteRenderer) money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " " + r.company.currency()
}

func (r *QuoteRenderer) writeHead(b *strings.Builder, v *quoteView) {
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(b, "<title>Estimate %s</title>\n", esc(v.number))
	fmt.Fprintf(b, "<style>\n%s\n</style>\n</head>\n<body>\n", stylesheet)
}

func (r *QuoteRenderer) writeHeader(b *strings.Builder) {
	c := r.company
	b.WriteString("<header>\n<div class=\"brand\">\n")
	if c.LogoURL != "" {
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\" height=\"64\">\n", esc(c.LogoURL), esc(c.Name))
	} else {
		fmt.Fprintf(b, "<strong>%s</strong>\n", esc(c.Name))
	}
	b.WriteString("</div>\n<h1>ESTIMATE</h1>\n<address>\n")
	fmt.Fprintf(b, "<strong>%s</strong><br>\n", esc(c.Name))
	for _, line := range c.AddressLines {
		fmt.Fprintf(b, "%s<br>\n", esc(line))
	}
	if c.Phone != "" {
		fmt.Fprintf(b, "Tel: %s<br>\n", esc(c.Phone))
	}
	if c.Email != "" {
		fmt.Fprintf(b, "Email: %s<br>\n", esc(c.Email))
	}
	if c.Website != "" {
		fmt.Fprintf(b, "%s<br>\n", esc(c.Website))
	}
	b.WriteString("</address>\n</header>\n")
}

func (r *QuoteRenderer) writeSummary(b *strings.Builder, v *quoteView) {
	b.WriteString("<section class=\"summary\">\n<table>\n")
	fmt.Fprintf(b, "<tr><td>Total assistance</td><td class=\"amount\">%s</td></tr>\n", esc(v.totalAssistance))
	fmt.Fprintf(b, "<tr><td>Total clinique</td><td class=\"amount\">%s</td></tr>\n", esc(v.totalClinique))
	fmt.Fprintf(b, "<tr class=\"total\"><td>Total quote</td><td class=\"amount\">%s</td></tr>\n", esc(v.totalQuote))
	b.WriteString("</table>\n</section>\n")
}

func (r *QuoteRenderer) writeMetadata(b *strings.Builder, v *quoteView) {
	b.WriteString("<section class=\"metadata\">\n<table>\n")
	fmt.Fprintf(b, "<tr><th>Estimate number</th><td>%s</td></tr>\n", esc(v.number))
	fmt.Fprintf(b, "<tr><th>Date</th><td>%s</td></tr>\n", esc(v.date))
	fmt.Fprintf(b, "<tr><th>Clinique</th><td>%s</td></tr>\n", esc(v.clinique))
	fmt.Fprintf(b, "<tr><th>Patient</th><td>%s</td></tr>\n", esc(v.patient))
	b.WriteString("</table>\n</section>\n")
}

func (r *QuoteRenderer) writeItems(b *strings.Builder, v *quoteView) {
	b.WriteString("<section class=\"items\">\n<h2>Assistance</h2>\n<table>\n")
	b.WriteString("<thead><tr><th>Description</th><th class=\"amount\">Amount</th></tr></thead>\n<tbody>\n")
	for _, it := range v.items {
		fmt.Fprintf(b, "<tr><td>%s</td><td class=\"amount\">%s</td></tr>\n", esc(it.label), esc(it.amount))
	}
	fmt.Fprintf(b, "<tr class=\"total\"><td>Total assistance</td><td class=\"amount\">%s</td></tr>\n", esc(v.totalAssistance))
	b.WriteString("</tbody>\n</table>\n</section>\n")
}

func (r *QuoteRenderer) writeCliniqueFees(b *strings.Builder, v *quoteView) {
	fmt.Fprintf(b, "<section class=\"clinique\">\n<p><strong>Clinique fees:</strong> %s</p>\n</section>\n", esc(v.totalClinique))
}

func (r *QuoteRenderer) writeDisclaimer(b *strings.Builder, v *quoteView) {
	fmt.Fprintf(b, "<section class=\"disclaimer\">\n<p>All-inclusive total: <strong>%s</strong>. %s</p>\n</section>\n",
		esc(v.totalQuote), esc(disclaimerText))
}

func (r *QuoteRenderer) writeBanking(b *strings.Builder) {
	c := r.company
	b.WriteString("<section class=\"banking\">\n<h2>Banking details</h2>\n<table>\n")
	fmt.Fprintf(b, "<tr><th>Bank</th><td>%s</td></tr>\n", esc(c.BankName))
	fmt.Fprintf(b, "<tr><th>Account holder</th><td>%s</td></tr>\n", esc(c.AccountHolder))
	fmt.Fprintf(b, "<tr><th>IBAN</th><td>%s</td></tr>\n", esc(c.IBAN))
	fmt.Fprintf(b, "<tr><th>SWIFT/BIC</th><td>%s</td></tr>\n", esc(c.SWIFT))
	b.WriteString("</table>\n</section>\n")
}

func (r *QuoteRenderer) writeValidity(b *strings.Builder) {
	fmt.Fprintf(b, "<section class=\"notice\">\n<p>This estimate is valid for %d days from its date of issue.</p>\n", ValidityDays)
	b.WriteString("<p>This estimate is indicative and must be confirmed by the surgeon during the in-person medical consultation.</p>\n</section>\n")
}

func (r *QuoteRenderer) writeFooter(b *strings.Builder) {
	fmt.Fprintf(b, "<footer>%s &middot; Thank you for your trust.</footer>\n</body>\n</html>\n", esc(r.company.Name))
}

func esc(s string) string { return html.EscapeString(s) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
