// Package workflow holds the status sets for quotations and market research
// records and the department routing rules tied to them.
package workflow

import "time"

// Status values. The stored strings are the business-facing Portuguese labels;
// no other value may ever be written to the status column.
const (
	StatusCommercialAnalysis = "Análise Comercial"
	StatusSupplyAnalysis     = "Análise Suprimentos"
	StatusReleasedForSale    = "Liberado para Venda"
	StatusLostQuotation      = "Cotação Perdida"
)

// QuotationStatuses is the closed status set for quotations, in workflow order
var QuotationStatuses = []string{
	StatusCommercialAnalysis,
	StatusSupplyAnalysis,
	StatusReleasedForSale,
	StatusLostQuotation,
}

// ResearchStatuses is the closed status set for market research records
var ResearchStatuses = []string{
	StatusCommercialAnalysis,
	StatusReleasedForSale,
}

// ValidQuotationStatus reports whether s belongs to the quotation status set
func ValidQuotationStatus(s string) bool {
	for _, v := range QuotationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidResearchStatus reports whether s belongs to the research status set
func ValidResearchStatus(s string) bool {
	for _, v := range ResearchStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// location is the business timezone. Status-entry timestamps are always taken
// here so "days in status" matches what the department sees on a calendar.
var location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(location)
}

// StatusEntry returns the status-entry timestamp after a write: a changed
// status resets it to now, an unchanged status keeps the current value.
// Transitions are deliberately unrestricted; any status may follow any other.
func StatusEntry(oldStatus, newStatus string, current, now time.Time) time.Time {
	if oldStatus != newStatus {
		return now
	}
	return current
}

// Router resolves which department inboxes a status notification goes to
type Router struct {
	Commercial []string
	Supply     []string
}

// Recipients returns the notification recipients for a status.
// Supply analysis goes to the supply department only; the two terminal
// statuses notify both departments; everything else goes to commercial.
func (r Router) Recipients(status string) []string {
	switch status {
	case StatusSupplyAnalysis:
		return append([]string(nil), r.Supply...)
	case StatusReleasedForSale, StatusLostQuotation:
		out := append([]string(nil), r.Commercial...)
		return append(out, r.Supply...)
	default:
		return append([]string(nil), r.Commercial...)
	}
}
