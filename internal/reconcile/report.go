package reconcile

import "github.com/shopspring/decimal"

// CreditsPerBTP is the unit scale: credits are the smallest indivisible
// unit, 10^8 credits per BTP.
const CreditsPerBTP = 100_000_000

// OrphanedValueBTP returns the orphaned value converted to BTP for display.
// All accounting stays in integer credits; this conversion exists only for
// humans reading the report.
func (r Report) OrphanedValueBTP() decimal.Decimal {
	return decimal.New(r.OrphanedValueCredits, -8)
}
