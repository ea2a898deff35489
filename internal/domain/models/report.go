package models

import "time"

// DailyLoanReport is the aggregated loan-book summary stored in MongoDB and
// exported to the reporting spreadsheet.
type DailyLoanReport struct {
	Date             time.Time `bson:"date" json:"date"`
	ActiveLoans      int       `bson:"active_loans" json:"active_loans"`
	ClosedLoans      int       `bson:"closed_loans" json:"closed_loans"`
	TotalPrincipal   float64   `bson:"total_principal" json:"total_principal"`
	TotalOutstanding float64   `bson:"total_outstanding" json:"total_outstanding"`
	TotalCollected   float64   `bson:"total_collected" json:"total_collected"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
