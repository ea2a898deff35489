package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan status values as stored in the loans collection.
const (
	LoanStatusActive = "Active"
	LoanStatusClosed = "Closed"
)

// DateLayout is the calendar-date string format used for loan dates.
const DateLayout = "2006-01-02"

// Loan represents one pawn transaction backed by a gold item.
type Loan struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName       string             `bson:"customerName" json:"customerName"`
	MobileNumber       string             `bson:"mobileNumber" json:"mobileNumber"`
	ItemName           string             `bson:"itemName" json:"itemName"`
	ItemWeight         float64            `bson:"itemWeight" json:"itemWeight"`
	LoanAmount         float64            `bson:"loanAmount" json:"loanAmount"`
	InterestPercentage float64            `bson:"interestPercentage" json:"interestPercentage"`
	LoanStartDate      string             `bson:"loanStartDate" json:"loanStartDate"`
	LoanDueDate        string             `bson:"loanDueDate" json:"loanDueDate"`
	ImageURL           string             `bson:"imageUrl" json:"imageUrl"`
	Status             string             `bson:"status" json:"status"`
	PaidAmount         float64            `bson:"paidAmount" json:"paidAmount"`
	PendingBalance     float64            `bson:"pendingBalance" json:"pendingBalance"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateLoanRequest is the validated input of the loan creation path.
type CreateLoanRequest struct {
	CustomerName       string  `json:"customerName" binding:"required"`
	MobileNumber       string  `json:"mobileNumber" binding:"required,min=10"`
	ItemName           string  `json:"itemName" binding:"required"`
	ItemWeight         float64 `json:"itemWeight" binding:"required,gt=0"`
	LoanAmount         float64 `json:"loanAmount" binding:"required,gt=0"`
	InterestPercentage float64 `json:"interestPercentage" binding:"gte=0"`
	LoanStartDate      string  `json:"loanStartDate" binding:"required"`
	LoanDueDate        string  `json:"loanDueDate" binding:"required"`
	ImageURL           string  `json:"imageUrl"`
}

// NewLoan derives a persistable loan from a validated creation request.
// Status starts Active, nothing has been paid, and the pending balance equals
// the principal. The image falls back to the provided placeholder.
func NewLoan(req CreateLoanRequest, placeholderImageURL string, now time.Time) Loan {
	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = placeholderImageURL
	}

	return Loan{
		CustomerName:       req.CustomerName,
		MobileNumber:       req.MobileNumber,
		ItemName:           req.ItemName,
		ItemWeight:         req.ItemWeight,
		LoanAmount:         req.LoanAmount,
		InterestPercentage: req.InterestPercentage,
		LoanStartDate:      req.LoanStartDate,
		LoanDueDate:        req.LoanDueDate,
		ImageURL:           imageURL,
		Status:             LoanStatusActive,
		PaidAmount:         0,
		PendingBalance:     req.LoanAmount,
		CreatedAt:          now.UTC(),
	}
}

// ApplyPayment records a repayment and recomputes the pending balance.
// The recomputation is explicit: pending = principal - paid, floored at zero.
// The status is never changed here.
func (l *Loan) ApplyPayment(amount float64) {
	paid := decimal.NewFromFloat(l.PaidAmount).Add(decimal.NewFromFloat(amount))
	pending := decimal.NewFromFloat(l.LoanAmount).Sub(paid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	l.PaidAmount, _ = paid.Float64()
	l.PendingBalance, _ = pending.Float64()
}
