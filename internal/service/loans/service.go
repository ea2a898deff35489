package loans

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
)

// FieldError carries a validation failure for a single input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoanStore describes the persistence operations the service depends on.
type LoanStore interface {
	Insert(ctx context.Context, loan models.Loan) (string, error)
	Get(ctx context.Context, id string) (*models.Loan, error)
	List(ctx context.Context, status string) ([]models.Loan, error)
	Delete(ctx context.Context, id string) error
	UpdateBalances(ctx context.Context, id string, paidAmount, pendingBalance float64) error
}

// Service describes the loan operations the HTTP layer can perform.
type Service interface {
	Create(ctx context.Context, req models.CreateLoanRequest) (*models.Loan, error)
	Get(ctx context.Context, id string) (*models.Loan, error)
	List(ctx context.Context, searchTerm, status string) ([]models.Loan, error)
	Delete(ctx context.Context, id string) error
	ApplyPayment(ctx context.Context, id string, amount float64) (*models.Loan, error)
}

// LoanService is the production implementation backed by the document store.
type LoanService struct {
	store               LoanStore
	placeholderImageURL string
	logger              *zap.Logger
	now                 func() time.Time
}

// NewService wires a new loan service instance.
func NewService(store LoanStore, placeholderImageURL string, logger *zap.Logger) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanService{
		store:               store,
		placeholderImageURL: placeholderImageURL,
		logger:              logger,
		now:                 time.Now,
	}
}

// Create validates the request, derives the persisted fields and performs a
// single insert. No re-fetch happens afterwards; open subscriptions deliver
// the new record to their consumers.
func (s *LoanService) Create(ctx context.Context, req models.CreateLoanRequest) (*models.Loan, error) {
	if err := validateDates(req); err != nil {
		return nil, err
	}

	loan := models.NewLoan(req, s.placeholderImageURL, s.now())

	id, err := s.store.Insert(ctx, loan)
	if err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	created, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back created loan %s: %w", id, err)
	}

	s.logger.Info("loan created",
		zap.String("loan_id", id),
		zap.String("customer", loan.CustomerName),
		zap.Float64("loan_amount", loan.LoanAmount))

	return created, nil
}

// Get returns one loan by identifier.
func (s *LoanService) Get(ctx context.Context, id string) (*models.Loan, error) {
	return s.store.Get(ctx, id)
}

// List returns loans ordered newest-first with the view's filter predicate
// applied. The whole collection is materialized and filtered in memory,
// matching the view contract.
func (s *LoanService) List(ctx context.Context, searchTerm, status string) ([]models.Loan, error) {
	all, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	return Filter(all, searchTerm, status), nil
}

// Delete removes a loan permanently.
func (s *LoanService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("loan deleted", zap.String("loan_id", id))
	return nil
}

// ApplyPayment records a repayment and recomputes the pending balance as an
// explicit operation. The loan status is left untouched.
func (s *LoanService) ApplyPayment(ctx context.Context, id string, amount float64) (*models.Loan, error) {
	if amount <= 0 {
		return nil, &FieldError{Field: "amount", Message: "payment amount must be greater than zero"}
	}

	loan, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	loan.ApplyPayment(amount)

	if err := s.store.UpdateBalances(ctx, id, loan.PaidAmount, loan.PendingBalance); err != nil {
		return nil, err
	}

	s.logger.Info("payment applied",
		zap.String("loan_id", id),
		zap.Float64("amount", amount),
		zap.Float64("pending_balance", loan.PendingBalance))

	return loan, nil
}

func validateDates(req models.CreateLoanRequest) error {
	if _, err := time.Parse(models.DateLayout, req.LoanStartDate); err != nil {
		return &FieldError{Field: "loanStartDate", Message: "must be a calendar date in YYYY-MM-DD format"}
	}
	if _, err := time.Parse(models.DateLayout, req.LoanDueDate); err != nil {
		return &FieldError{Field: "loanDueDate", Message: "must be a calendar date in YYYY-MM-DD format"}
	}
	// A due date before the start date is accepted; the source system never
	// enforced the ordering.
	return nil
}
