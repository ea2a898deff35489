package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
	"github.com/muthuvel01/goldpledge/internal/store/sheets"
)

// LoanLister provides the loan snapshot the aggregation runs over.
type LoanLister interface {
	List(ctx context.Context, status string) ([]models.Loan, error)
}

// ReportStore persists generated reports.
type ReportStore interface {
	SaveDailyReport(ctx context.Context, report models.DailyLoanReport) error
}

// Service aggregates the loan book into daily summaries.
type Service struct {
	loans    LoanLister
	reports  ReportStore
	exporter sheets.Exporter
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. The exporter is optional;
// when nil, reports are only persisted to the store.
func NewService(loans LoanLister, reports ReportStore, exporter sheets.Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loans:    loans,
		reports:  reports,
		exporter: exporter,
		logger:   logger,
	}
}

// GenerateDailyReport materializes the loan book once, aggregates it and
// persists the summary, then exports it when a sheet is configured.
func (s *Service) GenerateDailyReport(ctx context.Context, day time.Time) (*models.DailyLoanReport, error) {
	loans, err := s.loans.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load loan book: %w", err)
	}

	report := aggregate(loans, day)

	if err := s.reports.SaveDailyReport(ctx, report); err != nil {
		return nil, fmt.Errorf("persist daily report: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.AppendReport(ctx, report); err != nil {
			// Export failure is not fatal; the report is already persisted.
			s.logger.Error("failed to export daily report", zap.Error(err))
		}
	}

	s.logger.Info("daily report generated",
		zap.Int("active_loans", report.ActiveLoans),
		zap.Int("closed_loans", report.ClosedLoans),
		zap.Float64("total_outstanding", report.TotalOutstanding))

	return &report, nil
}

func aggregate(loans []models.Loan, day time.Time) models.DailyLoanReport {
	var active, closed int
	principal := decimal.Zero
	outstanding := decimal.Zero
	collected := decimal.Zero

	for _, loan := range loans {
		switch loan.Status {
		case models.LoanStatusActive:
			active++
		case models.LoanStatusClosed:
			closed++
		}

		principal = principal.Add(decimal.NewFromFloat(loan.LoanAmount))
		outstanding = outstanding.Add(decimal.NewFromFloat(loan.PendingBalance))
		collected = collected.Add(decimal.NewFromFloat(loan.PaidAmount))
	}

	totalPrincipal, _ := principal.Float64()
	totalOutstanding, _ := outstanding.Float64()
	totalCollected, _ := collected.Float64()

	return models.DailyLoanReport{
		Date:             day.Truncate(24 * time.Hour),
		ActiveLoans:      active,
		ClosedLoans:      closed,
		TotalPrincipal:   totalPrincipal,
		TotalOutstanding: totalOutstanding,
		TotalCollected:   totalCollected,
		CreatedAt:        time.Now().UTC(),
	}
}
