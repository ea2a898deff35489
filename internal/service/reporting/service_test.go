package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) List(ctx context.Context, status string) ([]models.Loan, error) {
	args := m.Called(ctx, status)
	if loans, ok := args.Get(0).([]models.Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) SaveDailyReport(ctx context.Context, report models.DailyLoanReport) error {
	return m.Called(ctx, report).Error(0)
}

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) AppendReport(ctx context.Context, report models.DailyLoanReport) error {
	return m.Called(ctx, report).Error(0)
}

func loanBook() []models.Loan {
	return []models.Loan{
		{Status: models.LoanStatusActive, LoanAmount: 5000, PaidAmount: 1000, PendingBalance: 4000},
		{Status: models.LoanStatusActive, LoanAmount: 12000, PaidAmount: 0, PendingBalance: 12000},
		{Status: models.LoanStatusClosed, LoanAmount: 3000, PaidAmount: 3000, PendingBalance: 0},
	}
}

func TestGenerateDailyReportAggregates(t *testing.T) {
	lister := &mockLister{}
	store := &mockReportStore{}
	svc := NewService(lister, store, nil, nil)

	lister.On("List", mock.Anything, "").Return(loanBook(), nil)

	var saved models.DailyLoanReport
	store.On("SaveDailyReport", mock.Anything, mock.MatchedBy(func(r models.DailyLoanReport) bool {
		saved = r
		return true
	})).Return(nil)

	report, err := svc.GenerateDailyReport(context.Background(), time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, report.ActiveLoans)
	assert.Equal(t, 1, report.ClosedLoans)
	assert.Equal(t, float64(20000), report.TotalPrincipal)
	assert.Equal(t, float64(16000), report.TotalOutstanding)
	assert.Equal(t, float64(4000), report.TotalCollected)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, *report, saved)
}

func TestGenerateDailyReportEmptyBook(t *testing.T) {
	lister := &mockLister{}
	store := &mockReportStore{}
	svc := NewService(lister, store, nil, nil)

	lister.On("List", mock.Anything, "").Return([]models.Loan{}, nil)
	store.On("SaveDailyReport", mock.Anything, mock.Anything).Return(nil)

	report, err := svc.GenerateDailyReport(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, report.ActiveLoans)
	assert.Zero(t, report.TotalPrincipal)
}

func TestGenerateDailyReportListFailure(t *testing.T) {
	lister := &mockLister{}
	store := &mockReportStore{}
	svc := NewService(lister, store, nil, nil)

	lister.On("List", mock.Anything, "").Return(nil, errors.New("store unreachable"))

	_, err := svc.GenerateDailyReport(context.Background(), time.Now())
	require.Error(t, err)
	store.AssertNotCalled(t, "SaveDailyReport")
}

func TestGenerateDailyReportExportsWhenConfigured(t *testing.T) {
	lister := &mockLister{}
	store := &mockReportStore{}
	exporter := &mockExporter{}
	svc := NewService(lister, store, exporter, nil)

	lister.On("List", mock.Anything, "").Return(loanBook(), nil)
	store.On("SaveDailyReport", mock.Anything, mock.Anything).Return(nil)
	exporter.On("AppendReport", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.GenerateDailyReport(context.Background(), time.Now())
	require.NoError(t, err)
	exporter.AssertExpectations(t)
}

func TestGenerateDailyReportExportFailureIsNotFatal(t *testing.T) {
	lister := &mockLister{}
	store := &mockReportStore{}
	exporter := &mockExporter{}
	svc := NewService(lister, store, exporter, nil)

	lister.On("List", mock.Anything, "").Return(loanBook(), nil)
	store.On("SaveDailyReport", mock.Anything, mock.Anything).Return(nil)
	exporter.On("AppendReport", mock.Anything, mock.Anything).Return(errors.New("sheet quota exceeded"))

	report, err := svc.GenerateDailyReport(context.Background(), time.Now())
	assert.NoError(t, err)
	assert.NotNil(t, report)
}
