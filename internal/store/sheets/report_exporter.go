package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/muthuvel01/goldpledge/internal/config"
	"github.com/muthuvel01/goldpledge/internal/domain/models"
)

// Exporter appends daily loan-book reports to an external sheet.
type Exporter interface {
	AppendReport(ctx context.Context, report models.DailyLoanReport) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	reportRange   string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		reportRange:   cfg.ReportRange,
		logger:        logger,
	}, nil
}

// AppendReport appends the report as one row in the configured range.
func (e *GoogleSheetExporter) AppendReport(ctx context.Context, report models.DailyLoanReport) error {
	if e.reportRange == "" {
		return fmt.Errorf("report range must not be empty")
	}

	row := []interface{}{
		report.Date.Format(models.DateLayout),
		report.ActiveLoans,
		report.ClosedLoans,
		report.TotalPrincipal,
		report.TotalOutstanding,
		report.TotalCollected,
		report.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report into range %s: %w", e.reportRange, err)
	}

	e.logger.Debug("report row appended to sheet", zap.String("range", e.reportRange))
	return nil
}
