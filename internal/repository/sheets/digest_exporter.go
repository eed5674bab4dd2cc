package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/madiallo/carbontrack/internal/config"
	"github.com/madiallo/carbontrack/internal/domain/models"
)

const (
	digestRange = "Digests!A:H"
	dateLayout  = "2006-01-02"
)

// Exporter appends weekly digest rows to an external spreadsheet.
type Exporter interface {
	AppendDigest(ctx context.Context, digest models.WeeklyDigest) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
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
		logger:        logger,
	}, nil
}

// AppendDigest appends one row per digest: user, week bounds, total, and the
// four category columns in display order.
func (e *GoogleSheetExporter) AppendDigest(ctx context.Context, digest models.WeeklyDigest) error {
	byCategory := make(map[models.EmissionCategory]float64, len(digest.ByCategory))
	for _, entry := range digest.ByCategory {
		byCategory[entry.Category] = entry.Emissions
	}

	row := []interface{}{
		digest.UserID,
		digest.WeekStart.Format(dateLayout),
		digest.WeekEnd.Format(dateLayout),
		digest.Total,
	}
	for _, cat := range models.Categories {
		row = append(row, byCategory[cat])
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, digestRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append digest row for user %s: %w", digest.UserID, err)
	}

	e.logger.Debug("digest row exported", zap.String("user_id", digest.UserID))
	return nil
}
