package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/salesbook/internal/config"
	"github.com/mamadbah2/salesbook/internal/domain/models"
)

// lastColumn is the rightmost column of a sales row (J, remarks).
const lastColumn = "J"

// GoogleSheetRepository implements Table on one tab of a Google spreadsheet.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed table.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}, nil
}

// ReadRows fetches the whole tab with unformatted values; dates come back as serial numbers.
func (r *GoogleSheetRepository) ReadRows(ctx context.Context) ([][]string, error) {
	sheetRange := fmt.Sprintf("%s!A:%s", r.sheetName, lastColumn)

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w: %w", sheetRange, ErrFileAccess, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		rows[i] = cells
	}

	return rows, nil
}

// UpdateRow overwrites columns A..J of the given row.
func (r *GoogleSheetRepository) UpdateRow(ctx context.Context, rowNumber int, values []interface{}) error {
	if rowNumber < FirstDataRow {
		return fmt.Errorf("row %d is not a data row", rowNumber)
	}

	sheetRange := fmt.Sprintf("%s!A%d:%s%d", r.sheetName, rowNumber, lastColumn, rowNumber)
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{rawValues(values)}}

	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("update range %s: %w: %w", sheetRange, ErrFileAccess, err)
	}

	r.logger.Debug("sheet row updated", zap.String("range", sheetRange))
	return nil
}

// AppendRow appends values after the last row of the tab.
func (r *GoogleSheetRepository) AppendRow(ctx context.Context, values []interface{}) error {
	sheetRange := fmt.Sprintf("%s!A:%s", r.sheetName, lastColumn)
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{rawValues(values)}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w: %w", sheetRange, ErrFileAccess, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// sheetsEpoch is day zero of Sheets serial dates.
var sheetsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// rawValues converts values for a RAW write. Nothing is parsed by Sheets, so text
// such as "=1+1" stays text and dates are sent as serial numbers.
func rawValues(values []interface{}) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		if t, ok := v.(time.Time); ok {
			out[i] = serialDay(t)
			continue
		}
		out[i] = v
	}
	return out
}

func serialDay(t time.Time) float64 {
	day := models.NormalizeDate(t)
	return float64(day.Sub(sheetsEpoch) / (24 * time.Hour))
}

func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}
