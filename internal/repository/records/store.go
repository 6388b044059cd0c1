package records

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
	"github.com/mamadbah2/salesbook/internal/repository/sheets"
)

// Store keeps one sales record per calendar date in a sheet. It holds no state
// between calls: every operation re-reads the sheet, and concurrent writers are
// not coordinated (last write wins).
type Store struct {
	table  sheets.Table
	logger *zap.Logger
}

// NewStore wires a record store over the given table.
func NewStore(table sheets.Table, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{table: table, logger: logger}
}

// FindByDate returns the first record stored for date. A missing record is
// reported with found=false and a nil error.
func (s *Store) FindByDate(ctx context.Context, date time.Time) (models.SalesRecord, bool, error) {
	rows, err := s.table.ReadRows(ctx)
	if err != nil {
		return models.SalesRecord{}, false, fmt.Errorf("find record: %w", err)
	}

	rowNumber := s.locate(rows, models.NormalizeDate(date))
	if rowNumber == 0 {
		return models.SalesRecord{}, false, nil
	}

	record, err := decodeRow(rows[rowNumber-1])
	if err != nil {
		return models.SalesRecord{}, false, fmt.Errorf("decode row %d: %w", rowNumber, err)
	}

	return record, true, nil
}

// Upsert overwrites the row holding record's date, or appends a new row when
// none exists. created reports whether a row was appended.
func (s *Store) Upsert(ctx context.Context, record models.SalesRecord) (bool, error) {
	record.Date = models.NormalizeDate(record.Date)

	rows, err := s.table.ReadRows(ctx)
	if err != nil {
		return false, fmt.Errorf("upsert record: %w", err)
	}

	if rowNumber := s.locate(rows, record.Date); rowNumber != 0 {
		if err := s.table.UpdateRow(ctx, rowNumber, record.Values()); err != nil {
			return false, fmt.Errorf("update record %s: %w", record.Key(), err)
		}
		s.logger.Info("sales record updated", zap.String("date", record.Key()), zap.Int("row", rowNumber))
		return false, nil
	}

	if err := s.table.AppendRow(ctx, record.Values()); err != nil {
		return false, fmt.Errorf("append record %s: %w", record.Key(), err)
	}
	s.logger.Info("sales record created", zap.String("date", record.Key()))
	return true, nil
}

// ListRecords returns every data row in sheet order, skipping rows whose date cannot be read.
func (s *Store) ListRecords(ctx context.Context) ([]models.SalesRecord, error) {
	rows, err := s.table.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var out []models.SalesRecord
	for i := sheets.FirstDataRow - 1; i < len(rows); i++ {
		record, err := decodeRow(rows[i])
		if err != nil {
			s.logger.Debug("skip row with invalid date", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		out = append(out, record)
	}

	return out, nil
}

// locate returns the 1-based sheet row of the first data row dated date, or 0.
func (s *Store) locate(rows [][]string, date time.Time) int {
	for i := sheets.FirstDataRow - 1; i < len(rows); i++ {
		rowDate, err := ParseDate(cell(rows[i], colDate))
		if err != nil {
			continue
		}
		if rowDate.Equal(date) {
			return i + 1
		}
	}
	return 0
}
