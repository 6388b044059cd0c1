package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

const dateNumberFormat = "yyyy-mm-dd"

// WorkbookRepository implements Table on the active sheet of a local .xlsx file.
// Every call opens the file and closes it before returning; writes save the whole workbook.
type WorkbookRepository struct {
	path   string
	logger *zap.Logger

	// saveMu only serialises the open-modify-save section of a single write so two
	// requests never interleave bytes in the file. Lost updates between calls remain possible.
	saveMu sync.Mutex
}

// NewWorkbookRepository builds a workbook-backed table for the file at path.
func NewWorkbookRepository(path string, logger *zap.Logger) *WorkbookRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WorkbookRepository{path: path, logger: logger}
}

// Path returns the workbook location.
func (r *WorkbookRepository) Path() string {
	return r.path
}

// ReadRows returns all rows of the active sheet with raw cell values.
func (r *WorkbookRepository) ReadRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, sheet, err := r.open()
	if err != nil {
		return nil, err
	}
	defer r.close(f)

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s of %s: %w: %w", sheet, r.path, ErrFileAccess, err)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("read workbook properties of %s: %w: %w", r.path, ErrFileAccess, err)
	}
	if props.Date1904 != nil && *props.Date1904 {
		shiftDate1904(rows)
	}

	return rows, nil
}

// date1904Offset is the day gap between the 1904 and 1900 date systems.
const date1904Offset = 1462

// shiftDate1904 rewrites serial dates in column A to the 1900 system so callers
// decode every workbook the same way. Text dates are left alone.
func shiftDate1904(rows [][]string) {
	for i := FirstDataRow - 1; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(rows[i][0]), 64)
		if err != nil {
			continue
		}
		rows[i][0] = strconv.FormatFloat(serial+date1904Offset, 'f', -1, 64)
	}
}

// UpdateRow overwrites the row in place and saves the workbook.
func (r *WorkbookRepository) UpdateRow(ctx context.Context, rowNumber int, values []interface{}) error {
	if rowNumber < FirstDataRow {
		return fmt.Errorf("row %d is not a data row", rowNumber)
	}

	return r.write(ctx, func(f *excelize.File, sheet string) (int, error) {
		return rowNumber, nil
	}, values)
}

// AppendRow writes values below the last used row and saves the workbook.
func (r *WorkbookRepository) AppendRow(ctx context.Context, values []interface{}) error {
	return r.write(ctx, func(f *excelize.File, sheet string) (int, error) {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return 0, err
		}
		next := len(rows) + 1
		if next < FirstDataRow {
			next = FirstDataRow
		}
		return next, nil
	}, values)
}

func (r *WorkbookRepository) write(ctx context.Context, target func(*excelize.File, string) (int, error), values []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	f, sheet, err := r.open()
	if err != nil {
		return err
	}
	defer r.close(f)

	rowNumber, err := target(f, sheet)
	if err != nil {
		return fmt.Errorf("locate target row in %s: %w: %w", r.path, ErrFileAccess, err)
	}

	if err := writeRow(f, sheet, rowNumber, values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNumber, err)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w: %w", r.path, ErrFileAccess, err)
	}

	r.logger.Debug("workbook row written",
		zap.String("path", r.path),
		zap.String("sheet", sheet),
		zap.Int("row", rowNumber),
	)
	return nil
}

func (r *WorkbookRepository) open() (*excelize.File, string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook %s: %w: %w", r.path, ErrFileAccess, err)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		r.close(f)
		return nil, "", fmt.Errorf("workbook %s has no active sheet: %w", r.path, ErrFileAccess)
	}

	return f, sheet, nil
}

func (r *WorkbookRepository) close(f *excelize.File) {
	if err := f.Close(); err != nil {
		r.logger.Warn("failed to close workbook", zap.String("path", r.path), zap.Error(err))
	}
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return err
	}

	format := dateNumberFormat
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheet, cell, cell, styleID)
}

// CreateWorkbook writes a new workbook at path holding only the header row.
// It refuses to overwrite an existing file.
func CreateWorkbook(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("workbook %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := make([]interface{}, len(models.SalesColumns))
	for i, name := range models.SalesColumns {
		header[i] = name
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return fmt.Errorf("size date column: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}

	return nil
}
