package sheets

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

func newWorkbook(t *testing.T) *WorkbookRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, CreateWorkbook(path))
	return NewWorkbookRepository(path, nil)
}

func serialDate(t *testing.T, cell string) string {
	t.Helper()
	serial, err := strconv.ParseFloat(cell, 64)
	require.NoError(t, err)
	ts, err := excelize.ExcelDateToTime(serial, false)
	require.NoError(t, err)
	return ts.Format(models.DateLayout)
}

func TestCreateWorkbookWritesHeaderOnly(t *testing.T) {
	repo := newWorkbook(t)

	rows, err := repo.ReadRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.SalesColumns, rows[0])
}

func TestCreateWorkbookRefusesExistingFile(t *testing.T) {
	repo := newWorkbook(t)
	assert.Error(t, CreateWorkbook(repo.Path()))
}

func TestWorkbookAppendAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newWorkbook(t)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AppendRow(ctx, []interface{}{day, 3, 10, 7, 120.5, 500.0, 300.0, 200.0, 0.0, "first"}))
	require.NoError(t, repo.AppendRow(ctx, []interface{}{day.AddDate(0, 0, 1), 1, 2, 2, 0.0, 80.0, 80.0, 0.0, 0.0, "second"}))

	rows, err := repo.ReadRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-01", serialDate(t, rows[1][0]))
	assert.Equal(t, []string{"3", "10", "7", "120.5", "500", "300", "200", "0", "first"}, rows[1][1:])
	assert.Equal(t, "2024-05-02", serialDate(t, rows[2][0]))

	require.NoError(t, repo.UpdateRow(ctx, 2, []interface{}{day, 4, 12, 9, 100.0, 600.0, 600.0, 0.0, 0.0, "fixed"}))

	rows, err = repo.ReadRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-01", serialDate(t, rows[1][0]))
	assert.Equal(t, []string{"4", "12", "9", "100", "600", "600", "0", "0", "fixed"}, rows[1][1:])
	assert.Equal(t, "second", rows[2][9])
}

func TestWorkbookReadsDate1904AsDate1900Serials(t *testing.T) {
	ctx := context.Background()
	repo := newWorkbook(t)

	f, err := excelize.OpenFile(repo.Path())
	require.NoError(t, err)
	date1904 := true
	require.NoError(t, f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904}))
	// 2024-05-01 in the 1904 system.
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 43951))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "2024-05-03"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	require.NoError(t, repo.AppendRow(ctx, []interface{}{time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), 1, 1, 1, 0.0, 10.0, 10.0, 0.0, 0.0, ""}))

	rows, err := repo.ReadRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, models.SalesColumns, rows[0])
	assert.Equal(t, "2024-05-01", serialDate(t, rows[1][0]))
	assert.Equal(t, "2024-05-03", rows[2][0])
	assert.Equal(t, "2024-05-02", serialDate(t, rows[3][0]))
}

func TestWorkbookRejectsHeaderUpdate(t *testing.T) {
	repo := newWorkbook(t)
	assert.Error(t, repo.UpdateRow(context.Background(), 1, []interface{}{"x"}))
}

func TestWorkbookMissingFile(t *testing.T) {
	repo := NewWorkbookRepository(filepath.Join(t.TempDir(), "absent.xlsx"), nil)

	_, err := repo.ReadRows(context.Background())
	assert.ErrorIs(t, err, ErrFileAccess)

	err = repo.AppendRow(context.Background(), []interface{}{"2024-05-01"})
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestWorkbookHonoursCancelledContext(t *testing.T) {
	repo := newWorkbook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ReadRows(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
