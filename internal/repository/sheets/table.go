package sheets

import "context"

// FirstDataRow is the first sheet row holding data; row 1 is the header.
const FirstDataRow = 2

// Table is a single tabular sheet addressed by 1-based row numbers.
type Table interface {
	// ReadRows returns every row of the sheet, header included, as display strings.
	ReadRows(ctx context.Context) ([][]string, error)
	// UpdateRow overwrites the cells of the given row starting at column A.
	UpdateRow(ctx context.Context, rowNumber int, values []interface{}) error
	// AppendRow writes values into the first row after the last used one.
	AppendRow(ctx context.Context, values []interface{}) error
}
