package records

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

// Column positions of a sales row.
const (
	colDate = iota
	colSets
	colCustomers
	colBowls
	colPurchaseTotal
	colTotalPrice
	colCashTotal
	colCardTotal
	colUSDTotal
	colRemarks
)

var errEmptyValue = errors.New("empty value")

var thousandsPattern = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate reads a date cell: one of the textual layouts or a spreadsheet serial number.
// Serials are in the 1900 date system; tables shift 1904 workbooks before returning rows.
// The result is midnight UTC of that calendar day.
func ParseDate(value string) (time.Time, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return time.Time{}, errEmptyValue
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return models.NormalizeDate(t), nil
		}
	}

	serial, err := strconv.ParseFloat(str, 64)
	if err != nil || serial < 1 {
		return time.Time{}, fmt.Errorf("unrecognised date %q", str)
	}

	t, err := excelize.ExcelDateToTime(math.Floor(serial+1e-6), false)
	if err != nil {
		return time.Time{}, fmt.Errorf("convert serial date %q: %w", str, err)
	}

	return models.NormalizeDate(t), nil
}

// ParseInt reads an integer cell. Blank means zero; a fractional value is truncated.
func ParseInt(value string) (int, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return 0, nil
	}

	if n, err := strconv.Atoi(str); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", str)
	}

	return int(f), nil
}

// ParseDecimal reads a money cell. Blank means zero. Commas are only accepted as
// thousands separators ("12,345.5"); any other comma is an error.
func ParseDecimal(value string) (decimal.Decimal, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return decimal.Zero, nil
	}

	if strings.Contains(str, ",") {
		if !thousandsPattern.MatchString(str) {
			return decimal.Zero, fmt.Errorf("misplaced thousands separator: %q", str)
		}
		str = strings.ReplaceAll(str, ",", "")
	}

	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", str)
	}

	return d, nil
}

// decodeRow turns a sheet row into a record. Only the date is mandatory;
// numeric cells that cannot be read count as zero.
func decodeRow(row []string) (models.SalesRecord, error) {
	date, err := ParseDate(cell(row, colDate))
	if err != nil {
		return models.SalesRecord{}, err
	}

	return models.SalesRecord{
		Date:          date,
		Sets:          lenientInt(cell(row, colSets)),
		Customers:     lenientInt(cell(row, colCustomers)),
		Bowls:         lenientInt(cell(row, colBowls)),
		PurchaseTotal: lenientDecimal(cell(row, colPurchaseTotal)),
		TotalPrice:    lenientDecimal(cell(row, colTotalPrice)),
		CashTotal:     lenientDecimal(cell(row, colCashTotal)),
		CardTotal:     lenientDecimal(cell(row, colCardTotal)),
		USDTotal:      lenientDecimal(cell(row, colUSDTotal)),
		Remarks:       cell(row, colRemarks),
	}, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func lenientInt(value string) int {
	n, err := ParseInt(value)
	if err != nil {
		return 0
	}
	return n
}

func lenientDecimal(value string) decimal.Decimal {
	d, err := ParseDecimal(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}
