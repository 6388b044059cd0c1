package models

import "github.com/shopspring/decimal"

// SummaryRow is a stored record together with its derived average spend.
type SummaryRow struct {
	Record       SalesRecord
	AverageSpend decimal.Decimal
}

// MonthlySummary aggregates one calendar month of sales records.
// Totals are truncated toward zero to match the legacy display.
type MonthlySummary struct {
	Year             int
	Month            int
	Rows             []SummaryRow
	TotalPriceSum    int64
	TotalPurchaseSum int64
}
