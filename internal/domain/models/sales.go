package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual form of a business day.
const DateLayout = "2006-01-02"

// SalesColumns is the header row of the sales sheet, in column order A..J.
var SalesColumns = []string{"日付", "組数", "客数", "丼数", "仕入れ額", "合計値段", "現金合計", "カード合計", "USD負担合計", "備考欄"}

// SalesRecord captures one business day's figures. Date is the unique key.
type SalesRecord struct {
	Date          time.Time
	Sets          int
	Customers     int
	Bowls         int
	PurchaseTotal decimal.Decimal
	TotalPrice    decimal.Decimal
	CashTotal     decimal.Decimal
	CardTotal     decimal.Decimal
	USDTotal      decimal.Decimal
	Remarks       string
}

// Key returns the date key of the record.
func (r SalesRecord) Key() string {
	return r.Date.Format(DateLayout)
}

// AverageSpend is total price divided by customers, zero when there were no customers.
func (r SalesRecord) AverageSpend() decimal.Decimal {
	if r.Customers <= 0 {
		return decimal.Zero
	}
	return r.TotalPrice.Div(decimal.NewFromInt(int64(r.Customers)))
}

// Equal reports whether both records hold the same values.
func (r SalesRecord) Equal(other SalesRecord) bool {
	return r.Key() == other.Key() &&
		r.Sets == other.Sets &&
		r.Customers == other.Customers &&
		r.Bowls == other.Bowls &&
		r.PurchaseTotal.Equal(other.PurchaseTotal) &&
		r.TotalPrice.Equal(other.TotalPrice) &&
		r.CashTotal.Equal(other.CashTotal) &&
		r.CardTotal.Equal(other.CardTotal) &&
		r.USDTotal.Equal(other.USDTotal) &&
		r.Remarks == other.Remarks
}

// Values returns the record as a sheet row in column order.
func (r SalesRecord) Values() []interface{} {
	return []interface{}{
		r.Date,
		r.Sets,
		r.Customers,
		r.Bowls,
		r.PurchaseTotal.InexactFloat64(),
		r.TotalPrice.InexactFloat64(),
		r.CashTotal.InexactFloat64(),
		r.CardTotal.InexactFloat64(),
		r.USDTotal.InexactFloat64(),
		r.Remarks,
	}
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
