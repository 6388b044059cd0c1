package sales

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salesbook/internal/domain/models"
	"github.com/mamadbah2/salesbook/internal/repository/records"
)

// Form field names, shared by the JSON body and url-encoded forms.
const (
	FieldDate          = "date"
	FieldSets          = "sets"
	FieldCustomers     = "customers"
	FieldBowls         = "bowls"
	FieldPurchaseTotal = "purchase_total"
	FieldTotalPrice    = "total_price"
	FieldCashTotal     = "cash_total"
	FieldCardTotal     = "card_total"
	FieldUSDTotal      = "usd_total"
	FieldRemarks       = "remarks"
)

// Form is a raw sales submission before validation.
type Form struct {
	Date          string
	Sets          string
	Customers     string
	Bowls         string
	PurchaseTotal string
	TotalPrice    string
	CashTotal     string
	CardTotal     string
	USDTotal      string
	Remarks       string
}

// FormFromValues builds a Form by looking up each field name with get.
func FormFromValues(get func(field string) string) Form {
	return Form{
		Date:          get(FieldDate),
		Sets:          get(FieldSets),
		Customers:     get(FieldCustomers),
		Bowls:         get(FieldBowls),
		PurchaseTotal: get(FieldPurchaseTotal),
		TotalPrice:    get(FieldTotalPrice),
		CashTotal:     get(FieldCashTotal),
		CardTotal:     get(FieldCardTotal),
		USDTotal:      get(FieldUSDTotal),
		Remarks:       get(FieldRemarks),
	}
}

// Record validates the form. Blank numbers become zero; anything else that does
// not parse, and a negative customer count, is rejected with the field name.
func (f Form) Record() (models.SalesRecord, error) {
	date, err := ParseDay(f.Date)
	if err != nil {
		return models.SalesRecord{}, err
	}

	record := models.SalesRecord{Date: date, Remarks: strings.TrimSpace(f.Remarks)}

	ints := []struct {
		field string
		raw   string
		dst   *int
	}{
		{FieldSets, f.Sets, &record.Sets},
		{FieldCustomers, f.Customers, &record.Customers},
		{FieldBowls, f.Bowls, &record.Bowls},
	}
	for _, in := range ints {
		n, reason := wholeNumber(in.raw)
		if reason != "" {
			return models.SalesRecord{}, &InvalidInputError{Field: in.field, Value: in.raw, Reason: reason}
		}
		*in.dst = n
	}
	if record.Customers < 0 {
		return models.SalesRecord{}, &InvalidInputError{Field: FieldCustomers, Value: f.Customers, Reason: "must not be negative"}
	}

	money := []struct {
		field string
		raw   string
		dst   *decimal.Decimal
	}{
		{FieldPurchaseTotal, f.PurchaseTotal, &record.PurchaseTotal},
		{FieldTotalPrice, f.TotalPrice, &record.TotalPrice},
		{FieldCashTotal, f.CashTotal, &record.CashTotal},
		{FieldCardTotal, f.CardTotal, &record.CardTotal},
		{FieldUSDTotal, f.USDTotal, &record.USDTotal},
	}
	for _, in := range money {
		d, reason := amount(in.raw)
		if reason != "" {
			return models.SalesRecord{}, &InvalidInputError{Field: in.field, Value: in.raw, Reason: reason}
		}
		*in.dst = d
	}

	return record, nil
}

// wholeNumber parses a submitted count. Unlike sheet cells, fractions and
// exponents are refused rather than truncated.
func wholeNumber(raw string) (int, string) {
	str := strings.TrimSpace(raw)
	if str == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(str)
	if errors.Is(err, strconv.ErrRange) {
		return 0, "is out of range"
	}
	if err != nil {
		return 0, "must be a whole number"
	}
	return n, ""
}

// amount parses a submitted money value in plain decimal notation.
func amount(raw string) (decimal.Decimal, string) {
	str := strings.TrimSpace(raw)
	if strings.ContainsAny(str, "eE") {
		return decimal.Zero, "must be a plain decimal number"
	}
	d, err := records.ParseDecimal(str)
	if err != nil {
		return decimal.Zero, "must be a number"
	}
	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, "is out of range"
	}
	return d, ""
}

// ParseDay reads a required YYYY-MM-DD date.
func ParseDay(value string) (time.Time, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return time.Time{}, &InvalidInputError{Field: FieldDate, Value: value, Reason: "is required"}
	}

	t, err := time.Parse(models.DateLayout, str)
	if err != nil {
		return time.Time{}, &InvalidInputError{Field: FieldDate, Value: value, Reason: "must be YYYY-MM-DD"}
	}

	return t, nil
}
