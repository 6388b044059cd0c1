package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

// RecordPayload is the JSON form of a sales record. Money is rendered as decimal strings.
type RecordPayload struct {
	Date          string          `json:"date"`
	Sets          int             `json:"sets"`
	Customers     int             `json:"customers"`
	Bowls         int             `json:"bowls"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CashTotal     decimal.Decimal `json:"cash_total"`
	CardTotal     decimal.Decimal `json:"card_total"`
	USDTotal      decimal.Decimal `json:"usd_total"`
	Remarks       string          `json:"remarks"`
	AverageSpend  decimal.Decimal `json:"average_spend"`
}

func newRecordPayload(record models.SalesRecord) *RecordPayload {
	return &RecordPayload{
		Date:          record.Key(),
		Sets:          record.Sets,
		Customers:     record.Customers,
		Bowls:         record.Bowls,
		PurchaseTotal: record.PurchaseTotal,
		TotalPrice:    record.TotalPrice,
		CashTotal:     record.CashTotal,
		CardTotal:     record.CardTotal,
		USDTotal:      record.USDTotal,
		Remarks:       record.Remarks,
		AverageSpend:  record.AverageSpend().Round(2),
	}
}

type lookupResponse struct {
	Exists bool `json:"exists"`
	*RecordPayload
}

type summaryResponse struct {
	Year             int              `json:"year"`
	Month            int              `json:"month"`
	Rows             []*RecordPayload `json:"rows"`
	TotalPriceSum    int64            `json:"total_price_sum"`
	TotalPurchaseSum int64            `json:"total_purchase_sum"`
}

func newSummaryResponse(summary models.MonthlySummary) summaryResponse {
	rows := make([]*RecordPayload, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		p := newRecordPayload(row.Record)
		p.AverageSpend = row.AverageSpend.Round(2)
		rows = append(rows, p)
	}

	return summaryResponse{
		Year:             summary.Year,
		Month:            summary.Month,
		Rows:             rows,
		TotalPriceSum:    summary.TotalPriceSum,
		TotalPurchaseSum: summary.TotalPurchaseSum,
	}
}
