package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

// RecordSource lists the stored sales records in sheet order.
type RecordSource interface {
	ListRecords(ctx context.Context) ([]models.SalesRecord, error)
}

// Service computes monthly aggregates over the sales sheet.
type Service struct {
	records RecordSource
	logger  *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(records RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger}
}

// Aggregate returns the rows dated in the given month together with the
// per-customer average of each row and the month's totals truncated toward zero.
func (s *Service) Aggregate(ctx context.Context, year, month int) (models.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return models.MonthlySummary{}, fmt.Errorf("month %d out of range", month)
	}

	all, err := s.records.ListRecords(ctx)
	if err != nil {
		return models.MonthlySummary{}, fmt.Errorf("load sales records: %w", err)
	}

	summary := models.MonthlySummary{Year: year, Month: month}
	totalPrice := decimal.Zero
	totalPurchase := decimal.Zero

	for _, record := range all {
		if record.Date.Year() != year || record.Date.Month() != time.Month(month) {
			continue
		}

		summary.Rows = append(summary.Rows, models.SummaryRow{
			Record:       record,
			AverageSpend: record.AverageSpend(),
		})
		totalPrice = totalPrice.Add(record.TotalPrice)
		totalPurchase = totalPurchase.Add(record.PurchaseTotal)
	}

	summary.TotalPriceSum = totalPrice.IntPart()
	summary.TotalPurchaseSum = totalPurchase.IntPart()

	s.logger.Debug("monthly aggregate computed",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("rows", len(summary.Rows)),
	)

	return summary, nil
}

// ParseMonth reads a "YYYY-MM" selector.
func ParseMonth(value string) (year, month int, err error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", value, err)
	}
	return t.Year(), int(t.Month()), nil
}
