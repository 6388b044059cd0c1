package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

type staticSource struct {
	records []models.SalesRecord
	err     error
}

func (s staticSource) ListRecords(ctx context.Context) ([]models.SalesRecord, error) {
	return s.records, s.err
}

func rec(date string, customers int, total, purchase string) models.SalesRecord {
	d, _ := time.Parse(models.DateLayout, date)
	return models.SalesRecord{
		Date:          d,
		Customers:     customers,
		TotalPrice:    decimal.RequireFromString(total),
		PurchaseTotal: decimal.RequireFromString(purchase),
	}
}

func TestAggregateSingleDay(t *testing.T) {
	svc := NewService(staticSource{records: []models.SalesRecord{rec("2024-05-01", 10, "500.0", "0")}}, nil)

	summary, err := svc.Aggregate(context.Background(), 2024, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(500), summary.TotalPriceSum)
	require.Len(t, summary.Rows, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(summary.Rows[0].AverageSpend))
}

func TestAggregateFiltersMonthAndTruncates(t *testing.T) {
	svc := NewService(staticSource{records: []models.SalesRecord{
		rec("2024-04-30", 5, "1000", "100"),
		rec("2024-05-02", 3, "100.7", "10.6"),
		rec("2023-05-15", 1, "999", "999"),
		rec("2024-05-20", 0, "200.6", "20.6"),
		rec("2024-06-01", 2, "50", "5"),
	}}, nil)

	summary, err := svc.Aggregate(context.Background(), 2024, 5)
	require.NoError(t, err)

	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "2024-05-02", summary.Rows[0].Record.Key())
	assert.Equal(t, "2024-05-20", summary.Rows[1].Record.Key())
	assert.Equal(t, int64(301), summary.TotalPriceSum)
	assert.Equal(t, int64(31), summary.TotalPurchaseSum)
	assert.True(t, summary.Rows[1].AverageSpend.IsZero())
}

func TestAggregateTruncatesNegativeTowardZero(t *testing.T) {
	svc := NewService(staticSource{records: []models.SalesRecord{rec("2024-05-02", 1, "-10.9", "-0.5")}}, nil)

	summary, err := svc.Aggregate(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(-10), summary.TotalPriceSum)
	assert.Equal(t, int64(0), summary.TotalPurchaseSum)
}

func TestAggregateEmptyMonth(t *testing.T) {
	svc := NewService(staticSource{}, nil)

	summary, err := svc.Aggregate(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)
	assert.Zero(t, summary.TotalPriceSum)
}

func TestAggregateErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(staticSource{err: boom}, nil)

	_, err := svc.Aggregate(context.Background(), 2024, 5)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Aggregate(context.Background(), 2024, 13)
	assert.Error(t, err)
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2024-05")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 5, m)

	_, _, err = ParseMonth("2024-13")
	assert.Error(t, err)
}
