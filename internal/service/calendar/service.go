package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
	"github.com/mamadbah2/salesbook/pkg/clients/holidays"
)

// maxLookback bounds the walk back through holidays.
const maxLookback = 31

// Service answers business-day questions in the shop's timezone.
type Service struct {
	holidays holidays.Client
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a calendar using the given holiday source and timezone.
func NewService(client holidays.Client, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		holidays: client,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// LastBusinessDay returns the most recent day before today that is neither a
// weekend nor a holiday. When holidays cannot be fetched only weekends are skipped.
func (s *Service) LastBusinessDay(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	off, err := s.holidays.Holidays(ctx)
	if err != nil {
		s.logger.Warn("holiday lookup failed, skipping weekends only", zap.Error(err))
		off = nil
	}

	today := s.now().In(s.location)
	day := models.NormalizeDate(today).AddDate(0, 0, -1)

	for i := 0; i < maxLookback && !IsBusinessDay(day, off); i++ {
		day = day.AddDate(0, 0, -1)
	}

	return day, nil
}

// IsBusinessDay reports whether day is a weekday that is not in holidays.
func IsBusinessDay(day time.Time, holidays map[string]string) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := holidays[day.Format(models.DateLayout)]
	return !holiday
}
