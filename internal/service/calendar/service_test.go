package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedHolidays struct {
	days map[string]string
	err  error
}

func (f fixedHolidays) Holidays(ctx context.Context) (map[string]string, error) {
	return f.days, f.err
}

func newAt(t *testing.T, client fixedHolidays, now time.Time) *Service {
	t.Helper()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	svc := NewService(client, tokyo, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestLastBusinessDay(t *testing.T) {
	golden := fixedHolidays{days: map[string]string{
		"2024-05-03": "憲法記念日",
		"2024-05-06": "振替休日",
	}}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "tuesday gives monday", now: time.Date(2024, 4, 30, 1, 0, 0, 0, time.UTC), want: "2024-04-29"},
		{name: "monday skips weekend", now: time.Date(2024, 4, 22, 3, 0, 0, 0, time.UTC), want: "2024-04-19"},
		{name: "tuesday after golden week", now: time.Date(2024, 5, 7, 3, 0, 0, 0, time.UTC), want: "2024-05-02"},
		// 16:00 UTC on Monday is already Tuesday in Tokyo.
		{name: "uses shop timezone", now: time.Date(2024, 4, 29, 16, 0, 0, 0, time.UTC), want: "2024-04-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newAt(t, golden, tt.now).LastBusinessDay(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestLastBusinessDayWithoutHolidays(t *testing.T) {
	svc := newAt(t, fixedHolidays{err: errors.New("timeout")}, time.Date(2024, 5, 7, 3, 0, 0, 0, time.UTC))

	got, err := svc.LastBusinessDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", got.Format("2006-01-02"))
}

func TestIsBusinessDay(t *testing.T) {
	assert.False(t, IsBusinessDay(time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), nil))
	assert.False(t, IsBusinessDay(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), map[string]string{"2024-05-03": "x"}))
	assert.True(t, IsBusinessDay(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), nil))
}
