package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/config"
	"github.com/mamadbah2/salesbook/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// BusinessDays resolves the day whose figures are expected.
type BusinessDays interface {
	LastBusinessDay(ctx context.Context) (time.Time, error)
}

// RecordFinder looks up a stored day.
type RecordFinder interface {
	FindByDate(ctx context.Context, date time.Time) (models.SalesRecord, bool, error)
}

// Reminder mails a missing-entry reminder.
type Reminder interface {
	SendReminder(ctx context.Context, day time.Time) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	calendar BusinessDays
	records  RecordFinder
	reminder Reminder
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone. reminder
// may be nil, in which case a missing entry is only logged.
func NewScheduler(cfg config.ReportingConfig, location *time.Location, calendar BusinessDays, records RecordFinder, reminder Reminder, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		schedule: cfg.ReminderCron,
		calendar: calendar,
		records:  records,
		reminder: reminder,
		logger:   logger,
	}
}

// Start registers the reminder job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runReminder); err != nil {
		return fmt.Errorf("schedule missing entry reminder %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.CheckMissingEntry(ctx); err != nil {
		s.logger.Error("missing entry check failed", zap.Error(err))
	}
}

// CheckMissingEntry reports whether the last business day has no record, sending
// a reminder when it is missing.
func (s *Scheduler) CheckMissingEntry(ctx context.Context) (bool, error) {
	day, err := s.calendar.LastBusinessDay(ctx)
	if err != nil {
		return false, fmt.Errorf("resolve last business day: %w", err)
	}

	_, found, err := s.records.FindByDate(ctx, day)
	if err != nil {
		return false, fmt.Errorf("look up %s: %w", day.Format(models.DateLayout), err)
	}
	if found {
		s.logger.Debug("last business day already entered", zap.String("date", day.Format(models.DateLayout)))
		return false, nil
	}

	s.logger.Warn("no sales entry for last business day", zap.String("date", day.Format(models.DateLayout)))

	if s.reminder == nil {
		return true, nil
	}
	if err := s.reminder.SendReminder(ctx, day); err != nil {
		return true, fmt.Errorf("send reminder: %w", err)
	}

	return true, nil
}
