package sales

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

// RecordStore is the date-keyed sales record store.
type RecordStore interface {
	FindByDate(ctx context.Context, date time.Time) (models.SalesRecord, bool, error)
	Upsert(ctx context.Context, record models.SalesRecord) (bool, error)
}

// Aggregator computes monthly summaries.
type Aggregator interface {
	Aggregate(ctx context.Context, year, month int) (models.MonthlySummary, error)
}

// Notifier mails a saved record.
type Notifier interface {
	SendRecord(ctx context.Context, record models.SalesRecord) error
}

// Archive mirrors saved records to secondary storage.
type Archive interface {
	SaveSalesRecord(ctx context.Context, record models.SalesRecord) error
}

// Result describes the outcome of a submission.
type Result struct {
	Record    models.SalesRecord
	Created   bool
	EmailSent bool
	// EmailErr is set when the notification failed; the record is saved regardless.
	EmailErr error
}

// Option customises the service.
type Option func(*Service)

// WithNotifier enables the email sent after each save.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithArchive enables mirroring of saved records.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// Service validates submissions and coordinates the store, the archive and the notifier.
type Service struct {
	store      RecordStore
	aggregator Aggregator
	notifier   Notifier
	archive    Archive
	logger     *zap.Logger
}

// NewService constructs the sales service.
func NewService(store RecordStore, aggregator Aggregator, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, aggregator: aggregator, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the form and upserts the record. The archive and the email
// run after the write and never undo it.
func (s *Service) Submit(ctx context.Context, form Form) (Result, error) {
	record, err := form.Record()
	if err != nil {
		return Result{}, err
	}

	created, err := s.store.Upsert(ctx, record)
	if err != nil {
		return Result{}, fmt.Errorf("save sales record: %w", err)
	}

	result := Result{Record: record, Created: created}

	if s.archive != nil {
		if err := s.archive.SaveSalesRecord(ctx, record); err != nil {
			s.logger.Warn("archive mirror failed", zap.String("date", record.Key()), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendRecord(ctx, record); err != nil {
			result.EmailErr = err
		} else {
			result.EmailSent = true
		}
	}

	return result, nil
}

// Lookup returns the record stored for a YYYY-MM-DD date.
func (s *Service) Lookup(ctx context.Context, date string) (models.SalesRecord, bool, error) {
	day, err := ParseDay(date)
	if err != nil {
		return models.SalesRecord{}, false, err
	}

	return s.store.FindByDate(ctx, day)
}

// Summary returns the aggregate for a calendar month.
func (s *Service) Summary(ctx context.Context, year, month int) (models.MonthlySummary, error) {
	return s.aggregator.Aggregate(ctx, year, month)
}
