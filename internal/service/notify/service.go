package notify

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

// ErrEmailDelivery reports that a notification could not be handed to the mail relay.
var ErrEmailDelivery = errors.New("email delivery failed")

// Sender delivers a plain-text mail.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// Service formats sales notifications and hands them to a Sender.
type Service struct {
	sender Sender
	to     []string
	logger *zap.Logger
}

// NewService wires a notifier sending to the given recipients.
func NewService(sender Sender, to []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sender: sender, to: to, logger: logger}
}

// SendRecord mails the record as a two-line CSV. No retry is attempted.
func (s *Service) SendRecord(ctx context.Context, record models.SalesRecord) error {
	body, err := RecordCSV(record)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s 売上集計", record.Key())
	if err := s.sender.Send(ctx, s.to, subject, body); err != nil {
		s.logger.Error("sales summary email failed", zap.String("date", record.Key()), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	s.logger.Info("sales summary email sent", zap.String("date", record.Key()))
	return nil
}

// SendReminder mails a note that no figures were entered for day.
func (s *Service) SendReminder(ctx context.Context, day time.Time) error {
	key := day.Format(models.DateLayout)
	subject := fmt.Sprintf("%s 売上未入力", key)
	body := fmt.Sprintf("%s の売上データがまだ入力されていません。\n", key)

	if err := s.sender.Send(ctx, s.to, subject, body); err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	s.logger.Info("missing entry reminder sent", zap.String("date", key))
	return nil
}

// RecordCSV renders the header line and one data line in sheet column order.
func RecordCSV(record models.SalesRecord) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.SalesColumns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	if err := w.Write([]string{
		record.Key(),
		strconv.Itoa(record.Sets),
		strconv.Itoa(record.Customers),
		strconv.Itoa(record.Bowls),
		record.PurchaseTotal.String(),
		record.TotalPrice.String(),
		record.CashTotal.String(),
		record.CardTotal.String(),
		record.USDTotal.String(),
		record.Remarks,
	}); err != nil {
		return "", fmt.Errorf("write csv row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return buf.String(), nil
}
