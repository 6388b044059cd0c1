package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/config"
)

const sendTimeout = 30 * time.Second

// Client sends plain-text mail through an authenticated STARTTLS SMTP relay.
type Client struct {
	host     string
	port     int
	username string
	password string
	logger   *zap.Logger
}

// NewClient builds an SMTP client from the mail account configuration.
func NewClient(cfg config.SMTPConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
	}
}

// Send delivers one plain-text message from the account address to the recipients.
// It blocks until the relay accepts or rejects the message.
func (c *Client) Send(ctx context.Context, to []string, subject, body string) error {
	msg, err := buildMessage(c.username, to, subject, body)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(c.username),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return fmt.Errorf("configure smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", c.host, c.port, err)
	}

	c.logger.Debug("mail sent", zap.String("subject", subject), zap.Strings("to", to))
	return nil
}

func buildMessage(from string, to []string, subject, body string) (*mail.Msg, error) {
	if len(to) == 0 {
		return nil, errors.New("no recipients")
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}
