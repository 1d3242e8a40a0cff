package provider

import (
	"context"

	"hrsuite/internal/logger"
)

// Mailer delivers account emails (confirmation, password recovery)
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers one-time codes to phones
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogMailer writes outgoing email to the log instead of delivering it
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Infof("mail queued", map[string]interface{}{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}

// LogSMSSender writes outgoing SMS to the log instead of delivering it
type LogSMSSender struct {
	log *logger.Logger
}

func NewLogSMSSender(log *logger.Logger) *LogSMSSender {
	return &LogSMSSender{log: log}
}

func (s *LogSMSSender) Send(_ context.Context, phone, message string) error {
	s.log.Infof("sms queued", map[string]interface{}{
		"phone":   phone,
		"message": message,
	})
	return nil
}
