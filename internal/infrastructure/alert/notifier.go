package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/infrastructure/config"
)

// Notifier delivers operational alerts to the administrators
type Notifier interface {
	// Notify sends an alert with the given subject and body
	Notify(ctx context.Context, subject, body string) error
}

// SMTPNotifier sends alerts by email
type SMTPNotifier struct {
	cfg    *config.AlertConfig
	logger *zap.Logger
	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates an email-backed notifier
func NewSMTPNotifier(cfg *config.AlertConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger.Named("alert"),
		send:   smtp.SendMail,
	}
}

// Notify sends an alert email to the configured recipients
func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	if len(n.cfg.To) == 0 {
		return fmt.Errorf("no alert recipients configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(n.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", sanitizeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
	}

	if err := n.send(n.cfg.Addr(), auth, n.cfg.From, n.cfg.To, []byte(msg.String())); err != nil {
		n.logger.Error("sending alert email",
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("sending alert email: %w", err)
	}

	n.logger.Info("alert email sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(n.cfg.To)))
	return nil
}

// sanitizeHeader strips CR and LF so the subject cannot inject headers
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

var _ Notifier = (*SMTPNotifier)(nil)

// NopNotifier drops alerts, logging them instead. Used when alerting
// is disabled.
type NopNotifier struct {
	logger *zap.Logger
}

// NewNopNotifier creates a notifier that only logs
func NewNopNotifier(logger *zap.Logger) *NopNotifier {
	return &NopNotifier{logger: logger.Named("alert")}
}

// Notify logs the alert and discards it
func (n *NopNotifier) Notify(_ context.Context, subject, body string) error {
	n.logger.Warn("alerting disabled, dropping alert",
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))
	return nil
}

var _ Notifier = (*NopNotifier)(nil)

// NewNotifier builds the notifier configured for this deployment
func NewNotifier(cfg *config.AlertConfig, logger *zap.Logger) Notifier {
	if cfg.Enabled {
		return NewSMTPNotifier(cfg, logger)
	}
	return NewNopNotifier(logger)
}
