package summary

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	stderrors "intake-call-service/internal/common/errors"
	"intake-call-service/internal/common/logger"
)

// Dispatcher delivers a completed intake record to the caseworker.
type Dispatcher interface {
	Dispatch(ctx context.Context, record Record) error
}

// SMTPConfig holds transport settings for the SMTP dispatcher.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	UseTLS    bool
	From      string
	Recipient string
	Timeout   time.Duration
}

// SMTPDispatcher sends the summary through a plain or STARTTLS SMTP relay.
type SMTPDispatcher struct {
	config SMTPConfig
	logger logger.Logger
}

func NewSMTPDispatcher(config SMTPConfig, log logger.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		config: config,
		logger: log.With(map[string]interface{}{
			"component": "summary-dispatch",
			"provider":  "smtp",
		}),
	}
}

func (d *SMTPDispatcher) Dispatch(ctx context.Context, record Record) error {
	if err := validateAddress(d.config.Recipient); err != nil {
		return &stderrors.StandardError{
			Code:      stderrors.ErrCodeValidationFailed,
			Message:   "Recipient address invalid",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	message := d.buildMessage(record)

	if err := d.send(ctx, []byte(message)); err != nil {
		return stderrors.NewDispatchFailedError("smtp", err)
	}

	d.logger.Info("summary dispatched", map[string]interface{}{
		"recipient": d.config.Recipient,
		"caller":    record.CallerNumber,
	})
	return nil
}

func (d *SMTPDispatcher) buildMessage(record Record) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", d.config.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", d.config.Recipient))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", record.Subject()))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(record.Body())

	return builder.String()
}

func (d *SMTPDispatcher) send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", d.config.Host, d.config.Port)

	var auth smtp.Auth
	if d.config.Username != "" && d.config.Password != "" {
		auth = smtp.PlainAuth("", d.config.Username, d.config.Password, d.config.Host)
	}

	if d.config.UseTLS {
		return d.sendWithTLS(addr, auth, msg)
	}

	return smtp.SendMail(addr, auth, d.config.From, []string{d.config.Recipient}, msg)
}

func (d *SMTPDispatcher) sendWithTLS(addr string, auth smtp.Auth, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: d.config.Host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(d.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(d.config.Recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func validateAddress(email string) error {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0 || !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}
