package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
)

// SMTPConfig carries the delivery settings for outbound mail. An empty Host
// disables delivery; the job then only logs.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// WelcomeEmailJob sends the welcome email after a successful registration.
type WelcomeEmailJob struct {
	SMTP   SMTPConfig
	Logger *slog.Logger
	send   func(addr, from string, to []string, msg []byte) error
}

// NewWelcomeEmailJob wires dependencies for the welcome email handler.
func NewWelcomeEmailJob(cfg SMTPConfig, logger *slog.Logger) *WelcomeEmailJob {
	return &WelcomeEmailJob{
		SMTP:   cfg,
		Logger: logger,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// Handle processes TaskTypeWelcomeEmail tasks.
func (j *WelcomeEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("welcome email: handler not configured")
	}
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("to", payload.To))

	if j.SMTP.Host == "" {
		logger.Info("smtp disabled, skipping welcome email")
		return nil
	}

	msg := fmt.Appendf(nil,
		"From: %s\r\nTo: %s\r\nSubject: Welcome to Atrium\r\n\r\nHi %s,\r\n\r\nYour account is ready.\r\n",
		j.SMTP.From, payload.To, payload.FirstName)
	addr := fmt.Sprintf("%s:%d", j.SMTP.Host, j.SMTP.Port)
	if err := j.send(addr, j.SMTP.From, []string{payload.To}, msg); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	logger.Info("welcome email sent")
	return nil
}

func (j *WelcomeEmailJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
