// Package mailer delivers OTP messages.
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Jaypurnwasi/RestaurantApp/logger"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

func otpBody(code string) string {
	return fmt.Sprintf("Your OTP code is: %s. It will expire in 2 minutes.", code)
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTP sends through an SMTP relay; Username doubles as the From address
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

func NewSMTP(cfg SMTPConfig, log *logger.Logger) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.Username,
		log:    log.WithComponent("mailer"),
	}
}

func (m *SMTP) SendOTP(ctx context.Context, to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your OTP Code")
	msg.SetBody("text/plain", otpBody(code))

	errc := make(chan error, 1)
	go func() { errc <- m.dialer.DialAndSend(msg) }()
	select {
	case err := <-errc:
		if err != nil {
			m.log.Error("send otp mail failed", "to", to, "error", err)
			return err
		}
		m.log.Info("otp sent", "to", to)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Log writes the message to the log instead of sending it; used when SMTP is not configured
type Log struct {
	log *logger.Logger
}

func NewLog(log *logger.Logger) *Log {
	return &Log{log: log.WithComponent("mailer")}
}

func (m *Log) SendOTP(_ context.Context, to, code string) error {
	m.log.Info("otp mail (not sent, smtp disabled)", "to", to, "body", otpBody(code))
	return nil
}
