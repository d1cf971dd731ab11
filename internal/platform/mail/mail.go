// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
Package mail provides outbound email delivery for the platform.

It defines a transport-agnostic [Sender] interface consumed by the domain
layer, plus an SMTP implementation backed by go-mail. Keeping the interface
here lets services depend on message delivery without knowing whether the
bytes travel over SMTP, an API provider, or a test double.
*/
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	gomail "github.com/go-mail/mail"
)

// Message is a fully-rendered outbound email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a rendered [Message] to its recipient.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// SMTPSender implements [Sender] over an authenticated SMTP connection.
type SMTPSender struct {
	host   string
	port   int
	from   string
	dialer *gomail.Dialer
	logger *slog.Logger
}

// NewSMTPSender builds an [SMTPSender] from connection parameters.
//
// # Parameters
//   - host, port: SMTP server endpoint.
//   - username, password: Credentials for SMTP AUTH.
//   - from: The From header applied to every outgoing message.
//   - logger: Structured logger for delivery events.
func NewSMTPSender(host string, port int, username, password, from string, logger *slog.Logger) *SMTPSender {
	dialer := gomail.NewDialer(host, port, username, password)
	dialer.TLSConfig = &tls.Config{ServerName: host}

	return &SMTPSender{
		host:   host,
		port:   port,
		from:   from,
		dialer: dialer,
		logger: logger,
	}
}

// Send delivers the message, preferring multipart/alternative when both
// bodies are present. The context is honored up front; go-mail itself does
// not support per-dial cancellation.
func (sender *SMTPSender) Send(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mail: send aborted: %w", err)
	}

	envelope := gomail.NewMessage()
	envelope.SetHeader("From", sender.from)
	envelope.SetHeader("To", message.To)
	envelope.SetHeader("Subject", message.Subject)

	if message.TextBody != "" {
		envelope.SetBody("text/plain", message.TextBody)
	}
	if message.HTMLBody != "" {
		if message.TextBody == "" {
			envelope.SetBody("text/html", message.HTMLBody)
		} else {
			envelope.AddAlternative("text/html", message.HTMLBody)
		}
	}

	if err := sender.dialer.DialAndSend(envelope); err != nil {
		sender.logger.Error("smtp_send_failed",
			slog.String("host", sender.host),
			slog.Any("error", err),
		)
		return fmt.Errorf("mail: smtp send: %w", err)
	}

	sender.logger.Info("email_sent",
		slog.String("subject", message.Subject),
	)
	return nil
}
