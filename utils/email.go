package utils

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer sends one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send dials the SMTP server per message; volume is a handful of
// transactional emails per request at most.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		slog.Warn("smtp not configured, dropping email", "to", to, "subject", subject)
		return fmt.Errorf("missing required email config")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}

// Email is a rendered subject and body.
type Email struct {
	Subject string
	Body    string
}

func layout(heading, content string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:560px;margin:auto">
<h2 style="color:#4f46e5">%s</h2>
%s
<p style="color:#6b7280;font-size:12px">EventDekho</p>
</div>`, html.EscapeString(heading), content)
}

func VerifiedEmail(name string) Email {
	return Email{
		Subject: "Your EventDekho account is verified",
		Body: layout("You're verified!",
			fmt.Sprintf("<p>Hi %s,</p><p>An admin has verified your account. You can now publish events on EventDekho.</p>",
				html.EscapeString(name))),
	}
}

func PasswordResetEmail(name, link string) Email {
	return Email{
		Subject: "Reset your EventDekho password",
		Body: layout("Password reset",
			fmt.Sprintf(`<p>Hi %s,</p><p>Use the link below to choose a new password. It expires in 1 hour.</p><p><a href="%s">Reset password</a></p><p>If you did not ask for this, ignore this email.</p>`,
				html.EscapeString(name), html.EscapeString(link))),
	}
}

func RegistrationConfirmationEmail(participant, eventTitle, date string) Email {
	return Email{
		Subject: "Registration confirmed: " + eventTitle,
		Body: layout("You're registered",
			fmt.Sprintf("<p>Hi %s,</p><p>Your registration for <b>%s</b> on %s is confirmed.</p>",
				html.EscapeString(participant), html.EscapeString(eventTitle), html.EscapeString(date))),
	}
}

func NewRegistrationEmail(organizer, eventTitle, participant, email, phone string) Email {
	return Email{
		Subject: "New registration for " + eventTitle,
		Body: layout("New registration",
			fmt.Sprintf("<p>Hi %s,</p><p><b>%s</b> registered for <b>%s</b>.</p><p>Email: %s<br>Phone: %s</p>",
				html.EscapeString(organizer), html.EscapeString(participant), html.EscapeString(eventTitle),
				html.EscapeString(email), html.EscapeString(phone))),
	}
}
