package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	SendOTP(ctx context.Context, to, firstName, code string) error
}

// LogSender logs codes instead of sending them — used when no mailer
// API key is configured (local dev).
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) SendOTP(ctx context.Context, to, firstName, code string) error {
	s.logger.InfoContext(ctx, "login otp (mailer not configured)", "to", to, "code", code)
	return nil
}

// ResendSender delivers codes via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) SendOTP(ctx context.Context, to, firstName, code string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Your Login OTP - Southville 8B Senior High School",
		Html:    otpBody(firstName, code),
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func otpBody(firstName, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #353d90; text-align: center; border-bottom: 3px solid #f6a800; padding-bottom: 10px; }
        .otp-code { background: #f6a800; color: white; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; margin: 30px 0; border-radius: 10px; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #666; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="header"><h1>Southville 8B Senior High School</h1></div>
    <p>Hello <strong>%s</strong>,</p>
    <p>Your One-Time Password (OTP) for login is:</p>
    <div class="otp-code">%s</div>
    <p>This OTP will expire in 10 minutes. Do not share this code with anyone.</p>
    <p>If you didn't request this login, please ignore this email.</p>
    <div class="footer"><p>&copy; Southville 8B Senior High School. All rights reserved.</p></div>
</body>
</html>`, firstName, code)
}

// NewSender returns a LogSender when no API key is set, a ResendSender
// otherwise.
func NewSender(apiKey, from string, logger *slog.Logger) Sender {
	if apiKey == "" {
		return &LogSender{logger: logger}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
