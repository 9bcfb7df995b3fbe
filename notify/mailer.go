package notify

import (
	"context"
	"log"
	"net/url"
	"time"
)

// Mailer delivers password reset tokens to users.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string, expires time.Time) error
}

// LogMailer writes reset links to the process log instead of sending email.
type LogMailer struct {
	BaseURL string
	Logger  *log.Logger
}

func (m LogMailer) SendPasswordReset(_ context.Context, email, token string, expires time.Time) error {
	logger := m.Logger
	if logger == nil {
		logger = log.Default()
	}
	link := m.BaseURL + "/reset-password?token=" + url.QueryEscape(token)
	logger.Printf("Password reset for %s: %s (expires %s)", email, link, expires.Format(time.RFC3339))
	return nil
}
