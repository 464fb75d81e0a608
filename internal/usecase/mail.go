package usecase

import (
	"time"

	"github.com/rs/zerolog"
)

// Mailer sends outbound email. Implemented by mailer.Mailer.
type Mailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// sendAsync dispatches an email without blocking the request. The account
// state change is committed before dispatch, so a send failure is logged and
// never rolled back into the request.
func sendAsync(logger *zerolog.Logger, m Mailer, timeout time.Duration, to []string, subject, htmlBody string) {
	go func() {
		done := make(chan error, 1)
		go func() {
			done <- m.SendHTML(to, subject, htmlBody)
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Error().Err(err).Strs("to", to).Str("subject", subject).Msg("failed to send email")
			}
		case <-time.After(timeout):
			logger.Warn().Strs("to", to).Str("subject", subject).Msg("email send timed out")
		}
	}()
}
