package usecase

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/natthaphonr/account-service/internal/config"
)

type sentEmail struct {
	to       []string
	subject  string
	htmlBody string
}

// fakeMailer records sent emails for inspection. Dispatch is asynchronous,
// so tests read it through eventually/lastEmail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentEmail{to: to, subject: subject, htmlBody: htmlBody})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sent)
}

func (m *fakeMailer) lastEmail(t *testing.T) sentEmail {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// waitForEmail blocks until the mailer has sent at least n emails.
func (m *fakeMailer) waitForEmail(t *testing.T, n int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return m.sentCount() >= n
	}, time.Second, 5*time.Millisecond)
}

var linkTokenPattern = regexp.MustCompile(`/(?:auth/verify|auth/reset-password)/([0-9a-f]+)`)

// tokenFromEmail extracts the one-time token out of a verification or reset link.
func tokenFromEmail(t *testing.T, email sentEmail) string {
	t.Helper()

	matches := linkTokenPattern.FindStringSubmatch(email.htmlBody)
	require.Len(t, matches, 2)
	return matches[1]
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:        ":0",
		AppBaseURL:      "http://localhost:3000",
		MailSendTimeout: time.Second,
		Token: config.TokenConfig{
			SessionSecret:               "test-secret",
			SessionExpiresIn:            time.Hour,
			Issuer:                      "account-service",
			VerificationTokenExpiresIn:  24 * time.Hour,
			PasswordResetTokenExpiresIn: time.Hour,
		},
	}
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
