package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// SentMail records one delivered message; used by the log mailer and tests.
type SentMail struct {
	Recipients []string
	Subject    string
	Body       string
}

// LogMailer is the dev fallback for the SMTP sender: it records and logs
// messages instead of delivering them.
type LogMailer struct {
	lg zerolog.Logger

	mu   sync.Mutex
	sent []SentMail
}

func NewLogMailer(lg zerolog.Logger) *LogMailer {
	return &LogMailer{lg: lg.With().Str("component", "log_mailer").Logger()}
}

func (m *LogMailer) Send(ctx context.Context, recipients []string, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMail{Recipients: recipients, Subject: subject, Body: body})
	m.mu.Unlock()

	m.lg.Info().
		Str("to", strings.Join(recipients, ",")).
		Str("subject", subject).
		Str("body", body).
		Msg("mail not delivered (log mailer)")
	return nil
}

// Sent returns a copy of everything sent so far.
func (m *LogMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
