package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

type consoleMailer struct {
	logger zerolog.Logger
}

// NewConsole returns a Mailer that logs messages instead of sending them.
// Used in development and as the fallback when no SendGrid key is set.
func NewConsole(logger zerolog.Logger) Mailer {
	return &consoleMailer{logger: logger.With().Str("component", "console_mailer").Logger()}
}

func (m *consoleMailer) Send(_ context.Context, msg Message) (Result, error) {
	m.logger.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Str("assessment_url", msg.AssessmentURL).
		Msg("email dispatch (console)")
	return Result{Accepted: msg.To}, nil
}
