// Package mailer dispatches transactional email for the platform. The domain
// services depend only on the Mailer interface; production wiring supplies
// the SendGrid client and tests supply fakes.
package mailer

import "context"

// Message is one templated email to a set of recipients.
type Message struct {
	To            []string
	Subject       string
	Locale        string
	TextContent   string
	HTMLContent   string
	AssessmentURL string
}

// Result reports the per-recipient outcome of a dispatch. A recipient in
// Rejected did not receive the message; the send as a whole may still have
// partially succeeded.
type Result struct {
	Accepted []string
	Rejected []string
}

// Mailer is any service that can deliver a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
