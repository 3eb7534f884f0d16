package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridConfig configures the SendGrid-backed mailer.
type SendGridConfig struct {
	APIKey    string
	AppName   string
	FromEmail string
}

type sendgridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
}

// NewSendGrid constructs a Mailer backed by the SendGrid v3 API.
func NewSendGrid(cfg SendGridConfig, logger zerolog.Logger) (Mailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key must not be empty")
	}
	return &sendgridMailer{
		client:     sendgrid.NewSendClient(cfg.APIKey),
		from:       sgmail.NewEmail(cfg.AppName, cfg.FromEmail),
		subjPrefix: "[" + cfg.AppName + "] ",
		logger:     logger.With().Str("component", "sendgrid_mailer").Logger(),
	}, nil
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) (Result, error) {
	personalization := sgmail.NewPersonalization()
	personalization.Subject = m.subjPrefix + msg.Subject
	for _, to := range msg.To {
		personalization.AddTos(sgmail.NewEmail("", to))
	}

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(personalization)
	mail.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)

	response, err := m.client.SendWithContext(ctx, mail)
	if err != nil {
		m.logger.Error().Err(err).Strs("to", msg.To).Msg("sendgrid dispatch failed")
		return Result{Rejected: msg.To}, err
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid responded with status %d", response.StatusCode)
		m.logger.Error().Err(err).Strs("to", msg.To).Msg("sendgrid rejected message")
		return Result{Rejected: msg.To}, err
	}

	return Result{Accepted: msg.To}, nil
}
