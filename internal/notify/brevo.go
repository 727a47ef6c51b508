package notify

import (
	"context"
	"fmt"
	"log/slog"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// BrevoSender delivers email through Brevo's transactional API.
type BrevoSender struct {
	client    *brevo.APIClient
	fromEmail string
	fromName  string
}

func NewBrevoSender(apiKey, fromEmail, fromName string) *BrevoSender {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	return &BrevoSender{
		client:    brevo.NewAPIClient(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *BrevoSender) Send(ctx context.Context, e Email) error {
	result, _, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, brevo.SendSmtpEmail{
		Sender:      &brevo.SendSmtpEmailSender{Name: s.fromName, Email: s.fromEmail},
		To:          []brevo.SendSmtpEmailTo{{Email: e.To, Name: e.ToName}},
		Subject:     e.Subject,
		HtmlContent: e.HTML,
	})
	if err != nil {
		return fmt.Errorf("brevo send to %s: %w", e.To, err)
	}
	slog.Debug("email sent", "component", "notify", "to", e.To, "message_id", result.MessageId)
	return nil
}

// LogSender writes emails to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, e Email) error {
	slog.Info("email not sent (no provider configured)", "component", "notify", "to", e.To, "subject", e.Subject)
	return nil
}
