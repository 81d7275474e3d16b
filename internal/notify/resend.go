package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Resend delivers through the Resend email API. inbox receives contact alerts and may
// be empty when only login links are sent.
type Resend struct {
	client *resend.Client
	from   string
	inbox  string
	logger *zap.Logger
}

func NewResend(apiKey, from, inbox string, logger *zap.Logger) *Resend {
	return &Resend{
		client: resend.NewClient(apiKey),
		from:   from,
		inbox:  inbox,
		logger: logger,
	}
}

func (r *Resend) Publish(ctx context.Context, subject, body string) error {
	if r.inbox == "" {
		return fmt.Errorf("no contact inbox configured")
	}
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{r.inbox},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("send contact alert: %w", err)
	}
	r.logger.Info("contact_alert_sent", zap.String("email_id", sent.Id))
	return nil
}

func (r *Resend) SendLoginLink(ctx context.Context, to, link string) error {
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: "Your EcoLife sign-in link",
		Html:    loginEmailHTML(link),
	})
	if err != nil {
		return fmt.Errorf("send login email: %w", err)
	}
	r.logger.Info("login_email_sent", zap.String("email_id", sent.Id))
	return nil
}

func loginEmailHTML(link string) string {
	link = html.EscapeString(link)
	return fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #14532d;">Sign in to EcoLife</h2>
			<p>Use the button below to pick up your goals, tasks and habits where you left them.</p>
			<a href="%s" style="display: inline-block; background: #16a34a; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">
				Sign in
			</a>
			<p style="color: #888; font-size: 14px; margin-top: 16px;">
				The link works once and expires in 15 minutes.
			</p>
		</div>
	`, link)
}
