// Package notify delivers contact-form alerts and sign-in links.
package notify

import (
	"context"
	"fmt"
	"strings"

	"ecolife-backend/internal/models"
)

// Notifier publishes a short alert to whoever watches the contact inbox.
type Notifier interface {
	Publish(ctx context.Context, subject, body string) error
}

// Mailer sends a sign-in link to a user.
type Mailer interface {
	SendLoginLink(ctx context.Context, to, link string) error
}

// FormatContact renders a contact message as an alert subject and body.
func FormatContact(m models.ContactMessage) (string, string) {
	subject := "New contact message from " + m.Name
	if m.Subject != "" {
		subject += ": " + m.Subject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n", m.Name, m.Email)
	fmt.Fprintf(&b, "Received: %s\n", m.CreatedAt)
	if m.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
	}
	b.WriteString("\n")
	b.WriteString(m.Message)
	return subject, b.String()
}
