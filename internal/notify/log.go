package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes notifications and login links to the log instead of sending
// them. It is what runs when no email provider is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(ctx context.Context, subject, body string) error {
	n.logger.Info("notification_published",
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

func (n *LogNotifier) SendLoginLink(ctx context.Context, to, link string) error {
	n.logger.Info("login_link_generated",
		zap.String("email", to),
		zap.String("link", link),
	)
	return nil
}
