package notification

import (
	"context"

	"imogest/internal/domain"
)

// LogStore persists the immutable notification audit trail.
type LogStore interface {
	Append(ctx context.Context, l *domain.NotificationLog) error
	GetByDeclaration(ctx context.Context, declarationID string) ([]domain.NotificationLog, error)
}

// PreferenceStore serves the per-installation channel configuration.
// Upsert's bool reports a write that only reached the local mirror.
type PreferenceStore interface {
	Get(ctx context.Context) (*domain.NotificationPreference, error)
	Upsert(ctx context.Context, p *domain.NotificationPreference) (bool, error)
}

// EmailSender delivers one rendered email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMSSender delivers one rendered text message.
type SMSSender interface {
	Send(ctx context.Context, mobile, body string) error
}

// PushSender publishes a real-time event to connected back-office
// clients.
type PushSender interface {
	Push(declarationID, notifType, title, body string)
}
