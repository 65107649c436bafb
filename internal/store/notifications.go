package store

import (
	"context"
	"log"

	"imogest/internal/domain"
	"imogest/internal/repository"
)

type notificationRepo interface {
	Append(ctx context.Context, l *domain.NotificationLog) error
	GetByDeclaration(ctx context.Context, declarationID string) ([]domain.NotificationLog, error)
}

var _ notificationRepo = (*repository.NotificationRepository)(nil)

// NotificationStore persists the notification audit log with the same
// remote-first, local-fallback discipline as declarations. The
// durability contract is that history survives even when delivery (or
// the remote store) fails.
type NotificationStore struct {
	remote notificationRepo
	local  notificationRepo
	health *Health
}

func NewNotificationStore(remote, local notificationRepo, health *Health) *NotificationStore {
	return &NotificationStore{remote: remote, local: local, health: health}
}

func (s *NotificationStore) Append(ctx context.Context, l *domain.NotificationLog) error {
	if s.remote != nil && s.health.Mode() != ModeLocalOnly {
		if err := s.remote.Append(ctx, l); err == nil {
			return nil
		} else {
			log.Printf("notifications remote_append_failed declaration_id=%s error=%q falling back to local", l.DeclarationID, err)
		}
	}
	return s.local.Append(ctx, l)
}

func (s *NotificationStore) GetByDeclaration(ctx context.Context, declarationID string) ([]domain.NotificationLog, error) {
	if s.remote != nil && s.health.Mode() != ModeLocalOnly {
		out, err := s.remote.GetByDeclaration(ctx, declarationID)
		if err == nil {
			return out, nil
		}
		log.Printf("notifications remote_history_failed declaration_id=%s error=%q falling back to local", declarationID, err)
	}
	return s.local.GetByDeclaration(ctx, declarationID)
}
