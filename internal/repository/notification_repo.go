package repository

import (
	"context"
	"time"

	"imogest/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationLogModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	DeclarationID string    `gorm:"column:declaration_id;index"`
	RecipientType string    `gorm:"column:recipient_type"`
	Recipient     string    `gorm:"column:recipient"`
	Type          string    `gorm:"column:type"`
	Channels      string    `gorm:"column:channels"`
	Message       string    `gorm:"column:message;type:text"`
	Success       bool      `gorm:"column:success"`
	Error         *string   `gorm:"column:error"`
	SentAt        time.Time `gorm:"column:sent_at;index"`
}

func (notificationLogModel) TableName() string { return "notification_logs" }

func toDomainLog(m notificationLogModel) domain.NotificationLog {
	l := domain.NotificationLog{
		ID:            m.ID,
		DeclarationID: m.DeclarationID,
		RecipientType: m.RecipientType,
		Recipient:     m.Recipient,
		Type:          m.Type,
		Channels:      m.Channels,
		Message:       m.Message,
		Success:       m.Success,
		SentAt:        m.SentAt,
	}
	if m.Error != nil {
		l.Error = *m.Error
	}
	return l
}

// Append writes one immutable log row. Logs are never updated or
// deleted.
func (r *NotificationRepository) Append(ctx context.Context, l *domain.NotificationLog) error {
	m := notificationLogModel{
		DeclarationID: l.DeclarationID,
		RecipientType: l.RecipientType,
		Recipient:     l.Recipient,
		Type:          l.Type,
		Channels:      l.Channels,
		Message:       l.Message,
		Success:       l.Success,
		Error:         optStr(l.Error),
		SentAt:        l.SentAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	l.ID = m.ID
	return nil
}

// GetByDeclaration returns the notification history for one
// declaration, newest first.
func (r *NotificationRepository) GetByDeclaration(ctx context.Context, declarationID string) ([]domain.NotificationLog, error) {
	var rows []notificationLogModel
	tx := r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		Order("sent_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.NotificationLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainLog(m))
	}
	return out, nil
}

func (r *NotificationRepository) Migrate() error {
	return r.db.AutoMigrate(&notificationLogModel{})
}
