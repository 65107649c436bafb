package repository

import (
	"context"
	"time"

	"imogest/internal/domain"

	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

type webhookModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	BoardID   string    `gorm:"column:board_id"`
	URL       string    `gorm:"column:url"`
	Event     string    `gorm:"column:event"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (webhookModel) TableName() string { return "webhooks" }

// Save records a registration; re-saving the same webhook id replaces
// the row.
func (r *WebhookRepository) Save(ctx context.Context, w *domain.WebhookRegistration) error {
	m := webhookModel{
		ID:        w.ID,
		BoardID:   w.BoardID,
		URL:       w.URL,
		Event:     w.Event,
		CreatedAt: w.CreatedAt,
	}
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *WebhookRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&webhookModel{}, "id = ?", id).Error
}

func (r *WebhookRepository) GetAll(ctx context.Context) ([]domain.WebhookRegistration, error) {
	var rows []webhookModel
	if tx := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.WebhookRegistration, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.WebhookRegistration{
			ID:        m.ID,
			BoardID:   m.BoardID,
			URL:       m.URL,
			Event:     m.Event,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (r *WebhookRepository) Migrate() error {
	return r.db.AutoMigrate(&webhookModel{})
}
