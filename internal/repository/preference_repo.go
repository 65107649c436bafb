package repository

import (
	"context"
	"errors"
	"time"

	"imogest/internal/domain"

	"gorm.io/gorm"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

type preferenceModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	EmailEnabled  bool      `gorm:"column:email_enabled"`
	SMSEnabled    bool      `gorm:"column:sms_enabled"`
	PushEnabled   bool      `gorm:"column:push_enabled"`
	OverrideEmail *string   `gorm:"column:override_email"`
	OverridePhone *string   `gorm:"column:override_phone"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (preferenceModel) TableName() string { return "notification_preferences" }

// Get returns the single active preference record, or the defaults
// when none has been stored yet.
func (r *PreferenceRepository) Get(ctx context.Context) (*domain.NotificationPreference, error) {
	var m preferenceModel
	tx := r.db.WithContext(ctx).Order("id ASC").First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return domain.DefaultPreferences(), nil
		}
		return nil, tx.Error
	}

	p := &domain.NotificationPreference{
		ID:           m.ID,
		EmailEnabled: m.EmailEnabled,
		SMSEnabled:   m.SMSEnabled,
		PushEnabled:  m.PushEnabled,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.OverrideEmail != nil {
		p.OverrideEmail = *m.OverrideEmail
	}
	if m.OverridePhone != nil {
		p.OverridePhone = *m.OverridePhone
	}
	return p, nil
}

// Upsert stores the singleton preference record, replacing any
// existing one.
func (r *PreferenceRepository) Upsert(ctx context.Context, p *domain.NotificationPreference) error {
	m := preferenceModel{
		EmailEnabled:  p.EmailEnabled,
		SMSEnabled:    p.SMSEnabled,
		PushEnabled:   p.PushEnabled,
		OverrideEmail: optStr(p.OverrideEmail),
		OverridePhone: optStr(p.OverridePhone),
		UpdatedAt:     time.Now().UTC(),
	}

	var existing preferenceModel
	tx := r.db.WithContext(ctx).Order("id ASC").First(&existing)
	if tx.Error != nil {
		if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return tx.Error
		}
		if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
			return tx.Error
		}
		p.ID = m.ID
		p.UpdatedAt = m.UpdatedAt
		return nil
	}

	m.ID = existing.ID
	if tx := r.db.WithContext(ctx).Save(&m); tx.Error != nil {
		return tx.Error
	}
	p.ID = m.ID
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PreferenceRepository) Migrate() error {
	return r.db.AutoMigrate(&preferenceModel{})
}
