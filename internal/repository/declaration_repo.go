package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"imogest/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type DeclarationRepository struct {
	db *gorm.DB
}

func NewDeclarationRepository(db *gorm.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

type declarationModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	Name            string     `gorm:"column:name"`
	Email           string     `gorm:"column:email"`
	Phone           *string    `gorm:"column:phone"`
	NIF             *string    `gorm:"column:nif"`
	Property        string     `gorm:"column:property"`
	City            *string    `gorm:"column:city"`
	PostalCode      *string    `gorm:"column:postal_code"`
	IssueType       string     `gorm:"column:issue_type"`
	Description     string     `gorm:"column:description;type:text"`
	Urgency         string     `gorm:"column:urgency"`
	Status          string     `gorm:"column:status;index"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at;index"`
	MediaURLs       string     `gorm:"column:media_urls;type:text"`
	ProviderID      *int64     `gorm:"column:prestador_id"`
	AssignedAt      *time.Time `gorm:"column:assigned_at"`
	MeetingDate     *time.Time `gorm:"column:meeting_date"`
	MeetingNotes    *string    `gorm:"column:meeting_notes"`
	QuoteApproved   *bool      `gorm:"column:quote_approved"`
	QuoteAmount     *float64   `gorm:"column:quote_amount"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	MondayItemID    *string    `gorm:"column:monday_item_id;uniqueIndex:idx_declarations_monday_item,where:monday_item_id IS NOT NULL"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (declarationModel) TableName() string { return "declarations" }

// MediaListToString serializes a URL list for the store. Only string
// URL lists survive the round-trip; arbitrary payloads are not
// supported.
func MediaListToString(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(urls)
	return string(data)
}

// StringToMediaList converts the stored form back to a list. Invalid
// JSON falls back to comma splitting so legacy rows still load.
func StringToMediaList(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err != nil {
		return strings.Split(s, ",")
	}
	return urls
}

func toDomainDeclaration(m declarationModel) *domain.Declaration {
	d := &domain.Declaration{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Property:      m.Property,
		IssueType:     m.IssueType,
		Description:   m.Description,
		Urgency:       domain.Urgency(m.Urgency),
		Status:        domain.StatusFromStorage(m.Status),
		SubmittedAt:   m.SubmittedAt,
		MediaURLs:     StringToMediaList(m.MediaURLs),
		ProviderID:    m.ProviderID,
		AssignedAt:    m.AssignedAt,
		MeetingDate:   m.MeetingDate,
		QuoteApproved: m.QuoteApproved,
		QuoteAmount:   m.QuoteAmount,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Phone != nil {
		d.Phone = *m.Phone
	}
	if m.NIF != nil {
		d.NIF = *m.NIF
	}
	if m.City != nil {
		d.City = *m.City
	}
	if m.PostalCode != nil {
		d.PostalCode = *m.PostalCode
	}
	if m.MeetingNotes != nil {
		d.MeetingNotes = *m.MeetingNotes
	}
	if m.RejectionReason != nil {
		d.RejectionReason = *m.RejectionReason
	}
	if m.MondayItemID != nil {
		d.MondayItemID = *m.MondayItemID
	}
	return d
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func toDeclarationModel(d *domain.Declaration) declarationModel {
	return declarationModel{
		ID:              d.ID,
		Name:            d.Name,
		Email:           d.Email,
		Phone:           optStr(d.Phone),
		NIF:             optStr(d.NIF),
		Property:        d.Property,
		City:            optStr(d.City),
		PostalCode:      optStr(d.PostalCode),
		IssueType:       d.IssueType,
		Description:     d.Description,
		Urgency:         string(d.Urgency),
		Status:          d.Status.StorageCode(),
		SubmittedAt:     d.SubmittedAt,
		MediaURLs:       MediaListToString(d.MediaURLs),
		ProviderID:      d.ProviderID,
		AssignedAt:      d.AssignedAt,
		MeetingDate:     d.MeetingDate,
		MeetingNotes:    optStr(d.MeetingNotes),
		QuoteApproved:   d.QuoteApproved,
		QuoteAmount:     d.QuoteAmount,
		RejectionReason: optStr(d.RejectionReason),
		MondayItemID:    optStr(d.MondayItemID),
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *DeclarationRepository) Create(ctx context.Context, d *domain.Declaration) error {
	m := toDeclarationModel(d)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if pgErr, ok := tx.Error.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return tx.Error
	}
	*d = *toDomainDeclaration(m)
	return nil
}

// GetAll returns declarations newest first, optionally filtered by
// status server-side.
func (r *DeclarationRepository) GetAll(ctx context.Context, statusFilter *domain.Status) ([]domain.Declaration, error) {
	q := r.db.WithContext(ctx).Order("submitted_at DESC")
	if statusFilter != nil {
		q = q.Where("status = ?", statusFilter.StorageCode())
	}

	var rows []declarationModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Declaration, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainDeclaration(m))
	}
	return out, nil
}

func (r *DeclarationRepository) GetByID(ctx context.Context, id string) (*domain.Declaration, error) {
	var m declarationModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDeclaration(m), nil
}

func (r *DeclarationRepository) GetByMondayItemID(ctx context.Context, itemID string) (*domain.Declaration, error) {
	var m declarationModel
	tx := r.db.WithContext(ctx).Where("monday_item_id = ?", itemID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDeclaration(m), nil
}

// Update applies a partial patch as a single column update and returns
// the record as stored.
func (r *DeclarationRepository) Update(ctx context.Context, id string, patch domain.DeclarationPatch) (*domain.Declaration, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Status != nil {
		updates["status"] = patch.Status.StorageCode()
	}
	if patch.ProviderID != nil {
		updates["prestador_id"] = *patch.ProviderID
	}
	if patch.AssignedAt != nil {
		updates["assigned_at"] = *patch.AssignedAt
	}
	if patch.MeetingDate != nil {
		updates["meeting_date"] = *patch.MeetingDate
	}
	if patch.MeetingNotes != nil {
		updates["meeting_notes"] = *patch.MeetingNotes
	}
	if patch.QuoteApproved != nil {
		updates["quote_approved"] = *patch.QuoteApproved
	}
	if patch.QuoteAmount != nil {
		updates["quote_amount"] = *patch.QuoteAmount
	}
	if patch.RejectionReason != nil {
		updates["rejection_reason"] = *patch.RejectionReason
	}
	if patch.MondayItemID != nil {
		updates["monday_item_id"] = *patch.MondayItemID
	}
	if patch.MediaURLs != nil {
		updates["media_urls"] = MediaListToString(*patch.MediaURLs)
	}

	tx := r.db.WithContext(ctx).Model(&declarationModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus applies a status-only patch through Update.
func (r *DeclarationRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Declaration, error) {
	return r.Update(ctx, id, domain.DeclarationPatch{Status: &status})
}

// Migrate creates the declarations table. Used for the local mirror
// and by cmd/seed.
func (r *DeclarationRepository) Migrate() error {
	return r.db.AutoMigrate(&declarationModel{})
}
