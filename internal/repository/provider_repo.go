package repository

import (
	"context"
	"time"

	"imogest/internal/domain"

	"gorm.io/gorm"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

type providerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	CompanyName  string    `gorm:"column:company_name"`
	ContactName  *string   `gorm:"column:contact_name"`
	Email        string    `gorm:"column:email"`
	Phone        *string   `gorm:"column:phone"`
	WorkCategory *string   `gorm:"column:work_category;index"`
	Address      *string   `gorm:"column:address"`
	City         *string   `gorm:"column:city"`
	PostalCode   *string   `gorm:"column:postal_code"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (providerModel) TableName() string { return "prestadores_de_servicos" }

func toDomainProvider(m providerModel) *domain.ServiceProvider {
	p := &domain.ServiceProvider{
		ID:          m.ID,
		CompanyName: m.CompanyName,
		Email:       m.Email,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.ContactName != nil {
		p.ContactName = *m.ContactName
	}
	if m.Phone != nil {
		p.Phone = *m.Phone
	}
	if m.WorkCategory != nil {
		p.WorkCategory = *m.WorkCategory
	}
	if m.Address != nil {
		p.Address = *m.Address
	}
	if m.City != nil {
		p.City = *m.City
	}
	if m.PostalCode != nil {
		p.PostalCode = *m.PostalCode
	}
	return p
}

func toProviderModel(p *domain.ServiceProvider) providerModel {
	return providerModel{
		ID:           p.ID,
		CompanyName:  p.CompanyName,
		ContactName:  optStr(p.ContactName),
		Email:        p.Email,
		Phone:        optStr(p.Phone),
		WorkCategory: optStr(p.WorkCategory),
		Address:      optStr(p.Address),
		City:         optStr(p.City),
		PostalCode:   optStr(p.PostalCode),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.ServiceProvider) error {
	m := toProviderModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProvider(m)
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceProvider, error) {
	var m providerModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProvider(m), nil
}

// GetAll lists providers, optionally filtered by work category.
func (r *ProviderRepository) GetAll(ctx context.Context, category string) ([]domain.ServiceProvider, error) {
	q := r.db.WithContext(ctx).Order("company_name ASC")
	if category != "" {
		q = q.Where("work_category = ?", category)
	}

	var rows []providerModel
	if tx := q.Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ServiceProvider, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProvider(m))
	}
	return out, nil
}

func (r *ProviderRepository) Update(ctx context.Context, p *domain.ServiceProvider) error {
	m := toProviderModel(p)
	m.UpdatedAt = time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&providerModel{}).Where("id = ?", p.ID).Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProviderRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&providerModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProviderRepository) Migrate() error {
	return r.db.AutoMigrate(&providerModel{})
}
