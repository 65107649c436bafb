package provider

import (
	"context"
	"errors"
	"time"

	"imogest/internal/domain"

	"gorm.io/gorm"
)

// Repository is the provider persistence surface. Providers are
// back-office data and live in whichever store the process was wired
// with.
type Repository interface {
	Create(ctx context.Context, p *domain.ServiceProvider) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceProvider, error)
	GetAll(ctx context.Context, category string) ([]domain.ServiceProvider, error)
	Update(ctx context.Context, p *domain.ServiceProvider) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	providers Repository
}

func NewService(providers Repository) *Service {
	return &Service{providers: providers}
}

func (s *Service) Create(ctx context.Context, req UpsertProviderRequest) (*domain.ServiceProvider, error) {
	p := &domain.ServiceProvider{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		WorkCategory: req.WorkCategory,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.providers.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ServiceProvider, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, category string) ([]domain.ServiceProvider, error) {
	return s.providers.GetAll(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertProviderRequest) (*domain.ServiceProvider, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.CompanyName = req.CompanyName
	p.ContactName = req.ContactName
	p.Email = req.Email
	p.Phone = req.Phone
	p.WorkCategory = req.WorkCategory
	p.Address = req.Address
	p.City = req.City
	p.PostalCode = req.PostalCode

	if err := s.providers.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.providers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
