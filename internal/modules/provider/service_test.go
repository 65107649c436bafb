package provider

import (
	"context"
	"testing"

	"imogest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, p *domain.ServiceProvider) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceProvider), args.Error(1)
}

func (m *mockRepo) GetAll(ctx context.Context, category string) ([]domain.ServiceProvider, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceProvider), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, p *domain.ServiceProvider) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreate(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.ServiceProvider) bool {
		return p.CompanyName == "Electro Lisboa Lda" && !p.CreatedAt.IsZero()
	})).Return(nil)

	p, err := svc.Create(context.Background(), UpsertProviderRequest{
		CompanyName:  "Electro Lisboa Lda",
		Email:        "geral@electrolisboa.pt",
		WorkCategory: "electrical",
	})

	assert.NoError(t, err)
	assert.Equal(t, "electrical", p.WorkCategory)
	repo.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_ReplacesFields(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	existing := &domain.ServiceProvider{ID: 7, CompanyName: "Old Name", Email: "old@x.pt"}
	repo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.ServiceProvider) bool {
		return p.ID == 7 && p.CompanyName == "New Name"
	})).Return(nil)

	p, err := svc.Update(context.Background(), 7, UpsertProviderRequest{
		CompanyName: "New Name",
		Email:       "new@x.pt",
	})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", p.CompanyName)
	assert.Equal(t, "new@x.pt", p.Email)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	repo.On("Delete", mock.Anything, int64(99)).Return(gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 99), ErrNotFound)
}

func TestList_PassesCategory(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)

	repo.On("GetAll", mock.Anything, "plumbing").Return([]domain.ServiceProvider{{ID: 1}}, nil)

	out, err := svc.List(context.Background(), "plumbing")
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}
