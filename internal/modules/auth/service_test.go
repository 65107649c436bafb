package auth

import (
	"context"
	"testing"

	"imogest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func adminUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &domain.User{
		ID:           1,
		Email:        "admin@imogest.pt",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
}

func TestLogin_Success(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockJWT)
	svc := NewService(users, tokens)

	u := adminUser(t, "s3cret")
	users.On("GetByEmail", mock.Anything, "admin@imogest.pt").Return(u, nil)
	users.On("TouchLastLogin", mock.Anything, int64(1)).Return(nil)
	tokens.On("GenerateToken", int64(1), "admin").Return("signed-token", nil)

	res, err := svc.Login(context.Background(), "Admin@Imogest.PT ", "s3cret")

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", res.AccessToken)
	assert.Equal(t, u, res.User)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockJWT))

	users.On("GetByEmail", mock.Anything, "admin@imogest.pt").Return(adminUser(t, "s3cret"), nil)

	_, err := svc.Login(context.Background(), "admin@imogest.pt", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockJWT))

	users.On("GetByEmail", mock.Anything, "nobody@imogest.pt").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), "nobody@imogest.pt", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_EmptyInput(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockJWT))

	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogin_TouchFailureIgnored(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockJWT)
	svc := NewService(users, tokens)

	users.On("GetByEmail", mock.Anything, "admin@imogest.pt").Return(adminUser(t, "s3cret"), nil)
	users.On("TouchLastLogin", mock.Anything, int64(1)).Return(gorm.ErrInvalidDB)
	tokens.On("GenerateToken", int64(1), "admin").Return("signed-token", nil)

	res, err := svc.Login(context.Background(), "admin@imogest.pt", "s3cret")

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", res.AccessToken)
}
