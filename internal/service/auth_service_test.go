package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lixi/internal/auth"
	apperrors "lixi/internal/errors"
	"lixi/internal/model"
)

// MockAdminRepository is a mock implementation of AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, accountID, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, accountID, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockAdminRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "admin",
			password: "password123",
			setupMock: func(m *MockAdminRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Admin")).Return(nil)
			},
		},
		{
			name:     "admin already exists",
			username: "admin",
			password: "password123",
			setupMock: func(m *MockAdminRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.Admin{Username: "admin"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAdminRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokenStore := new(MockTokenStore)

			svc := NewAuthService(mockRepo, newMemUserRepo(), jwtService, mockTokenStore)
			admin, err := svc.RegisterAdmin(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, admin)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, admin)
				assert.Equal(t, tt.username, admin.Username)
				assert.NotEmpty(t, admin.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockAdminRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "admin",
			password: "password123",
			setupMock: func(mRepo *MockAdminRepository, mToken *MockTokenStore) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				adminID := uuid.New()
				mRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.Admin{
					ID:           adminID,
					Username:     "admin",
					PasswordHash: string(hashedPassword),
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, adminID.String(), auth.RoleAdmin, mock.Anything).Return(nil)
			},
		},
		{
			name:     "invalid credentials - admin not found",
			username: "notfound",
			password: "password123",
			setupMock: func(mRepo *MockAdminRepository, mToken *MockTokenStore) {
				mRepo.On("FindByUsername", mock.Anything, "notfound").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			username: "admin",
			password: "wrong",
			setupMock: func(mRepo *MockAdminRepository, mToken *MockTokenStore) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				mRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.Admin{
					ID:           uuid.New(),
					Username:     "admin",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAdminRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, newMemUserRepo(), jwtService, mockTokenStore)

			pair, admin, err := svc.AdminLogin(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, pair)
				assert.Nil(t, admin)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				assert.Equal(t, tt.username, admin.Username)

				// The access token carries the admin role and subject.
				claims, err := jwtService.ValidateToken(pair.AccessToken)
				assert.NoError(t, err)
				assert.Equal(t, auth.RoleAdmin, claims.Role)
				assert.Equal(t, admin.ID.String(), claims.Subject)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_UserLogin(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	userRepo := newMemUserRepo()
	user := &model.User{
		Username:     "em-yeu",
		PasswordHash: string(hashedPassword),
		Role:         model.RoleLover,
		CreatedBy:    uuid.New(),
		Amounts:      model.AmountList{50000},
		Status:       model.StatusNotPlayed,
	}
	assert.NoError(t, userRepo.Create(context.Background(), user))

	jwtService := auth.NewJWTService("test-secret")
	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, user.ID.String(), auth.RoleUser, mock.Anything).Return(nil)

	svc := NewAuthService(new(MockAdminRepository), userRepo, jwtService, mockTokenStore)

	t.Run("successful login", func(t *testing.T) {
		pair, loggedIn, err := svc.UserLogin(context.Background(), "em-yeu", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, user.ID, loggedIn.ID)

		claims, err := jwtService.ValidateToken(pair.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, auth.RoleUser, claims.Role)
		assert.Equal(t, string(model.RoleLover), claims.UserRole)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.UserLogin(context.Background(), "em-yeu", "wrong")
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, _, err := svc.UserLogin(context.Background(), "nobody", "password123")
		assert.Equal(t, ErrInvalidCredentials, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accountID := uuid.New()

	t.Run("valid refresh token", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(accountID, "admin", auth.RoleAdmin)
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(accountID.String(), auth.RoleAdmin, nil)

		svc := NewAuthService(new(MockAdminRepository), newMemUserRepo(), jwtService, mockTokenStore)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, accountID.String(), claims.Subject)
	})

	t.Run("token unknown to the store", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(accountID, "admin", auth.RoleAdmin)
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return("", "", assert.AnError)

		svc := NewAuthService(new(MockAdminRepository), newMemUserRepo(), jwtService, mockTokenStore)
		_, err = svc.RefreshToken(context.Background(), refreshToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(new(MockAdminRepository), newMemUserRepo(), jwtService, new(MockTokenStore))
		_, err := svc.RefreshToken(context.Background(), "not-a-token")
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})
}
