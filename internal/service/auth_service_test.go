package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpsertByEmail(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockSessionStore is a mock implementation of auth.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID uint, email string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userID, email, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hashed)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(t *testing.T, mRepo *MockUserRepository, mSessions *MockSessionStore)
		expectedError error
	}{
		{
			name:     "successful login establishes session",
			email:    "user@example.com",
			password: "password123",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
					ID:           7,
					Name:         "User",
					Email:        "user@example.com",
					PasswordHash: hashPassword(t, "password123"),
				}, nil)
				mSessions.On("Create", mock.Anything, uint(7), "user@example.com", mock.Anything).Return("session-id", nil)
			},
			expectedError: nil,
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "not-the-password",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
					ID:           7,
					Email:        "user@example.com",
					PasswordHash: hashPassword(t, "password123"),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "admin accounts are rejected",
			email:    "admin@example.com",
			password: "password123",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(&model.User{
					ID:           1,
					Email:        "admin@example.com",
					PasswordHash: hashPassword(t, "password123"),
					IsAdmin:      true,
				}, nil)
			},
			expectedError: apperrors.ErrAdminLoginBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockSessions := new(MockSessionStore)
			tt.setupMock(t, mockRepo, mockSessions)

			svc := NewAuthService(mockRepo, mockSessions, nil, time.Hour)
			user, sessionID, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, sessionID)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, "session-id", sessionID)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			// Failures must never create a session.
			mockSessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockSessions := new(MockSessionStore)

	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{
		ID:           1,
		Email:        "known@example.com",
		PasswordHash: hashPassword(t, "right-password"),
	}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewAuthService(mockRepo, mockSessions, nil, time.Hour)

	_, _, wrongPassword := svc.Login(context.Background(), "known@example.com", "wrong")
	_, _, unknownEmail := svc.Login(context.Background(), "unknown@example.com", "wrong")

	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Run("no session id", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), new(MockSessionStore), nil, time.Hour)

		_, err := svc.CurrentUser(context.Background(), "")
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("expired session", func(t *testing.T) {
		mockSessions := new(MockSessionStore)
		mockSessions.On("Get", mock.Anything, "stale").Return(nil, nil)

		svc := NewAuthService(new(MockUserRepository), mockSessions, nil, time.Hour)

		_, err := svc.CurrentUser(context.Background(), "stale")
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("active session resolves the user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockSessions := new(MockSessionStore)
		mockSessions.On("Get", mock.Anything, "live").Return(&auth.Session{UserID: 7, Email: "user@example.com"}, nil)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Email: "user@example.com"}, nil)

		svc := NewAuthService(mockRepo, mockSessions, nil, time.Hour)

		user, err := svc.CurrentUser(context.Background(), "live")
		assert.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
	})
}

func TestAuthService_Logout(t *testing.T) {
	mockSessions := new(MockSessionStore)
	mockSessions.On("Delete", mock.Anything, "live").Return(nil)

	svc := NewAuthService(new(MockUserRepository), mockSessions, nil, time.Hour)

	assert.NoError(t, svc.Logout(context.Background(), "live"))
	// Logging out without a session is a no-op, not an error.
	assert.NoError(t, svc.Logout(context.Background(), ""))

	mockSessions.AssertExpectations(t)
}
