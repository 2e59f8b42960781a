package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// AuthService handles credential verification and session lifecycle.
type AuthService interface {
	// Login verifies credentials and establishes a session. Unknown email and
	// wrong password fail identically; administrators are rejected outright.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// CurrentUser resolves the caller from a session identifier.
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
	// Logout invalidates the session. Idempotent.
	Logout(ctx context.Context, sessionID string) error
	// HashPassword derives the stored credential from a plaintext password.
	HashPassword(password string) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   auth.SessionStore
	cache      *cache.Client
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions auth.SessionStore, cacheClient *cache.Client, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		cache:      cacheClient,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// Absent user and database trouble both read as bad credentials so
		// the response never confirms whether an email exists.
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	// The API serves regular users only; the admin panel is a separate surface.
	if user.IsAdmin {
		return nil, "", apperrors.ErrAdminLoginBlocked
	}

	sessionID, err := s.sessions.Create(ctx, user.ID, user.Email, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return user, sessionID, nil
}

func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	return s.getUser(ctx, session.UserID)
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// getUser reads through the cache; users are immutable in the API flows so a
// short TTL is enough to keep the session path off the database.
func (s *authService) getUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		// Session points at a user that no longer exists.
		return nil, apperrors.ErrUnauthenticated
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}
