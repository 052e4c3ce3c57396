// Package service provides business-logic services for authentication
// and note management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"noteshare/internal/models"
)

// minPasswordLength is the minimal accepted password length.
const minPasswordLength = 8

// AuthRepository defines the user persistence operations required by
// the authentication service.
type AuthRepository interface {
	// CreateUser inserts a new user. A duplicate email reports
	// models.ErrEmailTaken.
	CreateUser(ctx context.Context, user *models.User) error
	// UserByEmail fetches a user by email, models.ErrNotFound if absent.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRepository defines the token persistence operations required
// by the authentication service.
type SessionRepository interface {
	// CreateSession persists an issued session.
	CreateSession(ctx context.Context, session *models.Session) error
	// UserIDByTokenHash resolves a token hash to a user id;
	// models.ErrUnauthorized for unknown or expired tokens.
	UserIDByTokenHash(ctx context.Context, tokenHash string) (string, error)
}

// AuthService implements signup, login and token verification. Raw
// tokens leave the process exactly once, in the signup/login response;
// only their SHA-256 hashes are stored.
type AuthService struct {
	users    AuthRepository
	sessions SessionRepository
	tokenTTL time.Duration
}

// NewAuthService constructs an AuthService. tokenTTL bounds the
// lifetime of issued tokens.
func NewAuthService(users AuthRepository, sessions SessionRepository, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokenTTL: tokenTTL}
}

// Register creates a new user and logs it in, returning the user and a
// fresh bearer token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case name == "":
		return nil, "", models.NewValidationError("name", "required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, "", models.NewValidationError("email", "valid email required")
	case len(password) < minPasswordLength:
		return nil, "", models.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user and a fresh
// bearer token. Unknown email and wrong password are reported
// identically as models.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", models.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", models.ErrUnauthorized
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify resolves a bearer token to the user id it authenticates.
// Every failure mode reports models.ErrUnauthorized.
func (s *AuthService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", models.ErrUnauthorized
	}
	return s.sessions.UserIDByTokenHash(ctx, hashToken(token))
}

// issueToken mints a 32-byte random token and persists its hash.
func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	now := time.Now().UTC()
	session := &models.Session{
		TokenHash: hashToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// hashToken returns the hex SHA-256 of a raw token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
