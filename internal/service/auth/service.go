// Package auth handles user registration, credential verification and
// token issuance. This service is framework-agnostic and can be used
// with any HTTP framework or CLI.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

// Sentinel errors for authentication operations.
var (
	// ErrUserNotFound indicates that no user exists with the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword indicates that the password did not match the
	// stored hash.
	ErrInvalidPassword = errors.New("invalid password")
)

// DefaultTokenExpiry is the token lifetime used when no expiry is
// configured.
const DefaultTokenExpiry = 24 * time.Hour

// Credentials represents a username/password pair as received from a
// client.
type Credentials struct {
	Username string
	Password string
}

// AuthService handles authentication business logic: registering users
// with hashed passwords and exchanging valid credentials for signed
// bearer tokens.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	expiry time.Duration
}

// NewAuthService creates a new authentication service. A non-positive
// expiry falls back to DefaultTokenExpiry.
func NewAuthService(users repository.UserRepository, secret []byte, expiry time.Duration) *AuthService {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &AuthService{
		users:  users,
		secret: secret,
		expiry: expiry,
	}
}

// Register validates the credentials, hashes the password and stores the
// new user. Returns entity.ValidationError when the credentials violate
// the policy and entity.ErrDuplicateUsername when the username is taken.
func (s *AuthService) Register(ctx context.Context, creds Credentials) (*entity.User, error) {
	if err := entity.ValidateUsername(creds.Username); err != nil {
		metrics.RecordAuthRequest("register", "invalid")
		return nil, err
	}
	if err := entity.ValidatePassword(creds.Password); err != nil {
		metrics.RecordAuthRequest("register", "invalid")
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		metrics.RecordAuthRequest("register", "error")
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		metrics.RecordAuthRequest("register", "duplicate")
		return nil, entity.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.RecordAuthRequest("register", "error")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username: creds.Username,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrDuplicateUsername) {
			// 同時登録のレースはここで拾う
			metrics.RecordAuthRequest("register", "duplicate")
			return nil, entity.ErrDuplicateUsername
		}
		metrics.RecordAuthRequest("register", "error")
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordAuthRequest("register", "success")
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token
// embedding the user's id, valid for the configured expiry.
// Returns ErrUserNotFound when the username is unknown and
// ErrInvalidPassword when the password does not match.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (string, error) {
	user, err := s.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		metrics.RecordAuthRequest("login", "error")
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		metrics.RecordAuthRequest("login", "not_found")
		return "", ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		metrics.RecordAuthRequest("login", "invalid_password")
		return "", ErrInvalidPassword
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		metrics.RecordAuthRequest("login", "error")
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.RecordAuthRequest("login", "success")
	return token, nil
}

// issueToken signs an HS256 token carrying the user id and expiry.
func (s *AuthService) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// TokenExpiry returns the configured token lifetime.
func (s *AuthService) TokenExpiry() time.Duration {
	return s.expiry
}
