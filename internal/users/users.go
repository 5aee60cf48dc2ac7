// Package users provides accounts and session authentication.
//
// Authentication model:
// - Signup/login issue an opaque bearer token (shown once)
// - Only the SHA256 hash of the token is stored
// - Sessions expire after an hour; logout revokes immediately
// - Passwords are stored as bcrypt hashes
package users

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mindcarehq/mindcare/internal/idgen"
	"github.com/mindcarehq/mindcare/internal/validation"
)

// SessionTTL is how long an issued token stays valid.
const SessionTTL = time.Hour

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mindcare-timing-pad"), bcrypt.DefaultCost)

// Errors
var (
	ErrEmailTaken         = errors.New("users: email already registered")
	ErrInvalidCredentials = errors.New("users: invalid email or password")
	ErrInvalidToken       = errors.New("users: invalid or expired token")
	ErrNotFound           = errors.New("users: user not found")
	ErrInvalidInput       = errors.New("users: invalid input")
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is a stored login token. Only the hash of the raw token is kept.
type Session struct {
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired() bool { return time.Now().After(s.ExpiresAt) }

// Store persists users and sessions.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// Service handles account management and authentication.
type Service struct {
	store Store
	// adminEmail gets admin rights on signup. Empty disables the bootstrap.
	adminEmail string
}

// NewService creates a user service. adminEmail may be empty.
func NewService(store Store, adminEmail string) *Service {
	return &Service{store: store, adminEmail: validation.NormalizeEmail(adminEmail)}
}

// Signup registers an account and returns it with a fresh session token.
func (s *Service) Signup(ctx context.Context, name, email, phone, password string) (*User, string, error) {
	name = validation.SanitizeString(name, validation.MaxStringLength)
	email = validation.NormalizeEmail(email)
	phone = strings.TrimSpace(phone)

	switch {
	case name == "":
		return nil, "", errors.Join(ErrInvalidInput, errors.New("name is required"))
	case !validation.IsValidEmail(email):
		return nil, "", errors.Join(ErrInvalidInput, errors.New("invalid email"))
	case phone != "" && !validation.IsValidPhone(phone):
		return nil, "", errors.Join(ErrInvalidInput, errors.New("invalid phone number"))
	case len(password) < 8:
		return nil, "", errors.Join(ErrInvalidInput, errors.New("password must be at least 8 characters"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		ID:           idgen.WithPrefix("usr_"),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		IsAdmin:      s.adminEmail != "" && email == s.adminEmail,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.store.GetUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn comparable time so missing users aren't observable.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate resolves a raw bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*User, error) {
	rawToken = strings.TrimSpace(strings.TrimPrefix(rawToken, "Bearer "))
	if !strings.HasPrefix(rawToken, "mct_") {
		return nil, ErrInvalidToken
	}

	sess, err := s.store.GetSession(ctx, hashToken(rawToken))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if sess.Expired() {
		_ = s.store.DeleteSession(ctx, sess.TokenHash)
		return nil, ErrInvalidToken
	}

	u, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Logout revokes a session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	rawToken = strings.TrimSpace(strings.TrimPrefix(rawToken, "Bearer "))
	return s.store.DeleteSession(ctx, hashToken(rawToken))
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) issueSession(ctx context.Context, userID string) (string, error) {
	token := "mct_" + idgen.Hex(32)
	now := time.Now()
	sess := &Session{
		TokenHash: hashToken(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
