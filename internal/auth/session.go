// Package auth issues and verifies explicit operator sessions. A session
// carries an expiry instant and can be refreshed; absent, malformed and
// expired tokens are treated uniformly as unauthenticated.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/muthuvel01/goldpledge/internal/config"
)

// ErrUnauthenticated covers every failed credential or token check.
var ErrUnauthenticated = errors.New("unauthenticated")

// Session is the explicit session object handed to protected handlers.
type Session struct {
	ID        string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues, verifies and refreshes sessions as signed tokens.
type Manager struct {
	secret       []byte
	ttl          time.Duration
	operatorMail string
	operatorHash string
	now          func() time.Time
}

// NewManager builds a session manager from the auth configuration.
func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		secret:       []byte(cfg.SigningSecret),
		ttl:          cfg.SessionTTL,
		operatorMail: cfg.OperatorEmail,
		operatorHash: cfg.OperatorPassHash,
		now:          time.Now,
	}
}

// Login checks the operator credential and issues a fresh session.
func (m *Manager) Login(email, password string) (*Session, string, error) {
	if email != m.operatorMail {
		return nil, "", ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.operatorHash), []byte(password)); err != nil {
		return nil, "", ErrUnauthenticated
	}

	return m.issue(email)
}

// Verify parses and validates a token. Absent, malformed or expired tokens
// all map to ErrUnauthenticated.
func (m *Manager) Verify(token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}

	return &Session{
		ID:        claims.ID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh verifies the presented token and issues a replacement session with
// a new expiry instant.
func (m *Manager) Refresh(token string) (*Session, string, error) {
	session, err := m.Verify(token)
	if err != nil {
		return nil, "", err
	}

	return m.issue(session.Email)
}

func (m *Manager) issue(email string) (*Session, string, error) {
	now := m.now()
	session := &Session{
		ID:        uuid.NewString(),
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}

	return session, signed, nil
}
