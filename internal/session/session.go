// Package session issues and validates the admin session that replaces a remembered password.
// A session is a signed JWT with a fixed expiry; logging out revokes its ID until that expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTTL = 12 * time.Hour
	subject    = "rsvp-admin"
)

var (
	ErrInvalidSession = errors.New("session: invalid or expired session")
	ErrRevoked        = errors.New("session: session has been revoked")
	ErrMissingSecret  = errors.New("session: signing secret is required")
)

// RevocationStore remembers revoked session IDs until the session would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  RevocationStore
	now    func() time.Time
}

type Option func(*Manager)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg Config, store RevocationStore, opts ...Option) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "event-rsvp"
	}
	if store == nil {
		store = NewMemoryRevocationStore()
	}

	m := &Manager{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a new signed session.
func (m *Manager) Issue(_ context.Context) (*Session, error) {
	now := m.now().UTC().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("session: sign token: %w", err)
	}

	return &Session{
		ID:        claims.ID,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate parses token and rejects it when the signature, expiry or revocation check fails.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	revoked, err := m.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("session: revocation lookup: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	s := &Session{ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}

// Revoke ends the session carried by token. Revoking an already-invalid token is a no-op.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	s, err := m.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) || errors.Is(err, ErrRevoked) {
			return nil
		}
		return err
	}

	return m.store.Revoke(ctx, s.ID, s.ExpiresAt)
}
