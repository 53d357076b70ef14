package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"invoicing-app/internal/rdbms"
)

// SessionStore maps opaque tokens to user identities. Sessions live in the
// remote store, carry a fixed lifetime from creation (no sliding expiry),
// and are checked lazily at resolve time.
type SessionStore struct {
	db  rdbms.Executor
	ttl time.Duration
}

// NewSessionStore builds a store whose sessions expire ttl after creation.
func NewSessionStore(db rdbms.Executor, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

// Create inserts a session for userID and returns its token.
func (s *SessionStore) Create(ctx context.Context, userID int, ipAddress, userAgent string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	query := fmt.Sprintf(
		"INSERT INTO sessions VALUES (%s, %s, %s, %s, %s, %s)",
		rdbms.Quote(token),
		rdbms.Int(userID),
		rdbms.Timestamp(now),
		rdbms.Timestamp(now.Add(s.ttl)),
		rdbms.Quote(ipAddress),
		rdbms.Quote(userAgent),
	)
	if _, err := s.db.Execute(ctx, query); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Resolve returns the identity behind token. Expired sessions yield
// ErrSessionExpired (the caller must invalidate them); unknown tokens yield
// ErrNotFound.
func (s *SessionStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	query := fmt.Sprintf(`SELECT s.expires_at, u.id AS user_id, u.username, u.email, u.full_name, u.company_name
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_id = %s AND u.is_active = TRUE`,
		rdbms.Quote(token))

	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, ErrNotFound
	}

	row := res.Data[0]
	if time.Now().UTC().After(row.Time("expires_at")) {
		return nil, ErrSessionExpired
	}
	return &Identity{
		UserID:      row.Int("user_id"),
		Username:    row.String("username"),
		Email:       row.String("email"),
		FullName:    row.String("full_name"),
		CompanyName: row.String("company_name"),
	}, nil
}

// Invalidate removes the session. Removing an absent token is not an error.
func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	query := fmt.Sprintf("DELETE FROM sessions WHERE session_id = %s", rdbms.Quote(token))
	if _, err := s.db.Execute(ctx, query); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// newToken generates a cryptographically random, URL-safe session token.
func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
