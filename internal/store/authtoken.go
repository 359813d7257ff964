package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/alamal-ev/website/internal/model"
)

// Magic-link tokens expire 24 hours after issue.
const authTokenTTL = "+24 hours"

type AuthTokenStore struct {
	db *sql.DB
}

func NewAuthTokenStore(db *sql.DB) *AuthTokenStore {
	return &AuthTokenStore{db: db}
}

const authTokenCols = `id, email, token, expires_at, used_at, created_at`

func scanAuthToken(scanner interface{ Scan(...any) error }) (*model.AuthToken, error) {
	var t model.AuthToken
	var usedAt sql.NullTime

	err := scanner.Scan(&t.ID, &t.Email, &t.Token, &t.ExpiresAt, &usedAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}
	return &t, nil
}

// generateToken returns 32 random bytes hex-encoded (64 characters).
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue creates a fresh 24-hour magic-link token for the email. A prior
// token for the same address is replaced and its used flag reset, so at most
// one token per email is ever live.
func (s *AuthTokenStore) Issue(email string) (*model.AuthToken, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`INSERT INTO auth_tokens (email, token, expires_at)
		VALUES (?, ?, datetime('now', ?))
		ON CONFLICT(email) DO UPDATE SET
			token = excluded.token,
			expires_at = excluded.expires_at,
			used_at = NULL,
			created_at = datetime('now')`,
		email, token, authTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}

	return s.GetByEmail(email)
}

// GetByEmail returns the token row for an email regardless of state, or nil.
func (s *AuthTokenStore) GetByEmail(email string) (*model.AuthToken, error) {
	row := s.db.QueryRow(`SELECT `+authTokenCols+` FROM auth_tokens WHERE email = ?`, email)
	t, err := scanAuthToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get auth token by email: %w", err)
	}
	return t, nil
}

// Redeem consumes a token. The mark-used happens in a single conditional
// update checked via RowsAffected, so two concurrent redemptions of the same
// token cannot both succeed. Returns the owning email, or "" when the token
// is unknown, expired, or already used (callers must not distinguish).
func (s *AuthTokenStore) Redeem(token string) (string, error) {
	result, err := s.db.Exec(
		`UPDATE auth_tokens SET used_at = datetime('now')
		WHERE token = ? AND used_at IS NULL AND expires_at > datetime('now')`,
		token,
	)
	if err != nil {
		return "", fmt.Errorf("redeem auth token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return "", nil
	}

	var email string
	err = s.db.QueryRow(`SELECT email FROM auth_tokens WHERE token = ?`, token).Scan(&email)
	if err != nil {
		return "", fmt.Errorf("read redeemed token: %w", err)
	}
	return email, nil
}

// DeleteExpired removes tokens past their expiry.
func (s *AuthTokenStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM auth_tokens WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired auth tokens: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
