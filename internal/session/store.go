// Package session persists the auth token and resolves the current user
// from it. The store is the terminal counterpart of the browser's jwt
// cookie: a single named credential with a 10-day expiry, honored when the
// value is read back.
package session

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

const (
	// tokenName is the credential key, matching the cookie name upstream.
	tokenName = "jwt"

	// TokenTTL is how long a stored token stays valid.
	TokenTTL = 10 * 24 * time.Hour
)

// Store wraps the credential database
type Store struct {
	*sql.DB
}

// Open opens the credential database at path and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

// SaveToken stores the token with a fresh TokenTTL expiry, replacing any
// previous one.
func (s *Store) SaveToken(token string) error {
	_, err := s.Exec(`
		INSERT INTO credentials (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, tokenName, token, time.Now().Add(TokenTTL))
	return err
}

// Token returns the stored token, or "" when none is stored or the stored
// one has expired. Expired tokens are removed on read.
func (s *Store) Token() (string, error) {
	var value string
	var expiresAt time.Time
	err := s.QueryRow(
		"SELECT value, expires_at FROM credentials WHERE name = ?", tokenName,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if time.Now().After(expiresAt) {
		return "", s.ClearToken()
	}
	return value, nil
}

// ClearToken removes the stored token.
func (s *Store) ClearToken() error {
	_, err := s.Exec("DELETE FROM credentials WHERE name = ?", tokenName)
	return err
}
