package session

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "zentask.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "" {
		t.Fatalf("fresh store token = %q, want empty", token)
	}

	if err := s.SaveToken("t1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	token, err = s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "t1" {
		t.Errorf("token = %q, want t1", token)
	}

	// Saving again replaces, never duplicates
	if err := s.SaveToken("t2"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	token, _ = s.Token()
	if token != "t2" {
		t.Errorf("token = %q, want t2", token)
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	token, _ = s.Token()
	if token != "" {
		t.Errorf("token after clear = %q, want empty", token)
	}
}

func TestStoreExpiredTokenReadsAsAbsent(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Exec(
		"INSERT INTO credentials (name, value, expires_at) VALUES (?, ?, ?)",
		"jwt", "stale", time.Now().Add(-time.Hour),
	)
	if err != nil {
		t.Fatalf("seed expired token: %v", err)
	}

	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "" {
		t.Errorf("expired token read as %q, want empty", token)
	}

	// The expired row is gone
	var n int
	if err := s.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("credentials rows = %d, want 0", n)
	}
}
