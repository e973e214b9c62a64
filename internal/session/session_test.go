package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"zentask/internal/models"
	"zentask/internal/session"
	"zentask/internal/testutil"
)

func newSession(t *testing.T, svc *testutil.FakeService) (*session.Session, *session.Store) {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "zentask.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return session.New(store, svc), store
}

func TestRestoreWithoutToken(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, _ := newSession(t, svc)

	if user := sess.Restore(context.Background()); user != nil {
		t.Errorf("Restore = %+v, want nil", user)
	}
	if sess.User() != nil {
		t.Error("User() should stay nil when no token is stored")
	}
}

func TestRestoreResolvesUser(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Profiles["t1"] = models.User{ID: 1, Name: "A", Email: "a@b.com"}

	sess, store := newSession(t, svc)
	if err := store.SaveToken("t1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	user := sess.Restore(context.Background())
	if user == nil {
		t.Fatal("Restore returned nil for a valid token")
	}
	if *user != (models.User{ID: 1, Name: "A", Email: "a@b.com"}) {
		t.Errorf("user = %+v", *user)
	}
	if sess.User() == nil || sess.User().ID != 1 {
		t.Errorf("User() = %+v", sess.User())
	}
}

func TestRestoreFailureClearsToken(t *testing.T) {
	svc := testutil.NewFakeService() // no profiles: every token is rejected

	sess, store := newSession(t, svc)
	if err := store.SaveToken("bad"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	if user := sess.Restore(context.Background()); user != nil {
		t.Errorf("Restore = %+v, want nil", user)
	}
	if sess.User() != nil {
		t.Error("User() should be nil after a failed restore")
	}
	if token, _ := store.Token(); token != "" {
		t.Errorf("token after failed restore = %q, want cleared", token)
	}
}

func TestLoginAndLogout(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, store := newSession(t, svc)

	user := models.User{ID: 1, Name: "A", Email: "a@b.com"}
	if err := sess.Login(user, "t1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token, _ := store.Token(); token != "t1" {
		t.Errorf("persisted token = %q, want t1", token)
	}
	if sess.User() == nil || sess.User().Name != "A" {
		t.Errorf("User() = %+v", sess.User())
	}

	if err := sess.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.User() != nil {
		t.Error("User() should be nil after logout")
	}
	if token, _ := store.Token(); token != "" {
		t.Errorf("token after logout = %q, want cleared", token)
	}
}
