package ui

import (
	"path/filepath"
	"testing"

	"zentask/internal/models"
	"zentask/internal/session"
	"zentask/internal/testutil"
	"zentask/internal/ui/views"
)

func newTestApp(t *testing.T, svc *testutil.FakeService) (*App, *session.Store) {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "zentask.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewApp(svc, session.New(store, svc)), store
}

func restore(t *testing.T, a *App) {
	t.Helper()
	if msg := a.restoreSession()(); msg != nil {
		a.Update(msg)
	}
}

func TestRestoreWithValidTokenOpensDashboard(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Profiles["tok"] = models.User{ID: 3, Name: "pat", Email: "pat@example.com"}

	a, store := newTestApp(t, svc)
	if err := store.SaveToken("tok"); err != nil {
		t.Fatalf("saving token: %v", err)
	}

	restore(t, a)

	if a.restorePending {
		t.Error("restore did not complete")
	}
	if a.page != views.PageDashboard {
		t.Errorf("page = %v, want dashboard", a.page)
	}
}

func TestRestoreWithoutTokenStaysOnHome(t *testing.T) {
	svc := testutil.NewFakeService()
	a, _ := newTestApp(t, svc)

	restore(t, a)

	if a.restorePending {
		t.Error("restore did not complete")
	}
	if a.page != views.PageHome {
		t.Errorf("page = %v, want home", a.page)
	}
}

func TestRestoreWithRejectedTokenClearsIt(t *testing.T) {
	svc := testutil.NewFakeService()
	a, store := newTestApp(t, svc)
	if err := store.SaveToken("bogus"); err != nil {
		t.Fatalf("saving token: %v", err)
	}

	restore(t, a)

	if a.page != views.PageHome {
		t.Errorf("page = %v, want home", a.page)
	}
	token, err := store.Token()
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != "" {
		t.Error("rejected token was not cleared")
	}
}

func TestGuestIsRedirectedFromDashboard(t *testing.T) {
	svc := testutil.NewFakeService()
	a, _ := newTestApp(t, svc)
	restore(t, a)

	a.Update(views.NavigateMsg{To: views.PageDashboard})

	if a.page != views.PageLogin {
		t.Errorf("page = %v, want login", a.page)
	}
}

func TestAuthenticatedUserSkipsAuthPages(t *testing.T) {
	svc := testutil.NewFakeService()
	a, _ := newTestApp(t, svc)
	restore(t, a)

	user := models.User{ID: 9, Name: "sam", Email: "sam@example.com"}
	a.Update(views.LoggedInMsg{User: user, Token: "tok"})
	if a.page != views.PageDashboard {
		t.Fatalf("page after login = %v, want dashboard", a.page)
	}

	a.Update(views.NavigateMsg{To: views.PageLogin})
	if a.page != views.PageDashboard {
		t.Errorf("login page reachable while authenticated, page = %v", a.page)
	}
}

func TestLogoutClearsSessionAndReturnsHome(t *testing.T) {
	svc := testutil.NewFakeService()
	a, store := newTestApp(t, svc)
	restore(t, a)

	user := models.User{ID: 9, Name: "sam", Email: "sam@example.com"}
	a.Update(views.LoggedInMsg{User: user, Token: "tok"})
	a.Update(views.LoggedOutMsg{})

	if a.page != views.PageHome {
		t.Errorf("page after logout = %v, want home", a.page)
	}
	token, err := store.Token()
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != "" {
		t.Error("logout left the token behind")
	}
}
