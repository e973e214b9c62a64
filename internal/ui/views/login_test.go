package views

import (
	"testing"

	"zentask/internal/api"
	"zentask/internal/models"
	"zentask/internal/testutil"
)

func seededLoginService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.Accounts["dev@example.com"] = testutil.Account{
		Password: "hunter2",
		Token:    "tok-1",
		User:     models.User{ID: 7, Name: "dev", Email: "dev@example.com"},
	}
	return svc
}

func TestLoginEmitsLoggedInMsg(t *testing.T) {
	svc := seededLoginService()
	v := NewLoginView(svc)
	v.email.SetValue("dev@example.com")
	v.password.SetValue("hunter2")

	cmd := v.submit()
	if cmd == nil {
		t.Fatal("submit did not produce a command")
	}
	_, next := v.Update(cmd())
	if next == nil {
		t.Fatal("successful login did not produce a follow-up command")
	}

	msg, ok := next().(LoggedInMsg)
	if !ok {
		t.Fatalf("follow-up message is %T, want LoggedInMsg", next())
	}
	if msg.Token != "tok-1" || msg.User.ID != 7 {
		t.Errorf("got %+v", msg)
	}
}

func TestLoginWrongPasswordShowsServerMessage(t *testing.T) {
	svc := seededLoginService()
	v := NewLoginView(svc)
	v.email.SetValue("dev@example.com")
	v.password.SetValue("nope")

	_, next := v.Update(v.submit()())
	if next != nil {
		t.Error("failed login should not emit a follow-up message")
	}
	if v.message != "Wrong Password" {
		t.Errorf("message = %q", v.message)
	}
	if v.loading {
		t.Error("loading flag stuck after the response")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc := seededLoginService()
	v := NewLoginView(svc)
	v.email.SetValue("dev@example.com")

	if cmd := v.submit(); cmd != nil {
		t.Error("missing password should not produce a command")
	}
	if v.message == "" {
		t.Error("expected a validation message")
	}
}

func TestLoginNetworkFailureIsSurfaced(t *testing.T) {
	svc := seededLoginService()
	svc.LoginErr = api.ErrUnavailable
	v := NewLoginView(svc)
	v.email.SetValue("dev@example.com")
	v.password.SetValue("hunter2")

	v.Update(v.submit()())
	if v.message != "Network error, please try again" {
		t.Errorf("message = %q", v.message)
	}
}
