package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"zentask/internal/models"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if req.Email != "a@b.com" || req.Password != "x" {
			t.Errorf("login body = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "t1",
			"user":  map[string]any{"id": 1, "name": "A", "email": "a@b.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	user, token, err := c.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "t1" {
		t.Errorf("token = %q, want t1", token)
	}
	if user.ID != 1 || user.Name != "A" {
		t.Errorf("user = %+v", user)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Wrong Password"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, _, err := c.Login(context.Background(), "a@b.com", "bad")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if Message(err) != "Wrong Password" {
		t.Errorf("message = %q", Message(err))
	}
}

func TestProfileSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(models.User{ID: 7, Name: "Z", Email: "z@z.io"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	user, err := c.Profile(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user != (models.User{ID: 7, Name: "Z", Email: "z@z.io"}) {
		t.Errorf("user = %+v", user)
	}
}

func TestSendOTPConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "a@b.com" {
			t.Errorf("email param = %q", got)
		}
		// The upstream OTP routes answer with bare text, not JSON
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("User already exists with this email"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.SendOTP(context.Background(), "a@b.com")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if Message(err) != "User already exists with this email" {
		t.Errorf("message = %q", Message(err))
	}
}

func TestVerifyOTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			User SignupUser `json:"user"`
			OTP  string     `json:"otp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode verify body: %v", err)
		}
		if req.User.Username != "alice" || req.OTP != "123456" {
			t.Errorf("verify body = %+v", req)
		}
		w.Write([]byte("User Registered Successfully !!"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.VerifyOTP(context.Background(), SignupUser{Username: "alice", Email: "a@b.com", Password: "x"}, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
}

func TestVerifyOTPInvalidCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Invalid OTP"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.VerifyOTP(context.Background(), SignupUser{}, "000000")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestTaskCallsAttachSessionToken(t *testing.T) {
	var sawAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = append(sawAuth, r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]models.Task{})
		case r.Method == http.MethodDelete:
			w.Write([]byte("Task deleted successfully"))
		default:
			json.NewEncoder(w).Encode(models.Task{ID: 1, Title: "t", Status: models.StatusPending})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "sess" })
	ctx := context.Background()

	if _, err := c.ListTasks(ctx, 1); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if _, err := c.CreateTask(ctx, models.Task{Title: "t", UserID: 1}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := c.SetStatus(ctx, 1, models.StatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := c.DeleteTask(ctx, 1); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	for i, got := range sawAuth {
		if got != "Bearer sess" {
			t.Errorf("call %d Authorization = %q, want Bearer sess", i, got)
		}
	}
}

func TestCreateTaskReturnsServerRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var task models.Task
		json.NewDecoder(r.Body).Decode(&task)
		task.ID = 42 // server assigns the id
		json.NewEncoder(w).Encode(task)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	created, err := c.CreateTask(context.Background(), models.Task{Title: "Buy milk", Status: models.StatusPending, UserID: 1})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID != 42 || created.Title != "Buy milk" {
		t.Errorf("created = %+v", created)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, nil)
	_, err := c.ListTasks(context.Background(), 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
