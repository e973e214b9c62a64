package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"zentask/internal/models"
)

const (
	// DefaultBaseURL is the fixed backend origin.
	DefaultBaseURL = "http://localhost:8080"

	// APITimeout bounds every backend call.
	APITimeout = 5 * time.Second
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client implements Service against the ZenTask REST API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// New creates a Client for the given origin. tokens may be nil when no
// session exists yet; the upstream task routes do not demand a token, but
// the client attaches one whenever it has one.
func New(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: APITimeout},
		token:   tokens,
	}
}

// Profile resolves the user behind a bearer token.
func (c *Client) Profile(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/user/profile", token, nil, &user)
	return user, err
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges credentials for the user and a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return models.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

// SendOTP triggers the verification email for a signup.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	path := "/api/otp/send?email=" + url.QueryEscape(email)
	return c.do(ctx, http.MethodPost, path, "", nil, nil)
}

type verifyRequest struct {
	User SignupUser `json:"user"`
	OTP  string     `json:"otp"`
}

// VerifyOTP finalizes a signup with the emailed code.
func (c *Client) VerifyOTP(ctx context.Context, user SignupUser, otp string) error {
	return c.do(ctx, http.MethodPost, "/api/otp/verify", "", verifyRequest{User: user, OTP: otp}, nil)
}

// ListTasks returns every task owned by the user.
func (c *Client) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	var list []models.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", userID), c.token(), nil, &list)
	return list, err
}

// CreateTask creates a task and returns the server's representation.
func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var created models.Task
	err := c.do(ctx, http.MethodPost, "/api/new-task", c.token(), task, &created)
	return created, err
}

// EditTask replaces a task's editable fields.
func (c *Client) EditTask(ctx context.Context, task models.Task) (models.Task, error) {
	var updated models.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/edit/%d", task.ID), c.token(), task, &updated)
	return updated, err
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

// SetStatus updates only the status and returns the updated task.
func (c *Client) SetStatus(ctx context.Context, taskID int64, status models.Status) (models.Task, error) {
	var updated models.Task
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/status/%d", taskID), c.token(), statusRequest{Status: status}, &updated)
	return updated, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/delete/%d", taskID), c.token(), nil, nil)
}

// do issues one request. Non-2xx responses become a *StatusError carrying
// the server's message; transport failures wrap ErrUnavailable. A nil out
// discards the response body, which the OTP routes return as plain text.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readMessage extracts a human-readable message from an error body. The
// backend mixes JSON {"message": ...} bodies with bare text, so fall back
// to the raw body when it isn't JSON.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
