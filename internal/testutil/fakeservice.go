// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"zentask/internal/api"
	"zentask/internal/models"
)

// FakeService is an in-memory implementation of api.Service for tests.
// Zero value isn't usable; create with NewFakeService.
type FakeService struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64][]models.Task // userID -> tasks

	// Profile behavior: token -> user. Unknown tokens fail with
	// api.ErrUnauthorized.
	Profiles map[string]models.User

	// Login behavior: email -> account. Wrong email or password fails
	// with api.ErrUnauthorized.
	Accounts map[string]Account

	// Registered emails rejected by SendOTP/VerifyOTP with api.ErrConflict.
	Registered map[string]bool

	// AcceptOTP is the one code VerifyOTP accepts; others fail with
	// api.ErrUnauthorized.
	AcceptOTP string

	// Error injection, checked before any other behavior.
	ProfileErr    error
	LoginErr      error
	SendOTPErr    error
	VerifyOTPErr  error
	ListTasksErr  error
	CreateTaskErr error
	EditTaskErr   error
	SetStatusErr  error
	DeleteTaskErr error
}

// Account pairs a login password with the user returned on success.
type Account struct {
	Password string
	Token    string
	User     models.User
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:     1,
		tasks:      make(map[int64][]models.Task),
		Profiles:   make(map[string]models.User),
		Accounts:   make(map[string]Account),
		Registered: make(map[string]bool),
		AcceptOTP:  "123456",
	}
}

// AddTask seeds a task for a user and returns it with its assigned id.
func (f *FakeService) AddTask(t models.Task) models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.nextID
	f.nextID++
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	f.tasks[t.UserID] = append(f.tasks[t.UserID], t)
	return t
}

// TasksFor returns a copy of a user's tasks.
func (f *FakeService) TasksFor(userID int64) []models.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Task, len(f.tasks[userID]))
	copy(out, f.tasks[userID])
	return out
}

// Profile implements api.Service.
func (f *FakeService) Profile(ctx context.Context, token string) (models.User, error) {
	if f.ProfileErr != nil {
		return models.User{}, f.ProfileErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	user, ok := f.Profiles[token]
	if !ok {
		return models.User{}, &api.StatusError{Code: 401}
	}
	return user, nil
}

// Login implements api.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if f.LoginErr != nil {
		return models.User{}, "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	acct, ok := f.Accounts[email]
	if !ok {
		return models.User{}, "", &api.StatusError{Code: 401, Message: "Invalid Email"}
	}
	if acct.Password != password {
		return models.User{}, "", &api.StatusError{Code: 401, Message: "Wrong Password"}
	}
	return acct.User, acct.Token, nil
}

// SendOTP implements api.Service.
func (f *FakeService) SendOTP(ctx context.Context, email string) error {
	if f.SendOTPErr != nil {
		return f.SendOTPErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Registered[email] {
		return &api.StatusError{Code: 409, Message: "User already exists with this email"}
	}
	return nil
}

// VerifyOTP implements api.Service.
func (f *FakeService) VerifyOTP(ctx context.Context, user api.SignupUser, otp string) error {
	if f.VerifyOTPErr != nil {
		return f.VerifyOTPErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Registered[user.Email] {
		return &api.StatusError{Code: 409, Message: "User already exists with this email"}
	}
	if otp != f.AcceptOTP {
		return &api.StatusError{Code: 401, Message: "Invalid OTP"}
	}
	f.Registered[user.Email] = true
	return nil
}

// ListTasks implements api.Service.
func (f *FakeService) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.TasksFor(userID), nil
}

// CreateTask implements api.Service.
func (f *FakeService) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if f.CreateTaskErr != nil {
		return models.Task{}, f.CreateTaskErr
	}
	return f.AddTask(task), nil
}

// EditTask implements api.Service.
func (f *FakeService) EditTask(ctx context.Context, task models.Task) (models.Task, error) {
	if f.EditTaskErr != nil {
		return models.Task{}, f.EditTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, list := range f.tasks {
		for i, t := range list {
			if t.ID == task.ID {
				task.UserID = userID
				f.tasks[userID][i] = task
				return task, nil
			}
		}
	}
	return models.Task{}, &api.StatusError{Code: 404}
}

// SetStatus implements api.Service.
func (f *FakeService) SetStatus(ctx context.Context, taskID int64, status models.Status) (models.Task, error) {
	if f.SetStatusErr != nil {
		return models.Task{}, f.SetStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, list := range f.tasks {
		for i, t := range list {
			if t.ID == taskID {
				t.Status = status
				f.tasks[userID][i] = t
				return t, nil
			}
		}
	}
	return models.Task{}, &api.StatusError{Code: 404}
}

// DeleteTask implements api.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID int64) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, list := range f.tasks {
		for i, t := range list {
			if t.ID == taskID {
				f.tasks[userID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return &api.StatusError{Code: 404}
}
