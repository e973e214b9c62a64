// Package api defines the backend-agnostic interface to the ZenTask REST
// API and its HTTP implementation. Views never build requests directly.
package api

import (
	"context"

	"zentask/internal/models"
)

// SignupUser is the account payload carried through the OTP signup flow.
// The backend expects "username" rather than "name" here.
type SignupUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service is the set of backend operations the client depends on.
type Service interface {
	// Profile resolves the user behind a bearer token.
	Profile(ctx context.Context, token string) (models.User, error)

	// Login exchanges credentials for the user and a bearer token.
	Login(ctx context.Context, email, password string) (models.User, string, error)

	// SendOTP triggers the verification email for a signup.
	// Returns ErrConflict if the email is already registered.
	SendOTP(ctx context.Context, email string) error

	// VerifyOTP finalizes a signup with the emailed code.
	// Returns ErrUnauthorized on a wrong code and ErrConflict if the
	// account was created in the meantime.
	VerifyOTP(ctx context.Context, user SignupUser, otp string) error

	// ListTasks returns every task owned by the user.
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)

	// CreateTask creates a task and returns the server's representation,
	// id assigned.
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)

	// EditTask replaces a task's editable fields and returns the updated
	// representation.
	EditTask(ctx context.Context, task models.Task) (models.Task, error)

	// SetStatus updates only the status and returns the updated task.
	SetStatus(ctx context.Context, taskID int64, status models.Status) (models.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, taskID int64) error
}
