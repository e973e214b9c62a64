// Package server is a self-contained ZenTask backend for local development
// and end-to-end testing of the client. It speaks the same wire protocol as
// the production API: OTP signup, token login, and per-user task CRUD.
package server

import "time"

// Account is a registered user with a bcrypt password hash.
type Account struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// TaskRecord is a stored task. DueDate keeps the wire's date-only string
// form; an empty string means no due date.
type TaskRecord struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	DueDate     string
	Status      string `gorm:"not null;default:pending"`
	UserID      int64  `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OTP is a pending signup code for an email address.
type OTP struct {
	Email     string `gorm:"primaryKey"`
	Code      string `gorm:"not null"`
	ExpiresAt time.Time
}

// AuthToken is an issued bearer token.
type AuthToken struct {
	Value     string `gorm:"primaryKey"`
	UserID    int64  `gorm:"index;not null"`
	ExpiresAt time.Time
}
