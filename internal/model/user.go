package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
}

// User represents a stored user. PasswordHash holds a salted one-way hash,
// never the presented secret itself.
type User struct {
	ID           int64
	FullName     string
	Username     string
	PasswordHash string
	Location     string
	CreatedAt    time.Time
}
