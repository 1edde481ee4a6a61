package model

import (
	"context"
	"time"
)

// DeviceStore defines persistence operations for devices.
type DeviceStore interface {
	Create(ctx context.Context, userID int64, name, serial string) (Device, error)
	GetByUserID(ctx context.Context, userID int64) ([]Device, error)
}

// Device is a named resource owned by exactly one user. Serial is unique
// across all users, not per owner.
type Device struct {
	ID        int64
	Name      string
	Serial    string
	UserID    int64
	CreatedAt time.Time
}
