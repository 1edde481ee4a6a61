package model

import (
	"context"
	"time"
)

// SessionDuration is the validity window of a session from its creation.
const SessionDuration = time.Minute * 30

// SessionStore persists login sessions.
type SessionStore interface {
	Create(ctx context.Context, userID int64, sessionID string) (Session, error)
	Get(ctx context.Context, sessionID string) (Session, error)
	GetUserBySession(ctx context.Context, sessionID string) (SessionUser, error)
	Delete(ctx context.Context, sessionID string) error
}

// Session is a time-bounded proof of a prior login, referenced by an opaque
// caller-supplied token. Expiry is evaluated lazily at read time; there is no
// background sweep of expired rows.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionUser is the owning user of a live session, restricted to public
// fields. The credential hash never travels through this type.
type SessionUser struct {
	ID       int64
	FullName string
	Username string
	Location string
}
