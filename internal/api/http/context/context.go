package context

import (
	"context"

	"github.com/homeward-labs/homegate-server/internal/model"
)

type contextKey int

const userKey contextKey = iota

// Manager moves the authenticated user through the request context. It
// implements model.ContextManager for the HTTP layer.
type Manager struct{}

// NewManager creates a new request context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a context carrying the authenticated user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user set by the auth
// middleware. The boolean reports whether a user was present.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.SessionUser, bool) {
	user, ok := ctx.Value(userKey).(model.SessionUser)
	return user, ok
}
