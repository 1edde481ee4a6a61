package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// SessionResolver maps bearer tokens to the owning user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (model.SessionUser, error)
}

// Authenticate validates bearer tokens and injects the session user into the
// request context. Missing, unknown and expired sessions are all rejected
// with the same status so callers cannot tell them apart.
type Authenticate struct {
	resolver       SessionResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(resolver SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{resolver: resolver, contextManager: contextManager, logger: logger}
}

// BearerToken extracts the bearer token from the Authorization header, or ""
// when absent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Handle is the gin middleware entry point.
func (m *Authenticate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		user, err := m.resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
				return
			}
			m.logger.Error("auth middleware: failed to resolve session",
				"error", err.Error())
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
			return
		}

		c.Request = c.Request.WithContext(m.contextManager.SetUserToContext(c.Request.Context(), user))
		c.Next()
	}
}
