package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeward-labs/homegate-server/internal/api/http/middleware"
	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// AuthService is the slice of the auth service the handlers need.
type AuthService interface {
	SignUp(ctx context.Context, fullName, username, password, location string) (bool, error)
	LogIn(ctx context.Context, username, password string) (string, error)
	LogOut(ctx context.Context, sessionID string) error
}

// Auth handles signup, login, logout and the identity endpoint.
type Auth struct {
	auth           AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(auth AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{auth: auth, contextManager: contextManager, logger: logger}
}

type signUpRequest struct {
	FullName string `json:"fullname" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type logInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullname"`
	Username string `json:"username"`
	Location string `json:"location"`
}

// SignUp registers a new user. A taken username is a 409, not a failure.
func (h *Auth) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.auth.SignUp(c.Request.Context(), req.FullName, req.Username, req.Password, req.Location)
	if err != nil {
		serviceUnavailable(c, h.logger, err)
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
		return
	}

	c.Status(http.StatusCreated)
}

// LogIn opens a session and returns its token.
func (h *Auth) LogIn(c *gin.Context) {
	var req logInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.LogIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		serviceUnavailable(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": token})
}

// LogOut deletes the presented session. Logging out twice is fine.
func (h *Auth) LogOut(c *gin.Context) {
	token := middleware.BearerToken(c.Request)

	if err := h.auth.LogOut(c.Request.Context(), token); err != nil {
		serviceUnavailable(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's public fields.
func (h *Auth) Me(c *gin.Context) {
	user, ok := h.contextManager.GetUserFromContext(c.Request.Context())
	if !ok {
		// only reachable if the route is wired without the auth middleware
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Username: user.Username,
		Location: user.Location,
	})
}
