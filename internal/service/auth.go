package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// Auth implements signup, login and session resolution on top of the user
// and session stores.
type Auth struct {
	userStore    model.UserStore
	sessionStore model.SessionStore
	logger       *logger.Logger
}

func NewAuth(userStore model.UserStore, sessionStore model.SessionStore, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:    userStore,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// HashPassword derives a salted one-way hash for storage. Presented secrets
// are only ever compared against the hash, never stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// SignUp creates a new user. A taken username is an expected condition and
// reports as false rather than an error; anything else is infrastructure
// failure and propagates.
func (a *Auth) SignUp(ctx context.Context, fullName, username, password, location string) (bool, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	_, err = a.userStore.Create(ctx, model.User{
		FullName:     fullName,
		Username:     username,
		PasswordHash: hash,
		Location:     location,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			a.logger.Info("Auth service: username already taken",
				"username", username)
			return false, nil
		}
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username)

	return true, nil
}

// LogIn verifies the presented secret and opens a session, returning its
// token. An unknown username and a wrong password both come back as
// model.ErrInvalidCredentials so callers cannot probe which usernames exist.
func (a *Auth) LogIn(ctx context.Context, username, password string) (string, error) {
	user, err := a.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Debug("Auth service: password mismatch",
			"username", username)
		return "", model.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	session, err := a.sessionStore.Create(ctx, user.ID, sessionID)
	if err != nil {
		a.logger.Error("Auth service: failed to create session",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"username", username,
		"expires_at", session.ExpiresAt)

	return session.ID, nil
}

// LogOut deletes the session. Logging out an already absent session succeeds.
func (a *Auth) LogOut(ctx context.Context, sessionID string) error {
	if err := a.sessionStore.Delete(ctx, sessionID); err != nil {
		a.logger.Error("Auth service: failed to delete session",
			"error", err.Error())
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// ResolveSession maps a bearer token to its owning user. Missing and expired
// sessions are both model.ErrNotFound.
func (a *Auth) ResolveSession(ctx context.Context, sessionID string) (model.SessionUser, error) {
	user, err := a.sessionStore.GetUserBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.SessionUser{}, model.ErrNotFound
		}
		a.logger.Error("Auth service: failed to resolve session",
			"error", err.Error())
		return model.SessionUser{}, fmt.Errorf("failed to resolve session: %w", err)
	}

	return user, nil
}
