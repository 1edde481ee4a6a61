package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/homeward-labs/homegate-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

// SessionRepository persists sessions. The current time is read through the
// now field so expiry boundaries are deterministic under test.
type SessionRepository struct {
	db  *Connection
	now func() time.Time
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db:  db,
		now: time.Now,
	}
}

// Create inserts a session expiring model.SessionDuration from now. The
// session id is supplied by the caller and assumed pre-generated and
// unguessable; this layer does not validate token entropy. A session for a
// nonexistent user surfaces as model.ErrNotFound, a reused id as
// model.ErrConflict.
func (r *SessionRepository) Create(ctx context.Context, userID int64, sessionID string) (model.Session, error) {
	const query = `
        INSERT INTO sessions (id, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, expires_at, created_at
    `

	expiresAt := r.now().UTC().Add(model.SessionDuration)

	var session model.Session
	err := r.db.QueryRow(ctx, query, sessionID, userID, expiresAt).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Session{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.Session{}, model.ErrConflict
		}
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Get returns the raw session row without filtering on expiry. Callers that
// need "is this session currently valid" use GetUserBySession instead.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (model.Session, error) {
	const query = `
        SELECT id, user_id, expires_at, created_at
        FROM sessions WHERE id = $1
    `

	var session model.Session
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// GetUserBySession resolves a bearer token to its owning user, returning
// public fields only. A missing session and an expired one are both
// model.ErrNotFound; callers cannot tell which occurred.
func (r *SessionRepository) GetUserBySession(ctx context.Context, sessionID string) (model.SessionUser, error) {
	const query = `
        SELECT u.id, u.fullname, u.username, u.location
        FROM users u
        JOIN sessions s ON u.id = s.user_id
        WHERE s.id = $1 AND s.expires_at > $2
    `

	var user model.SessionUser
	err := r.db.QueryRow(ctx, query, sessionID, r.now().UTC()).Scan(
		&user.ID, &user.FullName, &user.Username, &user.Location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionUser{}, model.ErrNotFound
		}
		return model.SessionUser{}, fmt.Errorf("failed to get user by session: %w", err)
	}

	return user, nil
}

// Delete removes a session by id. Deleting an absent id is not an error, so
// logout is idempotent.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
