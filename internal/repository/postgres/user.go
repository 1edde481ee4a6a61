package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/homeward-labs/homegate-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create inserts a new user. Uniqueness is enforced by the store, not
// pre-checked here: a taken username surfaces as model.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	const query = `
        INSERT INTO users (fullname, username, password, location)
        VALUES ($1, $2, $3, $4)
        RETURNING id, fullname, username, password, location, created_at
    `

	var savedUser model.User
	err := r.db.QueryRow(ctx, query,
		user.FullName, user.Username, user.PasswordHash, user.Location,
	).Scan(
		&savedUser.ID, &savedUser.FullName, &savedUser.Username,
		&savedUser.PasswordHash, &savedUser.Location, &savedUser.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	const query = `
        SELECT id, fullname, username, password, location, created_at
        FROM users WHERE username = $1
    `

	var user model.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.FullName, &user.Username,
		&user.PasswordHash, &user.Location, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	const query = `
        SELECT id, fullname, username, password, location, created_at
        FROM users WHERE id = $1
    `

	var user model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FullName, &user.Username,
		&user.PasswordHash, &user.Location, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}
