package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

var _ model.SchemaManager = (*SchemaManager)(nil)

// SchemaManager drops and recreates the schema at startup and optionally
// seeds initial rows. It is destructive: existing data does not survive a
// bootstrap. Not on the per-request path.
type SchemaManager struct {
	db     *Connection
	logger *logger.Logger
}

func NewSchemaManager(db *Connection, logger *logger.Logger) *SchemaManager {
	return &SchemaManager{db: db, logger: logger}
}

// Tables are dropped child-to-parent and created parent-to-child so the
// foreign keys hold at every step.
var dropOrder = []string{"sessions", "devices", "users"}

var createStatements = []struct {
	table string
	query string
}{
	{
		table: "users",
		query: `CREATE TABLE users (
			id BIGSERIAL PRIMARY KEY,
			fullname TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			location TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		table: "sessions",
		query: `CREATE TABLE sessions (
			id VARCHAR(36) PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		table: "devices",
		query: `CREATE TABLE devices (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			serial TEXT NOT NULL UNIQUE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
}

// Bootstrap resets the schema and seeds the given rows. Each phase runs in
// its own transaction; a failure in any phase aborts the whole bootstrap
// with a *model.SchemaError naming the phase.
func (m *SchemaManager) Bootstrap(ctx context.Context, users []model.SeedUser, devices []model.SeedDevice) error {
	if err := m.dropTables(ctx); err != nil {
		return &model.SchemaError{Phase: "drop", Err: err}
	}

	if err := m.createTables(ctx); err != nil {
		return &model.SchemaError{Phase: "create", Err: err}
	}

	if len(users) > 0 {
		if err := m.seedUsers(ctx, users); err != nil {
			return &model.SchemaError{Phase: "seed users", Err: err}
		}
	}

	if len(devices) > 0 {
		if err := m.seedDevices(ctx, devices); err != nil {
			return &model.SchemaError{Phase: "seed devices", Err: err}
		}
	}

	m.logger.Info("schema bootstrap complete",
		"seed_users", len(users),
		"seed_devices", len(devices))

	return nil
}

func (m *SchemaManager) dropTables(ctx context.Context) error {
	return m.inTransaction(ctx, func(tx pgx.Tx) error {
		for _, table := range dropOrder {
			m.logger.Debug("dropping table", "table", table)
			if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (m *SchemaManager) createTables(ctx context.Context) error {
	return m.inTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range createStatements {
			m.logger.Debug("creating table", "table", stmt.table)
			if _, err := tx.Exec(ctx, stmt.query); err != nil {
				return fmt.Errorf("failed to create table %s: %w", stmt.table, err)
			}
		}
		return nil
	})
}

// seedUsers upserts by username with a first-write-wins policy: a username
// already present keeps its existing row.
func (m *SchemaManager) seedUsers(ctx context.Context, users []model.SeedUser) error {
	const query = `
        INSERT INTO users (fullname, username, password, location)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (username) DO NOTHING
    `

	return m.inTransaction(ctx, func(tx pgx.Tx) error {
		var inserted int64
		for _, u := range users {
			tag, err := tx.Exec(ctx, query, u.FullName, u.Username, u.PasswordHash, u.Location)
			if err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
			inserted += tag.RowsAffected()
		}
		m.logger.Info("seeded initial users", "requested", len(users), "inserted", inserted)
		return nil
	})
}

// seedDevices resolves each device's owner by username against the just
// seeded user set. A device whose owner is unknown is skipped with a
// warning; everything else upserts by serial, first write wins.
func (m *SchemaManager) seedDevices(ctx context.Context, devices []model.SeedDevice) error {
	const query = `
        INSERT INTO devices (name, serial, user_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (serial) DO NOTHING
    `

	return m.inTransaction(ctx, func(tx pgx.Tx) error {
		userIDs, err := m.userIDsByUsername(ctx, tx)
		if err != nil {
			return err
		}

		var inserted int64
		for _, d := range devices {
			userID, ok := userIDs[d.Username]
			if !ok {
				m.logger.Warn("skipping seed device, owner not found",
					"device", d.Name,
					"serial", d.Serial,
					"username", d.Username)
				continue
			}

			tag, err := tx.Exec(ctx, query, d.Name, d.Serial, userID)
			if err != nil {
				return fmt.Errorf("failed to seed device %s: %w", d.Serial, err)
			}
			inserted += tag.RowsAffected()
		}
		m.logger.Info("seeded initial devices", "requested", len(devices), "inserted", inserted)
		return nil
	})
}

func (m *SchemaManager) userIDsByUsername(ctx context.Context, tx pgx.Tx) (map[string]int64, error) {
	rows, err := tx.Query(ctx, "SELECT id, username FROM users")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var (
			id       int64
			username string
		)
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		ids[username] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return ids, nil
}

func (m *SchemaManager) inTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
