//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/homeward-labs/homegate-server/internal/config"
	"github.com/homeward-labs/homegate-server/internal/model"
	repo "github.com/homeward-labs/homegate-server/internal/repository/postgres"
	"github.com/homeward-labs/homegate-server/internal/testutil"
)

var dbCfg config.Database

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "homegate_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dbCfg = config.Database{
		Host:              host + ":" + port.Port(),
		User:              "postgres",
		Password:          "password",
		Name:              "homegate_test",
		SSLMode:           "disable",
		MaxAttempts:       12,
		RetryDelaySeconds: 1,
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func bootstrapped(t *testing.T, users []model.SeedUser, devices []model.SeedDevice) *repo.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := repo.Connect(ctx, dbCfg, testutil.MakeNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	sm := repo.NewSchemaManager(conn, testutil.MakeNoopLogger())
	require.NoError(t, sm.Bootstrap(ctx, users, devices))

	return conn
}

func TestUserRepository_RoundTripAndConflict(t *testing.T) {
	ctx := context.Background()
	conn := bootstrapped(t, nil, nil)
	ur := repo.NewUserRepository(conn)

	created, err := ur.Create(ctx, model.User{
		FullName:     "Alice Doe",
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Location:     "Rotterdam",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byUsername, err := ur.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)
	assert.Equal(t, "Alice Doe", byUsername.FullName)
	assert.Equal(t, "$2a$10$hash", byUsername.PasswordHash)
	assert.Equal(t, "Rotterdam", byUsername.Location)

	byID, err := ur.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	// second user with the same username is a soft conflict
	_, err = ur.Create(ctx, model.User{FullName: "Imposter", Username: "alice", PasswordHash: "x", Location: "y"})
	require.ErrorIs(t, err, model.ErrConflict)

	var count int
	require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE username = 'alice'").Scan(&count))
	assert.Equal(t, 1, count)

	_, err = ur.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionRepository_LifecycleAndExpiry(t *testing.T) {
	ctx := context.Background()
	conn := bootstrapped(t, nil, nil)
	ur := repo.NewUserRepository(conn)
	sr := repo.NewSessionRepository(conn)

	user, err := ur.Create(ctx, model.User{FullName: "Bob", Username: "bob", PasswordHash: "h", Location: "Delft"})
	require.NoError(t, err)

	token := uuid.NewString()
	session, err := sr.Create(ctx, user.ID, token)
	require.NoError(t, err)
	assert.Equal(t, token, session.ID)
	assert.Equal(t, user.ID, session.UserID)
	assert.WithinDuration(t, time.Now().Add(model.SessionDuration), session.ExpiresAt, time.Minute)

	resolved, err := sr.GetUserBySession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "bob", resolved.Username)

	// creating a session for a nonexistent user is a soft failure
	_, err = sr.Create(ctx, user.ID+1000, uuid.NewString())
	assert.ErrorIs(t, err, model.ErrNotFound)

	// push the expiry into the past: the joined lookup goes absent while the
	// raw row remains readable
	_, err = conn.Exec(ctx, "UPDATE sessions SET expires_at = NOW() - INTERVAL '1 minute' WHERE id = $1", token)
	require.NoError(t, err)

	_, err = sr.GetUserBySession(ctx, token)
	assert.ErrorIs(t, err, model.ErrNotFound)

	raw, err := sr.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, raw.ID)
	assert.True(t, raw.ExpiresAt.Before(time.Now()))

	// idempotent delete
	require.NoError(t, sr.Delete(ctx, token))
	require.NoError(t, sr.Delete(ctx, token))
	_, err = sr.Get(ctx, token)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	conn := bootstrapped(t, nil, nil)
	ur := repo.NewUserRepository(conn)
	sr := repo.NewSessionRepository(conn)
	dr := repo.NewDeviceRepository(conn)

	user, err := ur.Create(ctx, model.User{FullName: "Carol", Username: "carol", PasswordHash: "h", Location: "Leiden"})
	require.NoError(t, err)

	token := uuid.NewString()
	_, err = sr.Create(ctx, user.ID, token)
	require.NoError(t, err)
	_, err = dr.Create(ctx, user.ID, "Phone", "SER-1")
	require.NoError(t, err)

	// removing the user takes its sessions and devices with it
	_, err = conn.Exec(ctx, "DELETE FROM users WHERE id = $1", user.ID)
	require.NoError(t, err)

	_, err = sr.Get(ctx, token)
	assert.ErrorIs(t, err, model.ErrNotFound)

	devices, err := dr.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDeviceRepository_SerialUniqueAcrossUsers(t *testing.T) {
	ctx := context.Background()
	conn := bootstrapped(t, nil, nil)
	ur := repo.NewUserRepository(conn)
	dr := repo.NewDeviceRepository(conn)

	first, err := ur.Create(ctx, model.User{FullName: "Dave", Username: "dave", PasswordHash: "h", Location: "Utrecht"})
	require.NoError(t, err)
	second, err := ur.Create(ctx, model.User{FullName: "Erin", Username: "erin", PasswordHash: "h", Location: "Breda"})
	require.NoError(t, err)

	_, err = dr.Create(ctx, first.ID, "Phone", "SER-42")
	require.NoError(t, err)

	_, err = dr.Create(ctx, second.ID, "Tablet", "SER-42")
	require.ErrorIs(t, err, model.ErrConflict)

	var count int
	require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*) FROM devices WHERE serial = 'SER-42'").Scan(&count))
	assert.Equal(t, 1, count)

	_, err = dr.Create(ctx, second.ID+1000, "Watch", "SER-43")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBootstrap_SeedsAndSkipsUnknownOwners(t *testing.T) {
	ctx := context.Background()
	users := []model.SeedUser{
		{FullName: "Alice Doe", Username: "alice", PasswordHash: "h", Location: "Rotterdam"},
	}
	devices := []model.SeedDevice{
		{Username: "alice", Serial: "S1", Name: "Phone"},
		{Username: "bob", Serial: "S2", Name: "Tablet"}, // bob was never seeded
	}
	conn := bootstrapped(t, users, devices)

	ur := repo.NewUserRepository(conn)
	dr := repo.NewDeviceRepository(conn)

	alice, err := ur.GetByUsername(ctx, "alice")
	require.NoError(t, err)

	got, err := dr.GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].Serial)

	var total int
	require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*) FROM devices").Scan(&total))
	assert.Equal(t, 1, total)
}

func TestBootstrap_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	conn := bootstrapped(t, nil, nil)

	sm := repo.NewSchemaManager(conn, testutil.MakeNoopLogger())
	require.NoError(t, sm.Bootstrap(ctx, nil, nil))
	require.NoError(t, sm.Bootstrap(ctx, nil, nil))
}
