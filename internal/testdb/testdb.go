// AngelaMos | 2026
// testdb.go

//go:build integration

// Package testdb starts a throwaway Postgres with the application schema for
// repository integration tests.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/liftlog/liftlog-api/internal/config"
	"github.com/liftlog/liftlog-api/internal/core"
)

const image = "postgres:16-alpine"

func New(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx, image,
		postgres.WithDatabase("liftlog"),
		postgres.WithUsername("liftlog"),
		postgres.WithPassword("liftlog"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	url, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, core.Migrate(ctx, db.DB))

	return db.DB
}

// InsertUser creates a bare user row and returns its ID.
func InsertUser(t *testing.T, db *sqlx.DB) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, 'x', $3)`,
		id, gofakeit.Email(), gofakeit.Name(),
	)
	require.NoError(t, err)
	return id
}
