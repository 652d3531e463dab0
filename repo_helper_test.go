package warble_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/warblehq/warble"
)

// setupDB opens a fresh in-memory database with the feed schema. A single
// connection keeps every query on the same memory store.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*warble.User)(nil),
		(*warble.Tweet)(nil),
		(*warble.Follow)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func seedAccount(t *testing.T, repo warble.Users, email, firstName string) *warble.User {
	t.Helper()

	account, err := repo.GetOrCreate(context.Background(), &warble.User{
		Email:     email,
		FirstName: firstName,
	})
	require.NoError(t, err)
	return account
}
