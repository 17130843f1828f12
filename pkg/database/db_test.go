package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDialector(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		d, err := buildDialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := buildDialector("oracle", "dsn")
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "oracle"`)
}

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, sqlDB.Close())
}

func TestPingWithoutConnection(t *testing.T) {
	prev := DB
	DB = nil
	t.Cleanup(func() { DB = prev })

	assert.Error(t, Ping(context.Background()))
	assert.NoError(t, Close())
}
