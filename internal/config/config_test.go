package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ezexpenses/internal/config"
	"github.com/MrJamesThe3rd/ezexpenses/internal/database"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	driver, dsn, err := cfg.SQLDriver()
	require.NoError(t, err)
	assert.Equal(t, database.DriverSQLite, driver)
	assert.Equal(t, "ezexpenses.db", dsn)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)

	driver, dsn, err := cfg.SQLDriver()
	require.NoError(t, err)
	assert.Equal(t, database.DriverPostgres, driver)
	assert.Equal(t, "postgres://postgres:secret@db:5432/ezexpenses?sslmode=disable", dsn)
}

func TestLoad_Memory(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, _, err = cfg.SQLDriver()
	assert.Error(t, err)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}
