package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/ezexpenses/internal/database"
)

// Storage drivers selectable with STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"ezexpenses"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		Driver     string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"ezexpenses.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ezexpenses"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		File   string `envconfig:"LOG_FILE" default:"ezexpenses-tui.log"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// SQLDriver returns the database/sql driver name and DSN for the configured
// storage. It fails for the memory driver, which has no database.
func (c *Config) SQLDriver() (string, string, error) {
	switch c.Storage.Driver {
	case StoragePostgres:
		return database.DriverPostgres, c.ConnectionString(), nil
	case StorageSQLite:
		return database.DriverSQLite, c.Storage.SQLitePath, nil
	}

	return "", "", fmt.Errorf("storage driver %q has no database", c.Storage.Driver)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Driver {
	case StoragePostgres, StorageSQLite, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}
