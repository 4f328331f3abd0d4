package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should apply defaults when nothing is set", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
		assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, "change-this-in-prod", cfg.Auth.JWTSecret)
		assert.Equal(t, DriverMySQL, cfg.DB.Driver)
		assert.True(t, cfg.DB.AutoMigrate)
	})

	t.Run("Should read plain environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("TOKEN_TTL", "30m")
		t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_AUTO_MIGRATE", "false")
		t.Setenv("LOG_JSON", "true")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
		assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
		assert.Equal(t, DriverPostgres, cfg.DB.Driver)
		assert.Equal(t, 5432, cfg.DB.Port)
		assert.False(t, cfg.DB.AutoMigrate)
		assert.True(t, cfg.Log.JSON)
	})

	t.Run("Should load a .env file without overriding the environment", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("DB_NAME=fromfile\nDB_USER=fileuser\n"), 0o600))
		t.Setenv("DB_USER", "envuser")
		// godotenv sets variables for the whole process; clear them afterwards.
		t.Cleanup(func() { os.Unsetenv("DB_NAME") })

		cfg, err := Load(envFile)
		require.NoError(t, err)
		assert.Equal(t, "fromfile", cfg.DB.Name)
		assert.Equal(t, "envuser", cfg.DB.User)
	})

	t.Run("Should ignore a missing .env file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
		assert.NoError(t, err)
	})

	t.Run("Should reject an unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("Should reject an empty secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load("")
		assert.ErrorContains(t, err, "JWTSecret")
	})
}

func TestValidate(t *testing.T) {
	t.Run("Should require a sqlite file name", func(t *testing.T) {
		cfg := Default()
		cfg.DB.Driver = DriverSQLite
		cfg.DB.Name = ""
		assert.ErrorContains(t, Validate(&cfg), "sqlite requires")
	})

	t.Run("Should reject a bcrypt cost out of range", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.BcryptCost = 2
		assert.Error(t, Validate(&cfg))
	})
}

func TestDBConfig_DataSourceName(t *testing.T) {
	t.Run("Should prefer an explicit dsn", func(t *testing.T) {
		c := DBConfig{Driver: DriverPostgres, DSN: "postgres://x"}
		assert.Equal(t, "postgres://x", c.DataSourceName())
	})

	t.Run("Should build a postgres url", func(t *testing.T) {
		c := DBConfig{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Pass: "p@ss", Name: "tasks"}
		assert.Equal(t, "postgres://u:p%40ss@db:5432/tasks?sslmode=disable", c.DataSourceName())
	})

	t.Run("Should build a mysql dsn with parseTime", func(t *testing.T) {
		c := DBConfig{Driver: DriverMySQL, Host: "127.0.0.1", Port: 3306, User: "root", Pass: "changeme", Name: "taskdb"}
		dsn := c.DataSourceName()
		assert.True(t, strings.HasPrefix(dsn, "root:changeme@tcp(127.0.0.1:3306)/taskdb?"), dsn)
		assert.Contains(t, dsn, "parseTime=true")
	})

	t.Run("Should build a sqlite file uri", func(t *testing.T) {
		c := DBConfig{Driver: DriverSQLite, Name: "/tmp/t.db"}
		assert.True(t, strings.HasPrefix(c.DataSourceName(), "file:/tmp/t.db?"))
	})
}
