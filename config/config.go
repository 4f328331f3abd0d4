package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	DB     DBConfig     `koanf:"db"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	Port           int           `koanf:"port" validate:"min=1,max=65535"`
	CORSOrigins    []string      `koanf:"cors_origins"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"min=0"`
}

type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret" validate:"required"`
	TokenTTL   time.Duration `koanf:"token_ttl" validate:"gt=0"`
	BcryptCost int           `koanf:"bcrypt_cost" validate:"min=4,max=31"`
}

type DBConfig struct {
	Driver       string `koanf:"driver" validate:"oneof=postgres mysql sqlite"`
	DSN          string `koanf:"dsn"`
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Pass         string `koanf:"pass"`
	Name         string `koanf:"name"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"min=0"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
	File  string `koanf:"file"`
}

// Default mirrors the settings the service historically shipped with.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8000,
			CORSOrigins:    []string{"*"},
			RequestTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:  "change-this-in-prod",
			TokenTTL:   12 * time.Hour,
			BcryptCost: 10,
		},
		DB: DBConfig{
			Driver:       DriverMySQL,
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			Pass:         "changeme",
			Name:         "taskdb",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			AutoMigrate:  true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// envToPath binds the plain variable names used by existing deployments.
var envToPath = map[string]string{
	"PORT":              "server.port",
	"CORS_ORIGINS":      "server.cors_origins",
	"REQUEST_TIMEOUT":   "server.request_timeout",
	"JWT_SECRET":        "auth.jwt_secret",
	"TOKEN_TTL":         "auth.token_ttl",
	"BCRYPT_COST":       "auth.bcrypt_cost",
	"DB_DRIVER":         "db.driver",
	"DB_DSN":            "db.dsn",
	"DB_HOST":           "db.host",
	"DB_PORT":           "db.port",
	"DB_USER":           "db.user",
	"DB_PASS":           "db.pass",
	"DB_NAME":           "db.name",
	"DB_MAX_OPEN_CONNS": "db.max_open_conns",
	"DB_MAX_IDLE_CONNS": "db.max_idle_conns",
	"DB_AUTO_MIGRATE":   "db.auto_migrate",
	"LOG_LEVEL":         "log.level",
	"LOG_JSON":          "log.json",
	"LOG_FILE":          "log.file",
}

// Load reads defaults, then envFile (if present), then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: "",
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envToPath[key]
			if !ok {
				return "", nil
			}
			if path == "server.cors_origins" {
				return path, splitList(value)
			}
			return path, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DB.Driver == DriverSQLite && cfg.DB.DSN == "" && cfg.DB.Name == "" {
		return errors.New("invalid configuration: sqlite requires db.dsn or db.name")
	}
	return nil
}

// DataSourceName returns the driver-specific connection string.
func (c DBConfig) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Pass),
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case DriverSQLite:
		return "file:" + c.Name + "?_pragma=busy_timeout(5000)&_time_format=sqlite"
	default:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Pass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
