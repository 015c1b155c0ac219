package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, secrets)
// - default: Values common across all environments (timeouts, bases)
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Ticket TicketConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type DBConfig struct {
	// The service runs on the in-memory store unless a Postgres DSN is
	// explicitly enabled; the admin dashboard deployment enables it.
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"tradeblox"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"tradeblox"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
	// Enables POST /api/auth/token for local development; never in production.
	DevTokenEndpoint bool `envconfig:"JWT_DEV_TOKEN_ENDPOINT" default:"false"`
}

type TicketConfig struct {
	// First ticket number handed out by a fresh store.
	NumberBase int64 `envconfig:"TICKET_NUMBER_BASE" default:"40000"`
	// How long a counterparty confirmation cycle stays open.
	ConfirmWindow   time.Duration `envconfig:"TICKET_CONFIRM_WINDOW" default:"5m"`
	DefaultCategory string        `envconfig:"TICKET_DEFAULT_CATEGORY" default:"middleman"`
	ListLimit       int           `envconfig:"TICKET_LIST_LIMIT" default:"50"`
	// Platform user IDs allowed to claim/close tickets. Empty means the
	// role check is delegated entirely to the front end (open mode).
	StaffIDs []string `envconfig:"TICKET_STAFF_IDS"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:           "test-secret",
			Duration:         time.Hour,
			DevTokenEndpoint: true,
		},
		Ticket: TicketConfig{
			NumberBase:      40000,
			ConfirmWindow:   5 * time.Minute,
			DefaultCategory: "middleman",
			ListLimit:       50,
		},
	}
}
