package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int       `env:"LOG_LEVEL" envDefault:"0"`
	HTTP      HTTP      `envPrefix:"HTTP_"`
	Database  Database  `envPrefix:"DATABASE_"`
	Bootstrap Bootstrap `envPrefix:"BOOTSTRAP_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. Host, User, Password and
// Name are the four credentials handed to the connection provider; Connect
// retries up to MaxAttempts times with a fixed RetryDelaySeconds between
// attempts.
type Database struct {
	Host              string `env:"HOST" envDefault:"localhost:5432"`
	User              string `env:"USER" envDefault:"homegate"`
	Password          string `env:"PASSWORD" envDefault:"homegate"`
	Name              string `env:"NAME" envDefault:"homegate"`
	SSLMode           string `env:"SSLMODE" envDefault:"disable"`
	MaxAttempts       int    `env:"MAX_ATTEMPTS" envDefault:"12"`
	RetryDelaySeconds int    `env:"RETRY_DELAY_SECONDS" envDefault:"5"`
}

// Bootstrap controls the destructive schema reset at startup. SeedFile, if
// set, points to a JSON file with initial users and devices.
type Bootstrap struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	SeedFile string `env:"SEED_FILE"`
}

// DSN assembles the postgres connection string from the individual
// parameters.
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
