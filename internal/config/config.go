package config

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
)

type DBConfig struct {
	Host            string `envconfig:"DB_HOST" default:"postgres"`
	Port            int    `envconfig:"DB_PORT" default:"5432"`
	User            string `envconfig:"DB_USER" default:"parkly"`
	Password        string `envconfig:"DB_PASSWORD" default:"parkly"`
	Name            string `envconfig:"DB_NAME" default:"parkly_db"`
	SSLMode         string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone        string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxOpenConns    int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifeTime int    `envconfig:"DB_CONN_MAX_LIFETIME_MIN" default:"30"` // minutes
}

// DSN renders the postgres connection URL. The password is escaped so
// punctuation in generated credentials does not break the URL.
func (c *DBConfig) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("TimeZone", c.TimeZone)
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	DB        DBConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	return &cfg, nil
}
