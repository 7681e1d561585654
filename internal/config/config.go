package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the service, loaded from the
// environment (optionally seeded from a .env file).
type Config struct {
	Service  string
	HTTP     HTTPConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Admin    AdminConfig
}

type HTTPConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.VHost)
}

type RedisConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
}

// AdminConfig seeds the first administrator account when the staff table is
// empty. Ignored once any staff exist.
type AdminConfig struct {
	Username string
	Password string
}

// Load reads the environment. A missing .env is fine; a missing JWT secret
// is not, since every gated endpoint depends on it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Service: getenv("SERVICE_NAME", "restaurant-pos"),
		HTTP: HTTPConfig{
			Port: getint("HTTP_PORT", 5000),
		},
		Database: DatabaseConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getint("DB_PORT", 5432),
			User:     getenv("DB_USER", "pos"),
			Password: getenv("DB_PASSWORD", "pos"),
			Database: getenv("DB_NAME", "restaurant"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getenv("RABBITMQ_HOST", "localhost"),
			Port:     getint("RABBITMQ_PORT", 5672),
			User:     getenv("RABBITMQ_USER", "guest"),
			Password: getenv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getenv("RABBITMQ_VHOST", ""),
		},
		Redis: RedisConfig{
			Addr: getenv("REDIS_ADDR", "localhost:6379"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getint("TOKEN_TTL_HOURS", 12),
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
