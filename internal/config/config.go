package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port          string        `env:"PORT" env-default:"8080"`
	JWTSecret     string        `env:"JWT_SECRET"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`

	StorageBackend string `env:"STORAGE_BACKEND" env-default:"file"`
	StorageKey     string `env:"STORAGE_KEY" env-default:"feedbacks"`
	DataDir        string `env:"DATA_DIR" env-default:"./data"`
	RedisURL       string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	MongoURI       string `env:"MONGODB_URI"`
	DBName         string `env:"DB_NAME" env-default:"feedback"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL"`
	NotifyEmail  string `env:"NOTIFY_EMAIL"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"console"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	// .env is optional; in production variables are set directly
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo storage backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.StorageKey == "" {
		return errors.New("STORAGE_KEY must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}
