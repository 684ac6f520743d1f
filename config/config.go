package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	BindAddress string `env:"BIND_ADDRESS"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"questlog"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"questlog123"`
	DBName     string `env:"DB_NAME" envDefault:"questlog"`
	DBPath     string `env:"DB_PATH" envDefault:"questlog.db"`

	SessionStore  string `env:"SESSION_STORE" envDefault:"redis"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SecretKey    string        `env:"SECRET_KEY" envDefault:"your-secret-key-change-in-production"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	StaticDir   string   `env:"STATIC_DIR"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// Load reads the configuration from the environment. A .env file in the
// working directory, if present, is applied first without overriding
// variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

func (c *Config) ListenAddr() string {
	return c.BindAddress + ":" + c.Port
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
