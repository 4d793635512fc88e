package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = "../../.env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Env     string
	DB      DB
	Redis   Redis
	Server  Server
	Logger  Logger
	Auth    Auth
	Backup  Backup
	Storage string
}

type DB struct {
	DatabaseURI string `mapstructure:"database_uri"`
	Migrations  string `mapstructure:"migrations_path"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type Server struct {
	RunAddress  string   `mapstructure:"run_address"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type Logger struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret     string        `mapstructure:"jwt_secret"`
	Issuer     string        `mapstructure:"jwt_issuer"`
	Audience   string        `mapstructure:"jwt_audience"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type Backup struct {
	Retention int   `mapstructure:"backup_retention"`
	MaxBytes  int64 `mapstructure:"max_backup_bytes"`
}

func MustLoad() *Config {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load .env: %v", err)
		}
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Load читает конфигурацию из окружения через переданный экземпляр viper
func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":8080")
	v.SetDefault("backup_store", StoreMemory)
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("backup_retention", 0)
	v.SetDefault("max_backup_bytes", 32<<20)
	v.SetDefault("cors_origins", "*")

	cfg := &Config{
		Env:     v.GetString("app_env"),
		Storage: strings.ToLower(v.GetString("backup_store")),
		DB: DB{
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Server: Server{
			RunAddress:  v.GetString("run_address"),
			CORSOrigins: splitList(v.GetString("cors_origins")),
		},
		Logger: Logger{LogLevel: v.GetString("log_level")},
		Auth: Auth{
			Secret:     v.GetString("jwt_secret"),
			Issuer:     v.GetString("jwt_issuer"),
			Audience:   v.GetString("jwt_audience"),
			SessionTTL: v.GetDuration("session_ttl"),
		},
		Backup: Backup{
			Retention: v.GetInt("backup_retention"),
			MaxBytes:  v.GetInt64("max_backup_bytes"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Storage {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DB.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI is required for %s store", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown BACKUP_STORE %q", c.Storage)
	}
	if c.Backup.Retention < 0 {
		return fmt.Errorf("BACKUP_RETENTION must not be negative")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
