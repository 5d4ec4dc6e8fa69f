package config

import (
	"log"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort     string     `env:"HTTP_PORT" envDefault:"8080"`
	DatabasePath string     `env:"DATABASE_PATH" envDefault:"database/igp_sales.db"`
	DBDebug      bool       `env:"DB_DEBUG" envDefault:"false"`
	JWTSecret    string     `env:"JWT_SECRET"`
	CORSOrigins  string     `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogJSON      bool       `env:"LOG_JSON" envDefault:"false"`
}

func Load() *Config {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[FATAL] invalid environment configuration: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}

	return cfg
}
