package config

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the process needs, read from the environment
// (a local .env file is loaded by main before this runs).
type Config struct {
	Env            string   `env:"APP_ENV" env-default:"local"` // local | dev | prod
	Port           string   `env:"PORT" env-default:"5000"`
	MongoURI       string   `env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	DBName         string   `env:"MONGODB_DB" env-default:"storefront"`
	JWTSecret      string   `env:"JWT_SECRET" env-required:"true"`
	SellerEmail    string   `env:"SELLER_EMAIL" env-required:"true"`
	SellerPassword string   `env:"SELLER_PASSWORD" env-required:"true"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	SendGridKey    string   `env:"SENDGRID_API_KEY"`
	EmailSender    string   `env:"EMAIL_SENDER"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load but fatal on error, for use at process start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
