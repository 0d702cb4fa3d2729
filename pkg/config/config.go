// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App is the root application configuration.
type App struct {
	Env    string `envconfig:"ENV" default:"development"`
	Server Server
	Jwt    Jwt
}

// Server holds the HTTP listener settings.
type Server struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"3000"`
}

// Jwt holds the token-signing settings for the web API.
type Jwt struct {
	Secret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
}

// Load reads configuration from the environment. Each given path is tried as
// a .env file; a missing file is not an error, the environment still wins.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			logger.Debug("env file not loaded", "path", path, "error", err)
			continue
		}
		logger.Info("environment loaded from file", "path", path)
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("app config loaded",
		"env", cfg.Env,
		"server_host", cfg.Server.Host,
		"server_port", cfg.Server.Port,
		"jwt_expiry", cfg.Jwt.Expiry,
	)
	return &cfg, nil
}
