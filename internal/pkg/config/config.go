package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Gateway GatewayConfig
	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// GatewayConfig identifies the credential gateway deployment, so the same
// core can target different identity projects (test vs production) without
// code changes.
type GatewayConfig struct {
	ProjectID      string        `env:"GATEWAY_PROJECT_ID,      default=dearecho-dev"`
	InstallationID string        `env:"GATEWAY_INSTALLATION_ID, default=local"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionTTL     time.Duration `env:"SESSION_TTL,             default=720h"`
	ProviderName   string        `env:"FEDERATED_PROVIDER,          default=google"`
	ProviderIssuer string        `env:"FEDERATED_PROVIDER_ISSUER,   default=https://accounts.google.com"`
	ProviderAud    string        `env:"FEDERATED_PROVIDER_AUDIENCE, default=dearecho"`
	ProviderSecret string        `env:"FEDERATED_PROVIDER_SECRET"`
}

type AuthConfig struct {
	// StrictLoginPolicy applies the full five-predicate password policy at
	// login instead of only requiring a non-empty password.
	StrictLoginPolicy bool  `env:"AUTH_STRICT_LOGIN_POLICY, default=false"`
	MaxLoginAttempts  int64 `env:"AUTH_MAX_LOGIN_ATTEMPTS,  default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dearecho"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
