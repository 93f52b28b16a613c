package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port               int    `envconfig:"PORT" default:"8080"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL        string `envconfig:"DATABASE_URL" required:"true"`
	Version            string `envconfig:"VERSION" default:"dev"`
	BcryptCost         int    `envconfig:"BCRYPT_COST" default:"12"`
	SeedPath           string `envconfig:"SEED_PATH" default:""`
	SprintOverlapCheck bool   `envconfig:"SPRINT_OVERLAP_CHECK" default:"false"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
