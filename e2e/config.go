package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	SpacePollInterval   time.Duration `envconfig:"E2E_SPACE_POLL_INTERVAL" default:"80ms"`
	MessagePollInterval time.Duration `envconfig:"E2E_MESSAGE_POLL_INTERVAL" default:"30ms"`
	ConvergeTimeout     time.Duration `envconfig:"E2E_CONVERGE_TIMEOUT" default:"5s"`
	WriteRetries        int           `envconfig:"E2E_WRITE_RETRIES" default:"3"`
	TokenLifetime       time.Duration `envconfig:"E2E_TOKEN_LIFETIME" default:"1h"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
