package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_HEARTBEAT_PERIOD scales the relay heartbeat down so the suite
	// observes several beats without waiting for the production 10s
	HeartbeatPeriod time.Duration `envconfig:"E2E_HEARTBEAT_PERIOD" default:"100ms"`
	WaitTimeout     time.Duration `envconfig:"E2E_WAIT_TIMEOUT" default:"2s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
