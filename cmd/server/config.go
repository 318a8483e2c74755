package main

import "time"

type Config struct {
	Host            string        `env:"HOST,default="`
	Port            int           `env:"PORT,default=7005"`
	HeartbeatPeriod time.Duration `env:"HEARTBEAT_PERIOD,default=10s"`
	ShutdownGrace   time.Duration `env:"SHUTDOWN_GRACE,default=1s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
}
