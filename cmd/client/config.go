package main

import "time"

type Config struct {
	ServerAddress    string        `env:"CHAT_SERVER_ADDR,default=localhost:7005"`
	HeartbeatTimeout time.Duration `env:"HEARTBEAT_TIMEOUT,default=20s"`
	LogLevel         string        `env:"LOG_LEVEL,default=WARN"`
}
