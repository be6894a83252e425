package redis

import "time"

// Config describes how to reach the Redis server backing the redis storage.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" yaml:"url"`    // redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`     // connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s" yaml:"retry_interval"`    // pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s" yaml:"connect_timeout"` // overall budget for Connect
	Namespace      string        `env:"REDIS_NAMESPACE" envDefault:"trackkit:" yaml:"namespace"`       // key prefix for stored items
}
