package redis

import "time"

// Config holds connection settings for the session cache.
type Config struct {
	// URL in redis:// or rediss:// (TLS) form, database selected by path.
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required"`

	PoolSize     int `env:"REDIS_POOL_SIZE" envDefault:"10" validate:"gte=1"`
	MinIdleConns int `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2" validate:"gte=0"`

	MaxIdleTime   time.Duration `env:"REDIS_MAX_IDLE_TIME" envDefault:"10m"`
	MaxActiveTime time.Duration `env:"REDIS_MAX_ACTIVE_TIME" envDefault:"30m"`

	// Startup retries: attempt i waits i*RetryInterval before the next ping.
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`

	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
}
