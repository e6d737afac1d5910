package config

import "time"

// Realtime definition realtime_service YAML structure
type Realtime struct {
	Port       string        `mapstructure:"port"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// Outbound queue size of one live connection. A full queue means the
	// push is dropped, delivery is at-most-once.
	SendBuffer int `mapstructure:"send_buffer"`

	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
