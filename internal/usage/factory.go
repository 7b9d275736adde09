package usage

import (
	"fmt"
	"log/slog"
	"strings"
)

type Config struct {
	Type     string   `mapstructure:"type"` // redis|kafka|noop
	RedisURL string   `mapstructure:"redis-url"`
	Stream   string   `mapstructure:"stream"`
	MaxLen   int64    `mapstructure:"max-len"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
}

// New builds the configured queue; an empty type means noop.
func New(c Config) (Queue, error) {
	switch strings.ToLower(c.Type) {
	case "", "noop":
		return NewNoop(), nil
	case "redis":
		url := c.RedisURL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		q, err := NewRedis(url, c.Stream, c.MaxLen)
		if err != nil {
			return nil, err
		}
		slog.Info("usage queue enabled", "type", "redis", "stream", c.Stream)
		return q, nil
	case "kafka":
		slog.Info("usage queue enabled", "type", "kafka", "topic", c.Topic)
		return NewKafka(c.Brokers, c.Topic), nil
	default:
		return nil, fmt.Errorf("unknown usage queue type %q", c.Type)
	}
}
