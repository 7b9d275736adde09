// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package config

import (
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf
	Auth      AuthConfig      `json:"auth" yaml:"auth"`
	Database  DatabaseConfig  `json:"db" yaml:"db"`
	Redis     RedisConfig     `json:"redis,optional" yaml:"redis,optional"`
	Cache     CacheConfig     `json:"cache,optional" yaml:"cache,optional"`
	Events    EventsConfig    `json:"events,optional" yaml:"events,optional"`
	Routing   RoutingConfig   `json:"routing,optional" yaml:"routing,optional"`
	Storage   StorageConfig   `json:"storage,optional" yaml:"storage,optional"`
	Usage     UsageConfig     `json:"usage,optional" yaml:"usage,optional"`
	Audit     AuditConfig     `json:"audit,optional" yaml:"audit,optional"`
	Telemetry TelemetryConfig `json:"telemetry,optional" yaml:"telemetry,optional"`
	Rbac      RbacConfig      `json:"rbac,optional" yaml:"rbac,optional"`
	Seed      SeedConfig      `json:"seed,optional" yaml:"seed,optional"`
}

type AuthConfig struct {
	Secret   string `json:"secret" yaml:"secret"`
	TTLHours int    `json:"ttl_hours,optional" yaml:"ttl_hours,optional"`
}

type DatabaseConfig struct {
	DSN string `json:"dsn,optional" yaml:"dsn,optional"`
}

type RedisConfig struct {
	URL string `json:"url,optional" yaml:"url,optional"`
}

type CacheConfig struct {
	// Driver: memory (default) or redis.
	Driver     string `json:"driver,optional" yaml:"driver,optional"`
	TTLSeconds int    `json:"ttl_seconds,optional" yaml:"ttl_seconds,optional"`
}

type EventsConfig struct {
	KafkaBrokers     []string `json:"kafka_brokers,optional" yaml:"kafka_brokers,optional"`
	KafkaTopic       string   `json:"kafka_topic,optional" yaml:"kafka_topic,optional"`
	BroadcastChannel string   `json:"broadcast_channel,optional" yaml:"broadcast_channel,optional"`
}

type RoutingConfig struct {
	ThresholdsPath     string  `json:"thresholds_path,optional" yaml:"thresholds_path,optional"`
	HighPriorityAmount float64 `json:"high_priority_amount,optional" yaml:"high_priority_amount,optional"`
}

type StorageConfig struct {
	Driver    string `json:"driver,optional" yaml:"driver,optional"`
	Bucket    string `json:"bucket,optional" yaml:"bucket,optional"`
	Region    string `json:"region,optional" yaml:"region,optional"`
	Endpoint  string `json:"endpoint,optional" yaml:"endpoint,optional"`
	AccessKey string `json:"access_key,optional" yaml:"access_key,optional"`
	SecretKey string `json:"secret_key,optional" yaml:"secret_key,optional"`
	BaseDir   string `json:"base_dir,optional" yaml:"base_dir,optional"`
	PathStyle bool   `json:"path_style,optional" yaml:"path_style,optional"`
}

type UsageConfig struct {
	Type    string   `json:"type,optional" yaml:"type,optional"`
	Stream  string   `json:"stream,optional" yaml:"stream,optional"`
	Brokers []string `json:"brokers,optional" yaml:"brokers,optional"`
	Topic   string   `json:"topic,optional" yaml:"topic,optional"`
}

type AuditConfig struct {
	Path string `json:"path,optional" yaml:"path,optional"`
}

type TelemetryConfig struct {
	CollectorURL  string  `json:"collector_url,optional" yaml:"collector_url,optional"`
	SamplingRatio float64 `json:"sampling_ratio,optional" yaml:"sampling_ratio,optional"`
	Environment   string  `json:"environment,optional" yaml:"environment,optional"`
}

type RbacConfig struct {
	ModelPath  string `json:"model_path,optional" yaml:"model_path,optional"`
	PolicyPath string `json:"policy_path,optional" yaml:"policy_path,optional"`
}

type SeedConfig struct {
	UsersPath string `json:"users_path,optional" yaml:"users_path,optional"`
}
