// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	JWTSecret      string        `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type NotifyConfig struct {
	EmailGatewayURL string        `yaml:"email_gateway_url"`
	EmailAPIKey     string        `yaml:"email_api_key"`
	SMSGatewayURL   string        `yaml:"sms_gateway_url"`
	SMSAPIKey       string        `yaml:"sms_api_key"`
	FromAddress     string        `yaml:"from_address"`
	Workers         int           `yaml:"workers"`
	DedupWindow     time.Duration `yaml:"dedup_window"`
}

type SchedConfig struct {
	RebroadcastInterval time.Duration `yaml:"rebroadcast_interval"`
	RebroadcastAfter    time.Duration `yaml:"rebroadcast_after"`
	ExpiryInterval      time.Duration `yaml:"expiry_interval"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Notify   NotifyConfig   `yaml:"notify"`
	Sched    SchedConfig    `yaml:"sched"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Notify.Workers <= 0 {
		cfg.Notify.Workers = 8
	}
	if cfg.Notify.DedupWindow <= 0 {
		cfg.Notify.DedupWindow = 5 * time.Minute
	}
	if cfg.Sched.RebroadcastInterval <= 0 {
		cfg.Sched.RebroadcastInterval = 10 * time.Minute
	}
	if cfg.Sched.RebroadcastAfter <= 0 {
		cfg.Sched.RebroadcastAfter = 30 * time.Minute
	}
	if cfg.Sched.ExpiryInterval <= 0 {
		cfg.Sched.ExpiryInterval = 5 * time.Minute
	}
	return &cfg, nil
}
