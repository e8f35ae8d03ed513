package main

import (
	"fmt"
	"os"
	"time"

	"codearena/internal/common/cache"
	"codearena/internal/judge/executor"
	"codearena/internal/judge/ratelimit"
	"codearena/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8085"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultVerdictTTL      = 24 * time.Hour
	defaultBackendTimeout  = 30 * time.Second
	defaultPistonURL       = "https://emkc.org/api/v2/piston"
	defaultJudge0URL       = "https://judge0-ce.p.rapidapi.com"
	defaultJudge0Host      = "judge0-ce.p.rapidapi.com"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// BackendsConfig holds execution backend settings in priority order:
// piston is probed first, judge0 is the fallback.
type BackendsConfig struct {
	Piston executor.PistonConfig `yaml:"piston"`
	Judge0 executor.Judge0Config `yaml:"judge0"`
}

// LimiterConfig holds submission rate-limit settings.
type LimiterConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	Window      time.Duration `yaml:"window"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

func (c LimiterConfig) toOptions() ratelimit.Options {
	return ratelimit.Options{
		MaxAttempts: c.MaxAttempts,
		Window:      c.Window,
		Cooldown:    c.Cooldown,
	}
}

// VerdictConfig holds verdict persistence settings.
type VerdictConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// AppConfig holds judge-service config.
type AppConfig struct {
	Server   ServerConfig      `yaml:"server"`
	Logger   logger.Config     `yaml:"logger"`
	Redis    cache.RedisConfig `yaml:"redis"`
	Backends BackendsConfig    `yaml:"backends"`
	Limiter  LimiterConfig     `yaml:"limiter"`
	Verdict  VerdictConfig     `yaml:"verdict"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Backends.Piston.BaseURL == "" {
		cfg.Backends.Piston.BaseURL = defaultPistonURL
	}
	if cfg.Backends.Piston.Timeout == 0 {
		cfg.Backends.Piston.Timeout = defaultBackendTimeout
	}
	if cfg.Backends.Judge0.BaseURL == "" {
		cfg.Backends.Judge0.BaseURL = defaultJudge0URL
	}
	if cfg.Backends.Judge0.APIHost == "" {
		cfg.Backends.Judge0.APIHost = defaultJudge0Host
	}
	if cfg.Backends.Judge0.Timeout == 0 {
		cfg.Backends.Judge0.Timeout = defaultBackendTimeout
	}
	if cfg.Verdict.TTL == 0 {
		cfg.Verdict.TTL = defaultVerdictTTL
	}
	return &cfg, nil
}
