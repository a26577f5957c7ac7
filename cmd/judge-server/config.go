package main

import (
	"fmt"
	"os"
	"time"

	"judge/pkg/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8085"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 0 // SSE responses can run far longer than a fixed write deadline
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultConfigTOML      = "config.toml"
	defaultContestsDir     = "contests"
	defaultScratchDir      = "submissions"
	defaultHelperPath      = "sandbox-init"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// SandboxConfig points at the on-disk helper binary and the scratch root
// submissions are staged under.
type SandboxConfig struct {
	HelperPath string `yaml:"helperPath"`
	ScratchDir string `yaml:"scratchDir"`
}

// DataConfig points at the judge's on-disk state: the language/resource
// config.toml and the contest document directory.
type DataConfig struct {
	ConfigPath  string `yaml:"configPath"`
	ContestsDir string `yaml:"contestsDir"`
}

// AppConfig holds judge-server configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logger  logger.Config `yaml:"logger"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Data    DataConfig    `yaml:"data"`
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
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Sandbox.HelperPath == "" {
		cfg.Sandbox.HelperPath = defaultHelperPath
	}
	if cfg.Sandbox.ScratchDir == "" {
		cfg.Sandbox.ScratchDir = defaultScratchDir
	}
	if cfg.Data.ConfigPath == "" {
		cfg.Data.ConfigPath = defaultConfigTOML
	}
	if cfg.Data.ContestsDir == "" {
		cfg.Data.ContestsDir = defaultContestsDir
	}
	return &cfg, nil
}
