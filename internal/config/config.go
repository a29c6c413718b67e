package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

type Config struct {
	TimeoutMs   int `yaml:"timeout_ms"`
	Concurrency int `yaml:"concurrency"`
	StartPort   int `yaml:"start_port"`
	EndPort     int `yaml:"end_port"`

	// port -> label, merged over the built-in service table
	Services map[uint16]string `yaml:"services"`

	Output     string `yaml:"output"`
	Sorted     bool   `yaml:"sorted"`
	ShowClosed bool   `yaml:"show_closed"`
	NoProgress bool   `yaml:"no_progress"`
	LogLevel   string `yaml:"log_level"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Zero values get defaults; negative numbers are left for validation to reject.
func (c *Config) applyDefaults() {
	if c.TimeoutMs == 0 {
		c.TimeoutMs = 500
	}
	if c.Concurrency == 0 {
		c.Concurrency = 500
	}
	if c.StartPort == 0 {
		c.StartPort = 1
	}
	if c.EndPort == 0 {
		c.EndPort = 1024
	}
	if c.Output == "" {
		c.Output = OutputText
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
