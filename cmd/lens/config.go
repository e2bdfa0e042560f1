package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/lens/config.yaml). Flags
// set on the command line win over file values.
type Config struct {
	Model  string `yaml:"model"`
	Engine string `yaml:"engine"`

	ServerAddress string `yaml:"server_address"`
	APIKey        string `yaml:"api_key"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lens", "config.yaml")
}

func applyServeConfig(c *cli.Command, cfg Config, addr, apiKey *string) {
	if cfg.Model != "" && !c.IsSet("model") {
		modelName = cfg.Model
	}
	if cfg.Engine != "" && !c.IsSet("engine") {
		engineName = cfg.Engine
	}
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.APIKey != "" && !c.IsSet("api-key") && *apiKey == "" {
		*apiKey = cfg.APIKey
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// LoadConfig reads the config file. A missing or malformed file yields a
// zero Config.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
