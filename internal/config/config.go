package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vitos/faucet_gateway/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultBackendURL is the faucet backend used when nothing else is configured.
const DefaultBackendURL = "http://104.131.104.100:3001"

type Config struct {
	Forwarder struct {
		BackendURL      string `yaml:"backend_url"`
		ClaimBackendURL string `yaml:"claim_backend_url"`
	} `yaml:"forwarder"`
	Prices struct {
		APIKey     string `yaml:"api_key"`
		BaseURL    string `yaml:"base_url"`
		TimeoutMs  int    `yaml:"timeout_ms"`
		WarmOnBoot bool   `yaml:"warm_on_boot"`
	} `yaml:"prices"`
	Tokens  domain.TokenList `yaml:"tokens"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

// Load reads the yaml file at path, then applies defaults and environment overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("BACKEND_URL"); v != "" {
		c.Forwarder.ClaimBackendURL = v
	}
	if v := getenv("COINGECKO_API_KEY"); v != "" {
		c.Prices.APIKey = v
	} else if v := getenv("VITE_COINGECKO_API_KEY"); v != "" {
		// name used by the frontend build
		c.Prices.APIKey = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("GATEWAY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GATEWAY_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Forwarder.BackendURL == "" {
		c.Forwarder.BackendURL = DefaultBackendURL
	}
	if c.Forwarder.ClaimBackendURL == "" {
		c.Forwarder.ClaimBackendURL = DefaultBackendURL
	}
	if c.Prices.TimeoutMs == 0 {
		c.Prices.TimeoutMs = 10000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}
