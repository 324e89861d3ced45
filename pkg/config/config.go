package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	AI        AIConfig                  `yaml:"ai"`
	Cache     CacheConfig               `yaml:"cache"`
	Store     StoreConfig               `yaml:"store"`
	Gateways  map[string]GatewayConfig  `yaml:"gateways"`
}

type AppConfig struct {
	Name          string `yaml:"name"`
	PromptsDir    string `yaml:"prompts_dir"`
	WorkflowsFile string `yaml:"workflows_file"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type AIConfig struct {
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RetryDelayMS   int     `yaml:"retry_delay_ms"`
	CacheTTL       int     `yaml:"cache_ttl_seconds"`
}

type CacheConfig struct {
	Type     string `yaml:"type"` // redis or memory
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type GatewayConfig struct {
	Token   string `yaml:"token"`
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "archaeovault"
	}
	if c.App.PromptsDir == "" {
		c.App.PromptsDir = "./prompts"
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.7
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 4000
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 30
	}
	if c.AI.RetryDelayMS == 0 {
		c.AI.RetryDelayMS = 1000
	}
	if c.AI.CacheTTL == 0 {
		c.AI.CacheTTL = 3600
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Store.Path == "" {
		c.Store.Path = "archaeovault.db"
	}
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	// Prefer anthropic when enabled, matching the service's primary backend.
	if p, ok := c.Providers["anthropic"]; ok && p.Enabled {
		return "anthropic", p
	}
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetTelegramConfig returns telegram config if enabled
func (c *Config) GetTelegramConfig() (GatewayConfig, bool) {
	tg, ok := c.Gateways["telegram"]
	if ok && tg.Enabled && tg.Token != "" {
		return tg, true
	}
	return GatewayConfig{}, false
}

// GetHTTPConfig returns the HTTP gateway config, defaulting to :8080.
func (c *Config) GetHTTPConfig() GatewayConfig {
	h, ok := c.Gateways["http"]
	if !ok {
		return GatewayConfig{Addr: ":8080", Enabled: true}
	}
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	return h
}
