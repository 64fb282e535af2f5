package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vacancy/internal/availability"
)

type Config struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`

	Upstream struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RatePerSecond   float64 `yaml:"rate_per_second"`
		RateBurst       int     `yaml:"rate_burst"`
	} `yaml:"upstream"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		CheckoutTime  string `yaml:"checkout_time"`
		BufferMinutes int    `yaml:"buffer_minutes"`
	} `yaml:"booking"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	return &cfg, nil
}

// Rules returns the booking rules with hotel defaults applied for missing
// values.
func (c *Config) Rules() availability.Rules {
	rules := availability.DefaultRules()
	if c.Booking.CheckoutTime != "" {
		rules.CheckoutTime = c.Booking.CheckoutTime
	}
	if c.Booking.BufferMinutes > 0 {
		rules.BufferMinutes = c.Booking.BufferMinutes
	}
	return rules
}

func (c *Config) CacheTTL() time.Duration {
	if c.Upstream.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Upstream.CacheTTLSeconds) * time.Second
}
