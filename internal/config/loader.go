// internal/config/loader.go
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"server.addr":          ":8080",
	"server.read_timeout":  "10s",
	"server.write_timeout": "30s",
	"api.base_url":         "http://localhost:8000/api/v1",
	"api.timeout":          "15s",
	"store.driver":         StoreMemory,
	"store.ttl":            "30m",
	"store.purge_interval": "5m",
	"redis.address":        "",
	"redis.password":       "",
	"redis.db":             0,
	"postgres.host":        "",
	"postgres.port":        5432,
	"postgres.user":        "",
	"postgres.password":    "",
	"postgres.database":    "",
	"postgres.sslmode":     "disable",
	"amqp.url":             "",
	"amqp.queue":           "wizard_events",
	"worker.metrics_addr":  ":9091",
	"logging.level":        "info",
	"logging.format":       "json",
}

// Load reads .env (if any), an optional config.yaml and the environment, in
// increasing order of precedence. SERVER_ADDR overrides server.addr and so on.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(viper.New())
}

// LoadWith resolves configuration through the given viper instance.
func LoadWith(v *viper.Viper) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/campaign-dashboard")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
