package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration. Values come from an
// optional YAML file overridden by PROBESVC_* environment variables.
type Config struct {
	Server struct {
		Port        int    `mapstructure:"port"`
		Environment string `mapstructure:"environment"`
		Hostname    string `mapstructure:"hostname"`
	} `mapstructure:"server"`

	Counter struct {
		Addr    string        `mapstructure:"addr"`
		Key     string        `mapstructure:"key"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"counter"`

	Load struct {
		DefaultSeconds int `mapstructure:"default_seconds"`
		MaxSeconds     int `mapstructure:"max_seconds"`
		// SingleThreaded pins GOMAXPROCS to 1 so a running load test
		// starves every other request on the instance, like the
		// original single-threaded dispatcher it emulates.
		SingleThreaded bool `mapstructure:"single_threaded"`
	} `mapstructure:"load"`

	Chaos struct {
		Enabled   bool          `mapstructure:"enabled"`
		ExitDelay time.Duration `mapstructure:"exit_delay"`
	} `mapstructure:"chaos"`

	Telemetry struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"telemetry"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	// every key needs a default registered or AutomaticEnv won't see it
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.hostname", "")
	v.SetDefault("counter.addr", "")
	v.SetDefault("counter.key", "probesvc:survivor")
	v.SetDefault("counter.timeout", 500*time.Millisecond)
	v.SetDefault("load.default_seconds", 5)
	v.SetDefault("load.max_seconds", 30)
	v.SetDefault("load.single_threaded", false)
	v.SetDefault("chaos.enabled", true)
	v.SetDefault("chaos.exit_delay", 100*time.Millisecond)
	v.SetDefault("telemetry.otlp_endpoint", "")

	v.SetEnvPrefix("PROBESVC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Load.MaxSeconds < cfg.Load.DefaultSeconds {
		return nil, fmt.Errorf("load.max_seconds (%d) must be >= load.default_seconds (%d)",
			cfg.Load.MaxSeconds, cfg.Load.DefaultSeconds)
	}

	return &cfg, nil
}
