package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"muko/core"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. MUKO_HOSTS_FILE.
	EnvPrefix = "muko"

	KeyHostsFile     = "hosts_file"
	KeyNameserver    = "nameserver"
	KeyTimeout       = "timeout"
	KeyLogLevel      = "log_level"
	KeyRetryAttempts = "retry.attempts"
	KeyRetryDelay    = "retry.delay"
)

var (
	// ErrInvalidRetry is returned when fewer than one resolution attempt is configured.
	ErrInvalidRetry = errors.New("retry.attempts must be at least 1")

	// ErrInvalidDelay is returned when the retry delay is negative.
	ErrInvalidDelay = errors.New("retry.delay must not be negative")

	// ErrInvalidTimeout is returned when the lookup timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrEmptyHostsFile is returned when no hosts file path is configured.
	ErrEmptyHostsFile = errors.New("hosts_file must not be empty")
)

// Config is threaded into every operation instead of a fixed hosts path.
type Config struct {
	HostsFile  string        `mapstructure:"hosts_file"`
	Nameserver string        `mapstructure:"nameserver"` // empty means the system resolver
	Timeout    time.Duration `mapstructure:"timeout"`
	LogLevel   string        `mapstructure:"log_level"`
	Retry      Retry         `mapstructure:"retry"`
}

type Retry struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// Policy converts the retry settings for core.Reporter.
func (r Retry) Policy() core.RetryPolicy {
	return core.RetryPolicy{Attempts: r.Attempts, Delay: r.Delay}
}

func Default() *Config {
	return &Config{
		HostsFile: core.HostsPath(),
		Timeout:   5 * time.Second,
		LogLevel:  "info",
		Retry: Retry{
			Attempts: core.DefaultRetryPolicy.Attempts,
			Delay:    core.DefaultRetryPolicy.Delay,
		},
	}
}

func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "muko")
}

// SetDefaults registers every key so env overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyHostsFile, d.HostsFile)
	v.SetDefault(KeyNameserver, d.Nameserver)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyRetryAttempts, d.Retry.Attempts)
	v.SetDefault(KeyRetryDelay, d.Retry.Delay)
}

// Load resolves the configuration from flags already bound to v, MUKO_*
// environment variables, the config file and defaults, in that order.
// An explicit configFile must exist; the default one is optional.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := GetConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HostsFile == "" {
		return ErrEmptyHostsFile
	}
	if c.Retry.Attempts < 1 {
		return ErrInvalidRetry
	}
	if c.Retry.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
