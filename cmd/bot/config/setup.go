package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/pflag"
)

// Load reads the configuration from the environment and the optional YAML file given by --config or CONFIG_PATH.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	path := fs.String("config", os.Getenv(EnvConfigPath), "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := new(Config)
	if *path != "" {
		if err := cleanenv.ReadConfig(*path, cfg); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", *path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that cleanenv cannot.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.BotToken) == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvBotToken))
	}
	if strings.TrimSpace(c.Prefix) == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if c.Provision.Interval < 0 {
		errs = append(errs, errors.New("provision interval must not be negative"))
	}
	if c.Provision.Burst < 1 {
		errs = append(errs, errors.New("provision burst must be at least 1"))
	}
	if c.Voice.RecoveryConcurrency < 1 {
		errs = append(errs, errors.New("voice recovery concurrency must be at least 1"))
	}
	return errors.Join(errs...)
}
