package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/cryptotax"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Settings are the engine defaults read from the configuration file and the
// environment. Command line flags override them.
type Settings struct {
	Method        string   `mapstructure:"method"`
	Currency      string   `mapstructure:"currency"`
	LongTermDays  int      `mapstructure:"long_term_days"`
	IgnoredAssets []string `mapstructure:"ignored_assets"`
	LogLevel      string   `mapstructure:"log_level"`
}

// LoadSettings reads the settings from the YAML file at path if it exists,
// then from CRYPTOTAX_ prefixed environment variables, possibly defined in
// envPath.
func LoadSettings(path, envPath string) (*Settings, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot load environment file %q: %w", envPath, err)
		}
	}

	v := viper.New()
	v.SetDefault("method", cryptotax.FIFO.String())
	v.SetDefault("currency", "USD")
	v.SetDefault("long_term_days", cryptotax.DefaultLongTermDays)
	v.SetDefault("ignored_assets", []string{})
	v.SetDefault("log_level", logrus.WarnLevel.String())

	v.SetEnvPrefix("CRYPTOTAX")
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("cannot read configuration %q: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	s.Currency = strings.ToUpper(s.Currency)
	return &s, nil
}

// NewLogger returns a text logger on the standard error, at the settings level
// or at debug level when verbose.
func (s *Settings) NewLogger(verbose bool) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, nil
}

// EngineConfig returns the engine configuration, method overrides the settings
// method when not empty.
func (s *Settings) EngineConfig(method string, logger logrus.FieldLogger) (cryptotax.Config, error) {
	if method == "" {
		method = s.Method
	}
	m, err := cryptotax.ParseCostBasisMethod(method)
	if err != nil {
		return cryptotax.Config{}, &usageError{err}
	}
	cfg := cryptotax.DefaultConfig()
	cfg.Method = m
	cfg.Currency = s.Currency
	cfg.LongTermDays = s.LongTermDays
	cfg.IgnoredAssets = s.IgnoredAssets
	if logger != nil {
		cfg.Logger = logger
	}
	return cfg, nil
}

// setup loads the settings and logger of a command.
func setup(method string) (*Settings, cryptotax.Config, error) {
	s, err := LoadSettings(*configFile, *envFile)
	if err != nil {
		return nil, cryptotax.Config{}, err
	}
	logger, err := s.NewLogger(*verbose)
	if err != nil {
		return nil, cryptotax.Config{}, err
	}
	cfg, err := s.EngineConfig(method, logger)
	return s, cfg, err
}
