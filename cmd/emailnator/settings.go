package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Settings holds the CLI configuration read from the environment.
type Settings struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
}

// LoadSettings reads settings through getenv, applying defaults.
func LoadSettings(getenv func(string) string) (*Settings, error) {
	s := &Settings{
		BaseURL:   getEnv(getenv, "EMAILNATOR_BASE_URL", ""),
		UserAgent: getEnv(getenv, "EMAILNATOR_USER_AGENT", ""),
		LogLevel:  getEnv(getenv, "EMAILNATOR_LOG_LEVEL", "info"),
		LogFormat: getEnv(getenv, "EMAILNATOR_LOG_FORMAT", "text"),
	}

	timeout, err := getEnvDuration(getenv, "EMAILNATOR_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	s.Timeout = timeout

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("EMAILNATOR_TIMEOUT must be positive, got %v", s.Timeout)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("EMAILNATOR_LOG_FORMAT must be text or json, got %q", s.LogFormat)
	}
	return nil
}

// NewLogger builds the CLI logger. Unknown levels fall back to info.
func (s *Settings) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	if s.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or a plain number of seconds.
func getEnvDuration(getenv func(string) string, key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
