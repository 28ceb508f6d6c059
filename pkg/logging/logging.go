package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Name is the name of the application the logger is created for.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// appName is added to every record.
	appName Name

	// level is the minimum level that is written.
	level slog.Level

	// w is where records are written to.
	w io.Writer
}

// NewConfig creates a new logging configuration for the application.
func NewConfig(name Name) *Config {
	return &Config{
		appName: name,
		level:   slog.LevelInfo,
		w:       os.Stdout,
	}
}

// SetLevel parses the level name (debug, info, warn, error) and sets it on the config.
func (c *Config) SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		c.level = slog.LevelDebug
	case "", "info":
		c.level = slog.LevelInfo
	case "warn", "warning":
		c.level = slog.LevelWarn
	case "error":
		c.level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// SetOutput sets the writer that records are written to.
func (c *Config) SetOutput(w io.Writer) {
	c.w = w
}

// CommonLogger creates the JSON logger shared by the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	}
	if c.appName == "" {
		return nil, fmt.Errorf("logging config has no app name")
	}

	w := c.w
	if w == nil {
		w = os.Stdout
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: c.level == slog.LevelDebug,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String(KeyApp, string(c.appName)))
	slog.SetDefault(l)
	return l, nil
}
