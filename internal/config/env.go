package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/inkwell/internal/logger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INKWELL_"

// envSetters maps environment variable names to setters.
var envSetters = map[string]func(c *Config, v string) error{
	"INKWELL_WIDTH":       func(c *Config, v string) error { return setInt(&c.Layout.Width, v) },
	"INKWELL_HEIGHT":      func(c *Config, v string) error { return setInt(&c.Layout.Height, v) },
	"INKWELL_SINGLE_LINE": func(c *Config, v string) error { return setBool(&c.Layout.SingleLine, v) },
	"INKWELL_FONT":        func(c *Config, v string) error { c.Style.Font = v; return nil },
	"INKWELL_FONT_SIZE":   func(c *Config, v string) error { return setFloat(&c.Style.Size, v) },
	"INKWELL_UNDO_LIMIT":  func(c *Config, v string) error { return setInt(&c.History.Limit, v) },
	"INKWELL_LOG_LEVEL":   func(c *Config, v string) error { c.Logger.Level = v; return nil },
	"INKWELL_LOG_FILE":    func(c *Config, v string) error { c.Logger.File = v; return nil },
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

// applyEnv overrides settings using lookup. Empty values count as set.
// Unknown prefixed variables are logged.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envSetters {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(c, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	c.validate()
	return nil
}

// WarnUnknownEnv logs INKWELL_ variables that override nothing.
func WarnUnknownEnv(environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		if _, ok := envSetters[name]; !ok {
			logger.Warnf("unknown environment setting %s", name)
		}
	}
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
	}
	*dst = b
	return nil
}
