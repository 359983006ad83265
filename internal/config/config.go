package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/shaping"
)

// Default values.
const (
	DefaultWidth    = 640
	DefaultHeight   = 480
	DefaultLogLevel = "info"
)

// LayoutConfig holds the layout area settings.
type LayoutConfig struct {
	Width          int  `toml:"width"`
	Height         int  `toml:"height"`
	ScrollbarWidth int  `toml:"scrollbar_width"`
	SingleLine     bool `toml:"single_line"`
}

// StyleConfig holds the base character style of new documents.
type StyleConfig struct {
	Font       string  `toml:"font"`
	Bold       bool    `toml:"bold"`
	Italic     bool    `toml:"italic"`
	Size       float64 `toml:"size"`
	Foreground string  `toml:"foreground"`
	Background string  `toml:"background"`
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// LoggerConfig holds logging settings. An empty File logs to stderr.
type LoggerConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config is the complete settings tree.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Style   StyleConfig   `toml:"style"`
	History HistoryConfig `toml:"history"`
	Logger  LoggerConfig  `toml:"logger"`
}

// Default returns the built-in settings.
func Default() *Config {
	base := style.DefaultProps()
	return &Config{
		Layout: LayoutConfig{
			Width:          DefaultWidth,
			Height:         DefaultHeight,
			ScrollbarWidth: layout.DefaultScrollbarWidth,
		},
		Style: StyleConfig{
			Font:       base.Font.Family,
			Size:       base.Size,
			Foreground: base.Foreground.Hex(),
			Background: base.Background.Hex(),
		},
		History: HistoryConfig{Limit: history.DefaultMaxEntries},
		Logger:  LoggerConfig{Level: DefaultLogLevel},
	}
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("config %s not found, using defaults", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// Parse reads settings from r. source names r in errors.
func Parse(r io.Reader, source string) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(source, data)
}

func parse(source string, data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(c)

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		for _, e := range strict.Errors {
			logger.Warnf("config %s: unknown key %v", source, e.Key())
		}
		c = Default()
		err = toml.Unmarshal(data, c)
	}
	if err != nil {
		return nil, newParseError(source, err)
	}
	c.validate()
	return c, nil
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
		pe.Message = derr.Error()
	}
	return pe
}

// validate resets out-of-range values to their defaults.
func (c *Config) validate() {
	def := Default()
	if c.Layout.Width <= 0 {
		logger.Warnf("config: layout.width %d reset to %d", c.Layout.Width, def.Layout.Width)
		c.Layout.Width = def.Layout.Width
	}
	if c.Layout.Height < 0 {
		logger.Warnf("config: layout.height %d reset to %d", c.Layout.Height, def.Layout.Height)
		c.Layout.Height = def.Layout.Height
	}
	if c.Layout.ScrollbarWidth < 0 {
		logger.Warnf("config: layout.scrollbar_width %d reset to %d", c.Layout.ScrollbarWidth, def.Layout.ScrollbarWidth)
		c.Layout.ScrollbarWidth = def.Layout.ScrollbarWidth
	}
	if c.Style.Font == "" {
		c.Style.Font = def.Style.Font
	}
	if c.Style.Size <= 0 {
		logger.Warnf("config: style.size %g reset to %g", c.Style.Size, def.Style.Size)
		c.Style.Size = def.Style.Size
	}
	if _, err := style.ParseColor(c.Style.Foreground); err != nil {
		logger.Warnf("config: style.foreground: %v", err)
		c.Style.Foreground = def.Style.Foreground
	}
	if _, err := style.ParseColor(c.Style.Background); err != nil {
		logger.Warnf("config: style.background: %v", err)
		c.Style.Background = def.Style.Background
	}
	if c.History.Limit <= 0 {
		logger.Warnf("config: history.limit %d reset to %d", c.History.Limit, def.History.Limit)
		c.History.Limit = def.History.Limit
	}
	if _, ok := logger.ParseLevel(c.Logger.Level); !ok {
		logger.Warnf("config: logger.level %q reset to %q", c.Logger.Level, def.Logger.Level)
		c.Logger.Level = def.Logger.Level
	}
}

// DefaultProps converts the style section into character properties.
func (c *Config) DefaultProps() style.Props {
	p := style.DefaultProps()
	p.Font = style.Font{Family: c.Style.Font, Bold: c.Style.Bold, Italic: c.Style.Italic}
	p.Size = c.Style.Size
	if fg, err := style.ParseColor(c.Style.Foreground); err == nil {
		p.Foreground = fg
	}
	if bg, err := style.ParseColor(c.Style.Background); err == nil {
		p.Background = bg
	}
	return p
}

// LogLevel returns the parsed logger level.
func (c *Config) LogLevel() slog.Level {
	level, _ := logger.ParseLevel(c.Logger.Level)
	return level
}

// CheckFont reports whether the style font can be opened.
func (c *Config) CheckFont() error {
	f := style.Font{Family: c.Style.Font, Bold: c.Style.Bold, Italic: c.Style.Italic}
	face, err := shaping.DefaultFactory(f, c.Style.Size)
	if err != nil {
		return fmt.Errorf("style.font %q: %w", c.Style.Font, err)
	}
	return face.Close()
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}
