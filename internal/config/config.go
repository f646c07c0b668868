// Package config loads highsport settings from an optional YAML file and
// HIGHSPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "HIGHSPORT"

type Config struct {
	Source string      `mapstructure:"source"`
	HTTP   HTTPConfig  `mapstructure:"http"`
	Web    WebConfig   `mapstructure:"web"`
	WebTUI WebTUI      `mapstructure:"webtui"`
	Store  StoreConfig `mapstructure:"store"`
	Log    LogConfig   `mapstructure:"log"`
	TUI    TUIConfig   `mapstructure:"tui"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr"`
	Open bool   `mapstructure:"open"`
}

type WebTUI struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
	// File, when set, receives log output instead of stderr.
	File string `mapstructure:"file"`
}

type TUIConfig struct {
	// CellPx is the assumed pixel width of one terminal column.
	CellPx int    `mapstructure:"cell_px"`
	Theme  string `mapstructure:"theme"`
	Glyphs string `mapstructure:"glyphs"`
}

// New returns a viper instance with env binding and defaults applied, ready
// for flag binding before Read.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source", "embedded")
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("web.addr", "127.0.0.1:3333")
	v.SetDefault("web.open", false)
	v.SetDefault("webtui.addr", "127.0.0.1:3334")
	v.SetDefault("store.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("tui.cell_px", 8)
	v.SetDefault("tui.theme", "auto")
	v.SetDefault("tui.glyphs", "unicode")
	return v
}

// Read merges the YAML file at path (if any) into v and decodes the result.
func Read(v *viper.Viper, path string) (Config, error) {
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TUI.CellPx <= 0 {
		return fmt.Errorf("tui.cell_px must be positive, got %d", c.TUI.CellPx)
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Theme)) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("tui.theme must be auto|light|dark, got %q", c.TUI.Theme)
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Glyphs)) {
	case "", "unicode", "utf8", "ascii":
	default:
		return fmt.Errorf("tui.glyphs must be unicode|ascii, got %q", c.TUI.Glyphs)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Encoding)) {
	case "console", "json":
	default:
		return fmt.Errorf("log.encoding must be console|json, got %q", c.Log.Encoding)
	}
	return nil
}
