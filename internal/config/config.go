// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the settings of the QR generator front ends
// from an optional file and QRGEN_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
)

// EnvPrefix is the prefix of environment variables overriding the
// configuration, e.g. QRGEN_SERVER_PORT for server.port.
const EnvPrefix = "QRGEN"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	QR      QRConfig      `mapstructure:"qr"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// QRConfig holds the default drawing options.
type QRConfig struct {
	Level   string `mapstructure:"level"`
	Width   int    `mapstructure:"width"`
	Margin  int    `mapstructure:"margin"`
	Dark    string `mapstructure:"dark"`
	Light   string `mapstructure:"light"`
	Format  string `mapstructure:"format"`
	Quality int    `mapstructure:"quality"`
	Latin1  bool   `mapstructure:"latin1"`
}

// Options returns c as qr.Options.
func (c QRConfig) Options() (qr.Options, error) {
	o := qr.Options{
		Width:   c.Width,
		Margin:  c.Margin,
		Quality: c.Quality,
		Latin1:  c.Latin1,
	}
	var err error
	if o.Level, err = qr.ParseLevel(c.Level); err != nil {
		return o, fmt.Errorf("qr.level: %w", err)
	}
	if o.Format, err = qr.ParseFormat(c.Format); err != nil {
		return o, fmt.Errorf("qr.format: %w", err)
	}
	dark, err := qr.ParseColor(c.Dark)
	if err != nil {
		return o, fmt.Errorf("qr.dark: %w", err)
	}
	light, err := qr.ParseColor(c.Light)
	if err != nil {
		return o, fmt.Errorf("qr.light: %w", err)
	}
	o.Dark, o.Light = dark, light
	return o, nil
}

// HistoryConfig selects the history store.
type HistoryConfig struct {
	Driver   string `mapstructure:"driver"` // "memory" or "sqlite"
	Path     string `mapstructure:"path"`
	MaxItems int    `mapstructure:"max_items"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

var defaults = map[string]any{
	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     "10s",
	"server.write_timeout":    "30s",
	"server.idle_timeout":     "60s",
	"server.shutdown_timeout": "10s",

	"qr.level":   qr.DefaultLevel.String(),
	"qr.width":   qr.DefaultWidth,
	"qr.margin":  qr.DefaultMargin,
	"qr.dark":    qr.FormatColor(qr.DefaultDark),
	"qr.light":   qr.FormatColor(qr.DefaultLight),
	"qr.format":  qr.PNG.String(),
	"qr.quality": qr.DefaultQuality,
	"qr.latin1":  false,

	"history.driver":    "memory",
	"history.path":      "qr-history.db",
	"history.max_items": history.DefaultMaxItems,

	"logging.level":     "info",
	"logging.format":    "json",
	"logging.output":    "stdout",
	"logging.file_path": "",
}

// Load reads the configuration file at path, if path is not empty,
// over the defaults, and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
