// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		QR: QRConfig{
			Level:   "M",
			Width:   300,
			Margin:  1,
			Dark:    "#1f2937",
			Light:   "#ffffff",
			Format:  "png",
			Quality: 92,
		},
		History: HistoryConfig{
			Driver:   "memory",
			Path:     "qr-history.db",
			MaxItems: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", got)
	}
	o, err := cfg.QR.Options()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(qr.DefaultOptions(), o); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9000
  read_timeout: 5s
qr:
  level: h
  format: jpeg
  dark: "#000"
history:
  driver: sqlite
  max_items: 5
logging:
  format: text
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QRGEN_SERVER_PORT", "9100")
	t.Setenv("QRGEN_QR_WIDTH", "512")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name      string
		got, want any
	}{
		{"server.port", cfg.Server.Port, 9100},
		{"server.read_timeout", cfg.Server.ReadTimeout, 5 * time.Second},
		{"server.write_timeout", cfg.Server.WriteTimeout, 30 * time.Second},
		{"qr.level", cfg.QR.Level, "h"},
		{"qr.width", cfg.QR.Width, 512},
		{"qr.format", cfg.QR.Format, "jpeg"},
		{"history.driver", cfg.History.Driver, "sqlite"},
		{"history.max_items", cfg.History.MaxItems, 5},
		{"logging.format", cfg.Logging.Format, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	o, err := cfg.QR.Options()
	if err != nil {
		t.Fatal(err)
	}
	if o.Level != qr.H || o.Format != qr.JPEG || o.Width != 512 {
		t.Errorf("Options() = %+v", o)
	}
	if black := (color.NRGBA{0, 0, 0, 0xff}); o.Dark != black {
		t.Errorf("Options().Dark = %v, want %v", o.Dark, black)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestOptionsErrors(t *testing.T) {
	base := QRConfig{
		Level: "M", Width: 300, Margin: 1,
		Dark: "#000", Light: "#fff", Format: "png",
	}
	tests := []struct {
		name string
		mod  func(*QRConfig)
	}{
		{"level", func(c *QRConfig) { c.Level = "X" }},
		{"format", func(c *QRConfig) { c.Format = "gif" }},
		{"dark", func(c *QRConfig) { c.Dark = "#12" }},
		{"light", func(c *QRConfig) { c.Light = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mod(&c)
			if _, err := c.Options(); !errors.Is(err, qr.ErrArgs) {
				t.Errorf("Options() error = %v, want ErrArgs", err)
			}
		})
	}
}
