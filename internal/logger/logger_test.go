// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, "json")
	l.Info().Str("text", "HELLO").Msg("generated")
	var m map[string]any
	if err := json.Unmarshal(b.Bytes(), &m); err != nil {
		t.Fatalf("json output %q: %v", b.String(), err)
	}
	if m["message"] != "generated" || m["text"] != "HELLO" || m["level"] != "info" {
		t.Errorf("json output = %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Error("json output has no time")
	}

	b.Reset()
	l = New(&b, "text")
	l.Info().Msg("generated")
	if s := b.String(); !strings.Contains(s, "generated") || strings.HasPrefix(s, "{") {
		t.Errorf("text output = %q", s)
	}
}

func TestInitFile(t *testing.T) {
	saved, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
	})

	path := filepath.Join(t.TempDir(), "logs", "qr.log")
	Init(config.LoggingConfig{Level: "warn", Output: "file", FilePath: path})
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Errorf("global level = %v, want warn", got)
	}
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Contains(s, "dropped") || !strings.Contains(s, "kept") {
		t.Errorf("log file = %q", s)
	}
}
