// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
)

func resetRandr() {
	g.cx, g.inc = 0, [2]int{1, 1}
}

func TestRandr(t *testing.T) {
	t.Cleanup(resetRandr)
	c, err := qr.Encode("HELLO WORLD", qr.M)
	if err != nil {
		t.Fatal(err)
	}
	siz := c.Size
	tests := []struct {
		name string
		ops  string
		at   func(x, y int) (int, int) // source of destination (x, y)
	}{
		{"none", "", func(x, y int) (int, int) { return x, y }},
		{"flip", "f", func(x, y int) (int, int) { return siz - 1 - x, y }},
		{"rotate", "r", func(x, y int) (int, int) { return siz - 1 - y, x }},
		{"rotate twice", "rr", func(x, y int) (int, int) { return siz - 1 - x, siz - 1 - y }},
		{"flip flip", "ff", func(x, y int) (int, int) { return x, y }},
		{"four turns", "rrrr", func(x, y int) (int, int) { return x, y }},
		{"flip vertically", "frr", func(x, y int) (int, int) { return x, siz - 1 - y }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRandr()
			for _, op := range tt.ops {
				if op == 'f' {
					flip()
				} else {
					rotate()
				}
			}
			got := randr(c)
			if got.Size != siz || len(got.Bitmap) != len(c.Bitmap) {
				t.Fatalf("size %d, %d modules", got.Size, len(got.Bitmap))
			}
			for y := 0; y < siz; y++ {
				for x := 0; x < siz; x++ {
					sx, sy := tt.at(x, y)
					if got.Black(x, y) != c.Black(sx, sy) {
						t.Fatalf("module (%d,%d) differs from source (%d,%d)", x, y, sx, sy)
					}
				}
			}
		})
	}
}

func TestListHistory(t *testing.T) {
	ctx := context.Background()
	s := history.NewMemStore(0)
	s.Add(ctx, "first", []byte{1}, "png")
	s.Add(ctx, "line one\nline two "+strings.Repeat("x", 80), []byte{2}, "jpeg")
	s.Add(ctx, strings.Repeat("é", 40), []byte{3}, "pbm")

	var b strings.Builder
	if err := listHistory(ctx, &b, s); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), b.String())
	}
	// 40 two-byte runes are cut after 28 of them, not inside the 29th.
	if want := strings.Repeat("é", 28) + "..."; !strings.Contains(lines[0], "pbm") ||
		!strings.HasSuffix(lines[0], want) || !utf8.ValidString(lines[0]) {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "jpeg") || !strings.Contains(lines[1], `line one\nline two`) ||
		!strings.HasSuffix(lines[1], "...") {
		t.Errorf("line 2 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "png") || !strings.HasSuffix(lines[2], "first") {
		t.Errorf("line 3 = %q", lines[2])
	}
}
