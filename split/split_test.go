// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/coding"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		cs    Charset
		class int
		want  []coding.Segment
		bits  int
	}{
		{
			name: "empty",
			text: "",
		},
		{
			name: "alphanumeric",
			text: "HELLO WORLD",
			want: []coding.Segment{{Text: "HELLO WORLD", Mode: coding.Alphanumeric}},
			bits: 4 + 9 + 61,
		},
		{
			name: "numeric",
			text: "01234567",
			want: []coding.Segment{{Text: "01234567", Mode: coding.Numeric}},
			bits: 4 + 10 + 27,
		},
		{
			name:  "numeric class 2",
			text:  "01234567",
			class: coding.Class2,
			want:  []coding.Segment{{Text: "01234567", Mode: coding.Numeric}},
			bits:  4 + 14 + 27,
		},
		{
			name: "lower case",
			text: "hello",
			want: []coding.Segment{{Text: "hello", Mode: coding.Byte}},
			bits: 4 + 8 + 40,
		},
		{
			name: "alphanumeric then digits",
			text: "HELLO 12345678901234",
			want: []coding.Segment{
				{Text: "HELLO ", Mode: coding.Alphanumeric},
				{Text: "12345678901234", Mode: coding.Numeric},
			},
			bits: 4 + 9 + 33 + 4 + 10 + 47,
		},
		{
			name: "short digit run stays in byte mode",
			text: "a1b",
			want: []coding.Segment{{Text: "a1b", Mode: coding.Byte}},
			bits: 4 + 8 + 24,
		},
		{
			name: "short digit run stays in alphanumeric mode",
			text: "AB123456CD",
			want: []coding.Segment{{Text: "AB123456CD", Mode: coding.Alphanumeric}},
			bits: 4 + 9 + 55,
		},
		{
			name: "multibyte rune then digits",
			text: "é123456789012345",
			want: []coding.Segment{
				{Text: "é", Mode: coding.Byte},
				{Text: "123456789012345", Mode: coding.Numeric},
			},
			bits: 4 + 8 + 16 + 4 + 10 + 50,
		},
		{
			name: "invalid utf-8 kept",
			text: "\xff1",
			want: []coding.Segment{{Text: "\xff1", Mode: coding.Byte}},
			bits: 4 + 8 + 16,
		},
		{
			name: "latin-1",
			text: "Ärger",
			cs:   Latin1,
			want: []coding.Segment{{Text: "\xc4rger", Mode: coding.Byte}},
			bits: 4 + 8 + 40,
		},
		{
			name: "latin-1 falls back to utf-8",
			text: "€5",
			cs:   Latin1,
			want: []coding.Segment{{Text: "€5", Mode: coding.Byte}},
			bits: 4 + 8 + 32,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bits := Text(tt.text, tt.cs, tt.class)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Text() mismatch (-want +got):\n%s", diff)
			}
			if bits != tt.bits {
				t.Errorf("Text() bits = %d, want %d", bits, tt.bits)
			}
		})
	}
}

func TestLatin1(t *testing.T) {
	tests := []struct {
		text   string
		latin1 bool
		out    string
	}{
		{"abc", true, "abc"},
		{"Größe", true, "Gr\xf6\xdfe"},
		{"日本", false, "日本"},
		{"a\xffb", false, "a\xffb"},
	}
	for _, tt := range tests {
		s := New(tt.text, Latin1)
		if s.Latin1() != tt.latin1 || s.Text() != tt.out {
			t.Errorf("New(%q, Latin1) = %q, %v; want %q, %v",
				tt.text, s.Text(), s.Latin1(), tt.out, tt.latin1)
		}
	}
	if s := New("Größe", UTF8); s.Latin1() || s.Text() != "Größe" {
		t.Errorf("New(UTF8) converted text to %q", s.Text())
	}
}

func TestSplitProperties(t *testing.T) {
	texts := []string{
		"https://example.com/path?q=1",
		"MIXED case 123 and ÜNICODE 4567890 €€€ 42",
		strings.Repeat("0123456789", 30) + "ABC" + strings.Repeat("x", 40),
		"日本語のテキスト 2024",
		"\x00\x01\xfe 99999 ::::",
	}
	for _, text := range texts {
		for class := 0; class < coding.NumClasses; class++ {
			s := New(text, UTF8)
			segs, bits := s.Split(class)
			var sb strings.Builder
			total := 0
			for _, seg := range segs {
				if !seg.IsValid() {
					t.Errorf("%q class %d: invalid segment %v %q", text, class, seg.Mode, seg.Text)
				}
				if seg.Mode == coding.Byte && utf8.ValidString(text) && !utf8.ValidString(seg.Text) {
					t.Errorf("%q class %d: segment %q splits a rune", text, class, seg.Text)
				}
				sb.WriteString(seg.Text)
				total += seg.EncodedLength(class)
			}
			if sb.String() != text {
				t.Errorf("%q class %d: segments join to %q", text, class, sb.String())
			}
			if total != bits {
				t.Errorf("%q class %d: bits = %d, segments encode to %d", text, class, bits, total)
			}
			if all := coding.Byte.Length(len(text), class); bits > all {
				t.Errorf("%q class %d: %d bits, more than byte mode %d", text, class, bits, all)
			}
		}
	}
}

func TestSplitRepeatable(t *testing.T) {
	s := New("ABC 123456789 def", UTF8)
	a, abits := s.Split(coding.Class0)
	s.Split(coding.Class2)
	b, bbits := s.Split(coding.Class0)
	if abits != bbits {
		t.Errorf("bits %d, then %d", abits, bbits)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Split() not repeatable (-first +second):\n%s", diff)
	}
}
