// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits strings into QR code segments.

A string is scanned once and cut into spans of characters encodable in
the same set of modes.  Split then chooses a mode for every span so
that the total encoded length for a QR version size class is minimal,
merging neighbouring spans encoded in the same mode into one segment.
*/
package split // import "github.com/BadassAman4014/Simple-Qr-code-Generator/split"

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/coding"
)

// A Charset determines how characters outside the numeric and
// alphanumeric sets are stored in byte mode segments.
type Charset int

const (
	// UTF8 stores byte mode text as UTF-8.  Invalid UTF-8 bytes
	// are kept as they are.
	UTF8 Charset = iota

	// Latin1 stores byte mode text as ISO 8859-1 if every character
	// of the string has a Latin-1 encoding, and as UTF-8 otherwise.
	Latin1
)

func (c Charset) String() string {
	switch c {
	case UTF8:
		return "utf-8"
	case Latin1:
		return "latin-1"
	}
	return "invalid"
}

// chartbl bits: 00000ban
//
//	b  0x04  byte mode (always set)
//	a  0x02  alphanumeric mode
//	n  0x01  numeric mode
//
// Bit N is set for coding.Mode(N).  Bytes from 0x80 up are only
// encodable in byte mode.
const (
	numMode   = 1 << coding.Numeric      // numeric
	alphaMode = 1 << coding.Alphanumeric // alphanumeric
	byteMode  = 1 << coding.Byte         // byte

	by = byteMode       // byte
	al = by | alphaMode // alphanumeric
	nu = al | numMode   // numeric
)

var chartbl = [128]byte{
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x00
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x10
	al, by, by, by, al, al, by, by, by, by, al, al, by, al, al, al, // 0x20
	nu, nu, nu, nu, nu, nu, nu, nu, nu, nu, al, by, by, by, by, by, // 0x30
	by, al, al, al, al, al, al, al, al, al, al, al, al, al, al, al, // 0x40
	al, al, al, al, al, al, al, al, al, al, al, by, by, by, by, by, // 0x50
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x60
	by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, by, // 0x70
}

// classify returns the modes in which the first character of s is
// encodable and its length in bytes.  In a Latin-1 string every byte
// is a character.  In a UTF-8 string an invalid byte is a character
// on its own.
func classify(s string, latin1 bool) (byte, int) {
	if c := s[0]; c < utf8.RuneSelf {
		return chartbl[c], 1
	} else if latin1 {
		return byteMode, 1
	}
	_, sz := utf8.DecodeRuneInString(s)
	return byteMode, sz
}

// toLatin1 returns s encoded as ISO 8859-1 and true if every rune of
// s is valid and has a Latin-1 encoding.
func toLatin1(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			if !utf8.ValidString(s) {
				return s, false
			}
			t, err := charmap.ISO8859_1.NewEncoder().String(s)
			return t, err == nil
		}
	}
	return s, true // ASCII
}

/*
Splitter and its component types.

New classifies each character of the string and creates a slice of
spans, each span describing a substring of characters encodable in the
same modes.  To avoid multiple allocations, the span structure
contains an array of segments for the modes.

Split creates a linked list of segments representing an optimal split
of the data.  A segment contains its mode, length in bytes, total
encoded length in bits of the string from this segment to the end,
and a link to the next segment.

The split is calculated by walking the spans backwards.  For each span
n, for each mode m, a segment (n,m) is created representing an optimal
split for the string from span n to the end, starting with mode m.

The segment (n,m) is created thusly.  For each mode mm in which span
n+1 is encodable, a segment (n,m,mm) linking to (n+1,mm) is created.
If m=mm, the segments are merged.  The encoded length is calculated,
and the total encoded length of the next segment is added to it.  Of
these segments, the one with the smallest total encoded length is
chosen as (n,m), a merged one on ties.

When the beginning of the span slice is reached, a segment (0,m) with
the smallest total encoded length for any m describes an optimal split
for the whole string.
*/
type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		mode    coding.Mode // encoding mode, -1 if unused
		segdata             // lengths and pointer to next
	}

	// segdata is the mutable portion of segment.
	segdata struct {
		next *segment // link to next segment in the chain
		len  int      // length of string in bytes
		bits int      // encoded size of all segments in the chain
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		len int        // length of string in bytes
		seg [3]segment // segments
	}
)

// A Splitter calculates optimal splits of a string into segments.
// A Splitter is not safe for concurrent use.
type Splitter struct {
	s      string // string, Latin-1 if latin1
	latin1 bool   // s is ISO 8859-1
	sp     []span // spans
}

// New returns a Splitter for text using the given Charset.
func New(text string, cs Charset) *Splitter {
	s := &Splitter{s: text}
	if cs == Latin1 {
		if t, ok := toLatin1(text); ok {
			s.s, s.latin1 = t, true
		}
	}

	// Scan the string; a new span starts whenever the set of modes
	// changes.  Track modes common to all characters.
	var (
		old    byte
		common byte = nu
	)
	for i, sz := 0, 0; i < len(s.s); i += sz {
		var m byte
		m, sz = classify(s.s[i:], s.latin1)
		if m != old {
			s.sp = append(s.sp, span{})
			s.sp[len(s.sp)-1].setModes(m)
			common &= m
			old = m
		}
		s.sp[len(s.sp)-1].len += sz
	}

	// Each mode encodes a superset of the characters of the modes
	// below it and never encodes them shorter.  If all characters
	// share a mode, modes above the lowest shared one are useless.
	if common != 0 {
		mask := (common&-common)<<1 - 1
		for i := range s.sp {
			s.sp[i].setModes(s.sp[i].modes() & mask)
		}
	}
	return s
}

// setModes sets the segments of v to the modes in the bit field m.
func (v *span) setModes(m byte) {
	j := 0
	for mode := coding.Numeric; mode <= coding.Byte; mode++ {
		if m&(1<<mode) != 0 {
			v.seg[j].mode = mode
			j++
		}
	}
	for ; j < len(v.seg); j++ {
		v.seg[j].mode = -1
	}
}

// modes returns the bit field of the modes of v.
func (v *span) modes() byte {
	var m byte
	for j := range v.seg {
		if v.seg[j].mode < 0 {
			break
		}
		m |= 1 << v.seg[j].mode
	}
	return m
}

// Text returns the string as it will be stored in the segments.
func (s *Splitter) Text() string { return s.s }

// Latin1 reports whether the string is stored as ISO 8859-1.
func (s *Splitter) Latin1() bool { return s.latin1 }

func (d *segdata) setBits(mode coding.Mode, class int) {
	d.bits = mode.Length(d.len, class)
	if d.next != nil {
		d.bits += d.next.bits
	}
}

// add adds v to the split before p, returning a pointer to the
// segment with the smallest encoded length.
func (v *span) add(p *span, class int) *segment {
	best := &v.seg[0]
	for j := range v.seg {
		seg := &v.seg[j]
		if seg.mode < 0 {
			break
		}
		seg.segdata = segdata{bits: -1}
		// p.seg is an array, not a slice, so range works when p is nil
		for k := range p.seg {
			if k != 0 && p.seg[k].mode < 0 {
				break
			}
			c := segdata{len: v.len}
			merged := false
			if p != nil {
				c.next = &p.seg[k]
				if seg.mode == c.next.mode {
					c.len += c.next.len
					c.next = c.next.next
					merged = true
				}
			}
			c.setBits(seg.mode, class)
			if seg.bits < 0 || c.bits < seg.bits ||
				merged && c.bits == seg.bits {
				seg.segdata = c
			}
			if p == nil {
				break
			}
		}
		if seg.bits < best.bits {
			best = seg
		}
	}
	return best
}

// Split returns an optimal split of the string for the given QR
// version size class and its encoded length in bits.  Split returns
// no segments for an empty string.
func (s *Splitter) Split(class int) ([]coding.Segment, int) {
	// process spans in reverse order
	var head *segment
	var next *span
	for i := len(s.sp) - 1; i >= 0; i-- {
		head = s.sp[i].add(next, class)
		next = &s.sp[i]
	}
	if head == nil {
		return nil, 0
	}
	var segs []coding.Segment
	for seg, t := head, s.s; seg != nil; seg = seg.next {
		segs = append(segs, coding.Segment{Text: t[:seg.len], Mode: seg.mode})
		t = t[seg.len:]
	}
	return segs, head.bits
}

// Text returns an optimal split of text in the given Charset for the
// given QR version size class and its encoded length in bits.
func Text(text string, cs Charset, class int) ([]coding.Segment, int) {
	return New(text, cs).Split(class)
}
