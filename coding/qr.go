// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/BadassAman4014/Simple-Qr-code-Generator/coding"

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrLevel    = errors.New("qr: invalid level")
	ErrVersion  = errors.New("qr: invalid version")
	ErrInternal = errors.New("qr: internal encoding error")
)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// Versions run from 1 to 40: the larger the version,
// the more information the code can store.
type Version int

// Code versions.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// Size returns the number of modules on a side.
func (v Version) Size() int { return int(v)*4 + 17 }

// QR version size classes.  The size class determines the length of
// the character count field.
const (
	Class0     = iota // QR versions 1 to 9
	Class1            // QR versions 10 to 26
	Class2            // QR versions 27 to 40
	NumClasses        // number of size classes
)

var sizeClass = [NumClasses]struct {
	min, max Version
}{
	{1, 9}, {10, 26}, {27, 40},
}

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// ClassRange returns the smallest and the largest version in class.
func ClassRange(class int) (Version, Version) {
	c := sizeClass[class]
	return c.min, c.max
}

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15%
	Q              // 25%
	H              // 30%
)

// IsValid reports whether l is an error correction level.
func (l Level) IsValid() bool { return L <= l && l <= H }

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Bits is a bit buffer written most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].bytes)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int { return b.nbit }

// Bytes returns the buffer.  It panics unless b holds whole bytes.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Add adds n zero bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	start := len(b.b)
	b.b = append(b.b, make([]byte, n)...)
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write writes the nbit low bits of v.
func (b *Bits) Write(v uint32, nbit int) {
	for i := nbit - 1; i >= 0; i-- {
		if b.nbit&7 == 0 {
			b.b = append(b.b, 0)
		}
		if v>>uint(i)&1 != 0 {
			b.b[len(b.b)-1] |= 0x80 >> uint(b.nbit&7)
		}
		b.nbit++
	}
}

// Predefined encoding modes.
const (
	Numeric      Mode = iota // numeric mode, digits
	Alphanumeric             // alphanumeric mode, QR alphanumeric set
	Byte                     // byte mode, any data
)

// A Mode is a QR segment encoding mode.
type Mode int8

// modeEncoder describes a segment encoding mode.
type modeEncoder struct {
	name      string
	indicator uint32 // 4 bit mode indicator

	// countLength lists lengths of the character count field in
	// the three version size classes.
	countLength [NumClasses]int

	// dataLength returns the encoded data length in bits of
	// n characters.
	dataLength func(n int) int

	// accepts reports whether the mode accepts the byte.
	accepts func(c byte) bool

	// encode writes the packed data.
	encode func(b *Bits, s string)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table indexed by the low 6 bits of a
// character.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// IsDigit reports whether c is encodable in numeric mode.
func IsDigit(c byte) bool { return c-'0' < 10 }

// IsAlpha reports whether c is encodable in alphanumeric mode.
func IsAlpha(c byte) bool { return alphamask>>(uint32(c)-' ')&1 != 0 }

var modes = [...]modeEncoder{
	Numeric: {
		name:        "numeric",
		indicator:   1,
		countLength: [NumClasses]int{10, 12, 14},
		dataLength:  func(n int) int { return (10*n + 2) / 3 },
		accepts:     IsDigit,
		encode: func(b *Bits, s string) {
			for ; len(s) >= 3; s = s[3:] {
				b.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+
					uint32(s[2]-'0'), 10)
			}
			switch len(s) {
			case 2:
				b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
			case 1:
				b.Write(uint32(s[0]-'0'), 4)
			}
		},
	},
	Alphanumeric: {
		name:        "alphanumeric",
		indicator:   2,
		countLength: [NumClasses]int{9, 11, 13},
		dataLength:  func(n int) int { return (11*n + 1) / 2 },
		accepts:     IsAlpha,
		encode: func(b *Bits, s string) {
			for ; len(s) >= 2; s = s[2:] {
				b.Write(uint32(alpha[s[0]&0x3f])*45+
					uint32(alpha[s[1]&0x3f]), 11)
			}
			if len(s) == 1 {
				b.Write(uint32(alpha[s[0]&0x3f]), 6)
			}
		},
	},
	Byte: {
		name:        "byte",
		indicator:   4,
		countLength: [NumClasses]int{8, 16, 16},
		dataLength:  func(n int) int { return n * 8 },
		accepts:     func(byte) bool { return true },
		encode: func(b *Bits, s string) {
			for i := 0; i < len(s); i++ {
				b.Write(uint32(s[i]), 8)
			}
		},
	},
}

func getMode(mode Mode) *modeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.name
	}
	return strconv.Itoa(int(mode))
}

// Length returns the length in bits of n characters encoded in mode
// at the given QR version size class, including the header.  Length
// returns 0 if and only if mode is invalid.
func (mode Mode) Length(n, class int) int {
	m := getMode(mode)
	if m == nil {
		return 0
	}
	return 4 + m.countLength[class] + m.dataLength(n)
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if m := getMode(e.Mode); m != nil {
		return fmt.Sprintf("qr: non-%s string %#q", m.name, e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

// CountError represents a segment too long for the character count
// field of a version size class.
type CountError struct {
	Mode  Mode
	Count int
	Class int
}

func (e CountError) Error() string {
	return fmt.Sprintf("qr: %d character %s segment too long for "+
		"size class %d", e.Count, e.Mode, e.Class)
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	m := getMode(seg.Mode)
	if m == nil {
		return false
	}
	for i := 0; i < len(seg.Text); i++ {
		if !m.accepts(seg.Text[i]) {
			return false
		}
	}
	return true
}

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class.  EncodedLength returns 0 if and only
// if mode is invalid.  The segment is not validated.
func (seg Segment) EncodedLength(class int) int {
	return seg.Mode.Length(len(seg.Text), class)
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	if !seg.IsValid() {
		return SegmentError(seg)
	}
	m := getMode(seg.Mode)
	n := len(seg.Text)
	if n >= 1<<m.countLength[class] {
		return CountError{seg.Mode, n, class}
	}
	b.Write(m.indicator, 4)
	b.Write(uint32(n), m.countLength[class])
	m.encode(b, seg.Text)
	return nil
}

// padTo adds up to t terminator bits to b and pads it to n bits,
// first with zero bits to a byte boundary, then with alternating
// 0xec and 0x11 bytes.  n must be a multiple of 8.
func (b *Bits) padTo(t, n int) {
	b.Write(0, min(t, n-b.nbit))
	b.nbit = len(b.b) * 8
	for pad := byte(0xec); b.nbit < n; pad ^= 0xec ^ 0x11 {
		b.b = append(b.b, pad)
		b.nbit += 8
	}
}

// AddCheckBytes adds terminator, padding and checksum to b for the
// given QR version and level.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nb := v.DataBits(l)
	if b.nbit > nb {
		panic("qr: too much data")
	}
	vt := &vtab[v]
	b.padTo(4, nb)

	nd := nb >> 3
	dat := b.Bytes()[:nd:nd]
	lev := vt.level[l]
	db := nd / lev.nblock
	short := lev.nblock - nd%lev.nblock // blocks of db bytes
	rs := NewRSEncoder(lev.check)
	for i := 0; i < lev.nblock; i++ {
		if i == short {
			db++
		}
		rs.ECC(dat[:db], b.Add(lev.check))
		dat = dat[db:]
	}

	if len(b.Bytes()) != vt.bytes {
		panic("qr: internal error")
	}
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  Blocks are read in order, the shorter first.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	short := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= short {
			extra[i-short] = src[0]
			src = src[1:]
		}
	}
}

// Permute returns a BitStream reading data and checksum bits in b
// with blocks interleaved for the given QR code version and level.
func (b *Bits) Permute(v Version, l Level) *BitStream {
	vt := &vtab[v]
	src := b.Bytes()
	if len(src) != vt.bytes {
		panic("qr: wrong data length")
	}
	nblock := vt.level[l].nblock
	if nblock == 1 {
		return NewBitStream(src)
	}
	dst := make([]byte, vt.bytes)
	nd := v.DataBytes(l)
	interleave(dst[:nd], src[:nd], nblock)
	interleave(dst[nd:], src[nd:], nblock)
	return NewBitStream(dst)
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) *BitStream { return &BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Remaining returns the number of unread bits.
func (s *BitStream) Remaining() int { return len(s.b)*8 - s.pos }

// Next returns the next bit from s and true, or false and false
// past end of buffer.
func (s *BitStream) Next() (bit, ok bool) {
	i := s.pos >> 3
	if i >= len(s.b) {
		return false, false
	}
	bit = s.b[i]>>(7&^s.pos)&1 != 0
	s.pos++
	return bit, true
}

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	l Level
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	if !level.IsValid() {
		return nil, ErrLevel
	}
	p, err := makePlan(version)
	if err != nil {
		return nil, err
	}
	return &Encoder{p: p, l: level, b: NewBits(version)}, nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) Reset() { e.b.Reset() }

// Code returns a QR code containing data written to e.
func (e *Encoder) Code() (*Code, error) {
	v := e.p.Version
	if nb := v.DataBits(e.l); e.b.Bits() > nb {
		return nil, fmt.Errorf("qr: cannot encode %d bits into "+
			"%d-bit code", e.b.Bits(), nb)
	}
	e.b.AddCheckBytes(v, e.l)
	bits := e.b.Permute(v, e.l)
	// Now we have the checksum bytes and the data bytes.
	// Construct the bitmap consisting of data and checksum bits.
	data := make([]bool, e.p.Size*e.p.Size)
	if err := e.p.Serialise(bits, data); err != nil {
		return nil, err
	}

	// Apply masks to the bitmap to construct the actual codes.
	// Choose the code with the smallest penalty, the first on ties.
	var best *Code
	pen := 0
	for mask := range maskFunc {
		c := e.p.Mask(data, e.l, mask)
		if p := c.Penalty(); best == nil || p < pen {
			best, pen = c, p
		}
	}
	return best, nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}

// A version describes metadata associated with a version.
type version struct {
	apos    int    // second alignment box position, 0 if none
	astride int    // distance between further alignment boxes
	bytes   int    // total codewords
	rem     int    // remainder bits
	pattern uint32 // version information, 0 below version 7
	level   [4]level
}

type level struct {
	nblock int // number of error correction blocks
	check  int // check bytes per block
}
