// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"sync"
)

// A Code is a square grid of modules.
type Code struct {
	Bitmap []bool // true is black; module (x, y) is at y*Size+x
	Size   int    // number of modules on a side
	Mask   int    // mask pattern
}

// Black reports whether the module at (x, y) is black.
// Modules outside the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Size+x]
}

// Penalty returns the penalty value for a QR code.  The value is used
// for choosing the mask.
func (c *Code) Penalty() int {
	// Total penalty is the sum of penalties for runs and boxes
	// of same-colour modules, finder patterns and colour balance.
	//
	//   - RunP: for non-overlapping runs of n modules, n>=5 -> n-2
	//   - BoxP: for possibly overlapping 2x2 boxes -> 3
	//   - FindP: for possibly overlapping finder-like patterns
	//     10111010000 or 00001011101 within the code -> 40
	//   - BalP: for n% of black modules -> 10*floor(abs(n-50)/5)
	//
	// https://www.thonky.com/qr-code-tutorial/data-masking
	const (
		BoxPP   = 3  // BoxP:  points per box
		BalPP   = 10 // BalP:  10 points
		BalPMul = 20 //        for every 5% (1/20)
	)
	siz := c.Size
	bm := c.Bitmap

	p := 0
	for i := 0; i < siz; i++ {
		p += linePenalty(bm[i*siz:], 1, siz) // row i
		p += linePenalty(bm[i:], siz, siz)   // column i
	}

	dark := 0
	for y := 0; y < siz; y++ {
		row := bm[y*siz : (y+1)*siz]
		for x, v := range row {
			if v {
				dark++
			}
			if x+1 < siz && y+1 < siz {
				next := bm[(y+1)*siz+x:]
				if row[x+1] == v && next[0] == v && next[1] == v {
					p += BoxPP // BoxP
				}
			}
		}
	}

	sq := siz * siz
	d := dark*BalPMul - sq*BalPMul/2
	if d < 0 {
		d = -d
	}
	p += d / sq * BalPP // BalP
	return p
}

// linePenalty returns RunP and FindP for a line of n modules
// starting at line[0] with the given stride.
func linePenalty(line []bool, stride, n int) int {
	const (
		MinRun    = 5  // RunP:  miniumum run length
		RunPDelta = -2 // RunP:  add to run length
		FindPP    = 40 // FindP: points per pattern

		findB = 0b0000_1011101 // quiet zone before
		findA = 0b1011101_0000 // quiet zone after
	)
	p := 0
	r := 0           // current run length
	pat := uint16(0) // last 11 modules
	prev := false
	for i := 0; i < n; i++ {
		v := line[i*stride]
		pat = pat<<1&0x7ff | b2u(v)
		if i == 0 || v != prev {
			if r >= MinRun {
				p += r + RunPDelta // RunP
			}
			r = 0
		}
		r++
		prev = v
		if i >= 10 && (pat == findB || pat == findA) {
			p += FindPP // FindP
		}
	}
	// handle last run
	if r >= MinRun {
		p += r + RunPDelta // RunP
	}
	return p
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// A Plan describes the fixed patterns of a QR code of a specific
// version.
type Plan struct {
	Version Version // QR code version
	Size    int     // number of modules on a side

	Map     []bool // function modules: position, alignment and timing patterns, format and version information
	Pattern []bool // colours of function modules; format modules are white
}

// NewPlan returns a Plan for a QR code with the given version.
// The Plan must not be modified.
func NewPlan(version Version) (*Plan, error) {
	return makePlan(version)
}

// Plans are created the first time a version is used and are
// read-only afterwards.
var plans [MaxVersion + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version].
// If it doesn't exist, it is created.
func makePlan(version Version) (*Plan, error) {
	if !version.IsValid() {
		return nil, ErrVersion
	}
	p := &plans[version]
	p.once.Do(func() { p.p = vplan(version) })
	return p.p, nil
}

// set marks (x, y) as a function module of the given colour.
func (p *Plan) set(x, y int, black bool) {
	off := y*p.Size + x
	p.Map[off] = true
	p.Pattern[off] = black
}

// vplan creates a Plan for the given version.
func vplan(v Version) *Plan {
	info := &vtab[v]
	siz := v.Size()
	p := &Plan{
		Version: v,
		Size:    siz,
		Map:     make([]bool, siz*siz),
		Pattern: make([]bool, siz*siz),
	}

	// Timing markers (overwritten by boxes).
	for i := 0; i < siz; i++ {
		p.set(6, i, i&1 == 0)
		p.set(i, 6, i&1 == 0)
	}

	// Position boxes with separators.
	positionBox(p, 3, 3)
	positionBox(p, siz-4, 3)
	positionBox(p, 3, siz-4)

	// Alignment boxes, centred at every pair of positions except
	// those colliding with position boxes.
	pos := []int{6}
	if info.apos != 0 {
		for a := info.apos; ; a += info.astride {
			pos = append(pos, a)
			if info.astride == 0 || a >= siz-7 {
				break
			}
		}
	}
	last := len(pos) - 1
	for i, x := range pos {
		for j, y := range pos {
			if i == 0 && (j == 0 || j == last) || i == last && j == 0 {
				continue
			}
			alignBox(p, x, y)
		}
	}

	// Format pixels, set per mask.
	for i := 0; i < 9; i++ {
		p.Map[8*siz+i] = true
		p.Map[i*siz+8] = true
	}
	for i := 0; i < 8; i++ {
		p.Map[8*siz+siz-1-i] = true
		p.Map[(siz-1-i)*siz+8] = true
	}

	// One lonely black module
	p.set(8, siz-8, true)

	// Version pattern: 3x6 modules at (siz-11, 0), 6x3 at (0, siz-11).
	if vp := info.pattern; vp != 0 {
		for i := 0; i < 18; i++ {
			black := vp>>i&1 != 0
			a, b := siz-11+i%3, i/3
			p.set(a, b, black)
			p.set(b, a, black)
		}
	}
	return p
}

// positionBox draws a position (big) box centred at x, y with its
// white separator, clipped to the code.
func positionBox(p *Plan, x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			xx, yy := x+dx, y+dy
			if 0 <= xx && xx < p.Size && 0 <= yy && yy < p.Size {
				d := max(abs(dx), abs(dy))
				p.set(xx, yy, d != 2 && d != 4)
			}
		}
	}
}

// alignBox draws an alignment (small) box centred at x, y.
func alignBox(p *Plan, x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			p.set(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// DataModules returns the number of modules available for data and
// checksum bits.
func (p *Plan) DataModules() int {
	n := 0
	for _, f := range p.Map {
		if !f {
			n++
		}
	}
	return n
}

// Serialise writes bits from s to the bitmap in zigzag scan order:
// column pairs from right to left, alternately upwards and downwards,
// skipping the vertical timing strip and function modules.  Modules
// left after s is exhausted are remainder bits and stay white.
func (p *Plan) Serialise(s *BitStream, bitmap []bool) error {
	siz := p.Size
	rem := 0
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 { // vertical timing strip
			right = 5
		}
		up := (right+1)&2 == 0
		for i := 0; i < siz; i++ {
			y := i
			if up {
				y = siz - 1 - i
			}
			for x := right; x >= right-1; x-- {
				off := y*siz + x
				if p.Map[off] {
					continue
				}
				bit, ok := s.Next()
				if !ok {
					rem++
				}
				bitmap[off] = bit
			}
		}
	}
	if n := s.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d bits past end of version %v code",
			ErrInternal, n, p.Version)
	}
	if rem != vtab[p.Version].rem {
		return fmt.Errorf("%w: %d remainder bits in version %v code",
			ErrInternal, rem, p.Version)
	}
	return nil
}

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
//	   ███   ███         ▄▄▄▄▄ ▄▄▄▄▄        ▄▄▄   ▄▄▄     ▄█▄▀ ▀▄█▄▀ ▀
//	      ███   ███      █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	   ███   ███         ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var maskFunc = [8]func(x, y int) bool{
	func(x, y int) bool { return (y+x)%2 == 0 },
	func(x, y int) bool { return y%2 == 0 },
	func(x, y int) bool { return x%3 == 0 },
	func(x, y int) bool { return (y+x)%3 == 0 },
	func(x, y int) bool { return (y/2+x/3)%2 == 0 },
	func(x, y int) bool { return y*x%2+y*x%3 == 0 },
	func(x, y int) bool { return (y*x%2+y*x%3)%2 == 0 },
	func(x, y int) bool { return ((y+x)%2+y*x%3)%2 == 0 },
}

// Mask returns the code made of data modules from bitmap xored with
// the mask pattern, function modules and format bits for level and
// mask.
func (p *Plan) Mask(bitmap []bool, l Level, mask int) *Code {
	siz := p.Size
	mf := maskFunc[mask]
	bm := make([]bool, len(bitmap))
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			off := y*siz + x
			if p.Map[off] {
				bm[off] = p.Pattern[off]
			} else {
				bm[off] = bitmap[off] != mf(x, y)
			}
		}
	}
	formatBits(bm, siz, ftab[l][mask])
	return &Code{Bitmap: bm, Size: siz, Mask: mask}
}

// formatBits sets the 15 format bits, least significant first, around
// the top left position box and split between the other two.
func formatBits(bm []bool, siz int, fb uint16) {
	bit := func(i int) bool { return fb>>i&1 != 0 }
	for i := 0; i < 6; i++ {
		bm[i*siz+8] = bit(i)
	}
	bm[7*siz+8] = bit(6)
	bm[8*siz+8] = bit(7)
	bm[8*siz+7] = bit(8)
	for i := 9; i < 15; i++ {
		bm[8*siz+14-i] = bit(i)
	}
	for i := 0; i < 8; i++ {
		bm[8*siz+siz-1-i] = bit(i)
	}
	for i := 8; i < 15; i++ {
		bm[(siz-15+i)*siz+8] = bit(i)
	}
}

// FormatBits returns the 15 bit format information for level and mask.
func FormatBits(l Level, mask int) uint16 { return ftab[l][mask] }

// VersionBits returns the 18 bit version information for v,
// or 0 below version 7.
func VersionBits(v Version) uint32 { return vtab[v].pattern }
