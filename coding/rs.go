// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Reed-Solomon error correction over GF(256), the field of
// polynomials over GF(2) modulo x⁸+x⁴+x³+x²+1 (0x11d), with
// generator α = x (2).

// Log and antilog tables.  gfExp is doubled so that the sum of two
// logarithms can index it without reduction.  Set up by init and
// read-only afterwards.
var (
	gfExp [2 * 255]byte
	gfLog [256]int
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfExp[i+255] = byte(x)
		gfLog[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= 0x11d
		}
	}
	gfLog[0] = 255 // unused: log of 0 is undefined
}

// gfMul returns the product of a and b in GF(256).
func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[gfLog[a]+gfLog[b]]
}

// gfExpOf returns αⁱ.
func gfExpOf(i int) byte { return gfExp[i%255] }

// An RSEncoder computes Reed-Solomon check bytes.
type RSEncoder struct {
	gen []byte // generator polynomial, highest degree first
}

// NewRSEncoder returns an RSEncoder producing c check bytes.  The
// generator polynomial is (x-α⁰)(x-α¹)...(x-αᶜ⁻¹).
func NewRSEncoder(c int) *RSEncoder {
	gen := make([]byte, 1, c+1)
	gen[0] = 1
	for i := 0; i < c; i++ {
		// gen *= x + αⁱ
		a := gfExpOf(i)
		gen = append(gen, 0)
		for j := len(gen) - 1; j > 0; j-- {
			gen[j] ^= gfMul(gen[j-1], a)
		}
	}
	return &RSEncoder{gen: gen}
}

// ECC writes to check the check bytes for data: the remainder of
// data·xᶜ divided by the generator polynomial.  len(check) must equal
// the number of check bytes rs was created for.
func (rs *RSEncoder) ECC(data, check []byte) {
	g := rs.gen[1:]
	if len(check) != len(g) {
		panic("qr: check length mismatch")
	}
	for i := range check {
		check[i] = 0
	}
	for _, d := range data {
		f := d ^ check[0]
		copy(check, check[1:])
		check[len(check)-1] = 0
		if f == 0 {
			continue
		}
		for j, c := range g {
			check[j] ^= gfMul(c, f)
		}
	}
}
