// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"io"
	"strings"
)

// halfBlocks maps the upper and lower module of a character cell to
// a UTF-8 block element.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// EncodeUTF8 writes the code to w as text with two rows of modules
// per line, drawn with half block characters, and margin modules of
// quiet zone.
func (c *Code) EncodeUTF8(w io.Writer, margin int) error {
	if margin < 0 {
		return ErrArgs
	}
	var b strings.Builder
	for y := -margin; y < c.Size+margin; y += 2 {
		for x := -margin; x < c.Size+margin; x++ {
			i := 0
			if c.Black(x, y) {
				i |= 1
			}
			if y+1 < c.Size+margin && c.Black(x, y+1) {
				i |= 2
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeASCII writes the code to w as text with each module drawn as
// two characters, "##" for dark and spaces for light, and margin
// modules of quiet zone.
func (c *Code) EncodeASCII(w io.Writer, margin int) error {
	if margin < 0 {
		return ErrArgs
	}
	pix := c.Size + 2*margin
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -margin; y < c.Size+margin; y++ {
		for x := -margin; x < c.Size+margin; x++ {
			var p byte = ' '
			if c.Black(x, y) {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}

// String returns the code drawn with half block characters and one
// module of quiet zone.
func (c *Code) String() string {
	var b strings.Builder
	c.EncodeUTF8(&b, 1)
	return b.String()
}
