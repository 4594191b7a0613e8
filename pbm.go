// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  Each module is scale pixels wide, and the
// code is surrounded by margin modules of quiet zone.  Dark modules
// are black and light ones are white.  Images wider than MaxWidth
// are refused with ErrArgs.
func (c *Code) EncodePBM(w io.Writer, scale, margin int) error {
	length, err := c.side(scale, margin)
	if err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	siz := c.Size
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for i := 0; i < scale*margin; i++ {
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	off := scale * margin
	for y := 0; y < siz; y++ {
		pbmRow(row, c.Bitmap[y*siz:(y+1)*siz], scale, off)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	clear(row)
	for i := 0; i < scale*margin; i++ {
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	return b.Flush()
}

// pbmRow encodes a row of QR modules in PBM format, most significant
// bit first, starting off pixels into the row.
func pbmRow(row []byte, srow []bool, scale, off int) {
	clear(row)
	for x, v := range srow {
		if !v {
			continue
		}
		for p := off + x*scale; p < off+(x+1)*scale; p++ {
			row[p>>3] |= 0x80 >> (p & 7)
		}
	}
}
