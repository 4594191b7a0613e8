// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
)

// Scale returns the number of image pixels per module for an image
// at most width pixels wide with margin modules of quiet zone on each
// side.  Scale is at least 1, so a narrow width yields a wider image.
func (c *Code) Scale(width, margin int) int {
	return max(1, width/(c.Size+2*margin))
}

// side returns the side in pixels of an image of c with scale pixels
// per module and margin modules of quiet zone, or ErrArgs if it
// exceeds MaxWidth.
func (c *Code) side(scale, margin int) (int, error) {
	if margin < 0 || margin > MaxMargin {
		return 0, fmt.Errorf("%w: margin %d", ErrArgs, margin)
	}
	n := c.Size + 2*margin
	if scale < 1 || scale > MaxWidth/n {
		return 0, fmt.Errorf("%w: %d pixels per module", ErrArgs, scale)
	}
	return scale * n, nil
}

// Image returns an image of c at most width pixels wide, as returned
// by Scale, with margin modules of quiet zone on each side.  Palette
// index 0 is light and index 1 is dark.  Images wider than MaxWidth
// are refused with ErrArgs.
func (c *Code) Image(width, margin int, dark, light color.Color) (*image.Paletted, error) {
	scale := c.Scale(width, margin)
	d, err := c.side(scale, margin)
	if err != nil {
		return nil, err
	}
	siz := c.Size
	img := image.NewPaletted(image.Rect(0, 0, d, d),
		color.Palette{light, dark})

	off := scale * margin
	for y := 0; y < siz; y++ {
		// Draw the first row of pixels, then copy it.
		start := (off+y*scale)*img.Stride + off
		row := img.Pix[start : start+siz*scale]
		for x, v := range c.Bitmap[y*siz : (y+1)*siz] {
			if v {
				px := row[x*scale : (x+1)*scale]
				for i := range px {
					px[i] = 1
				}
			}
		}
		for i := 1; i < scale; i++ {
			copy(img.Pix[start+i*img.Stride:], row)
		}
	}
	return img, nil
}

// EncodePNG writes img to w as a PNG image.
func EncodePNG(w io.Writer, img image.Image) error {
	e := png.Encoder{CompressionLevel: png.BestCompression}
	return e.Encode(w, img)
}

// EncodeJPEG writes img to w as a JPEG image with the given quality,
// from 1 to 100.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
