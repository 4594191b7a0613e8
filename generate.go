// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/split"
)

// A Format is an image file format.
type Format int

const (
	PNG  Format = iota // image/png
	JPEG               // image/jpeg
	PBM                // image/x-portable-bitmap
)

var formats = [...]struct {
	name, ext, mime string
}{
	PNG:  {"png", "png", "image/png"},
	JPEG: {"jpeg", "jpg", "image/jpeg"},
	PBM:  {"pbm", "pbm", "image/x-portable-bitmap"},
}

func (f Format) valid() bool { return f >= 0 && int(f) < len(formats) }

func (f Format) String() string {
	if f.valid() {
		return formats[f].name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file name extension for f, without the dot.
func (f Format) Ext() string {
	if f.valid() {
		return formats[f].ext
	}
	return ""
}

// MIMEType returns the media type of f.
func (f Format) MIMEType() string {
	if f.valid() {
		return formats[f].mime
	}
	return "application/octet-stream"
}

// ParseFormat returns the Format named by s: a name, an extension or
// a media type, in any case.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	for i, v := range formats {
		if s == v.name || s == v.ext || s == v.mime {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: image format %q", ErrArgs, s)
}

// Default drawing parameters.
const (
	DefaultLevel   = M
	DefaultWidth   = 300 // pixels
	DefaultMargin  = 1   // modules
	DefaultQuality = 92  // JPEG quality
)

// Image size limits.  A code drawn with at most MaxMargin modules of
// quiet zone at one pixel per module fits in MaxWidth pixels.
const (
	MaxWidth  = 1 << 14              // pixels
	MaxMargin = (MaxWidth - 177) / 2 // modules; 177 is the side of version 40
)

// Default colours.
var (
	DefaultDark  = color.NRGBA{0x1f, 0x29, 0x37, 0xff} // #1F2937
	DefaultLight = color.NRGBA{0xff, 0xff, 0xff, 0xff} // #FFFFFF
)

// Options control Generate.
type Options struct {
	Level   Level       // error correction level
	Width   int         // maximum image width in pixels
	Margin  int         // quiet zone in modules
	Dark    color.Color // dark module colour, DefaultDark if nil
	Light   color.Color // light module and margin colour, DefaultLight if nil
	Format  Format      // output format
	Quality int         // JPEG quality from 1 to 100, DefaultQuality if 0
	Latin1  bool        // store byte mode text as ISO 8859-1 if possible
}

// DefaultOptions returns the default Options: level M, 300 pixels
// wide, one module of margin, #1F2937 on #FFFFFF, PNG.
func DefaultOptions() Options {
	return Options{
		Level:   DefaultLevel,
		Width:   DefaultWidth,
		Margin:  DefaultMargin,
		Dark:    DefaultDark,
		Light:   DefaultLight,
		Format:  PNG,
		Quality: DefaultQuality,
	}
}

// check validates o and fills in default colours and quality.
func (o *Options) check() error {
	switch {
	case o.Width <= 0 || o.Width > MaxWidth:
		return fmt.Errorf("%w: width %d", ErrArgs, o.Width)
	case o.Margin < 0 || o.Margin > MaxMargin:
		return fmt.Errorf("%w: margin %d", ErrArgs, o.Margin)
	case o.Quality < 0 || o.Quality > 100:
		return fmt.Errorf("%w: quality %d", ErrArgs, o.Quality)
	case !o.Format.valid():
		return fmt.Errorf("%w: format %d", ErrArgs, int(o.Format))
	}
	if o.Dark == nil {
		o.Dark = DefaultDark
	}
	if o.Light == nil {
		o.Light = DefaultLight
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	return nil
}

// Charset returns the split.Charset selected by o.
func (o *Options) Charset() split.Charset {
	if o.Latin1 {
		return split.Latin1
	}
	return split.UTF8
}

// Write writes c to w as an image drawn according to o.
func (c *Code) Write(w io.Writer, o Options) error {
	if err := o.check(); err != nil {
		return err
	}
	if o.Format == PBM {
		return c.EncodePBM(w, c.Scale(o.Width, o.Margin), o.Margin)
	}
	img, err := c.Image(o.Width, o.Margin, o.Dark, o.Light)
	if err != nil {
		return err
	}
	if o.Format == JPEG {
		return EncodeJPEG(w, img, o.Quality)
	}
	return EncodePNG(w, img)
}

// Generate encodes text and returns the image drawn according to o.
// Generate is safe for concurrent use.
func Generate(text string, o Options) ([]byte, error) {
	if err := o.check(); err != nil {
		return nil, err
	}
	c, err := EncodeCharset(text, o.Charset(), o.Level)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := c.Write(&b, o); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Filename returns a download file name for an image generated at t,
// "qrcode-" followed by the Unix time in milliseconds.
func Filename(f Format, t time.Time) string {
	return fmt.Sprintf("qrcode-%d.%s", t.UnixMilli(), f.Ext())
}

// DataURL returns an RFC 2397 data URL holding img.
func DataURL(f Format, img []byte) string {
	return "data:" + f.MIMEType() + ";base64," +
		base64.StdEncoding.EncodeToString(img)
}
