// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode turns text into a Code, a square grid of modules.  The Code can
be drawn as an image or written as PNG, JPEG, PBM or terminal text.
Generate does all of it in one call.
*/
package qr // import "github.com/BadassAman4014/Simple-Qr-code-Generator"

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/coding"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15%
	Q              // 25%
	H              // 30%
)

func (l Level) String() string { return coding.Level(l).String() }

// ParseLevel returns the Level named by s, one of "L", "M", "Q" or
// "H" in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		if i := strings.IndexByte("LMQHlmqh", s[0]); i >= 0 {
			return Level(i & 3), nil
		}
	}
	return 0, fmt.Errorf("%w: error correction level %q", ErrArgs, s)
}

var (
	// ErrInvalidInput is returned for empty text.
	ErrInvalidInput = errors.New("qr: empty text")

	// ErrDataTooLong matches errors returned when the text does not
	// fit in a version 40 code at the requested level.
	ErrDataTooLong = errors.New("qr: data too long")

	// ErrInternal is returned when an internal consistency check
	// fails.
	ErrInternal = coding.ErrInternal

	// ErrArgs is returned for invalid drawing or output arguments.
	ErrArgs = errors.New("qr: invalid arguments")
)

// DataTooLongError reports the data size in bytes, rounded up, and
// the capacity of the largest code at the requested level.
type DataTooLongError struct {
	Level Level
	Need  int // data bytes needed
	Max   int // data bytes available in version 40
}

func (e *DataTooLongError) Error() string {
	return fmt.Sprintf("qr: data too long: need %d bytes, "+
		"level %v holds %d", e.Need, e.Level, e.Max)
}

// Is reports whether target is ErrDataTooLong.
func (e *DataTooLongError) Is(target error) bool { return target == ErrDataTooLong }

// A Code is a square grid of modules.
type Code struct {
	Bitmap  []bool         // true is dark; module (x, y) is at y*Size+x
	Size    int            // number of modules on a side
	Version coding.Version // QR version
	Level   Level          // error correction level
	Mask    int            // mask pattern
}

// Black reports whether the module at (x, y) is dark.
// Modules outside the code are light.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Size+x]
}

// Encode returns an encoding of UTF-8 text at the given error
// correction level.
func Encode(text string, level Level) (*Code, error) {
	return EncodeCharset(text, split.UTF8, level)
}

// EncodeCharset returns an encoding of text at the given error
// correction level, storing byte mode segments as directed by cs.
//
// The text is split into segments optimally for each version size
// class in turn, and the smallest version that holds the segments is
// used.  The level is never lowered to make the data fit.
func EncodeCharset(text string, cs split.Charset, level Level) (*Code, error) {
	if text == "" {
		return nil, ErrInvalidInput
	}
	l := coding.Level(level)
	if !l.IsValid() {
		return nil, fmt.Errorf("%w: level %d", ErrArgs, int(level))
	}
	sp := split.New(text, cs)
	var bits int
	for class := 0; class < coding.NumClasses; class++ {
		var segs []coding.Segment
		segs, bits = sp.Split(class)
		v, max := coding.ClassRange(class)
		if max.DataBits(l) < bits {
			continue
		}
		// Find the smallest version in the size class.
		for v < max {
			if mid := (v + max) / 2; mid.DataBits(l) < bits {
				v = mid + 1
			} else {
				max = mid
			}
		}
		cc, err := coding.Encode(v, l, segs...)
		if err != nil {
			if !errors.Is(err, coding.ErrInternal) {
				err = fmt.Errorf("%w: %w", ErrInternal, err)
			}
			return nil, err
		}
		return &Code{
			Bitmap:  cc.Bitmap,
			Size:    cc.Size,
			Version: v,
			Level:   level,
			Mask:    cc.Mask,
		}, nil
	}
	return nil, &DataTooLongError{
		Level: level,
		Need:  (bits + 7) / 8,
		Max:   coding.MaxVersion.DataBytes(l),
	}
}
