// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split_test

import (
	"fmt"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/coding"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/split"
)

func ExampleSplitter_Split() {
	s := split.New("HELLO 12345678901234", split.UTF8)
	segs, bits := s.Split(coding.Class0)
	for _, seg := range segs {
		fmt.Printf("%-12s %q\n", seg.Mode, seg.Text)
	}
	fmt.Println(bits, "bits")
	// Output:
	// alphanumeric "HELLO "
	// numeric      "12345678901234"
	// 107 bits
}

func ExampleNew_latin1() {
	for _, cs := range []split.Charset{split.UTF8, split.Latin1} {
		segs, bits := split.Text("Größe", cs, coding.Class0)
		fmt.Printf("%s: %d bytes, %d bits\n", cs, len(segs[0].Text), bits)
	}
	// Output:
	// utf-8: 7 bytes, 68 bits
	// latin-1: 5 bytes, 52 bits
}
