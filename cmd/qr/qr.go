// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr writes a QR code for a string as an image or as terminal text.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"github.com/rs/zerolog/log"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/config"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/logger"
)

var g = struct {
	cfg     *config.Config
	opts    qr.Options // drawing options
	format  int        // index into formats
	fn      string     // output filename
	cfgPath string     // configuration file
	cx      int        // randr source X coordinate index in inc
	inc     [2]int     // randr source X,Y coordinate increments
	fg, bg  colorFlag  // colours
	record  bool       // add to history
	list    bool       // list history
	upper   bool       // uppercase
}{
	inc: [2]int{1, 1},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults are taken from the configuration file
and QRGEN_QR_* environment variables.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

// colorFlag is a colour option value.
type colorFlag struct {
	c   color.NRGBA
	set bool
}

func (f *colorFlag) String() string {
	if !f.set {
		return ""
	}
	return qr.FormatColor(f.c)
}

func (f *colorFlag) Set(s string, _ getopt.Option) error {
	c, err := qr.ParseColor(s)
	if err != nil {
		return err
	}
	f.c, f.set = c, true
	return nil
}

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

// Output types.  The first ones are image formats in qr.Format order.
var formats = []string{"png", "jpeg", "pbm", "utf8", "ascii"}

const numImageFormats = 3

var textEncoders = [...]func(*qr.Code, io.Writer, int) error{
	(*qr.Code).EncodeUTF8,
	(*qr.Code).EncodeASCII,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.cfgPath, "config", 'c', "configuration file", "file")
	getopt.FlagLong(&g.fg, "foreground", 'F', `dark module colour `+
		`as 3, 4, 6 or 8 hex digits, optionally preceded by "#", `+
		`or "black" or "white"; only for types png and jpeg`,
		"RGB[A]|name")
	getopt.FlagLong(&g.bg, "background", 'B', `light module colour; see -F`,
		"RGB[A]|name")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.opts.Latin1, '1',
		"store byte mode text as Latin-1 if possible")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.record, 'H', "add the code to the history")
	getopt.Flag(&g.list, 'L', "list the history and exit")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "",
		"error correction level, lowest to highest [m]", "l|m|q|h")
	width := getopt.Signed('w', 0, &getopt.SignedLimit{Base: 0, Bits: 16, Min: 1, Max: qr.MaxWidth},
		"image width in pixels, rounded down to a multiple of "+
			"the code size [300]", "width")
	margin := getopt.Signed('m', 0, &getopt.SignedLimit{Base: 0, Bits: 8, Min: 0, Max: 64},
		"quiet zone in modules [1]", "margin")
	quality := getopt.Signed('q', 0, &getopt.SignedLimit{Base: 0, Bits: 8, Min: 1, Max: 100},
		"JPEG quality [92]", "quality")
	ff := getopt.Enum('t', formats, "", `output type, one of: `+
		strings.Join(formats, ", ")+`; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()

	var err error
	if g.cfg, err = config.Load(g.cfgPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if g.opts, err = mergeOptions(g.cfg.QR, g.opts.Latin1); err != nil {
		log.Fatal().Err(err).Msg("bad qr configuration")
	}
	if *lev != "" {
		g.opts.Level, _ = qr.ParseLevel(*lev)
	}
	if getopt.IsSet('w') {
		g.opts.Width = int(*width)
	}
	if getopt.IsSet('m') {
		g.opts.Margin = int(*margin)
	}
	if getopt.IsSet('q') {
		g.opts.Quality = int(*quality)
	}
	if g.fg.set {
		g.opts.Dark = g.fg.c
	}
	if g.bg.set {
		g.opts.Light = g.bg.c
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = formats[g.opts.Format]
		}
	}
	g.format = -1
	for i, v := range formats {
		if strings.EqualFold(*ff, v) {
			g.format = i
			break
		}
	}
	if g.format < 0 {
		fmt.Fprintf(os.Stderr, "unknown output type %q\n", *ff)
		usage()
	}
	if g.format < numImageFormats {
		g.opts.Format = qr.Format(g.format)
	}
	if g.fn == "-" {
		g.fn = ""
	}
}

// mergeOptions returns the configured options, with Latin-1 set if
// either the configuration or the flag asks for it.
func mergeOptions(c config.QRConfig, latin1 bool) (qr.Options, error) {
	o, err := c.Options()
	o.Latin1 = o.Latin1 || latin1
	return o, err
}

func main() {
	logger.Init(config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"})
	parseFlags()

	ctx := context.Background()
	if g.list || g.record {
		hc := g.cfg.History
		store, err := history.Open(ctx, hc.Path, hc.MaxItems)
		if err != nil {
			log.Fatal().Err(err).Str("path", hc.Path).
				Msg("failed to open history")
		}
		defer store.Close()
		if g.list {
			if err := listHistory(ctx, os.Stdout, store); err != nil {
				log.Fatal().Err(err).Msg("failed to list history")
			}
			return
		}
		run(ctx, store)
		return
	}
	run(ctx, nil)
}

func run(ctx context.Context, store history.Store) {
	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatal().Err(err).Msg("failed to read input")
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	c, err := qr.EncodeCharset(s, g.opts.Charset(), g.opts.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode")
	}
	c = randr(c)

	var b bytes.Buffer
	if g.format < numImageFormats {
		err = c.Write(&b, g.opts)
	} else {
		err = textEncoders[g.format-numImageFormats](c, &b, g.opts.Margin)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to draw")
	}
	write(b.Bytes())

	if store != nil {
		img := b.Bytes()
		f := g.opts.Format
		if g.format >= numImageFormats {
			// Terminal text is recorded as the image it stands for.
			var ib bytes.Buffer
			if err := c.Write(&ib, g.opts); err != nil {
				log.Fatal().Err(err).Msg("failed to draw")
			}
			img = ib.Bytes()
		}
		if _, err := store.Add(ctx, s, img, f.String()); err != nil {
			log.Fatal().Err(err).Msg("failed to record history")
		}
	}
}

func write(b []byte) {
	var w = os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatal().Err(err).Msg("failed to create output")
		}
	}
	_, err := w.Write(b)
	if g.fn != "" {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to write output")
	}
}

// listHistory prints the records in store, newest first.
func listHistory(ctx context.Context, w io.Writer, store history.Store) error {
	rec, err := store.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, r := range rec {
		text := strings.ReplaceAll(r.Text, "\n", `\n`)
		if len(text) > 60 {
			n := 57
			for n > 0 && !utf8.RuneStart(text[n]) {
				n--
			}
			text = text[:n] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID,
			r.Timestamp.Local().Format(time.DateTime), r.Format, text)
	}
	return tw.Flush()
}

// randr rotates and reflects c.
func randr(c *qr.Code) *qr.Code {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	b := make([]bool, 0, len(c.Bitmap))
	var coord [2]int
	siz := c.Size
	coord[cx^1] = (siz - 1) & inc[1]
	for y := 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		for x := 0; x < siz; x++ {
			b = append(b, c.Black(coord[0], coord[1]))
			coord[cx] += inc[0]
		}
		coord[cx^1] += inc[1]
	}
	cc := *c
	cc.Bitmap = b
	return &cc
}
