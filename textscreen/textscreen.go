// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package textscreen implements a display.TextDisplay that outputs to a
// terminal using ANSI color codes.
//
// Useful to run the station on a machine without the LCD. The backlight is
// drawn as a colored frame around the text.
package textscreen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	Rows, Cols int
	// W defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// Lit and Unlit are the frame colors with the backlight on and off.
	Lit, Unlit color.NRGBA

	_ struct{}
}

// DefaultOpts emulates a 20x4 LCD with a green backlight.
var DefaultOpts = Opts{
	Rows:  4,
	Cols:  20,
	Lit:   color.NRGBA{0x40, 0xc0, 0x40, 0xff},
	Unlit: color.NRGBA{0x20, 0x20, 0x20, 0xff},
}

// Dev is a character LCD emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	opts    Opts

	text      [][]byte
	row, col  int
	on        bool
	backlight bool
	drawn     bool

	buf bytes.Buffer
}

// New returns a Dev that displays at the console. The Opts can be nil.
//
// Nothing is written until the first change.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Rows <= 0 {
		o.Rows = DefaultOpts.Rows
	}
	if o.Cols <= 0 {
		o.Cols = DefaultOpts.Cols
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := o.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:         w,
		palette:   *p,
		opts:      o,
		text:      make([][]byte, o.Rows),
		on:        true,
		backlight: true,
	}
	for i := range d.text {
		d.text[i] = bytes.Repeat([]byte{' '}, o.Cols)
	}
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("TextScreen{%dx%d}", d.opts.Cols, d.opts.Rows)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// AutoScroll is not supported.
func (d *Dev) AutoScroll(enabled bool) error {
	return display.ErrNotImplemented
}

// Clear blanks the text and moves the cursor home.
func (d *Dev) Clear() error {
	for _, r := range d.text {
		for i := range r {
			r[i] = ' '
		}
	}
	d.row, d.col = 0, 0
	return d.refresh()
}

// Cols returns the number of columns.
func (d *Dev) Cols() int {
	return d.opts.Cols
}

// Cursor accepts any mode; the cursor is never drawn.
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	for _, m := range modes {
		switch m {
		case display.CursorOff, display.CursorBlink, display.CursorUnderline, display.CursorBlock:
		default:
			return fmt.Errorf("textscreen: unexpected cursor: %d", m)
		}
	}
	return nil
}

// Display turns the text on or off.
func (d *Dev) Display(on bool) error {
	d.on = on
	return d.refresh()
}

// Home moves the cursor to the first position.
func (d *Dev) Home() error {
	d.row, d.col = 0, 0
	return nil
}

// MinCol returns 1.
func (d *Dev) MinCol() int {
	return 1
}

// MinRow returns 1.
func (d *Dev) MinRow() int {
	return 1
}

// Move moves the cursor forward or backward on the current row.
func (d *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Forward:
		if d.col < d.opts.Cols {
			d.col++
		}
	case display.Backward:
		if d.col > 0 {
			d.col--
		}
	default:
		return fmt.Errorf("textscreen: %w", display.ErrNotImplemented)
	}
	return nil
}

// MoveTo moves the cursor, 1 based.
func (d *Dev) MoveTo(row, col int) error {
	if row < 1 || row > d.opts.Rows || col < 1 || col > d.opts.Cols {
		return fmt.Errorf("textscreen: MoveTo(%d,%d) value out of range", row, col)
	}
	d.row, d.col = row-1, col-1
	return nil
}

// Rows returns the number of rows.
func (d *Dev) Rows() int {
	return d.opts.Rows
}

// Write writes text at the cursor. Characters past the end of the row are
// dropped like on a display whose next row is not adjacent in memory.
func (d *Dev) Write(p []byte) (int, error) {
	r := d.text[d.row]
	for _, c := range p {
		if d.col >= len(r) {
			break
		}
		r[d.col] = c
		d.col++
	}
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString writes text at the cursor.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

// Backlight changes the frame color.
func (d *Dev) Backlight(intensity display.Intensity) error {
	d.backlight = intensity > 0
	return d.refresh()
}

// Lines returns the current text, one string per row.
func (d *Dev) Lines() []string {
	out := make([]string, len(d.text))
	for i, r := range d.text {
		out[i] = string(r)
	}
	return out
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.drawn {
		// Go back to the top left corner of the previous frame.
		fmt.Fprintf(&d.buf, "\r\033[%dA", d.opts.Rows+2)
	}
	frame := d.opts.Unlit
	if d.backlight {
		frame = d.opts.Lit
	}
	block := d.palette.Block(frame)
	border := func() {
		for i := 0; i < d.opts.Cols+2; i++ {
			_, _ = d.buf.WriteString(block)
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	border()
	for _, r := range d.text {
		_, _ = d.buf.WriteString(block)
		_, _ = d.buf.WriteString("\033[0m")
		if d.on {
			_, _ = d.buf.Write(r)
		} else {
			_, _ = d.buf.Write(bytes.Repeat([]byte{' '}, len(r)))
		}
		_, _ = d.buf.WriteString(block)
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	border()
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
