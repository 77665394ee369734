// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package snapshot renders station frames as images of a character LCD and
// saves them as PNG, for web dashboards or documentation.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/hpastation/station"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Opts represents the options of the rendering.
type Opts struct {
	// Size is the font size in points.
	Size float64
	// Margin around the text, in pixels.
	Margin int
	// Background is the lit panel, Cell the unused dot matrix behind each
	// character and Ink the characters.
	Background, Cell, Ink color.NRGBA
}

// DefaultOpts looks like a yellow-green backlit LCD.
var DefaultOpts = Opts{
	Size:       16,
	Margin:     8,
	Background: color.NRGBA{0x9c, 0xc4, 0x3c, 0xff},
	Cell:       color.NRGBA{0x8c, 0xb4, 0x34, 0xff},
	Ink:        color.NRGBA{0x1c, 0x2c, 0x0c, 0xff},
}

// Dev renders frames with a monospace font.
type Dev struct {
	path   string
	opts   Opts
	face   font.Face
	cellW  int
	cellH  int
	ascent int
}

// New returns a Dev writing each frame to path. An empty path only renders.
// The Opts can be nil.
func New(path string, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: opts.Size})
	m := face.Metrics()
	adv, _ := face.GlyphAdvance('0')
	return &Dev{
		path:   path,
		opts:   *opts,
		face:   face,
		cellW:  adv.Ceil() + 1,
		cellH:  m.Height.Ceil() + 2,
		ascent: m.Ascent.Ceil(),
	}, nil
}

// Bounds returns the size of the rendered images.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, 2*d.opts.Margin+station.Cols*d.cellW, 2*d.opts.Margin+station.Rows*d.cellH)
}

// Render draws f.
func (d *Dev) Render(f station.Frame) image.Image {
	return d.context(f).Image()
}

// Frame implements station.FrameSink. The file is replaced atomically.
func (d *Dev) Frame(s station.Screen, f station.Frame) error {
	if d.path == "" {
		return nil
	}
	tmp := filepath.Join(filepath.Dir(d.path), "."+filepath.Base(d.path)+".tmp")
	if err := d.context(f).SavePNG(tmp); err != nil {
		return fmt.Errorf("snapshot: %s: %w", s, err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("Snapshot{%s}", d.path)
}

func (d *Dev) context(f station.Frame) *gg.Context {
	b := d.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetColor(d.opts.Background)
	dc.Clear()
	dc.SetFontFace(d.face)
	m := float64(d.opts.Margin)
	for r, line := range f {
		y := m + float64(r*d.cellH)
		for c := 0; c < station.Cols; c++ {
			x := m + float64(c*d.cellW)
			dc.SetColor(d.opts.Cell)
			dc.DrawRectangle(x, y, float64(d.cellW-1), float64(d.cellH-2))
			dc.Fill()
			if c < len(line) && line[c] != ' ' {
				dc.SetColor(d.opts.Ink)
				dc.DrawString(string(line[c]), x, y+float64(d.ascent))
			}
		}
	}
	return dc
}

var _ station.FrameSink = &Dev{}
