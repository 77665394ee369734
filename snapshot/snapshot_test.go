// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package snapshot

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GermanBionicSystems/hpastation/station"
)

func inked(t *testing.T, d *Dev, f station.Frame) int {
	img := d.Render(f)
	if img.Bounds() != d.Bounds() {
		t.Fatalf("unexpected bounds %v != %v", img.Bounds(), d.Bounds())
	}
	// Anything well below the dot matrix green has ink on it.
	limit := d.opts.Cell.G - 0x20
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).G < limit {
				n++
			}
		}
	}
	return n
}

func TestRender(t *testing.T) {
	d, err := New("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := inked(t, d, station.Frame{}); n != 0 {
		t.Errorf("empty frame has %d inked pixels", n)
	}
	f := station.RenderClock(time.Date(2026, 1, 24, 23, 54, 0, 0, time.UTC))
	if n := inked(t, d, f); n == 0 {
		t.Error("expected text to be drawn")
	}
	// An empty path only renders.
	if err := d.Frame(station.ClockScreen, f); err != nil {
		t.Fatal(err)
	}
}

func TestFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lcd.png")
	d, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	f := station.RenderLive(station.Live{Pressure: 10132, Temperature: 251})
	if err := d.Frame(station.LiveScreen, f); err != nil {
		t.Fatal(err)
	}
	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	img, err := png.Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != d.Bounds() {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}

func TestFrame_badPath(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "missing", "lcd.png"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Frame(station.ClockScreen, station.Frame{}); err == nil {
		t.Error("expected error for a missing directory")
	}
}
