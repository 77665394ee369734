// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"testing"
	"time"

	"github.com/GermanBionicSystems/hpastation/pcf857x"
	"github.com/google/go-cmp/cmp"
	periphDisplay "periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

const (
	testRows = 4
	testCols = 20
)

// transfer is one enable pulse seen on the expander.
type transfer struct {
	Data      bool
	Nibble    byte
	Backlight bool
}

func getLCD(t *testing.T, rows, cols int) (*HD44780, *i2ctest.Record) {
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = time.Sleep })
	rec := &i2ctest.Record{}
	lcd, err := NewPCF8574Backpack(rec, DefaultAddress, rows, cols)
	if err != nil {
		t.Fatal(err)
	}
	return lcd, rec
}

// decode replays the recorded expander states and returns one transfer per
// falling edge of E, the moment the controller latches the data lines.
func decode(t *testing.T, ops []i2ctest.IO) []transfer {
	var out []transfer
	var prev byte
	for _, op := range ops {
		if op.Addr != DefaultAddress {
			t.Fatalf("unexpected address 0x%x", op.Addr)
		}
		for _, v := range op.W {
			if v&bitRW != 0 {
				t.Fatalf("RW set in %#v", op.W)
			}
			if prev&bitEnable != 0 && v&bitEnable == 0 {
				if v|bitEnable != prev {
					t.Fatalf("data changed with the falling edge: 0x%02x -> 0x%02x", prev, v)
				}
				out = append(out, transfer{Data: v&bitRS != 0, Nibble: v >> 4, Backlight: v&bitBacklight != 0})
			}
			prev = v
		}
	}
	return out
}

func commands(nibbles ...byte) []transfer {
	out := make([]transfer, len(nibbles))
	for i, n := range nibbles {
		out[i] = transfer{Nibble: n, Backlight: true}
	}
	return out
}

func TestInit(t *testing.T) {
	var sleeps []time.Duration
	sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	t.Cleanup(func() { sleep = time.Sleep })
	rec := &i2ctest.Record{}
	lcd, err := NewPCF8574Backpack(rec, DefaultAddress, testRows, testCols)
	if err != nil {
		t.Fatal(err)
	}
	want := commands(
		0x3, 0x3, 0x3, 0x2,
		0x2, 0x8, // 4 bit, 2 lines
		0x0, 0xc, // display on, no cursor
		0x0, 0x6, // increment, no shift
		0x0, 0x1, // clear
	)
	if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
		t.Errorf("init mismatch (-want +got):\n%s", diff)
	}
	if sleeps[0] != delayPowerOn || sleeps[len(sleeps)-1] != delayClearHome {
		t.Errorf("unexpected delays %v", sleeps)
	}
	if lcd.Rows() != testRows || lcd.Cols() != testCols {
		t.Errorf("unexpected geometry %dx%d", lcd.Cols(), lcd.Rows())
	}
	if s := lcd.String(); len(s) == 0 {
		t.Error("lcd.String()")
	}
}

func TestInit_oneLine(t *testing.T) {
	_, rec := getLCD(t, 1, 16)
	got := decode(t, rec.Ops)
	if got[4].Nibble != 0x2 || got[5].Nibble != 0x0 {
		t.Errorf("expected function set 0x20, received %x%x", got[4].Nibble, got[5].Nibble)
	}
}

func TestNewPCF8574Backpack_geometry(t *testing.T) {
	rec := &i2ctest.Record{}
	for _, g := range [][2]int{{0, 20}, {5, 20}, {4, 16}, {2, 0}, {2, 41}, {4, 40}, {3, 24}} {
		if lcd, err := NewPCF8574Backpack(rec, DefaultAddress, g[0], g[1]); lcd != nil || err == nil {
			t.Errorf("expected error for %dx%d", g[1], g[0])
		}
	}
	if len(rec.Ops) != 0 {
		t.Errorf("unexpected writes %v", rec.Ops)
	}
}

func TestWrite(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	n, err := lcd.WriteString("Hi")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 bytes written, received %d", n)
	}
	want := []transfer{
		{Data: true, Nibble: 0x4, Backlight: true},
		{Data: true, Nibble: 0x8, Backlight: true},
		{Data: true, Nibble: 0x6, Backlight: true},
		{Data: true, Nibble: 0x9, Backlight: true},
	}
	if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
		t.Errorf("write mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveTo(t *testing.T) {
	data := []struct {
		rows, cols, row, col int
		addr                 byte
	}{
		{4, 20, 1, 1, 0x80},
		{4, 20, 2, 1, 0xc0},
		{4, 20, 3, 1, 0x94},
		{4, 20, 4, 20, 0xe7},
		{2, 16, 2, 1, 0xc0},
		{2, 16, 1, 16, 0x8f},
	}
	for _, line := range data {
		lcd, rec := getLCD(t, line.rows, line.cols)
		rec.Ops = nil
		if err := lcd.MoveTo(line.row, line.col); err != nil {
			t.Fatal(err)
		}
		want := commands(line.addr>>4, line.addr&0x0f)
		if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
			t.Errorf("MoveTo(%d,%d) on %dx%d mismatch (-want +got):\n%s", line.row, line.col, line.cols, line.rows, diff)
		}
	}
}

func TestMoveTo_outOfRange(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	for _, p := range [][2]int{{0, 1}, {1, 0}, {5, 1}, {1, 21}} {
		if err := lcd.MoveTo(p[0], p[1]); err == nil {
			t.Errorf("expected error for MoveTo(%d,%d)", p[0], p[1])
		}
	}
	if len(rec.Ops) != 0 {
		t.Errorf("unexpected writes %v", rec.Ops)
	}
}

func TestBacklight(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	if err := lcd.Backlight(0); err != nil {
		t.Fatal(err)
	}
	if _, err := lcd.WriteString("A"); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Backlight(0xff); err != nil {
		t.Fatal(err)
	}
	// Only P3 changes; the data lines keep the last latched state.
	if diff := cmp.Diff([]byte{0x10}, rec.Ops[0].W); diff != "" {
		t.Errorf("backlight off mismatch (-want +got):\n%s", diff)
	}
	for _, tr := range decode(t, rec.Ops) {
		if tr.Backlight {
			t.Errorf("backlight bit set while off: %+v", tr)
		}
	}
	if diff := cmp.Diff([]byte{0x11 | bitBacklight}, rec.Ops[len(rec.Ops)-1].W); diff != "" {
		t.Errorf("backlight on mismatch (-want +got):\n%s", diff)
	}
	// Already on.
	n := len(rec.Ops)
	if err := lcd.Backlight(0x80); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != n {
		t.Errorf("unexpected write %v", rec.Ops[n:])
	}
}

// Each instruction is a single transaction of three port states per nibble.
func TestNewPCF8574Backpack_stream(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	if err := lcd.MoveTo(2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := lcd.WriteString("Hi"); err != nil {
		t.Fatal(err)
	}
	want := []i2ctest.IO{
		{Addr: DefaultAddress, W: []byte{0xc8, 0xcc, 0xc8, 0x08, 0x0c, 0x08}},
		{Addr: DefaultAddress, W: []byte{
			0x49, 0x4d, 0x49, 0x89, 0x8d, 0x89,
			0x69, 0x6d, 0x69, 0x99, 0x9d, 0x99,
		}},
	}
	if diff := cmp.Diff(want, rec.Ops); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}
}

// The backpack holds RW low and sets the backlight before the wake-up
// sequence.
func TestNewPCF8574Backpack_preamble(t *testing.T) {
	_, rec := getLCD(t, testRows, testCols)
	want := []i2ctest.IO{{Addr: DefaultAddress, W: []byte{0x00}}, {Addr: DefaultAddress, W: []byte{bitBacklight}}}
	if diff := cmp.Diff(want, rec.Ops[:2]); diff != "" {
		t.Errorf("preamble mismatch (-want +got):\n%s", diff)
	}
}

// The same controller wired pin by pin through an expander group sees the
// same transfers as the streamed backpack.
func TestNewHD44780(t *testing.T) {
	_, ref := getLCD(t, testRows, testCols)
	rec := &i2ctest.Record{}
	pcf, err := pcf857x.New(rec, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	if err := pcf.Pins[pinRW].Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	data, err := pcf.Group(4, 5, 6, 7)
	if err != nil {
		t.Fatal(err)
	}
	lcd, err := NewHD44780(data, pcf.Pins[pinRS], pcf.Pins[pinEnable], pcf.Pins[pinBacklight], testRows, testCols)
	if err != nil {
		t.Fatal(err)
	}
	got := decode(t, rec.Ops)
	if diff := cmp.Diff(decode(t, ref.Ops), got); diff != "" {
		t.Errorf("init mismatch (-backpack +gpio):\n%s", diff)
	}
	for _, op := range rec.Ops {
		if len(op.W) != 1 {
			t.Fatalf("expected one byte per pin change, received %#v", op.W)
		}
	}

	rec.Ops = nil
	if _, err := lcd.WriteString("Hi"); err != nil {
		t.Fatal(err)
	}
	want := []transfer{
		{Data: true, Nibble: 0x4, Backlight: true},
		{Data: true, Nibble: 0x8, Backlight: true},
		{Data: true, Nibble: 0x6, Backlight: true},
		{Data: true, Nibble: 0x9, Backlight: true},
	}
	if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
		t.Errorf("write mismatch (-want +got):\n%s", diff)
	}
	if err := lcd.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := data.Out(0, 0); err == nil {
		t.Error("expected the data group to be released by Halt")
	}
}

func TestNewHD44780_missingPins(t *testing.T) {
	pcf, err := pcf857x.New(&i2ctest.Record{}, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	short, _ := pcf.Group(4, 5, 6)
	data, _ := pcf.Group(4, 5, 6, 7)
	for _, c := range []struct {
		data       gpio.Group
		rs, enable gpio.PinOut
	}{
		{nil, pcf.Pins[0], pcf.Pins[2]},
		{short, pcf.Pins[0], pcf.Pins[2]},
		{data, nil, pcf.Pins[2]},
		{data, pcf.Pins[0], nil},
	} {
		if lcd, err := NewHD44780(c.data, c.rs, c.enable, nil, testRows, testCols); lcd != nil || err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}

func TestCursor(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	if err := lcd.Cursor(periphDisplay.CursorUnderline, periphDisplay.CursorBlink); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Cursor(periphDisplay.CursorOff); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Cursor(periphDisplay.CursorMode(99)); err == nil {
		t.Error("expected error for an unknown cursor mode")
	}
	want := commands(0x0, 0xf, 0x0, 0xc)
	if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}
}

func TestMove(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	if err := lcd.Move(periphDisplay.Forward); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Move(periphDisplay.Backward); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Move(periphDisplay.Up); !errors.Is(err, periphDisplay.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, received %v", err)
	}
	want := commands(0x1, 0x4, 0x1, 0x0)
	if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
		t.Errorf("move mismatch (-want +got):\n%s", diff)
	}
}

func TestHalt(t *testing.T) {
	lcd, rec := getLCD(t, testRows, testCols)
	rec.Ops = nil
	if err := lcd.Halt(); err != nil {
		t.Fatal(err)
	}
	want := []transfer{
		{Nibble: 0x0, Backlight: true}, {Nibble: 0x1, Backlight: true},
		{Nibble: 0x0}, {Nibble: 0x8},
	}
	if diff := cmp.Diff(want, decode(t, rec.Ops)); diff != "" {
		t.Errorf("halt mismatch (-want +got):\n%s", diff)
	}
}

func TestInterface(t *testing.T) {
	lcd, _ := getLCD(t, testRows, testCols)
	defer func() { _ = lcd.Halt() }()
	errs := displaytest.TestTextDisplay(lcd, false)
	for _, err := range errs {
		if !errors.Is(err, periphDisplay.ErrNotImplemented) {
			t.Error(err)
		}
	}
}

func TestBusError(t *testing.T) {
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = time.Sleep })
	bus := &i2ctest.Playback{DontPanic: true}
	if lcd, err := NewPCF8574Backpack(bus, DefaultAddress, testRows, testCols); lcd != nil || err == nil {
		t.Fatal("expected initialization to fail")
	}
}
