// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls a Hitachi HD44780 character LCD in 4 bit mode.
//
// The controller is driven either from a gpio.Group and discrete pins, see
// NewHD44780, or through the PCF8574 I²C backpack found on most modules, see
// NewPCF8574Backpack. RW is always held low; the busy flag is never read so
// the driver waits for the worst case execution time of each instruction.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// Instructions.
const (
	cmdClear       byte = 0x01
	cmdHome        byte = 0x02
	cmdEntryMode   byte = 0x04
	cmdDisplayCtrl byte = 0x08
	cmdShift       byte = 0x10
	cmdFunctionSet byte = 0x20
	cmdSetDDRAM    byte = 0x80

	entryIncrement byte = 0x02
	entryShift     byte = 0x01

	displayOn byte = 0x04
	cursorOn  byte = 0x02
	blinkOn   byte = 0x01

	shiftRight byte = 0x04

	functionTwoLines byte = 0x08
)

const (
	delayPowerOn   = 50 * time.Millisecond
	delayWakeup    = 4100 * time.Microsecond
	delayWakeup2   = 100 * time.Microsecond
	delayClearHome = 2 * time.Millisecond
	delayEnable    = time.Microsecond
	delayExecute   = 40 * time.Microsecond
)

// port moves 4 bit transfers to the controller.
type port interface {
	// write latches the low nibble of each value in turn, with RS selecting
	// the data register.
	write(rs bool, nibbles ...byte) error
	setBacklight(on bool) error
	halt() error
	String() string
}

// HD44780 is a character display.
//
// Implements periph.io/conn/x/display/TextDisplay and display.DisplayBacklight
type HD44780 struct {
	port      port
	rows      int
	cols      int
	on        bool
	cursor    bool
	blink     bool
	shift     bool
	backlight bool
}

var rowOffsets = [][]byte{{0x00, 0x40}, {0x00, 0x40, 0x14, 0x54}}

// getRowConstant returns the DDRAM address of the first column of row, which
// is 1 based.
func getRowConstant(row, maxcols int) byte {
	if maxcols == 16 {
		return rowOffsets[0][row-1]
	}
	return rowOffsets[1][row-1]
}

// NewHD44780 initializes a display whose D4..D7 lines are wired to the first
// four pins of data, and returns it cleared, with the cursor hidden and the
// backlight on. backlight can be nil. RW must be held low by the caller.
//
// rows must be between 1 and 4. Displays with 3 or 4 rows have at most 20
// columns, 2 line displays up to 40. A display with 16 columns supports at
// most 2 rows.
func NewHD44780(data gpio.Group, rs, enable, backlight gpio.PinOut, rows, cols int) (*HD44780, error) {
	if err := checkGeometry(rows, cols); err != nil {
		return nil, err
	}
	if data == nil || len(data.Pins()) < 4 || rs == nil || enable == nil {
		return nil, errors.New("hd44780: D4..D7, RS and E are required")
	}
	return newHD44780(&gpioPort{data: data, rs: rs, enable: enable, backlight: backlight}, rows, cols)
}

func newHD44780(p port, rows, cols int) (*HD44780, error) {
	lcd := &HD44780{
		port:      p,
		rows:      rows,
		cols:      cols,
		backlight: true,
	}
	if err := lcd.init(); err != nil {
		return nil, err
	}
	return lcd, nil
}

// checkGeometry rejects sizes the row address table can't serve. 40x4
// modules use two controllers and are not supported.
func checkGeometry(rows, cols int) error {
	switch {
	case rows < 1 || rows > 4 || cols < 1 || cols > 40:
	case rows > 2 && (cols == 16 || cols > 20):
	default:
		return nil
	}
	return fmt.Errorf("hd44780: invalid geometry %dx%d", cols, rows)
}

// AutoScroll shifts the display instead of the cursor when a character is
// written.
func (lcd *HD44780) AutoScroll(enabled bool) error {
	lcd.shift = enabled
	return lcd.command(lcd.entryMode())
}

// Clear clears the screen and moves the cursor to the first position.
func (lcd *HD44780) Clear() error {
	if err := lcd.command(cmdClear); err != nil {
		return err
	}
	sleep(delayClearHome)
	return nil
}

// Cols returns the number of columns the display supports.
func (lcd *HD44780) Cols() int {
	return lcd.cols
}

// Cursor sets the cursor mode. You can pass multiple arguments.
//
//	Cursor(CursorOff, CursorUnderline)
func (lcd *HD44780) Cursor(modes ...display.CursorMode) error {
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			lcd.cursor = false
			lcd.blink = false
		case display.CursorUnderline:
			lcd.cursor = true
		case display.CursorBlink, display.CursorBlock:
			lcd.blink = true
		default:
			return fmt.Errorf("hd44780: unexpected cursor: %d", mode)
		}
	}
	return lcd.command(lcd.displayControl())
}

// Home moves the cursor to (MinRow(),MinCol()).
func (lcd *HD44780) Home() error {
	if err := lcd.command(cmdHome); err != nil {
		return err
	}
	sleep(delayClearHome)
	return nil
}

// MinCol returns the min column position.
func (lcd *HD44780) MinCol() int {
	return 1
}

// MinRow returns the min row position.
func (lcd *HD44780) MinRow() int {
	return 1
}

// Move moves the cursor forward or backward.
func (lcd *HD44780) Move(dir display.CursorDirection) error {
	val := cmdShift
	switch dir {
	case display.Backward:
	case display.Forward:
		val |= shiftRight
	default:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
	return lcd.command(val)
}

// MoveTo moves the cursor to an arbitrary position.
func (lcd *HD44780) MoveTo(row, col int) error {
	if row < lcd.MinRow() || row > lcd.rows || col < lcd.MinCol() || col > lcd.cols {
		return fmt.Errorf("hd44780: MoveTo(%d,%d) value out of range", row, col)
	}
	return lcd.command(cmdSetDDRAM | (getRowConstant(row, lcd.cols) + byte(col-1)))
}

// Rows returns the number of rows the display supports.
func (lcd *HD44780) Rows() int {
	return lcd.rows
}

func (lcd *HD44780) String() string {
	return fmt.Sprintf("HD44780{%s, %dx%d}", lcd.port, lcd.cols, lcd.rows)
}

// Display turns the display on or off. The content is kept.
func (lcd *HD44780) Display(on bool) error {
	lcd.on = on
	return lcd.command(lcd.displayControl())
}

// Write writes characters at the cursor position.
func (lcd *HD44780) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	nibbles := make([]byte, 0, 2*len(p))
	for _, c := range p {
		nibbles = append(nibbles, c>>4, c&0x0f)
	}
	if err := lcd.port.write(true, nibbles...); err != nil {
		return 0, fmt.Errorf("hd44780: %w", err)
	}
	return len(p), nil
}

// WriteString writes a string at the cursor position. Characters outside of
// the ROM code page are the caller's responsibility.
func (lcd *HD44780) WriteString(text string) (int, error) {
	return lcd.Write([]byte(text))
}

// Halt clears the display, turns the backlight off, turns the display off
// and releases the pins.
func (lcd *HD44780) Halt() error {
	return errors.Join(lcd.Clear(), lcd.Backlight(0), lcd.Display(false), lcd.port.halt())
}

// Backlight turns the backlight on for any non-zero intensity.
func (lcd *HD44780) Backlight(intensity display.Intensity) error {
	lcd.backlight = intensity > 0
	if err := lcd.port.setBacklight(lcd.backlight); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	return nil
}

func (lcd *HD44780) init() error {
	if err := lcd.Backlight(display.Intensity(255)); err != nil {
		return err
	}
	sleep(delayPowerOn)
	// Put the controller in a known 8 bit state, then switch to 4 bits.
	if err := lcd.port.write(false, 0x03); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	sleep(delayWakeup)
	if err := lcd.port.write(false, 0x03); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	sleep(delayWakeup2)
	if err := lcd.port.write(false, 0x03, 0x02); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	function := cmdFunctionSet
	if lcd.rows > 1 {
		function |= functionTwoLines
	}
	if err := lcd.command(function); err != nil {
		return err
	}
	if err := lcd.Display(true); err != nil {
		return err
	}
	if err := lcd.command(lcd.entryMode()); err != nil {
		return err
	}
	return lcd.Clear()
}

func (lcd *HD44780) displayControl() byte {
	val := cmdDisplayCtrl
	if lcd.on {
		val |= displayOn
	}
	if lcd.cursor {
		val |= cursorOn
	}
	if lcd.blink {
		val |= blinkOn
	}
	return val
}

func (lcd *HD44780) entryMode() byte {
	val := cmdEntryMode | entryIncrement
	if lcd.shift {
		val |= entryShift
	}
	return val
}

func (lcd *HD44780) command(c byte) error {
	if err := lcd.port.write(false, c>>4, c&0x0f); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	return nil
}

// gpioPort drives the controller lines directly.
type gpioPort struct {
	data      gpio.Group
	rs        gpio.PinOut
	enable    gpio.PinOut
	backlight gpio.PinOut
}

func (g *gpioPort) write(rs bool, nibbles ...byte) error {
	if err := g.rs.Out(gpio.Level(rs)); err != nil {
		return err
	}
	for _, n := range nibbles {
		if err := g.data.Out(gpio.GPIOValue(n), 0x0f); err != nil {
			return err
		}
		if err := g.enable.Out(gpio.High); err != nil {
			return err
		}
		sleep(delayEnable)
		if err := g.enable.Out(gpio.Low); err != nil {
			return err
		}
		sleep(delayExecute)
	}
	return nil
}

func (g *gpioPort) setBacklight(on bool) error {
	if g.backlight == nil {
		return nil
	}
	return g.backlight.Out(gpio.Level(on))
}

func (g *gpioPort) halt() error {
	return g.data.Halt()
}

func (g *gpioPort) String() string {
	return g.data.String()
}

var sleep = time.Sleep

var _ display.TextDisplay = &HD44780{}
var _ display.DisplayBacklight = &HD44780{}
var _ conn.Resource = &HD44780{}
