// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"github.com/GermanBionicSystems/hpastation/pcf857x"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the address of a PCF8574 backpack with A0..A2 open.
const DefaultAddress uint16 = 0x27

// Expander lines of the backpack. D4..D7 are P4..P7.
const (
	pinRS        = 0
	pinRW        = 1
	pinEnable    = 2
	pinBacklight = 3
)

const (
	bitRS        byte = 1 << pinRS
	bitRW        byte = 1 << pinRW
	bitEnable    byte = 1 << pinEnable
	bitBacklight byte = 1 << pinBacklight
)

// NewPCF8574Backpack initializes the display behind the PCF8574 backpack at
// address and returns it cleared, with the cursor hidden and the backlight
// on. See NewHD44780 for the supported geometries.
//
// # Product Information
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// Nibbles are sent with pcf857x.Stream, one transaction per instruction or
// string. Backlight changes go through the expander pin.
func NewPCF8574Backpack(bus i2c.Bus, address uint16, rows, cols int) (*HD44780, error) {
	if err := checkGeometry(rows, cols); err != nil {
		return nil, err
	}
	pcf, err := pcf857x.New(bus, address)
	if err != nil {
		return nil, err
	}
	// RW is wired on this backpack. Hold it low.
	if err := pcf.Pins[pinRW].Out(gpio.Low); err != nil {
		_ = pcf.Halt()
		return nil, err
	}
	lcd, err := newHD44780(&backpack{pcf: pcf}, rows, cols)
	if err != nil {
		_ = pcf.Halt()
		return nil, err
	}
	return lcd, nil
}

// backpack is the fast path over the expander: each nibble is three port
// states (data, data with E, data) streamed in a single write.
type backpack struct {
	pcf       *pcf857x.Dev
	backlight bool
}

func (b *backpack) write(rs bool, nibbles ...byte) error {
	base := byte(0)
	if rs {
		base |= bitRS
	}
	if b.backlight {
		base |= bitBacklight
	}
	states := make([]byte, 0, 3*len(nibbles))
	for _, n := range nibbles {
		v := base | n<<4
		states = append(states, v, v|bitEnable, v)
	}
	return b.pcf.Stream(states...)
}

func (b *backpack) setBacklight(on bool) error {
	b.backlight = on
	return b.pcf.Pins[pinBacklight].Out(gpio.Level(on))
}

func (b *backpack) halt() error {
	return b.pcf.Halt()
}

func (b *backpack) String() string {
	return b.pcf.String()
}
