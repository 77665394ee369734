// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcf857x drives the NXP/TI PCF8574 8 bit I²C I/O expander.
//
// The chip has no register map. A one byte write sets the eight
// quasi-bidirectional lines and a one byte read returns their levels. A line
// written high is only weakly pulled up, so it doubles as an input.
//
// This is the expander found on the common HD44780 LCD backpacks, see package
// hd44780.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
//
// # Notes
//
// Setting a pin Low enables an open drain to ground. Edge detection is not
// supported: the interrupt output doesn't tell which line changed.
package pcf857x

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/pin"
)

const (
	// DefaultAddress is the PCF8574 address with A0..A2 tied to GND.
	DefaultAddress uint16 = 0x20
	// NumPins is the number of lines of the expander.
	NumPins = 8
)

// ErrNotImplemented is returned for features the chip lacks.
var ErrNotImplemented = errors.New("pcf857x: not implemented")

// Dev is a handle to a PCF8574.
type Dev struct {
	// Pins are the eight lines, P0 first.
	Pins []gpio.PinIO

	d    *i2c.Dev
	pins [NumPins]pcfPin

	mu sync.Mutex
	// value is the last state written to the port. It is only meaningful once
	// latched is set.
	value   byte
	latched bool
	groups  []*Group
}

// New returns a handle to the expander at address. No I/O is performed; the
// first write sets all eight lines.
//
// The pins are registered in gpioreg as "PCF8574_<addr>_GPIO<n>".
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	// 0x20..0x27 for the PCF8574, 0x38..0x3F for the PCF8574A.
	if (address < 0x20 || address > 0x27) && (address < 0x38 || address > 0x3f) {
		return nil, fmt.Errorf("pcf857x: invalid address 0x%02x", address)
	}
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: address}, Pins: make([]gpio.PinIO, NumPins)}
	for i := range dev.pins {
		p := &dev.pins[i]
		p.dev = dev
		p.number = i
		p.name = fmt.Sprintf("%s_GPIO%d", dev, i)
		dev.Pins[i] = p
		// A second handle at the same address can't register its pins again.
		_ = gpioreg.Register(p)
	}
	return dev, nil
}

// Group returns a gpio.Group of the given pin numbers. Bit 0 of the values
// passed to the group maps to the first pin listed.
func (dev *Dev) Group(numbers ...int) (gpio.Group, error) {
	if len(numbers) == 0 {
		return nil, errors.New("pcf857x: empty group")
	}
	gr := &Group{dev: dev, pins: make([]*pcfPin, len(numbers))}
	for i, n := range numbers {
		if n < 0 || n >= NumPins {
			return nil, fmt.Errorf("pcf857x: invalid pin %d", n)
		}
		gr.pins[i] = &dev.pins[n]
	}
	dev.mu.Lock()
	dev.groups = append(dev.groups, gr)
	dev.mu.Unlock()
	return gr, nil
}

// Stream writes states to the port back to back in a single transaction.
// The lines take each state in turn as its byte is acknowledged, so a strobe
// is generated without a bus round trip per edge. The last state stays
// latched.
func (dev *Dev) Stream(states ...byte) error {
	if len(states) == 0 {
		return nil
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.d.Tx(states, nil); err != nil {
		dev.latched = false
		return fmt.Errorf("pcf857x: %w", err)
	}
	dev.value = states[len(states)-1]
	dev.latched = true
	return nil
}

// Halt releases the groups and unregisters the pins. The lines keep their
// state.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	groups := dev.groups
	dev.groups = nil
	dev.mu.Unlock()
	for _, gr := range groups {
		_ = gr.Halt()
	}
	for i := range dev.pins {
		_ = gpioreg.Unregister(dev.pins[i].name)
	}
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("PCF8574_%02x", dev.d.Addr)
}

// write changes the lines selected by mask. The write is skipped when the
// port already holds the result.
func (dev *Dev) write(value, mask byte) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	v := dev.value&^mask | value&mask
	if dev.latched && v == dev.value {
		return nil
	}
	if err := dev.d.Tx([]byte{v}, nil); err != nil {
		dev.latched = false
		return fmt.Errorf("pcf857x: %w", err)
	}
	dev.value = v
	dev.latched = true
	return nil
}

// read returns the levels of the lines selected by mask. They are driven high
// first, as a line held low by the chip always reads low.
func (dev *Dev) read(mask byte) (byte, error) {
	if err := dev.write(mask, mask); err != nil {
		return 0, err
	}
	var r [1]byte
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.d.Tx(nil, r[:]); err != nil {
		return 0, fmt.Errorf("pcf857x: %w", err)
	}
	return r[0] & mask, nil
}

// Group is a set of expander lines written or read in one transaction.
type Group struct {
	dev  *Dev
	pins []*pcfPin
}

// Pins returns the pins of the group in order.
func (gr *Group) Pins() []pin.Pin {
	out := make([]pin.Pin, len(gr.pins))
	for i, p := range gr.pins {
		out[i] = p
	}
	return out
}

// ByOffset returns the pin at offset within the group.
func (gr *Group) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(gr.pins) {
		return nil
	}
	return gr.pins[offset]
}

// ByName returns the pin named name, or nil.
func (gr *Group) ByName(name string) pin.Pin {
	for _, p := range gr.pins {
		if p.name == name {
			return p
		}
	}
	return nil
}

// ByNumber returns the pin with the expander line number, or nil.
func (gr *Group) ByNumber(number int) pin.Pin {
	for _, p := range gr.pins {
		if p.number == number {
			return p
		}
	}
	return nil
}

// Out writes value to the pins of the group selected by mask. A zero mask
// selects every pin.
func (gr *Group) Out(value, mask gpio.GPIOValue) error {
	if gr.dev == nil {
		return errors.New("pcf857x: group halted")
	}
	if mask == 0 {
		mask = 1<<len(gr.pins) - 1
	}
	v, m := gr.toPort(value), gr.toPort(mask)
	return gr.dev.write(v, m)
}

// Read returns the levels of the pins of the group selected by mask. A zero
// mask selects every pin.
func (gr *Group) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if gr.dev == nil {
		return 0, errors.New("pcf857x: group halted")
	}
	if mask == 0 {
		mask = 1<<len(gr.pins) - 1
	}
	v, err := gr.dev.read(gr.toPort(mask))
	if err != nil {
		return 0, err
	}
	var out gpio.GPIOValue
	for i, p := range gr.pins {
		if mask&(1<<i) != 0 && v&(1<<p.number) != 0 {
			out |= 1 << i
		}
	}
	return out, nil
}

// WaitForEdge is not supported by the chip.
func (gr *Group) WaitForEdge(timeout time.Duration) (number int, edge gpio.Edge, err error) {
	return 0, gpio.NoEdge, gpio.ErrGroupFeatureNotImplemented
}

// Halt detaches the group. It cannot be used afterward.
func (gr *Group) Halt() error {
	gr.dev = nil
	return nil
}

func (gr *Group) String() string {
	nums := make([]int, len(gr.pins))
	for i, p := range gr.pins {
		nums[i] = p.number
	}
	return fmt.Sprintf("PCF8574Group%v", nums)
}

// toPort maps group bits to port bits.
func (gr *Group) toPort(v gpio.GPIOValue) byte {
	var out byte
	for i, p := range gr.pins {
		if v&(1<<i) != 0 {
			out |= 1 << p.number
		}
	}
	return out
}

var _ gpio.Group = &Group{}
