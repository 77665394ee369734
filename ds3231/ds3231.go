// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ds3231 reads and sets the time of a Maxim DS3231 real time clock.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/DS3231.pdf
package ds3231

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/hpastation/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the fixed address of the DS3231.
const DefaultAddress uint16 = 0x68

const (
	regSeconds byte = 0x00
	regStatus  byte = 0x0f

	hour12   byte = 1 << 6
	hourPM   byte = 1 << 5
	century  byte = 1 << 7
	statusOS byte = 1 << 7
)

// Dev is a handle to a DS3231.
type Dev struct {
	d   *i2c.Dev
	loc *time.Location
}

// NewI2C returns a handle to the clock at addr. The clock keeps no time zone;
// loc is the zone its registers are interpreted in. A nil loc means UTC.
//
// Nothing is sent to the device.
func NewI2C(b i2c.Bus, addr uint16, loc *time.Location) *Dev {
	if loc == nil {
		loc = time.UTC
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, loc: loc}
}

// Read returns the current time, to the second.
//
// Both the 12 and 24 hour register layouts are decoded. The day of week
// register is ignored; use Time.Weekday.
func (d *Dev) Read() (time.Time, error) {
	var b [7]byte
	if err := d.d.Tx([]byte{regSeconds}, b[:]); err != nil {
		return time.Time{}, fmt.Errorf("ds3231: %w", err)
	}
	sec := int(common.BCDToBin(b[0] & 0x7f))
	minute := int(common.BCDToBin(b[1] & 0x7f))
	var hour int
	if b[2]&hour12 != 0 {
		hour = int(common.BCDToBin(b[2]&0x1f)) % 12
		if b[2]&hourPM != 0 {
			hour += 12
		}
	} else {
		hour = int(common.BCDToBin(b[2] & 0x3f))
	}
	date := int(common.BCDToBin(b[4] & 0x3f))
	month := int(common.BCDToBin(b[5] & 0x1f))
	year := 2000 + int(common.BCDToBin(b[6]))
	if b[5]&century != 0 {
		year += 100
	}
	if sec > 59 || minute > 59 || hour > 23 || date < 1 || date > 31 || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("ds3231: invalid registers % x", b)
	}
	t := time.Date(year, time.Month(month), date, hour, minute, sec, 0, d.loc)
	// time.Date normalizes 31/02 into March.
	if t.Day() != date || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("ds3231: invalid date in registers % x", b)
	}
	return t, nil
}

// Set writes t, converted to the clock's zone, in 24 hour mode and clears the
// oscillator stop flag. The day of week register is set to 1 for Sunday.
func (d *Dev) Set(t time.Time) error {
	t = t.In(d.loc)
	year := t.Year() - 2000
	if year < 0 || year > 199 {
		return fmt.Errorf("ds3231: year %d out of range", t.Year())
	}
	month := common.BinToBCD(byte(t.Month()))
	if year >= 100 {
		year -= 100
		month |= century
	}
	w := []byte{
		regSeconds,
		common.BinToBCD(byte(t.Second())),
		common.BinToBCD(byte(t.Minute())),
		common.BinToBCD(byte(t.Hour())),
		common.BinToBCD(byte(t.Weekday()) + 1),
		common.BinToBCD(byte(t.Day())),
		month,
		common.BinToBCD(byte(year)),
	}
	if err := d.d.Tx(w, nil); err != nil {
		return fmt.Errorf("ds3231: %w", err)
	}
	var st [1]byte
	if err := d.d.Tx([]byte{regStatus}, st[:]); err != nil {
		return fmt.Errorf("ds3231: %w", err)
	}
	if err := d.d.Tx([]byte{regStatus, st[0] &^ statusOS}, nil); err != nil {
		return fmt.Errorf("ds3231: %w", err)
	}
	return nil
}

// IsTimeValid returns false when the oscillator stopped since the time was
// last set, typically after the backup battery ran out.
func (d *Dev) IsTimeValid() (bool, error) {
	var st [1]byte
	if err := d.d.Tx([]byte{regStatus}, st[:]); err != nil {
		return false, fmt.Errorf("ds3231: %w", err)
	}
	return st[0]&statusOS == 0, nil
}

// Halt implements conn.Resource. The clock keeps running.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("DS3231{%s}", d.d)
}

var _ conn.Resource = &Dev{}
