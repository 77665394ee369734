// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp390

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Oversampling affects how much time is taken to measure each of pressure and
// temperature. More oversampling reduces noise.
type Oversampling byte

// Possible oversampling values.
const (
	O1x  Oversampling = 0
	O2x  Oversampling = 1
	O4x  Oversampling = 2
	O8x  Oversampling = 3
	O16x Oversampling = 4
	O32x Oversampling = 5
)

// Filter is the IIR filter coefficient applied to the pressure and
// temperature results.
type Filter byte

// Possible filtering values.
const (
	NoFilter Filter = 0
	F1       Filter = 1
	F3       Filter = 2
	F7       Filter = 3
	F15      Filter = 4
	F31      Filter = 5
	F63      Filter = 6
	F127     Filter = 7
)

const (
	// DefaultAddress is the address with SDO tied to GND.
	DefaultAddress uint16 = 0x76
	// AlternateAddress is the address with SDO tied to VDDIO.
	AlternateAddress uint16 = 0x77
)

const (
	regChipID  byte = 0x00
	regStatus  byte = 0x03
	regData    byte = 0x04
	regPwrCtrl byte = 0x1B
	regOSR     byte = 0x1C
	regODR     byte = 0x1D
	regConfig  byte = 0x1F
	regCalib   byte = 0x31
	regCmd     byte = 0x7E

	cmdSoftReset byte = 0xB6

	chipIDBMP390 byte = 0x60
	chipIDBMP388 byte = 0x50

	statusDRDYPress byte = 1 << 5
	statusDRDYTemp  byte = 1 << 6

	pwrPress   byte = 1 << 0
	pwrTemp    byte = 1 << 1
	modeSleep  byte = 0 << 4
	modeForced byte = 1 << 4

	resetDelay = 5 * time.Millisecond
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Pressure and Temperature oversampling. Defaults are 4x and 2x.
	Pressure    Oversampling
	Temperature Oversampling
	// Filter is the IIR filter coefficient. Default is F3.
	Filter Filter
	// PollAttempts is the number of status reads performed before a forced
	// conversion is reported as a ReadTimeoutError. Leave 0 to use the default
	// of 800.
	PollAttempts int
	// PollInterval is the delay between two status reads. Leave 0 to use the
	// default of 1ms.
	PollInterval time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Pressure:     O4x,
	Temperature:  O2x,
	Filter:       F3,
	PollAttempts: 800,
	PollInterval: time.Millisecond,
}

// Dev is a handle to an initialized BMP390 or BMP388.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	name string
	cal  Calibration

	mu sync.Mutex
	// tLin is the linearized temperature of the last successful conversion.
	// read stores it first and compensates pressure from it.
	tLin float64
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C resets the sensor at addr, verifies its identity, reads its
// calibration and configures oversampling and filtering. The sensor is left
// in sleep mode with pressure and temperature enabled; every Read triggers
// one forced conversion. The Opts can be nil.
//
// On error no Dev is returned.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Pressure > O32x || o.Temperature > O32x {
		return nil, errors.New("bmp390: invalid oversampling")
	}
	if o.Filter > F127 {
		return nil, errors.New("bmp390: invalid filter")
	}
	if o.PollAttempts <= 0 {
		o.PollAttempts = DefaultOpts.PollAttempts
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultOpts.PollInterval
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: o}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Read triggers a forced conversion, waits until both data ready flags are
// set and returns the compensated result.
//
// A ReadTimeoutError is returned when the conversion did not complete within
// the poll budget, a BusError when a transaction failed. In both cases the
// calibration and the last linearized temperature are left untouched.
func (d *Dev) Read() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read()
}

// Sense implements physic.SenseEnv. Humidity is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	m, err := d.Read()
	if err != nil {
		return err
	}
	e.Temperature = physic.Temperature(m.Temperature*float64(physic.Celsius)) + physic.ZeroCelsius
	e.Pressure = physic.Pressure(m.Pressure * float64(physic.Pascal))
	e.Humidity = 0
	return nil
}

// SenseContinuous implements physic.SenseEnv. It triggers a forced conversion
// every interval and sends the result on the returned channel. Failed
// conversions are skipped. Call Halt to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval <= 0 {
		return nil, errors.New("bmp390: invalid interval")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("bmp390: SenseContinuous already running")
	}
	stop := make(chan struct{})
	d.stop = stop
	ch := make(chan physic.Env)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Precision implements physic.SenseEnv. It reports the datasheet resolution
// at the highest oversampling.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 5 * physic.MilliKelvin
	e.Pressure = 16 * physic.MilliPascal
	e.Humidity = 0
}

// Halt stops a SenseContinuous in progress. The sensor itself returns to sleep
// after each forced conversion so nothing is written to it.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Calibration returns the coefficients read at initialization.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}", d.name, d.d)
}

func (d *Dev) init() error {
	if err := d.writeReg(regCmd, cmdSoftReset); err != nil {
		return err
	}
	sleep(resetDelay)

	var id [1]byte
	if err := d.readReg(regChipID, id[:]); err != nil {
		return err
	}
	switch id[0] {
	case chipIDBMP390:
		d.name = "BMP390"
	case chipIDBMP388:
		d.name = "BMP388"
	default:
		return &IdentityMismatchError{ID: id[0]}
	}

	var raw [CalibrationSize]byte
	if err := d.readReg(regCalib, raw[:]); err != nil {
		return err
	}
	d.cal = ParseCalibration(raw)

	osr := byte(d.opts.Temperature)<<3 | byte(d.opts.Pressure)
	if err := d.writeReg(regOSR, osr); err != nil {
		return &ConfigWriteError{Reg: regOSR, Err: err}
	}
	if err := d.writeReg(regConfig, byte(d.opts.Filter)<<1); err != nil {
		return &ConfigWriteError{Reg: regConfig, Err: err}
	}
	// The output data rate only matters in normal mode.
	_ = d.writeReg(regODR, 0)
	if err := d.writeReg(regPwrCtrl, pwrPress|pwrTemp|modeSleep); err != nil {
		return &ConfigWriteError{Reg: regPwrCtrl, Err: err}
	}
	return nil
}

// read runs one conversion cycle.
//
// It must be called with d.mu lock held.
func (d *Dev) read() (Measurement, error) {
	if err := d.writeReg(regPwrCtrl, pwrPress|pwrTemp|modeForced); err != nil {
		return Measurement{}, err
	}
	if err := d.waitReady(); err != nil {
		return Measurement{}, err
	}
	var b [6]byte
	if err := d.readReg(regData, b[:]); err != nil {
		return Measurement{}, err
	}
	s := decodeSample(b)
	d.tLin = d.cal.linearizeTemperature(s.Temperature)
	return Measurement{
		Temperature: d.tLin,
		Pressure:    d.cal.compensatePressure(s.Pressure, d.tLin),
	}, nil
}

// waitReady polls the status register until both data ready flags are set in
// the same read.
func (d *Dev) waitReady() error {
	const ready = statusDRDYPress | statusDRDYTemp
	var st [1]byte
	for i := 0; i < d.opts.PollAttempts; i++ {
		if i != 0 {
			sleep(d.opts.PollInterval)
		}
		if err := d.readReg(regStatus, st[:]); err != nil {
			return err
		}
		if st[0]&ready == ready {
			return nil
		}
	}
	return &ReadTimeoutError{Attempts: d.opts.PollAttempts}
}

func (d *Dev) readReg(reg byte, b []byte) error {
	if err := d.d.Tx([]byte{reg}, b); err != nil {
		return &BusError{Op: "read", Reg: reg, Err: err}
	}
	return nil
}

func (d *Dev) writeReg(reg, v byte) error {
	if err := d.d.Tx([]byte{reg, v}, nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

var sleep = time.Sleep

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
