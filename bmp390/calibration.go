// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp390

import (
	"encoding/binary"

	"github.com/GermanBionicSystems/hpastation/common"
)

// CalibrationSize is the size of the calibration block at 0x31..0x45.
const CalibrationSize = 21

// Calibration holds the factory calibration coefficients, already scaled to
// the floating point representation of the datasheet appendix.
type Calibration struct {
	T1, T2, T3 float64

	P1, P2, P3, P4, P5, P6, P7, P8, P9, P10, P11 float64
}

// RawSample is one uncompensated conversion result. Both values carry 24
// significant bits.
type RawSample struct {
	Pressure    uint32
	Temperature uint32
}

// Measurement is a compensated conversion result.
type Measurement struct {
	// Temperature in °C.
	Temperature float64
	// Pressure in Pa.
	Pressure float64
}

// ParseCalibration decodes the calibration block into scaled coefficients.
//
// Every scale factor is a power of two so the conversion is exact. The block
// is not validated: a corrupt block yields implausible measurements, not an
// error.
func ParseCalibration(b [CalibrationSize]byte) Calibration {
	le := binary.LittleEndian
	t1 := le.Uint16(b[0:])
	t2 := le.Uint16(b[2:])
	t3 := int8(b[4])
	p1 := int16(le.Uint16(b[5:]))
	p2 := int16(le.Uint16(b[7:]))
	p3 := int8(b[9])
	p4 := int8(b[10])
	p5 := le.Uint16(b[11:])
	p6 := le.Uint16(b[13:])
	p7 := int8(b[15])
	p8 := int8(b[16])
	p9 := int16(le.Uint16(b[17:]))
	p10 := int8(b[19])
	p11 := int8(b[20])

	// P1 and P2 are stored with a 2^14 offset.
	const offset = 1 << 14
	return Calibration{
		T1:  float64(t1) * (1 << 8),
		T2:  float64(t2) / (1 << 30),
		T3:  float64(t3) / (1 << 48),
		P1:  (float64(p1) - offset) / (1 << 20),
		P2:  (float64(p2) - offset) / (1 << 29),
		P3:  float64(p3) / (1 << 32),
		P4:  float64(p4) / (1 << 37),
		P5:  float64(p5) * (1 << 3),
		P6:  float64(p6) / (1 << 6),
		P7:  float64(p7) / (1 << 8),
		P8:  float64(p8) / (1 << 15),
		P9:  float64(p9) / (1 << 48),
		P10: float64(p10) / (1 << 48),
		P11: float64(p11) / (1 << 65),
	}
}

// Compensate converts a raw sample into physical units. The temperature is
// linearized first; the pressure polynomial consumes that value.
func (c *Calibration) Compensate(s RawSample) Measurement {
	tLin := c.linearizeTemperature(s.Temperature)
	return Measurement{
		Temperature: tLin,
		Pressure:    c.compensatePressure(s.Pressure, tLin),
	}
}

// linearizeTemperature returns the linearized temperature, which is also the
// compensated temperature in °C.
func (c *Calibration) linearizeTemperature(raw uint32) float64 {
	d1 := float64(raw) - c.T1
	d2 := d1 * c.T2
	return d2 + (d1*d1)*c.T3
}

// compensatePressure returns the pressure in Pa for the linearized
// temperature tLin of the same conversion.
func (c *Calibration) compensatePressure(raw uint32, tLin float64) float64 {
	t2 := tLin * tLin
	t3 := t2 * tLin
	outA := c.P5 + c.P6*tLin + c.P7*t2 + c.P8*t3

	p := float64(raw)
	outB := p * (c.P1 + c.P2*tLin + c.P3*t2 + c.P4*t3)

	p2 := p * p
	outC := p2*(c.P9+c.P10*tLin) + (p2*p)*c.P11

	return outA + outB + outC
}

// decodeSample decodes the six bytes read from 0x04..0x09.
func decodeSample(b [6]byte) RawSample {
	return RawSample{
		Pressure:    common.Uint24LE(b[0:3]),
		Temperature: common.Uint24LE(b[3:6]),
	}
}
