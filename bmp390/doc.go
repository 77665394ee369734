// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp390 controls a Bosch BMP390 or BMP388 barometric pressure and
// temperature sensor over I²C.
//
// The driver runs the sensor in forced mode: each call to Read or Sense
// triggers a single conversion, polls the status register until both the
// pressure and the temperature data are ready, burst reads the six data bytes
// and compensates them with the eleven factory calibration coefficients read
// at initialization.
//
// Compensation uses the floating point formulae of the datasheet appendix. The
// linearized temperature is computed first and feeds the pressure polynomial,
// so the temperature of a Measurement is always computed from the same
// conversion as its pressure.
//
// Range: 300 hPa - 1250 hPa, -40°C - 85°C
//
// # Datasheet
//
// BMP390: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp390-ds002.pdf
//
// BMP388: https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp388-ds001.pdf
package bmp390
