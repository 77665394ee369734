// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp390

import "fmt"

// BusError is returned when an I²C transaction with the sensor fails.
type BusError struct {
	// Op is "read" or "write".
	Op  string
	Reg byte
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bmp390: %s register 0x%02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// IdentityMismatchError is returned when the chip identity register holds
// neither the BMP390 nor the BMP388 value.
type IdentityMismatchError struct {
	ID byte
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("bmp390: unexpected chip id 0x%02x, expected 0x%02x or 0x%02x", e.ID, chipIDBMP390, chipIDBMP388)
}

// ConfigWriteError is returned when the sensor rejects a configuration write
// during initialization.
type ConfigWriteError struct {
	Reg byte
	Err error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("bmp390: configuration write to 0x%02x failed: %v", e.Reg, e.Err)
}

func (e *ConfigWriteError) Unwrap() error {
	return e.Err
}

// ReadTimeoutError is returned when the data ready flags for pressure and
// temperature were not both set within the poll budget.
type ReadTimeoutError struct {
	Attempts int
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("bmp390: conversion not ready after %d status polls", e.Attempts)
}
