// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hpastation is a barometric weather station built on periph.io.
//
// The bmp390 package drives the pressure sensor, ds3231 the real time clock
// and hd44780 the character LCD behind its PCF8574 backpack. The station
// package ties them together and cmd/hpastation runs it.
package hpastation
