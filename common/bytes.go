// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

// Uint24LE decodes three bytes ordered XLSB, LSB, MSB, as found in sensor
// data registers. b must hold at least three bytes.
func Uint24LE(b []byte) uint32 {
	_ = b[2]
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}
