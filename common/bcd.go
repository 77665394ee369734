// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

// BCDToBin converts a packed two digit BCD byte to its binary value. Callers
// mask control bits out before converting.
func BCDToBin(v byte) byte {
	return (v>>4)*10 + v&0x0f
}

// BinToBCD converts a value in 0..99 to packed BCD.
func BinToBCD(v byte) byte {
	return (v/10)<<4 | v%10
}
