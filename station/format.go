// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

import (
	"strconv"
	"strings"
)

// Tenths is a fixed point value with one decimal.
type Tenths int

// ToTenths scales v by 10 and truncates toward zero.
func ToTenths(v float64) Tenths {
	return Tenths(v * 10)
}

// Format returns v with a leading sign column, the integer part right aligned
// on width characters and one decimal. Format(10132, 4) is " 1013.2" and
// Format(-51, 2) is "- 5.1".
//
// An integer part wider than width is not truncated.
func (v Tenths) Format(width int) string {
	var b strings.Builder
	a := int(v)
	if a < 0 {
		a = -a
		b.WriteByte('-')
	} else {
		b.WriteByte(' ')
	}
	ip := strconv.Itoa(a / 10)
	for i := len(ip); i < width; i++ {
		b.WriteByte(' ')
	}
	b.WriteString(ip)
	b.WriteByte('.')
	b.WriteByte(byte('0' + a%10))
	return b.String()
}

// fit pads or truncates s to exactly n bytes.
func fit(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
