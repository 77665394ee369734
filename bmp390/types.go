// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp390

import (
	"fmt"
	"strconv"
	"strings"
)

func (o Oversampling) String() string {
	if o > O32x {
		return fmt.Sprintf("Oversampling(%d)", byte(o))
	}
	return strconv.Itoa(1<<o) + "x"
}

// Set sets the Oversampling to a value represented by the string s, one of
// 1x, 2x, 4x, 8x, 16x or 32x. Set implements the flag.Value interface.
func (o *Oversampling) Set(s string) error {
	for v := O1x; v <= O32x; v++ {
		if strings.EqualFold(s, v.String()) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown oversampling %q: expected 1x, 2x, 4x, 8x, 16x or 32x", s)
}

func (f Filter) String() string {
	switch {
	case f == NoFilter:
		return "off"
	case f > F127:
		return fmt.Sprintf("Filter(%d)", byte(f))
	default:
		return strconv.Itoa(1<<f - 1)
	}
}

// Set sets the Filter to a value represented by the string s, either off or
// one of the coefficients 1, 3, 7, 15, 31, 63 or 127. Set implements the
// flag.Value interface.
func (f *Filter) Set(s string) error {
	for v := NoFilter; v <= F127; v++ {
		if s == v.String() {
			*f = v
			return nil
		}
	}
	return fmt.Errorf("unknown filter %q: expected off, 1, 3, 7, 15, 31, 63 or 127", s)
}
