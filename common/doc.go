// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains register decoding helpers used across multiple
// device packages. For example, BCD conversion for clock registers and
// little-endian 24-bit sample decoding.
package common
