// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

// HistorySize is the number of hourly samples kept.
const HistorySize = 4

// Entry is one hourly sample.
type Entry struct {
	// Hour is the wall clock hour, 0..23, the sample was taken in.
	Hour int
	// Pressure in hPa and Temperature in °C.
	Pressure    Tenths
	Temperature Tenths
	Valid       bool
}

// History keeps the first sample of each of the last HistorySize distinct
// hours.
//
// The zero value is not usable, use NewHistory.
type History struct {
	slots    [HistorySize]Entry
	head     int
	lastHour int
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{lastHour: -1}
}

// Log records a sample when hour differs from the hour of the last recorded
// sample and reports whether it did. The oldest entry is overwritten once the
// ring is full.
//
// Only a change of hour is detected: a sample taken at the same hour one day
// later is dropped if nothing was logged in between.
func (h *History) Log(hour int, p, t Tenths) bool {
	if hour == h.lastHour {
		return false
	}
	h.lastHour = hour
	h.slots[h.head] = Entry{Hour: hour, Pressure: p, Temperature: t, Valid: true}
	h.head = (h.head + 1) % HistorySize
	return true
}

// Newest returns up to n entries, most recent first. Slots never written are
// returned with Valid false so the result always has min(n, HistorySize)
// entries.
func (h *History) Newest(n int) []Entry {
	if n > HistorySize {
		n = HistorySize
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, h.slots[(h.head+HistorySize-1-i)%HistorySize])
	}
	return out
}
