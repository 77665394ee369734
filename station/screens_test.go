// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/GermanBionicSystems/hpastation/bmp390"
	"github.com/google/go-cmp/cmp"
)

func TestRenderClock(t *testing.T) {
	got := RenderClock(time.Date(2026, 1, 25, 23, 54, 59, 0, time.UTC))
	want := Frame{
		"SUN 25/01/2026      ",
		"Time 23:54          ",
		"                    ",
		"Screen 1/3 (RTC)    ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderClock() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderClock_unset(t *testing.T) {
	got := RenderClock(time.Time{})
	if got[0] != "--- --/--/----      " || got[1] != "Time --:--          " {
		t.Errorf("unexpected frame %q", got)
	}
}

func TestRenderLive(t *testing.T) {
	got := RenderLive(Live{Pressure: 10132, Temperature: 251})
	want := Frame{
		"hPa: 1013.2         ",
		"Temp: 25.1 C        ",
		"                    ",
		"Screen 2/3 (LIVE)   ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderLive() mismatch (-want +got):\n%s", diff)
	}
	got = RenderLive(Live{Pressure: 9876, Temperature: -51})
	if got[0] != "hPa:  987.6         " || got[1] != "Temp:- 5.1 C        " {
		t.Errorf("unexpected frame %q", got)
	}
}

func TestRenderLive_error(t *testing.T) {
	got := RenderLive(Live{Pressure: 10132, Temperature: 251, Err: &bmp390.ReadTimeoutError{Attempts: 800}})
	want := Frame{
		"hPa: ----.-         ",
		"BMP ERR: timeout    ",
		"Temp: --.- C        ",
		"Screen 2/3 (LIVE)   ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderLive() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHistory(t *testing.T) {
	h := NewHistory()
	h.Log(13, 10120, 240)
	h.Log(14, 10132, 251)
	got := RenderHistory(h)
	want := Frame{
		"HIST (last 4h)      ",
		"14h 1013.2 25.1     ",
		"13h 1012.0 24.0     ",
		"Screen 3/3 (HIST)   ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderHistory() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHistory_partial(t *testing.T) {
	h := NewHistory()
	h.Log(7, 9876, 50)
	got := RenderHistory(h)
	if got[1] != "07h  987.6  5.0     " {
		t.Errorf("unexpected entry %q", got[1])
	}
	if got[2] != "--h ----.- --.-     " {
		t.Errorf("unexpected empty entry %q", got[2])
	}
}

func TestErrorKind(t *testing.T) {
	bus := &bmp390.BusError{Op: "read", Reg: 0x03, Err: errors.New("nack")}
	data := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&bmp390.ReadTimeoutError{Attempts: 1}, "timeout"},
		{&bmp390.ConfigWriteError{Reg: 0x1c, Err: bus}, "config"},
		{&bmp390.IdentityMismatchError{ID: 0x58}, "identity"},
		{bus, "bus"},
		{fmt.Errorf("wrapped: %w", bus), "bus"},
		{errors.New("boom"), "other"},
	}
	for _, line := range data {
		if got := ErrorKind(line.err); got != line.want {
			t.Errorf("ErrorKind(%v) expected %q received %q", line.err, line.want, got)
		}
	}
}

func TestScreen_String(t *testing.T) {
	if s := Screen(7).String(); s != "Screen(7)" {
		t.Errorf("unexpected %q", s)
	}
}
