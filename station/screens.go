// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GermanBionicSystems/hpastation/bmp390"
)

// Screen geometry.
const (
	Rows = 4
	Cols = 20
)

// Screen identifies one of the rotating screens.
type Screen int

// Screens in rotation order.
const (
	ClockScreen Screen = iota
	LiveScreen
	HistoryScreen

	screenCount
)

func (s Screen) String() string {
	switch s {
	case ClockScreen:
		return "RTC"
	case LiveScreen:
		return "LIVE"
	case HistoryScreen:
		return "HIST"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

// Frame is the text of the four rows, each exactly Cols bytes.
type Frame [Rows]string

// Live is the state rendered on LiveScreen.
type Live struct {
	Pressure    Tenths
	Temperature Tenths
	// Err is the error of the last read. Pressure and Temperature are stale
	// when it is set.
	Err error
}

var weekdays = [...]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

func footer(s Screen) string {
	return fmt.Sprintf("Screen %d/%d (%s)", int(s)+1, int(screenCount), s)
}

func frame(lines ...string) Frame {
	var f Frame
	for i := range f {
		var l string
		if i < len(lines) {
			l = lines[i]
		}
		f[i] = fit(l, Cols)
	}
	return f
}

// RenderClock renders the date and time, without seconds. A zero now is shown
// as dashes.
func RenderClock(now time.Time) Frame {
	if now.IsZero() {
		return frame("--- --/--/----", "Time --:--", "", footer(ClockScreen))
	}
	return frame(
		fmt.Sprintf("%s %02d/%02d/%04d", weekdays[now.Weekday()], now.Day(), int(now.Month()), now.Year()),
		fmt.Sprintf("Time %02d:%02d", now.Hour(), now.Minute()),
		"",
		footer(ClockScreen),
	)
}

// RenderLive renders the last reading, or dashes and the error class when it
// failed.
func RenderLive(l Live) Frame {
	if l.Err != nil {
		return frame("hPa: ----.-", "BMP ERR: "+ErrorKind(l.Err), "Temp: --.- C", footer(LiveScreen))
	}
	return frame(
		"hPa:"+l.Pressure.Format(4),
		"Temp:"+l.Temperature.Format(2)+" C",
		"",
		footer(LiveScreen),
	)
}

// RenderHistory renders the newest hourly samples that fit between the title
// and the footer.
func RenderHistory(h *History) Frame {
	lines := []string{"HIST (last 4h)"}
	for _, e := range h.Newest(Rows - 2) {
		if !e.Valid {
			lines = append(lines, "--h ----.- --.-")
			continue
		}
		p := strings.TrimPrefix(e.Pressure.Format(4), " ")
		t := strings.TrimPrefix(e.Temperature.Format(2), " ")
		lines = append(lines, fmt.Sprintf("%02dh %s %s", e.Hour, p, t))
	}
	lines = append(lines, footer(HistoryScreen))
	return frame(lines...)
}

// ErrorKind classifies a sensor error. It is shown on LiveScreen and used as a
// metric label.
func ErrorKind(err error) string {
	var (
		timeout *bmp390.ReadTimeoutError
		config  *bmp390.ConfigWriteError
		id      *bmp390.IdentityMismatchError
		bus     *bmp390.BusError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &config):
		return "config"
	case errors.As(err, &id):
		return "identity"
	case errors.As(err, &bus):
		return "bus"
	default:
		return "other"
	}
}
