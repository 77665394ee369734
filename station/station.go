// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package station runs the weather station: it reads the clock and the
// pressure sensor and rotates three screens on a 20x4 text display.
package station

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/hpastation/bmp390"
	"periph.io/x/conn/v3/display"
)

// Sensor is implemented by *bmp390.Dev.
type Sensor interface {
	Read() (bmp390.Measurement, error)
}

// Clock is implemented by *ds3231.Dev.
type Clock interface {
	Read() (time.Time, error)
}

// Reading is the outcome of one sensor read.
type Reading struct {
	// Time is the clock time of the read, zero if the clock never answered.
	Time        time.Time
	Measurement bmp390.Measurement
	Err         error
}

// Observer is notified after every sensor read, successful or not. It is
// called from the goroutine running the station and must not block.
type Observer interface {
	Observe(r Reading)
}

// FrameSink receives every frame that differs from the previous one.
type FrameSink interface {
	Frame(s Screen, f Frame) error
}

// Opts holds the station timing and its optional collaborators.
type Opts struct {
	// Tick is the period of the main loop. The clock is read every tick.
	Tick time.Duration
	// ScreenTime is how long each screen is shown.
	ScreenTime time.Duration
	// SensorPeriod is the interval between two sensor reads. The first read
	// happens on the first tick.
	SensorPeriod time.Duration

	Observers []Observer
	Sinks     []FrameSink
}

// DefaultOpts holds the default timing.
var DefaultOpts = Opts{
	Tick:         200 * time.Millisecond,
	ScreenTime:   5 * time.Second,
	SensorPeriod: 10 * time.Second,
}

// Station is the main loop state.
type Station struct {
	disp   display.TextDisplay
	sensor Sensor
	clock  Clock
	opts   Opts

	hist *History
	live Live
	now  time.Time

	screen        Screen
	screenElapsed time.Duration
	sensorElapsed time.Duration

	// shown is what the display holds; an empty row forces a rewrite.
	shown Frame
	last  Frame
}

// New returns a Station drawing on disp, which must have at least 4 rows of 20
// columns. The Opts can be nil. Nothing is read or drawn until the first Step.
func New(disp display.TextDisplay, sensor Sensor, clock Clock, opts *Opts) (*Station, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Tick <= 0 || o.ScreenTime <= 0 || o.SensorPeriod <= 0 {
		return nil, errors.New("station: invalid timing")
	}
	if disp.Rows() < Rows || disp.Cols() < Cols {
		return nil, fmt.Errorf("station: display is %dx%d, need %dx%d", disp.Cols(), disp.Rows(), Cols, Rows)
	}
	return &Station{
		disp:          disp,
		sensor:        sensor,
		clock:         clock,
		opts:          o,
		hist:          NewHistory(),
		live:          Live{Err: errors.New("station: no reading yet")},
		sensorElapsed: o.SensorPeriod,
	}, nil
}

// Step runs one tick without sleeping: read the clock, read the sensor when
// due, draw the current screen and advance the timers.
//
// Only display and FrameSink errors are returned. Clock and sensor errors are
// shown on screen and reported to the observers.
func (s *Station) Step() error {
	if t, err := s.clock.Read(); err == nil {
		s.now = t
	}

	if s.sensorElapsed >= s.opts.SensorPeriod {
		s.sensorElapsed = 0
		s.sample()
	}

	err := s.draw()

	s.screenElapsed += s.opts.Tick
	s.sensorElapsed += s.opts.Tick
	if s.screenElapsed >= s.opts.ScreenTime {
		s.screenElapsed = 0
		s.screen = (s.screen + 1) % screenCount
	}
	return err
}

// Run calls Step every Tick until ctx is canceled. Step errors are logged; after
// a display error the whole screen is redrawn on the next tick.
func (s *Station) Run(ctx context.Context) error {
	t := time.NewTicker(s.opts.Tick)
	defer t.Stop()
	for {
		if err := s.Step(); err != nil {
			log.Printf("station: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// Screen returns the screen drawn by the next Step.
func (s *Station) Screen() Screen {
	return s.screen
}

// Frame returns the last rendered frame.
func (s *Station) Frame() Frame {
	return s.last
}

// History returns the hourly history.
func (s *Station) History() *History {
	return s.hist
}

func (s *Station) sample() {
	m, err := s.sensor.Read()
	r := Reading{Time: s.now, Measurement: m, Err: err}
	if err != nil {
		s.live.Err = err
	} else {
		s.live = Live{Pressure: ToTenths(m.Pressure / 100), Temperature: ToTenths(m.Temperature)}
		if !s.now.IsZero() {
			s.hist.Log(s.now.Hour(), s.live.Pressure, s.live.Temperature)
		}
	}
	for _, o := range s.opts.Observers {
		o.Observe(r)
	}
}

func (s *Station) render() Frame {
	switch s.screen {
	case ClockScreen:
		return RenderClock(s.now)
	case LiveScreen:
		return RenderLive(s.live)
	default:
		return RenderHistory(s.hist)
	}
}

// draw rewrites the rows that changed. Rows are overwritten in full instead of
// clearing the display, which avoids flicker.
func (s *Station) draw() error {
	f := s.render()
	changed := f != s.last
	s.last = f
	for i, l := range f {
		if s.shown[i] == l {
			continue
		}
		if err := s.disp.MoveTo(s.disp.MinRow()+i, s.disp.MinCol()); err != nil {
			s.shown = Frame{}
			return fmt.Errorf("station: %w", err)
		}
		if _, err := s.disp.WriteString(l); err != nil {
			s.shown = Frame{}
			return fmt.Errorf("station: %w", err)
		}
		s.shown[i] = l
	}
	if !changed {
		return nil
	}
	var errs []error
	for _, k := range s.opts.Sinks {
		if err := k.Frame(s.screen, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
