// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/hpastation/bmp390"
	"github.com/GermanBionicSystems/hpastation/ds3231"
	"github.com/GermanBionicSystems/hpastation/hd44780"
	"github.com/GermanBionicSystems/hpastation/mqttpub"
	"github.com/GermanBionicSystems/hpastation/station"
)

// address is an I²C address flag, accepting decimal, 0x hex or 0o octal.
type address uint16

func (a *address) String() string {
	return fmt.Sprintf("0x%02x", uint16(*a))
}

// Set implements the flag.Value interface.
func (a *address) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 7)
	if err != nil {
		return fmt.Errorf("invalid I²C address %q", s)
	}
	*a = address(v)
	return nil
}

type config struct {
	bus      string
	bmpAddr  address
	lcdAddr  address
	rtcAddr  address
	bmp      bmp390.Opts
	station  station.Opts
	terminal bool
	tz       string
	setTime  bool

	prometheus string
	mqttBroker string
	mqttTopic  string
	mqttClient string
	snapshot   string
}

func parseFlags(args []string, out io.Writer) (*config, error) {
	c := &config{
		bmpAddr: address(bmp390.DefaultAddress),
		lcdAddr: address(hd44780.DefaultAddress),
		rtcAddr: address(ds3231.DefaultAddress),
		bmp:     bmp390.DefaultOpts,
		station: station.DefaultOpts,
	}
	fs := flag.NewFlagSet("hpastation", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&c.bus, "i2c", "", "I²C bus to use")
	fs.Var(&c.bmpAddr, "bmp-addr", "BMP390 address")
	fs.Var(&c.lcdAddr, "lcd-addr", "PCF8574 LCD backpack address")
	fs.Var(&c.rtcAddr, "rtc-addr", "DS3231 address")
	fs.Var(&c.bmp.Pressure, "osr-p", "pressure oversampling")
	fs.Var(&c.bmp.Temperature, "osr-t", "temperature oversampling")
	fs.Var(&c.bmp.Filter, "iir", "IIR filter coefficient")
	fs.DurationVar(&c.station.Tick, "tick", c.station.Tick, "main loop period")
	fs.DurationVar(&c.station.ScreenTime, "screen-time", c.station.ScreenTime, "time each screen is shown")
	fs.DurationVar(&c.station.SensorPeriod, "sensor-period", c.station.SensorPeriod, "interval between sensor reads")
	fs.BoolVar(&c.terminal, "terminal", false, "draw on the terminal instead of the LCD")
	fs.StringVar(&c.tz, "tz", "Local", "time zone the RTC is kept in")
	fs.BoolVar(&c.setTime, "set-time", false, "set the RTC from the system clock and exit")
	fs.StringVar(&c.prometheus, "prometheus", "", "Prometheus exporter address, e.g. :9120")
	fs.StringVar(&c.mqttBroker, "mqtt", "", "MQTT broker, e.g. tcp://localhost:1883")
	fs.StringVar(&c.mqttTopic, "mqtt-topic", mqttpub.DefaultTopic, "MQTT topic")
	fs.StringVar(&c.mqttClient, "mqtt-client-id", "hpastation", "MQTT client ID")
	fs.StringVar(&c.snapshot, "snapshot", "", "PNG file updated with every new frame")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if c.station.Tick <= 0 || c.station.ScreenTime <= 0 || c.station.SensorPeriod <= 0 {
		return nil, fmt.Errorf("durations must be positive")
	}
	return c, nil
}

func (c *config) location() (*time.Location, error) {
	return time.LoadLocation(c.tz)
}
