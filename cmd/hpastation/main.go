// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hpastation runs the barometric weather station: a BMP390 sensor, a DS3231
// clock and a 20x4 character LCD on one I²C bus.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/hpastation/bmp390"
	"github.com/GermanBionicSystems/hpastation/ds3231"
	"github.com/GermanBionicSystems/hpastation/hd44780"
	"github.com/GermanBionicSystems/hpastation/mqttpub"
	"github.com/GermanBionicSystems/hpastation/promexp"
	"github.com/GermanBionicSystems/hpastation/snapshot"
	"github.com/GermanBionicSystems/hpastation/station"
	"github.com/GermanBionicSystems/hpastation/textscreen"
	"github.com/prometheus/client_golang/prometheus"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	c, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := run(c); err != nil {
		log.Fatal(err)
	}
}

func run(c *config) error {
	loc, err := c.location()
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(c.bus)
	if err != nil {
		return err
	}
	defer b.Close()

	rtc := ds3231.NewI2C(b, uint16(c.rtcAddr), loc)
	if c.setTime {
		now := time.Now()
		if err := rtc.Set(now); err != nil {
			return err
		}
		log.Printf("%s set to %s", rtc, now.In(loc).Format(time.RFC1123))
		return nil
	}
	if ok, err := rtc.IsTimeValid(); err != nil {
		log.Printf("%s: %v", rtc, err)
	} else if !ok {
		log.Printf("%s: oscillator stopped, run with -set-time", rtc)
	}

	var disp interface {
		display.TextDisplay
		display.DisplayBacklight
		Halt() error
	}
	if c.terminal {
		disp = textscreen.New(nil)
	} else {
		lcd, err := hd44780.NewPCF8574Backpack(b, uint16(c.lcdAddr), station.Rows, station.Cols)
		if err != nil {
			return err
		}
		disp = lcd
	}

	dev, err := bmp390.NewI2C(b, uint16(c.bmpAddr), &c.bmp)
	if err != nil {
		showInitError(disp, err, uint16(c.bmpAddr))
		return err
	}
	defer disp.Halt()
	log.Printf("%s ready", dev)

	opts := c.station
	if c.prometheus != "" {
		reg := prometheus.NewRegistry()
		opts.Observers = append(opts.Observers, promexp.New(reg))
		go func() {
			log.Fatal(http.ListenAndServe(c.prometheus, promexp.Handler(reg)))
		}()
	}
	if c.mqttBroker != "" {
		client, err := mqttpub.Connect(c.mqttBroker, c.mqttClient)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		opts.Observers = append(opts.Observers, mqttpub.New(client, &mqttpub.Opts{Topic: c.mqttTopic}))
	}
	if c.snapshot != "" {
		s, err := snapshot.New(c.snapshot, nil)
		if err != nil {
			return err
		}
		opts.Sinks = append(opts.Sinks, s)
	}

	st, err := station.New(disp, dev, rtc, &opts)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return st.Run(ctx)
}

// showInitError leaves the reason on the display since the station does not
// start without its sensor.
func showInitError(disp display.TextDisplay, err error, addr uint16) {
	_ = disp.Clear()
	lines := []string{"BMP390 init failed", "err: " + station.ErrorKind(err), "check 3V3 + I2C"}
	for i, l := range lines {
		_ = disp.MoveTo(i+1, 1)
		_, _ = disp.WriteString(l)
	}
	log.Printf("bmp390 at 0x%02x: %v", addr, err)
}
