// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf857x

import (
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// pcfPin is one expander line.
type pcfPin struct {
	dev    *Dev
	number int
	name   string
}

func (p *pcfPin) DefaultPull() gpio.Pull {
	return gpio.PullUp
}

func (p *pcfPin) Function() string {
	return "In/Out"
}

func (p *pcfPin) Halt() error {
	return nil
}

// In drives the line high so the weak pull-up lets an external device pull it
// down. Only PullUp or PullNoChange with NoEdge are accepted.
func (p *pcfPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.PullUp && pull != gpio.PullNoChange || edge != gpio.NoEdge {
		return ErrNotImplemented
	}
	m := byte(1) << p.number
	return p.dev.write(m, m)
}

func (p *pcfPin) Name() string {
	return p.name
}

func (p *pcfPin) Number() int {
	return p.number
}

func (p *pcfPin) Out(l gpio.Level) error {
	m := byte(1) << p.number
	var v byte
	if l {
		v = m
	}
	return p.dev.write(v, m)
}

func (p *pcfPin) Pull() gpio.Pull {
	return gpio.PullUp
}

func (p *pcfPin) Read() gpio.Level {
	m := byte(1) << p.number
	v, err := p.dev.read(m)
	if err != nil {
		log.Println(err)
		return gpio.Low
	}
	return v != 0
}

func (p *pcfPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (p *pcfPin) String() string {
	return p.name
}

// WaitForEdge always returns false, see the package notes.
func (p *pcfPin) WaitForEdge(timeout time.Duration) bool {
	return false
}

var _ gpio.PinIO = &pcfPin{}
