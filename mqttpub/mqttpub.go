// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mqttpub publishes the station readings to an MQTT broker as JSON.
package mqttpub

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/hpastation/station"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTopic is the topic used when none is given.
const DefaultTopic = "hpastation/bmp390"

// Publisher is the subset of mqtt.Client used to send readings.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Sample is the JSON payload of one successful read.
type Sample struct {
	Temperature float64 `json:"temp_c"`      // °C
	Pressure    float64 `json:"pressure_pa"` // Pa
	Time        string  `json:"time"`        // RFC3339, UTC
}

// Opts holds the publishing options.
type Opts struct {
	Topic string
	// Timeout bounds the wait for a publish to be handed to the network.
	Timeout time.Duration
}

// DefaultOpts holds the default publishing options.
var DefaultOpts = Opts{
	Topic:   DefaultTopic,
	Timeout: time.Second,
}

// Dev is a station.Observer publishing every successful read at QoS 0.
// Failed reads are not published.
type Dev struct {
	p    Publisher
	opts Opts
}

// New returns a Dev publishing through p. The Opts can be nil.
func New(p Publisher, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Topic == "" {
		o.Topic = DefaultTopic
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultOpts.Timeout
	}
	return &Dev{p: p, opts: o}
}

// Connect connects to broker, for example "tcp://localhost:1883".
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqttpub: connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// Observe implements station.Observer.
func (d *Dev) Observe(r station.Reading) {
	if r.Err != nil {
		return
	}
	if err := d.Publish(r); err != nil {
		log.Printf("%v", err)
	}
}

// Publish sends r and waits at most Timeout for the outcome.
func (d *Dev) Publish(r station.Reading) error {
	t := r.Time
	if t.IsZero() {
		t = now()
	}
	b, err := json.Marshal(Sample{
		Temperature: r.Measurement.Temperature,
		Pressure:    r.Measurement.Pressure,
		Time:        t.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("mqttpub: %w", err)
	}
	token := d.p.Publish(d.opts.Topic, 0, false, b)
	if !token.WaitTimeout(d.opts.Timeout) {
		return fmt.Errorf("mqttpub: publish to %s timed out", d.opts.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqttpub: publish to %s: %w", d.opts.Topic, err)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("MQTT{%s}", d.opts.Topic)
}

var now = time.Now

var _ station.Observer = &Dev{}
var _ Publisher = mqtt.Client(nil)
