// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package promexp exports the station readings as Prometheus metrics.
package promexp

import (
	"net/http"
	"time"

	"github.com/GermanBionicSystems/hpastation/station"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "hpa_station"
	subsystem = "bmp390"
)

// Exporter is a station.Observer updating the metrics after every read.
type Exporter struct {
	temperature prometheus.Gauge
	pressure    prometheus.Gauge
	lastSuccess prometheus.Gauge
	reads       prometheus.Counter
	errors      *prometheus.CounterVec
}

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Exporter {
	f := promauto.With(reg)
	return &Exporter{
		temperature: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "temperature_degC",
			Help:      "Temperature of the last successful read.",
		}),
		pressure: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pressure_hPa",
			Help:      "Pressure of the last successful read.",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful read.",
		}),
		reads: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reads_total",
			Help:      "Number of reads attempted.",
		}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "read_errors_total",
			Help:      "Number of failed reads by error kind.",
		}, []string{"kind"}),
	}
}

// Observe implements station.Observer.
func (e *Exporter) Observe(r station.Reading) {
	e.reads.Inc()
	if r.Err != nil {
		e.errors.WithLabelValues(station.ErrorKind(r.Err)).Inc()
		return
	}
	e.temperature.Set(r.Measurement.Temperature)
	e.pressure.Set(r.Measurement.Pressure / 100)
	t := r.Time
	if t.IsZero() {
		t = now()
	}
	e.lastSuccess.Set(float64(t.UnixNano()) / 1e9)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var now = time.Now

var _ station.Observer = &Exporter{}
