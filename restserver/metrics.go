// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times requests by classification.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates request metrics and registers them.  If reg is
// nil, they are not registered anywhere.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "diffeo",
				Subsystem: "occi",
				Name:      "requests_total",
				Help:      "OCCI requests by classification and status",
			},
			[]string{
				"method",
				"classification",
				"status",
			},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "diffeo",
				Subsystem: "occi",
				Name:      "request_duration_seconds",
				Help:      "Time to handle OCCI requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{
				"classification",
			},
		),
	}
	if reg != nil {
		if err := reg.Register(m.Requests); err != nil {
			return nil, err
		}
		if err := reg.Register(m.Duration); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(method, classification string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.With(prometheus.Labels{
		"method":         method,
		"classification": classification,
		"status":         strconv.Itoa(status),
	}).Inc()
	m.Duration.With(prometheus.Labels{
		"classification": classification,
	}).Observe(elapsed.Seconds())
}
