// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-occi/occi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var entityCount = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "diffeo",
		Subsystem: "occi",
		Name:      "entities",
		Help:      "Number of stored entities by kind",
	},
	[]string{
		"kind",
	},
)

func init() {
	prometheus.MustRegister(entityCount)
}

// countEntities tallies every stored entity by kind.
func countEntities(catalog occi.Catalog) (map[string]int, error) {
	filter := occi.NewCollectionFilter()
	filter.PageSize = -1
	entities, err := catalog.Entities(filter)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range entities {
		counts[e.Kind]++
	}
	return counts, nil
}

// observeOnce updates the entity gauge.  Kinds that had entities
// before but have none now drop to zero.
func observeOnce(catalog occi.Catalog, gauge *prometheus.GaugeVec, seen map[string]bool) error {
	counts, err := countEntities(catalog)
	if err != nil {
		return err
	}
	for kind := range seen {
		if _, present := counts[kind]; !present {
			gauge.With(prometheus.Labels{"kind": kind}).Set(0)
		}
	}
	for kind, count := range counts {
		seen[kind] = true
		gauge.With(prometheus.Labels{"kind": kind}).Set(float64(count))
	}
	return nil
}

// observe updates the entity gauge every interval, forever.
func observe(catalog occi.Catalog, clk clock.Clock, interval time.Duration) {
	seen := make(map[string]bool)
	ticker := clk.Ticker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := observeOnce(catalog, entityCount, seen); err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Warn("Could not count entities")
		}
	}
}
