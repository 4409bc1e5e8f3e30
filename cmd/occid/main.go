// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package occid provides an Open Cloud Computing Interface server.  It
// publishes a catalog of OCCI Core and Infrastructure categories, plus
// any extensions named on the command line or in the configuration
// file, over HTTP.  Prometheus metrics are served at /metrics.
package main

import (
	"flag"
	"net/http"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-occi/backend"
	"github.com/diffeo/go-occi/cache"
	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/representation"
	"github.com/diffeo/go-occi/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// fileList is a repeatable string flag.
type fileList []string

func (l *fileList) String() string {
	return strings.Join(*l, ",")
}

func (l *fileList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	var (
		err        error
		extensions fileList
	)

	httpBind := flag.String("http", ":5980",
		"[ip]:port for HTTP REST interface")
	backend := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&backend, "backend", "impl[:address] of the storage backend")
	config := flag.String("config", "", "global configuration YAML file")
	flag.Var(&extensions, "extension", "extension YAML file (may be repeated)")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	metricsInterval := flag.Duration("metrics-interval", time.Minute,
		"how often to count entities for metrics")
	flag.Parse()

	var gConfig Config
	if *config != "" {
		gConfig, err = loadConfigYaml(*config)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Fatal("Could not load YAML configuration")
			return
		}
	}

	catalog, err := backend.Catalog()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create catalog backend")
		return
	}
	catalog = cache.New(catalog, gConfig.CacheSize)

	exts := extension.Standard()
	for _, filename := range append(gConfig.Extensions, extensions...) {
		ext, err := extension.LoadFile(filename)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err":       err,
				"extension": filename,
			}).Fatal("Could not load extension")
			return
		}
		exts = append(exts, ext)
	}
	err = extension.Install(catalog, exts...)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not install extensions")
		return
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	metrics, err := restserver.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not register metrics")
		return
	}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	restserver.PopulateRouter(r, restserver.Config{
		Catalog:  catalog,
		Codecs:   representation.NewFactory(gConfig.HeaderLimit),
		Logger:   reqLogger,
		Metrics:  metrics,
		Owner:    gConfig.Owner,
		PageSize: gConfig.PageSize,
	})

	n := negroni.New(negroni.NewRecovery())
	n.UseHandler(r)

	clk := clock.New()
	go observe(catalog, clk, *metricsInterval)

	logrus.WithFields(logrus.Fields{
		"http":       *httpBind,
		"backend":    backend.String(),
		"extensions": len(exts),
	}).Info("Serving OCCI")
	err = http.ListenAndServe(*httpBind, n)
	logrus.WithFields(logrus.Fields{
		"err": err,
	}).Fatal("HTTP server stopped")
}
