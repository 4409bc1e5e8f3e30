// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package occibench provides a load-generation tool for OCCI catalogs.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diffeo/go-occi/backend"
	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/occi"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

type benchWork struct {
	Catalog     occi.Catalog
	Context     *occi.Context
	Kind        string
	Concurrency int
}

func (bench *benchWork) Run(runner func()) {
	wg := sync.WaitGroup{}
	wg.Add(bench.Concurrency)
	for i := 0; i < bench.Concurrency; i++ {
		go func() {
			defer wg.Done()
			runner()
		}()
	}
	wg.Wait()
}

// report prints a one-line summary of a timed run.
func report(what string, count int64, start time.Time) {
	elapsed := time.Since(start)
	rate := float64(count) / elapsed.Seconds()
	fmt.Printf("%s %d in %v (%.1f/s)\n", what, count, elapsed, rate)
}

var bench benchWork

var createEntities = cli.Command{
	Name:  "create",
	Usage: "create many entities",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of entities to create",
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")
		numbers := make(chan int)
		go func() {
			for i := 1; i <= count; i++ {
				numbers <- i
			}
			close(numbers)
		}()
		var created, failed int64
		start := time.Now()
		bench.Run(func() {
			for <-numbers != 0 {
				_, _, err := bench.Catalog.SaveEntity(bench.Context, occi.Entity{
					Kind:  bench.Kind,
					Title: uuid.NewV4().String(),
				})
				if err != nil {
					atomic.AddInt64(&failed, 1)
				} else {
					atomic.AddInt64(&created, 1)
				}
			}
		})
		report("created", created, start)
		if failed > 0 {
			return fmt.Errorf("%d creations failed", failed)
		}
		return nil
	},
}

var listEntities = cli.Command{
	Name:  "list",
	Usage: "read the kind's collection page by page",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "number",
			Value: occi.DefaultPageSize,
			Usage: "entities per page",
		},
	},
	Action: func(c *cli.Context) error {
		var seen int64
		start := time.Now()
		filter := occi.NewCollectionFilter()
		filter.CategoryFilter = bench.Kind
		filter.PageSize = c.Int("number")
		for {
			page, err := bench.Catalog.Entities(filter)
			if err != nil {
				return err
			}
			seen += int64(len(page))
			if len(page) < filter.PageSize || filter.PageSize <= 0 {
				break
			}
			filter.Page++
		}
		report("listed", seen, start)
		return nil
	},
}

var clearEntities = cli.Command{
	Name:  "clear",
	Usage: "delete all of the kind's entities",
	Action: func(c *cli.Context) error {
		filter := occi.NewCollectionFilter()
		filter.CategoryFilter = bench.Kind
		filter.PageSize = -1
		entities, err := bench.Catalog.Entities(filter)
		if err != nil {
			return err
		}
		ids := make(chan string)
		go func() {
			for _, e := range entities {
				ids <- e.ID
			}
			close(ids)
		}()
		var deleted int64
		start := time.Now()
		bench.Run(func() {
			for id := range ids {
				if bench.Catalog.DeleteEntity(id) == nil {
					atomic.AddInt64(&deleted, 1)
				}
			}
		})
		report("deleted", deleted, start)
		return nil
	},
}

func main() {
	backend := backend.Backend{Implementation: "memory"}
	app := cli.NewApp()
	app.Usage = "benchmark an OCCI catalog"
	app.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:  "backend",
			Value: &backend,
			Usage: "impl:[address] of catalog backend",
		},
		cli.StringFlag{
			Name:  "kind",
			Value: extension.ComputeKind,
			Usage: "kind of the entities to work on",
		},
		cli.IntFlag{
			Name:  "concurrency",
			Value: runtime.NumCPU(),
			Usage: "run this many jobs in parallel",
		},
	}
	app.Commands = []cli.Command{
		createEntities,
		listEntities,
		clearEntities,
	}
	app.Before = func(c *cli.Context) (err error) {
		bench.Catalog, err = backend.Catalog()
		if err != nil {
			return
		}
		err = extension.Install(bench.Catalog, extension.Standard()...)
		if err != nil {
			return
		}
		bench.Context = occi.NewContext()
		bench.Kind = c.String("kind")
		bench.Concurrency = c.Int("concurrency")
		return
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("occibench failed")
	}
}
