// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package occictl provides a command-line client for an OCCI server.
//
//     occictl --url http://localhost:5980/ create /compute/ \
//         --kind http://schemas.ogf.org/occi/infrastructure#compute \
//         --attr occi.compute.cores=2
//     occictl list /compute/
//     occictl action /compute/ stop
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/diffeo/go-occi/restclient"
	"github.com/diffeo/go-occi/restdata"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
	"github.com/urfave/cli"
)

var client *restclient.Client

var errNoLocation = errors.New("a location is required")

// parseAttrs splits "name=value" arguments.  Values are sent as
// strings; the server coerces them to the declared attribute type.
func parseAttrs(args []string) (map[string]interface{}, error) {
	if len(args) == 0 {
		return nil, nil
	}
	attrs := make(map[string]interface{})
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("attribute %q is not name=value", arg)
		}
		attrs[parts[0]] = parts[1]
	}
	return attrs, nil
}

func printJSON(v interface{}) error {
	err := codec.NewEncoder(os.Stdout, &codec.JsonHandle{}).Encode(v)
	if err == nil {
		fmt.Println()
	}
	return err
}

func printResources(resources []restdata.Resource) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, r := range resources {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Location, r.Kind, r.Title)
	}
	return w.Flush()
}

var attrFlag = cli.StringSliceFlag{
	Name:  "attr",
	Usage: "name=value attribute (may be repeated)",
}

var getCommand = cli.Command{
	Name:      "get",
	Usage:     "show one entity",
	ArgsUsage: "LOCATION",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errNoLocation
		}
		r, err := client.Get(c.Args().First())
		if err != nil {
			return err
		}
		return printJSON(r)
	},
}

var listCommand = cli.Command{
	Name:      "list",
	Usage:     "list the entities in a collection",
	ArgsUsage: "LOCATION",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "category", Usage: "only entities with this kind or mixin"},
		cli.StringFlag{Name: "attribute", Usage: "attribute to match"},
		cli.StringFlag{Name: "value", Usage: "value to match"},
		cli.StringFlag{Name: "operator", Usage: "equal or like"},
		cli.IntFlag{Name: "page", Usage: "page number"},
		cli.IntFlag{Name: "number", Usage: "entities per page"},
	},
	Action: func(c *cli.Context) error {
		location := c.Args().First()
		if location == "" {
			location = "/"
		}
		doc, err := client.List(location, restclient.Query{
			Category:  c.String("category"),
			Attribute: c.String("attribute"),
			Value:     c.String("value"),
			Operator:  c.String("operator"),
			Page:      c.Int("page"),
			Number:    c.Int("number"),
		})
		if err != nil {
			return err
		}
		return printResources(doc.Resources)
	},
}

var createCommand = cli.Command{
	Name:      "create",
	Usage:     "create an entity in a collection, or at a location with --put",
	ArgsUsage: "LOCATION",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "kind", Usage: "kind identifier"},
		cli.StringSliceFlag{Name: "mixin", Usage: "mixin identifier (may be repeated)"},
		cli.StringFlag{Name: "title", Usage: "entity title"},
		cli.StringFlag{Name: "summary", Usage: "entity summary"},
		cli.BoolFlag{Name: "put", Usage: "LOCATION is the entity's own location"},
		attrFlag,
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errNoLocation
		}
		attrs, err := parseAttrs(c.StringSlice("attr"))
		if err != nil {
			return err
		}
		r := restdata.Resource{
			Kind:       c.String("kind"),
			Mixins:     c.StringSlice("mixin"),
			Title:      c.String("title"),
			Summary:    c.String("summary"),
			Attributes: attrs,
		}
		if c.Bool("put") {
			r, err = client.Put(c.Args().First(), r)
		} else {
			r, err = client.Create(c.Args().First(), r)
		}
		if err != nil {
			return err
		}
		fmt.Println(r.Location)
		return nil
	},
}

var deleteCommand = cli.Command{
	Name:      "delete",
	Usage:     "delete an entity, or every entity in a collection",
	ArgsUsage: "LOCATION",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errNoLocation
		}
		return client.Delete(c.Args().First())
	},
}

var actionCommand = cli.Command{
	Name:      "action",
	Usage:     "invoke an action on an entity or a collection",
	ArgsUsage: "LOCATION ACTION",
	Flags:     []cli.Flag{attrFlag},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return errors.New("a location and an action are required")
		}
		attrs, err := parseAttrs(c.StringSlice("attr"))
		if err != nil {
			return err
		}
		location, action := c.Args().Get(0), c.Args().Get(1)
		if strings.HasSuffix(location, "/") {
			doc, err := client.InvokeAll(location, action, attrs)
			if err != nil {
				return err
			}
			return printResources(doc.Resources)
		}
		r, err := client.Invoke(location, action, attrs)
		if err != nil {
			return err
		}
		return printJSON(r)
	},
}

var interfaceCommand = cli.Command{
	Name:      "interface",
	Usage:     "list the server's categories",
	ArgsUsage: "[CATEGORY]",
	Action: func(c *cli.Context) error {
		iface, err := client.Categories(c.Args().First())
		if err != nil {
			return err
		}
		var lines []string
		for _, ext := range iface.Extensions {
			for _, k := range ext.Kinds {
				lines = append(lines, fmt.Sprintf("%s\tkind\t%s%s\t%s", ext.Name, k.Scheme, k.Term, k.Location))
			}
			for _, m := range ext.Mixins {
				lines = append(lines, fmt.Sprintf("%s\tmixin\t%s%s\t%s", ext.Name, m.Scheme, m.Term, m.Location))
			}
			for _, a := range ext.Actions {
				lines = append(lines, fmt.Sprintf("%s\taction\t%s%s\t", ext.Name, a.Scheme, a.Term))
			}
		}
		sort.Strings(lines)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		return w.Flush()
	},
}

func main() {
	app := cli.NewApp()
	app.Usage = "talk to an OCCI server"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Value:  "http://localhost:5980/",
			Usage:  "base URL of the OCCI server",
			EnvVar: "OCCI_URL",
		},
	}
	app.Commands = []cli.Command{
		getCommand,
		listCommand,
		createCommand,
		deleteCommand,
		actionCommand,
		interfaceCommand,
	}
	app.Before = func(c *cli.Context) (err error) {
		client, err = restclient.New(c.String("url"))
		return
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("occictl failed")
	}
}
