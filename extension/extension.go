// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package extension provides the category sets a catalog is seeded
// with: OCCI Core, OCCI Infrastructure, and user extensions loaded
// from YAML files.
package extension

import (
	"github.com/diffeo/go-occi/occi"
)

// Extension is a named set of categories.
type Extension struct {
	Name       string
	Categories []occi.Category
}

// Install registers the categories of every extension with a catalog,
// in order.  Core should come first so that later extensions can name
// its kinds as parents.
func Install(catalog occi.Catalog, extensions ...Extension) error {
	for _, ext := range extensions {
		cats := make([]occi.Category, len(ext.Categories))
		for i, cat := range ext.Categories {
			if cat.Extension == "" {
				cat.Extension = ext.Name
			}
			cats[i] = cat
		}
		if err := catalog.Register(cats...); err != nil {
			return err
		}
	}
	return nil
}

// Standard returns the Core and Infrastructure extensions.
func Standard() []Extension {
	return []Extension{Core(), Infrastructure()}
}

func attr(name, typeName string) occi.AttributeDef {
	return occi.AttributeDef{Name: name, Type: typeName}
}

func withDefault(def occi.AttributeDef, v occi.Value) occi.AttributeDef {
	def.Default = &v
	return def
}

func immutable(def occi.AttributeDef) occi.AttributeDef {
	def.Immutable = true
	return def
}

func required(def occi.AttributeDef) occi.AttributeDef {
	def.Required = true
	return def
}
