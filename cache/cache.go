// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides caching of category lookups in front of an
// OCCI catalog.
//
// Every request the server handles resolves several categories, some
// more than once: the codecs look up attribute types and action
// lists, and the classifier matches paths against category locations.
// Categories change only when extensions are registered or mixin tags
// are defined and deleted, so they cache well.
//
// The cache wraps some other catalog.  Category, CategoriesByTerm,
// and Categories are served from an LRU cache; every other method
// passes through.  Register, DefineMixinTag, and DeleteMixinTag empty
// the cache.
//
// Caveats
//
// Only changes made through the cache invalidate it.  If another
// process shares the underlying catalog (two servers on one postgres
// database, for instance), a mixin tag it defines will not be seen
// here until this cache evicts the stale entries.  Entities are never
// cached, so this only affects categories.
package cache

import (
	"strings"

	"github.com/diffeo/go-occi/occi"
)

// DefaultSize is the number of lookups cached when New is given a
// non-positive size.
const DefaultSize = 256

const allKey = "all"

type categoryEntry struct {
	key string
	cat occi.Category
}

func (e categoryEntry) Key() string { return e.key }

type listEntry struct {
	key  string
	cats []occi.Category
}

func (e listEntry) Key() string { return e.key }

type cache struct {
	backend    occi.Catalog
	categories *lru
}

// New creates a new caching catalog, wrapping some other catalog.
func New(backend occi.Catalog, size int) occi.Catalog {
	if size <= 0 {
		size = DefaultSize
	}
	return &cache{
		backend:    backend,
		categories: newLRU(size),
	}
}

func (c *cache) invalidate() {
	c.categories.Purge()
}

func (c *cache) Categories() ([]occi.Category, error) {
	item, err := c.categories.Get(allKey, func(key string) (entry, error) {
		cats, err := c.backend.Categories()
		return listEntry{key: key, cats: cats}, err
	})
	if err != nil {
		return nil, err
	}
	return append([]occi.Category(nil), item.(listEntry).cats...), nil
}

func (c *cache) Category(id string) (occi.Category, error) {
	item, err := c.categories.Get("id:"+id, func(key string) (entry, error) {
		cat, err := c.backend.Category(id)
		return categoryEntry{key: key, cat: cat}, err
	})
	if err != nil {
		return occi.Category{}, err
	}
	return item.(categoryEntry).cat, nil
}

func (c *cache) CategoriesByTerm(term string) ([]occi.Category, error) {
	item, err := c.categories.Get("term:"+strings.ToLower(term), func(key string) (entry, error) {
		cats, err := c.backend.CategoriesByTerm(term)
		return listEntry{key: key, cats: cats}, err
	})
	if err != nil {
		return nil, err
	}
	return append([]occi.Category(nil), item.(listEntry).cats...), nil
}

func (c *cache) Entity(id string) (occi.Entity, error) {
	return c.backend.Entity(id)
}

func (c *cache) EntityLocation(id string) (string, error) {
	return c.backend.EntityLocation(id)
}

func (c *cache) Register(categories ...occi.Category) error {
	defer c.invalidate()
	return c.backend.Register(categories...)
}

func (c *cache) SaveEntity(ctx *occi.Context, e occi.Entity) (occi.Entity, bool, error) {
	return c.backend.SaveEntity(ctx, e)
}

func (c *cache) UpdateEntity(ctx *occi.Context, e occi.Entity) (occi.Entity, error) {
	return c.backend.UpdateEntity(ctx, e)
}

func (c *cache) DeleteEntity(id string) error {
	return c.backend.DeleteEntity(id)
}

func (c *cache) Entities(filter occi.CollectionFilter) ([]occi.Entity, error) {
	return c.backend.Entities(filter)
}

func (c *cache) DefineMixinTag(ctx *occi.Context, tag occi.Category) error {
	defer c.invalidate()
	return c.backend.DefineMixinTag(ctx, tag)
}

func (c *cache) DeleteMixinTag(id string) error {
	defer c.invalidate()
	return c.backend.DeleteMixinTag(id)
}

func (c *cache) Associate(mixin string, ids ...string) error {
	return c.backend.Associate(mixin, ids...)
}

func (c *cache) Dissociate(mixin string, ids ...string) error {
	return c.backend.Dissociate(mixin, ids...)
}
