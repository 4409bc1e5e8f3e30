// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// an OCCI catalog.  There is no persistence, nor is there any
// automatic sharing.  The entire catalog is behind a single global
// mutex to protect against concurrent updates; this limits
// performance in the name of correctness.
//
// This is mostly intended as a simple reference implementation that
// can be used for testing, including in-process testing of
// higher-level components such as the REST server.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/diffeo/go-occi/occi"
)

// This is the only external entry point to this package:

// New creates a new, empty catalog that operates purely in memory.
// It has no categories at all; use the extension package to install
// some.
func New() occi.Catalog {
	return &memCatalog{
		categoryIndex: make(map[string]int),
		entities:      make(map[string]*occi.Entity),
	}
}

type memCatalog struct {
	sem           sync.Mutex
	categories    []occi.Category
	categoryIndex map[string]int
	entities      map[string]*occi.Entity
}

// view is an occi.Lookup over the catalog state that does not take
// the lock.  It is only used by code already holding it.
type view struct {
	c *memCatalog
}

func (c *memCatalog) do(f func(v view) error) error {
	c.sem.Lock()
	defer c.sem.Unlock()
	return f(view{c})
}

// occi.Lookup interface:

func (c *memCatalog) Categories() (cats []occi.Category, err error) {
	err = c.do(func(v view) error {
		cats, err = v.Categories()
		return err
	})
	return
}

func (c *memCatalog) Category(id string) (cat occi.Category, err error) {
	err = c.do(func(v view) error {
		cat, err = v.Category(id)
		return err
	})
	return
}

func (c *memCatalog) CategoriesByTerm(term string) (cats []occi.Category, err error) {
	err = c.do(func(v view) error {
		cats, err = v.CategoriesByTerm(term)
		return err
	})
	return
}

func (c *memCatalog) Entity(id string) (e occi.Entity, err error) {
	err = c.do(func(v view) error {
		e, err = v.Entity(id)
		return err
	})
	return
}

func (c *memCatalog) EntityLocation(id string) (location string, err error) {
	err = c.do(func(v view) error {
		location, err = v.EntityLocation(id)
		return err
	})
	return
}

func (v view) Categories() ([]occi.Category, error) {
	return append([]occi.Category(nil), v.c.categories...), nil
}

func (v view) Category(id string) (occi.Category, error) {
	idx, present := v.c.categoryIndex[id]
	if !present {
		return occi.Category{}, occi.ErrNoSuchCategory{ID: id}
	}
	return v.c.categories[idx], nil
}

func (v view) CategoriesByTerm(term string) ([]occi.Category, error) {
	var result []occi.Category
	for _, cat := range v.c.categories {
		if strings.EqualFold(cat.Term, term) {
			result = append(result, cat)
		}
	}
	return result, nil
}

func (v view) Entity(id string) (occi.Entity, error) {
	e, present := v.c.entities[id]
	if !present {
		return occi.Entity{}, occi.ErrNoSuchEntity{ID: id}
	}
	result := e.Clone()
	if !result.IsLink() {
		result.Links = v.linksFrom(e.Location)
	}
	return result, nil
}

func (v view) EntityLocation(id string) (string, error) {
	e, present := v.c.entities[id]
	if !present {
		return "", occi.ErrNoSuchEntity{ID: id}
	}
	return e.Location, nil
}

// linksFrom returns snapshots of every link whose source is location,
// ordered by location.
func (v view) linksFrom(location string) []occi.Entity {
	var links []occi.Entity
	for _, e := range v.c.entities {
		if e.IsLink() && sameLocation(e.Source, location) {
			links = append(links, e.Clone())
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Location < links[j].Location })
	return links
}

func sameLocation(a, b string) bool {
	return strings.Trim(a, "/") == strings.Trim(b, "/")
}

// occi.Catalog interface:

func (c *memCatalog) Register(categories ...occi.Category) error {
	return c.do(func(v view) error {
		for _, cat := range categories {
			v.put(cat)
		}
		return nil
	})
}

func (v view) put(cat occi.Category) {
	if idx, present := v.c.categoryIndex[cat.ID()]; present {
		v.c.categories[idx] = cat
		return
	}
	v.c.categoryIndex[cat.ID()] = len(v.c.categories)
	v.c.categories = append(v.c.categories, cat)
}

func (v view) remove(id string) {
	idx, present := v.c.categoryIndex[id]
	if !present {
		return
	}
	v.c.categories = append(v.c.categories[:idx], v.c.categories[idx+1:]...)
	delete(v.c.categoryIndex, id)
	for i := idx; i < len(v.c.categories); i++ {
		v.c.categoryIndex[v.c.categories[i].ID()] = i
	}
}

func (c *memCatalog) SaveEntity(ctx *occi.Context, e occi.Entity) (saved occi.Entity, created bool, err error) {
	err = c.do(func(v view) error {
		prepared, err := occi.PrepareEntity(v, ctx, e)
		if err != nil {
			return err
		}
		if other := v.entityAt(prepared.Location); other != nil && other.ID != prepared.ID {
			return occi.ErrLocationInUse
		}
		old, exists := c.entities[prepared.ID]
		if exists && old.Location != prepared.Location && e.Location == "" {
			// Replacing without naming a location keeps
			// the entity where it was.
			prepared.Location = old.Location
		}
		prepared.Links = nil
		c.entities[prepared.ID] = &prepared
		created = !exists
		saved, err = v.Entity(prepared.ID)
		return err
	})
	return
}

func (v view) entityAt(location string) *occi.Entity {
	for _, e := range v.c.entities {
		if sameLocation(e.Location, location) {
			return e
		}
	}
	return nil
}

func (c *memCatalog) UpdateEntity(ctx *occi.Context, e occi.Entity) (updated occi.Entity, err error) {
	err = c.do(func(v view) error {
		existing, present := c.entities[e.ID]
		if !present {
			return occi.ErrNoSuchEntity{ID: e.ID}
		}
		merged, err := occi.MergeEntity(v, *existing, e)
		if err != nil {
			return err
		}
		merged.Links = nil
		c.entities[e.ID] = &merged
		updated, err = v.Entity(e.ID)
		return err
	})
	return
}

func (c *memCatalog) DeleteEntity(id string) error {
	return c.do(func(v view) error {
		e, present := c.entities[id]
		if !present {
			return occi.ErrNoSuchEntity{ID: id}
		}
		delete(c.entities, id)
		if !e.IsLink() {
			for linkID, link := range c.entities {
				if link.IsLink() && (sameLocation(link.Source, e.Location) || sameLocation(link.Target, e.Location)) {
					delete(c.entities, linkID)
				}
			}
		}
		return nil
	})
}

func (c *memCatalog) Entities(filter occi.CollectionFilter) (result []occi.Entity, err error) {
	err = c.do(func(v view) error {
		ancestors := func(kind string) []string { return occi.Ancestors(v, kind) }
		for _, e := range c.entities {
			if filter.Matches(*e, ancestors) {
				result = append(result, *e)
			}
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Location < result[j].Location })
		result = filter.Paginate(result)
		for i := range result {
			result[i], err = v.Entity(result[i].ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return
}

func (c *memCatalog) DefineMixinTag(ctx *occi.Context, tag occi.Category) error {
	return c.do(func(v view) error {
		tag.Class = occi.ClassMixin
		tag.Tag = true
		tag.Location = occi.NormalizeLocation(tag.Location)
		if err := occi.ValidateMixinTag(v, tag); err != nil {
			return err
		}
		v.put(tag)
		return nil
	})
}

func (c *memCatalog) DeleteMixinTag(id string) error {
	return c.do(func(v view) error {
		cat, err := v.Category(id)
		if err != nil {
			return err
		}
		if !cat.Tag {
			return occi.ErrNotTag
		}
		v.remove(id)
		for _, e := range c.entities {
			e.Mixins = without(e.Mixins, id)
		}
		return nil
	})
}

func (c *memCatalog) Associate(mixin string, ids ...string) error {
	return c.do(func(v view) error {
		if err := v.checkMixin(mixin); err != nil {
			return err
		}
		for _, id := range ids {
			if _, present := c.entities[id]; !present {
				return occi.ErrNoSuchEntity{ID: id}
			}
		}
		for _, id := range ids {
			e := c.entities[id]
			if !e.HasMixin(mixin) {
				e.Mixins = append(e.Mixins, mixin)
			}
		}
		return nil
	})
}

func (c *memCatalog) Dissociate(mixin string, ids ...string) error {
	return c.do(func(v view) error {
		if err := v.checkMixin(mixin); err != nil {
			return err
		}
		for _, id := range ids {
			if _, present := c.entities[id]; !present {
				return occi.ErrNoSuchEntity{ID: id}
			}
		}
		for _, id := range ids {
			e := c.entities[id]
			e.Mixins = without(e.Mixins, mixin)
		}
		return nil
	})
}

func (v view) checkMixin(id string) error {
	cat, err := v.Category(id)
	if err != nil {
		return occi.CategoryError{ID: id}
	}
	if cat.Class != occi.ClassMixin {
		return occi.CategoryError{ID: id, Reason: "is not a mixin"}
	}
	return nil
}

func without(list []string, item string) []string {
	result := list[:0]
	for _, s := range list {
		if s != item {
			result = append(result, s)
		}
	}
	return result
}
