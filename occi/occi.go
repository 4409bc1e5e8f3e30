// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package occi defines the data model of an Open Cloud Computing
// Interface catalog and the abstract API to the catalog itself.
//
// A catalog holds categories (kinds, mixins, and actions) and entity
// instances (resources and links).  Specific implementations live in
// the memory and postgres packages; the restserver package publishes
// a catalog over HTTP.
//
// Values returned from a catalog are snapshots.  Categories and
// entities are plain structs; changing one has no effect until it is
// passed back to a Catalog method.
package occi

// Lookup is the read-only part of a catalog.  It is everything the
// representation and classification layers need.  Implementations
// must be safe for concurrent use.
type Lookup interface {
	// Categories returns every registered category, including
	// user-defined mixin tags, in registration order.
	Categories() ([]Category, error)

	// Category retrieves a category by its scheme+term
	// identifier.  If none is registered, returns an
	// ErrNoSuchCategory.
	Category(id string) (Category, error)

	// CategoriesByTerm returns every category with the given
	// term, compared case-insensitively.  This may be empty.
	CategoriesByTerm(term string) ([]Category, error)

	// Entity retrieves an entity by identifier.  If it does not
	// exist, returns an ErrNoSuchEntity.
	Entity(id string) (Entity, error)

	// EntityLocation returns the stored location of an entity.
	EntityLocation(id string) (string, error)
}

// Catalog is the complete interface to a catalog backend.
type Catalog interface {
	Lookup

	// Register adds or replaces catalog-defined categories.
	// Extensions are registered once at startup.
	Register(categories ...Category) error

	// SaveEntity creates or replaces an entity.  If e.ID is
	// empty a new identifier is generated from ctx.  If
	// e.Location is empty the entity is placed in its kind's
	// collection.  Returns the stored entity and whether it was
	// newly created.
	SaveEntity(ctx *Context, e Entity) (Entity, bool, error)

	// UpdateEntity partially updates an existing entity: mixins
	// are added, attributes merged, and non-empty title and
	// summary replaced.
	UpdateEntity(ctx *Context, e Entity) (Entity, error)

	// DeleteEntity removes an entity.  Deleting a resource also
	// deletes the links whose source it is.
	DeleteEntity(id string) error

	// Entities returns the entities matching a filter, ordered
	// by location, with pagination applied.
	Entities(filter CollectionFilter) ([]Entity, error)

	// DefineMixinTag creates or replaces a user-defined mixin
	// tag.  The category must be a mixin with a location and no
	// attributes.
	DefineMixinTag(ctx *Context, tag Category) error

	// DeleteMixinTag removes a mixin tag and dissociates it from
	// every entity.
	DeleteMixinTag(id string) error

	// Associate applies a mixin to entities.
	Associate(mixin string, ids ...string) error

	// Dissociate removes a mixin from entities.
	Dissociate(mixin string, ids ...string) error
}
