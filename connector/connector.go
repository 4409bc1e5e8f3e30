// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package connector dispatches action invocations to code.
//
// Categories declare which actions their entities expose, but that
// only says an action exists.  A Registry maps (category, action)
// pairs to the Handler that performs it.  Invoking an action that an
// entity's categories declare but that has no handler is
// ErrActionNotImplemented; invoking one they do not declare at all is
// ErrActionNotFound.
//
// Infrastructure returns a registry with handlers for the OCCI
// Infrastructure actions that only change an entity's state.
package connector

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/diffeo/go-occi/occi"
)

// ErrActionNotFound is returned when an entity's categories do not
// declare the requested action.
type ErrActionNotFound struct {
	Action string
	Entity string
}

func (e ErrActionNotFound) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("No such action %q", e.Action)
	}
	return fmt.Sprintf("No such action %q on %v", e.Action, e.Entity)
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrActionNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrActionNotImplemented is returned when an action is declared but
// nothing has registered a handler for it.
type ErrActionNotImplemented struct {
	Action string
}

func (e ErrActionNotImplemented) Error() string {
	return fmt.Sprintf("Action %q is not implemented", e.Action)
}

// HTTPStatus returns a fixed 501 Not Implemented error code.
func (e ErrActionNotImplemented) HTTPStatus() int {
	return http.StatusNotImplemented
}

// Invocation is one action applied to one entity.
type Invocation struct {
	// Context is the request context.
	Context *occi.Context

	// Catalog is where the entity lives.  Handlers write their
	// results back through it.
	Catalog occi.Catalog

	// Entity is a snapshot of the target entity.
	Entity occi.Entity

	// Action is the resolved action category.
	Action occi.Category

	// Attributes are the action's parameters, typed per the
	// action category.
	Attributes occi.Attributes
}

// Handler performs an action.  It returns the entity as it stands
// afterwards.
type Handler func(inv Invocation) (occi.Entity, error)

// Descriptor binds one action to its handler.
type Descriptor struct {
	Action  string
	Handler Handler
}

// Registry maps category identifiers to the actions they implement.
// A Registry is safe for concurrent use.
type Registry struct {
	lock       sync.RWMutex
	categories map[string][]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{categories: make(map[string][]Descriptor)}
}

// Register binds a handler to an action for entities of a category.
// Registering the same pair again replaces the handler.
func (r *Registry) Register(category, action string, h Handler) {
	r.lock.Lock()
	defer r.lock.Unlock()
	list := r.categories[category]
	for i, d := range list {
		if d.Action == action {
			list[i].Handler = h
			return
		}
	}
	r.categories[category] = append(list, Descriptor{Action: action, Handler: h})
}

// Descriptors returns the actions registered for a category, in
// registration order.
func (r *Registry) Descriptors(category string) []Descriptor {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return append([]Descriptor(nil), r.categories[category]...)
}

// Resolve finds the action category and handler for invoking action
// on an entity.  action may be a full identifier or a bare term; a
// bare term matches the first action with that term declared by the
// entity's kind, its parents, or its mixins.
func (r *Registry) Resolve(l occi.Lookup, e occi.Entity, action string) (occi.Category, Handler, error) {
	lineage := occi.Lineage(l, e.Kind, e.Mixins)
	id, found := declared(lineage, action)
	if !found {
		return occi.Category{}, nil, ErrActionNotFound{Action: action, Entity: e.Location}
	}
	cat, err := l.Category(id)
	if err != nil {
		return occi.Category{}, nil, ErrActionNotFound{Action: id, Entity: e.Location}
	}

	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, owner := range lineage {
		for _, d := range r.categories[owner.ID()] {
			if d.Action == id && d.Handler != nil {
				return cat, d.Handler, nil
			}
		}
	}
	return cat, nil, ErrActionNotImplemented{Action: id}
}

// declared finds the identifier of an action the lineage declares.
func declared(lineage []occi.Category, action string) (string, bool) {
	full := strings.Contains(action, "#")
	for _, cat := range lineage {
		for _, id := range cat.Actions {
			if full && id == action {
				return id, true
			}
			if !full {
				if _, term := occi.SplitID(id); strings.EqualFold(term, action) {
					return id, true
				}
			}
		}
	}
	return "", false
}

// Invoke performs an action on the entity with the given identifier.
// Attribute values are coerced to the types the action declares.
func (r *Registry) Invoke(ctx *occi.Context, c occi.Catalog, id, action string, attrs occi.Attributes) (occi.Entity, error) {
	e, err := c.Entity(id)
	if err != nil {
		return occi.Entity{}, err
	}
	cat, handler, err := r.Resolve(c, e, action)
	if err != nil {
		return e, err
	}
	var typed occi.Attributes
	for _, attr := range attrs.List() {
		def, _ := cat.Attribute(attr.Name)
		v, err := occi.Coerce(def.Type, attr.Value)
		if err != nil {
			return e, occi.ErrInvalidAttribute{Name: attr.Name, Reason: err.Error()}
		}
		typed.Set(attr.Name, v)
	}
	return handler(Invocation{
		Context:    ctx,
		Catalog:    c,
		Entity:     e,
		Action:     cat,
		Attributes: typed,
	})
}
