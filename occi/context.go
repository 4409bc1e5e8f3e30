// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

import (
	"fmt"
	"sync"

	"github.com/satori/go.uuid"
)

// DefaultOwner is the owner identity used when a request does not
// name one.
const DefaultOwner = "anonymous"

// IDGenerator produces fresh entity identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewV4().String()
}

// SequenceGenerator produces predictable UUID-shaped identifiers,
// counting up from 1.  It is meant for tests.
type SequenceGenerator struct {
	lock sync.Mutex
	next uint64
}

// NewID returns the next identifier in sequence.
func (g *SequenceGenerator) NewID() string {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.next++
	return fmt.Sprintf("00000000-0000-4000-8000-%012x", g.next)
}

// Context carries per-request identity and services into codec,
// classifier, and catalog calls.
type Context struct {
	// Owner is the identity on whose behalf the request runs.
	Owner string

	// IDs generates identifiers for newly created entities.
	IDs IDGenerator
}

// NewContext returns a context with the default owner and a random
// UUID generator.
func NewContext() *Context {
	return &Context{Owner: DefaultOwner, IDs: UUIDGenerator{}}
}

// NewID generates a new identifier, falling back to a random UUID if
// the context has no generator.
func (ctx *Context) NewID() string {
	if ctx == nil || ctx.IDs == nil {
		return UUIDGenerator{}.NewID()
	}
	return ctx.IDs.NewID()
}

// OwnerName returns the owner identity, or DefaultOwner.
func (ctx *Context) OwnerName() string {
	if ctx == nil || ctx.Owner == "" {
		return DefaultOwner
	}
	return ctx.Owner
}
