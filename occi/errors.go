// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

import (
	"errors"
	"fmt"
)

// ErrNoKind is returned when creating an entity without a kind.
var ErrNoKind = errors.New("Entity has no kind")

// ErrNotTag is returned when a mixin tag operation names a category
// that is not a user-defined tag.
var ErrNotTag = errors.New("Category is not a mixin tag")

// ErrTagHasAttributes is returned when defining a mixin tag with
// attributes.
var ErrTagHasAttributes = errors.New("Mixin tag cannot declare attributes")

// ErrLocationInUse is returned when a new mixin tag or entity would
// be placed at a location that already belongs to something else.
var ErrLocationInUse = errors.New("Location is already in use")

// ErrNoSuchEntity is returned by catalog lookups for an entity that
// does not exist.
type ErrNoSuchEntity struct {
	ID string
}

func (err ErrNoSuchEntity) Error() string {
	return fmt.Sprintf("No such entity %v", err.ID)
}

// ErrNoSuchCategory is returned by catalog lookups for a kind, mixin,
// or action that is not registered.
type ErrNoSuchCategory struct {
	ID string
}

func (err ErrNoSuchCategory) Error() string {
	return fmt.Sprintf("No such category %v", err.ID)
}

// CategoryError reports that a request referenced a category that is
// not registered, or used a category in a way its class does not
// permit (a mixin as a kind, for instance).
type CategoryError struct {
	ID     string
	Reason string
}

func (err CategoryError) Error() string {
	if err.Reason == "" {
		return fmt.Sprintf("Unknown category %v", err.ID)
	}
	return fmt.Sprintf("Category %v: %v", err.ID, err.Reason)
}

// ErrInvalidAttribute is returned when an attribute value does not
// match its declared type, or an immutable or required attribute is
// violated.
type ErrInvalidAttribute struct {
	Name   string
	Reason string
}

func (err ErrInvalidAttribute) Error() string {
	return fmt.Sprintf("Invalid attribute %v: %v", err.Name, err.Reason)
}
