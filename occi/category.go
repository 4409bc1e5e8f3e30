// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

import (
	"strings"
)

// Class identifies what sort of thing a Category describes.
type Class int

const (
	// ClassKind marks a category that names an entity type.
	ClassKind Class = iota

	// ClassMixin marks a category that augments entities with
	// extra attributes and actions.
	ClassMixin

	// ClassAction marks an invokable operation.
	ClassAction
)

// String returns the wire name of a class: "kind", "mixin", or "action".
func (c Class) String() string {
	switch c {
	case ClassKind:
		return "kind"
	case ClassMixin:
		return "mixin"
	case ClassAction:
		return "action"
	default:
		return "unknown"
	}
}

// ParseClass converts a wire class name back to a Class.  The match
// is case-insensitive.
func ParseClass(s string) (Class, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kind":
		return ClassKind, true
	case "mixin":
		return ClassMixin, true
	case "action":
		return ClassAction, true
	}
	return ClassKind, false
}

// AttributeDef describes one attribute a category declares.
type AttributeDef struct {
	// Name is the fully qualified attribute name, for instance
	// "occi.compute.cores".
	Name string

	// Type is the declared type name, for instance "integer",
	// "float", "boolean", "string", or an enumeration name.  See
	// SchemaType for how type names are classified.
	Type string

	// Required is true if an entity must carry this attribute.
	Required bool

	// Immutable is true if the attribute cannot be changed after
	// the entity is created.
	Immutable bool

	// Default, if non-nil, is the value an entity gets if it does
	// not provide one.
	Default *Value

	// Description is free-form documentation.
	Description string
}

// Category is a kind, mixin, or action definition.  Categories are
// identified by the concatenation of their scheme and term.
type Category struct {
	Scheme string
	Term   string
	Class  Class
	Title  string

	// Parent is the identifier of the parent kind, for kinds only.
	Parent string

	// Depends lists identifiers of mixins this mixin builds on.
	Depends []string

	// Applies lists identifiers of kinds this mixin may be
	// applied to.
	Applies []string

	// Location is the collection path of entities of this kind,
	// or tagged with this mixin, such as "/compute/".  Actions
	// have no location.
	Location string

	// Extension names the extension that defined this category;
	// interface renderings group categories by it.
	Extension string

	// Attributes lists the attributes this category declares
	// itself, not counting inherited ones.
	Attributes []AttributeDef

	// Actions lists the identifiers of actions this category
	// exposes.
	Actions []string

	// Tag is true for user-defined mixin tags.  Tags have a
	// location and no attributes.
	Tag bool
}

// ID returns the category identifier, scheme followed by term.
func (c Category) ID() string {
	return c.Scheme + c.Term
}

// Attribute finds an attribute declared directly on this category.
func (c Category) Attribute(name string) (AttributeDef, bool) {
	for _, attr := range c.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return AttributeDef{}, false
}

// SplitID splits a category identifier into its scheme and term.  The
// scheme ends at the last "#"; an identifier without one is all term.
func SplitID(id string) (scheme, term string) {
	idx := strings.LastIndex(id, "#")
	if idx < 0 {
		return "", id
	}
	return id[:idx+1], id[idx+1:]
}

// NormalizeLocation produces the canonical form of a category or
// collection location: a leading and trailing "/" and no duplicate
// separators.  An empty location stays empty.
func NormalizeLocation(location string) string {
	trimmed := strings.Trim(location, "/")
	if trimmed == "" {
		if location == "" {
			return ""
		}
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return "/" + strings.Join(kept, "/") + "/"
}

// PathContains reports whether location lies inside the collection
// path prefix.  Both are compared in normalized form, so "/a/b" is
// inside "/a" and "/a/" but not inside "/ab/".
func PathContains(prefix, location string) bool {
	p := NormalizeLocation(prefix)
	l := NormalizeLocation(location)
	if p == "" || p == "/" {
		return true
	}
	return strings.HasPrefix(l, p)
}
