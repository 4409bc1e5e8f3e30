// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

import (
	"strings"

	"github.com/satori/go.uuid"
)

// Reserved attribute names.  These have dedicated fields on Entity and
// RequestRecord, and representations render them separately from the
// generic attribute bag.
const (
	AttrID      = "occi.core.id"
	AttrTitle   = "occi.core.title"
	AttrSummary = "occi.core.summary"
	AttrSource  = "occi.core.source"
	AttrTarget  = "occi.core.target"
)

// CoreScheme is the scheme of the OCCI Core categories.
const CoreScheme = "http://schemas.ogf.org/occi/core#"

// Identifiers of the three OCCI Core kinds.
const (
	EntityKind   = CoreScheme + "entity"
	ResourceKind = CoreScheme + "resource"
	LinkKind     = CoreScheme + "link"
)

// IsReserved reports whether name is one of the reserved attribute
// names.  Source and target count only for links.
func IsReserved(name string, link bool) bool {
	switch name {
	case AttrID, AttrTitle, AttrSummary:
		return true
	case AttrSource, AttrTarget:
		return link
	}
	return false
}

// Entity is a resource or link instance stored in a catalog.  Values
// returned by a catalog are snapshots: changing them does not change
// the catalog.
type Entity struct {
	ID       string
	Kind     string
	Mixins   []string
	Title    string
	Summary  string
	Location string

	// Attributes holds the non-reserved attributes.
	Attributes Attributes

	// Source and Target hold the locations of the two ends of a
	// link.  They are empty for resources.
	Source string
	Target string

	// Links holds snapshots of the links whose source is this
	// resource.
	Links []Entity

	// Owner is the identity that created the entity.
	Owner string
}

// IsLink reports whether this entity is a link.
func (e Entity) IsLink() bool {
	return e.Source != "" || e.Target != ""
}

// HasMixin reports whether a mixin is applied to the entity.
func (e Entity) HasMixin(id string) bool {
	for _, m := range e.Mixins {
		if m == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	out := e
	out.Mixins = append([]string(nil), e.Mixins...)
	out.Attributes = e.Attributes.Clone()
	if e.Links != nil {
		out.Links = make([]Entity, len(e.Links))
		for i, l := range e.Links {
			out.Links[i] = l.Clone()
		}
	}
	return out
}

// ParseID extracts a well-formed entity identifier from s.  s may be a
// bare UUID, a "urn:uuid:" URN, or a path whose last segment is one of
// those.  The canonical lower-case UUID string is returned.
func ParseID(s string) (string, bool) {
	s = strings.TrimRight(s, "/")
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimPrefix(strings.ToLower(s), "urn:uuid:")
	if len(s) != 36 {
		return "", false
	}
	u, err := uuid.FromString(s)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// EntityLocation joins a collection location and an identifier.
func EntityLocation(collection, id string) string {
	c := NormalizeLocation(collection)
	if c == "" {
		c = "/"
	}
	return c + id
}
