// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package classify decides what operation a request asks for.
//
// Classify looks at the request path and one decoded request record,
// and produces exactly one Classification.  The rules are tried in a
// fixed order and the first that matches wins:
//
//     ActionInvocation    the record names an action
//     InterfaceQuery      the path is /-/ or its well-known alias
//     MixinTagDefinition  the record has a location and a mixin tag
//     EntityQuery         the path or record identifies an entity,
//                         or the record describes one by kind
//     CollectionQuery     anything else
//
// A collection query is "on category" if its path names a registered
// kind, mixin, or action, and a "custom path" query otherwise.
// Associating entities with a mixin tag is an on-category collection
// query whose category is a tag.
//
// Everything here only reads the catalog, and the same input always
// produces the same output.
package classify

import (
	"strings"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
)

// Classification is the kind of operation a request performs.
type Classification int

const (
	// CollectionQuery operates on a set of entities selected by
	// category or by path.
	CollectionQuery Classification = iota

	// InterfaceQuery reads or changes the discovery interface.
	InterfaceQuery

	// MixinTagDefinition defines or removes a user mixin tag.
	MixinTagDefinition

	// ActionInvocation invokes an action on an entity or a
	// collection.
	ActionInvocation

	// EntityQuery operates on one entity.
	EntityQuery
)

func (c Classification) String() string {
	switch c {
	case InterfaceQuery:
		return "interface"
	case MixinTagDefinition:
		return "mixin-tag"
	case ActionInvocation:
		return "action"
	case EntityQuery:
		return "entity"
	default:
		return "collection"
	}
}

// Result is the outcome of classifying one request record.
type Result struct {
	Classification Classification

	// Path is the effective path: the record's location if it
	// has one, otherwise the request path.
	Path string

	// EntityID identifies the target entity, if the path or the
	// record names one.
	EntityID string

	// OnCategory is true if Path names a registered category,
	// which is then in Category.
	OnCategory bool
	Category   occi.Category
}

// IsInterfacePath reports whether a path is the discovery interface.
func IsInterfacePath(path string) bool {
	p := occi.NormalizeLocation(path)
	return p == restdata.InterfacePath || p == restdata.WellKnownInterfacePath
}

// EffectivePath returns the record's location if it has one, and
// otherwise the request path.
func EffectivePath(path string, r occi.RequestRecord) string {
	if r.Location != "" {
		return r.Location
	}
	return path
}

// identifier finds an entity identifier in the effective path or, if
// there is none there, in the record's occi.core.id attribute.
func identifier(path string, r occi.RequestRecord) (string, bool) {
	if id, ok := occi.ParseID(path); ok {
		return id, true
	}
	if v, ok := r.Attributes.Get(occi.AttrID); ok {
		return occi.ParseID(v.Text())
	}
	return "", false
}

// CategoryAt finds the category a path names, if any.  The path
// matches a category's collection location, or its term, ignoring
// case and leading and trailing separators.
func CategoryAt(l occi.Lookup, path string) (occi.Category, bool, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return occi.Category{}, false, nil
	}
	location := occi.NormalizeLocation(path)
	cats, err := l.Categories()
	if err != nil {
		return occi.Category{}, false, err
	}
	for _, cat := range cats {
		if cat.Class != occi.ClassAction && strings.EqualFold(occi.CollectionLocation(cat), location) {
			return cat, true, nil
		}
	}
	if strings.Contains(trimmed, "/") {
		return occi.Category{}, false, nil
	}
	cats, err = l.CategoriesByTerm(trimmed)
	if err != nil {
		return occi.Category{}, false, err
	}
	if len(cats) == 0 {
		return occi.Category{}, false, nil
	}
	return cats[0], true, nil
}

// Classify decides what operation a request performs, given its path
// and one decoded record.
func Classify(l occi.Lookup, path string, r occi.RequestRecord) (Result, error) {
	result := Result{Path: EffectivePath(path, r)}
	id, hasID := identifier(result.Path, r)
	if hasID {
		result.EntityID = id
	}

	definesTag := r.Location != "" && r.MixinTag != ""
	switch {
	case r.Action != "":
		result.Classification = ActionInvocation
	case IsInterfacePath(path) && !definesTag:
		result.Classification = InterfaceQuery
		return result, nil
	case definesTag:
		result.Classification = MixinTagDefinition
		return result, nil
	case hasID:
		result.Classification = EntityQuery
		return result, nil
	case r.Kind != "" || r.EntityID != "":
		result.Classification = EntityQuery
		result.EntityID = entityID(r.EntityID)
		return result, nil
	default:
		result.Classification = CollectionQuery
	}

	// Actions and collection queries may target a category.
	if hasID {
		return result, nil
	}
	cat, found, err := CategoryAt(l, result.Path)
	if err != nil {
		return result, err
	}
	result.OnCategory = found
	result.Category = cat
	return result, nil
}

func entityID(s string) string {
	if id, ok := occi.ParseID(s); ok {
		return id
	}
	return s
}
