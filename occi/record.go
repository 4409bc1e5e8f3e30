// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

import (
	"errors"
)

// ErrMixedSubject is returned by RequestRecord.Validate if a record
// is both a mixin tag definition and something else.
var ErrMixedSubject = errors.New("Request record has more than one subject")

// Subject is the primary subject of a RequestRecord.
type Subject int

const (
	// SubjectNone means the record carries nothing at all, for
	// instance a bare GET.
	SubjectNone Subject = iota

	// SubjectEntity means the record describes an entity.
	SubjectEntity

	// SubjectAction means the record invokes an action.
	SubjectAction

	// SubjectMixinTag means the record defines a mixin tag.
	SubjectMixinTag
)

// RequestRecord is one parsed unit of request intent, produced by a
// representation from a request body or headers.
type RequestRecord struct {
	// Kind is the category identifier of the entity's kind.
	Kind string

	// Mixins lists category identifiers applied to the entity.
	Mixins []string

	// Action is the category identifier of an action to invoke.
	Action string

	// Attributes holds the typed attribute bag.
	Attributes Attributes

	// EntityID is the identifier of the target entity, if known.
	EntityID string

	Title   string
	Summary string

	// Location is an explicit placement path.
	Location string

	// MixinTag and MixinTagTitle are set only for mixin tag
	// definitions.  MixinTag is the tag's category identifier.
	MixinTag      string
	MixinTagTitle string

	// ExtraLocations lists auxiliary locations, used for bulk
	// mixin association.
	ExtraLocations []string

	// Source and Target are link ends, for link descriptors.
	Source string
	Target string
}

// Subject reports the record's primary subject.  A mixin tag
// definition takes precedence, then an action, then an entity.
func (r RequestRecord) Subject() Subject {
	switch {
	case r.MixinTag != "":
		return SubjectMixinTag
	case r.Action != "":
		return SubjectAction
	case r.Kind != "" || len(r.Mixins) > 0 || r.Attributes.Len() > 0 || r.EntityID != "":
		return SubjectEntity
	}
	return SubjectNone
}

// Validate checks that a mixin tag definition record does not also
// describe an entity.
func (r RequestRecord) Validate() error {
	if r.MixinTag != "" && (r.Kind != "" || r.Attributes.Len() > 0 || r.Action != "") {
		return ErrMixedSubject
	}
	return nil
}

// IsLink reports whether the record describes a link.
func (r RequestRecord) IsLink() bool {
	return r.Source != "" || r.Target != ""
}

// Operator selects how CollectionFilter.ValueFilter is matched.
type Operator int

const (
	// OperatorEqual requires exact equality.
	OperatorEqual Operator = iota

	// OperatorLike requires the attribute value to contain the
	// filter value.
	OperatorLike
)

func (o Operator) String() string {
	if o == OperatorLike {
		return "like"
	}
	return "equal"
}

// Default pagination parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// CollectionFilter holds the parameters of a collection query.
type CollectionFilter struct {
	// CategoryFilter restricts results to entities whose kind or
	// mixins include this category identifier.
	CategoryFilter string

	// AttributeFilter names an attribute to match; ValueFilter is
	// the value it must match, per Operator.  If AttributeFilter
	// is empty, ValueFilter is matched against every attribute.
	AttributeFilter string
	ValueFilter     string

	// PathFilter restricts results to entities whose location is
	// inside this path.
	PathFilter string

	// Page is the 1-based page number.
	Page int

	// PageSize is the number of entities per page; negative means
	// unbounded.
	PageSize int

	Operator Operator
}

// NewCollectionFilter returns a filter with the default pagination.
func NewCollectionFilter() CollectionFilter {
	return CollectionFilter{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Matches reports whether an entity passes the category, path, and
// attribute parts of the filter.  ancestors is consulted to expand a
// kind into its ancestors, so filtering on a parent kind also returns
// entities of child kinds; it may be nil.
func (f CollectionFilter) Matches(e Entity, ancestors func(kind string) []string) bool {
	if f.CategoryFilter != "" {
		found := e.Kind == f.CategoryFilter || e.HasMixin(f.CategoryFilter)
		if !found && ancestors != nil {
			for _, parent := range ancestors(e.Kind) {
				if parent == f.CategoryFilter {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	if f.PathFilter != "" && !PathContains(f.PathFilter, e.Location) {
		return false
	}
	if f.AttributeFilter == "" && f.ValueFilter == "" {
		return true
	}
	candidates := e.Attributes.Clone()
	candidates.Set(AttrID, String(e.ID))
	candidates.Set(AttrTitle, String(e.Title))
	candidates.Set(AttrSummary, String(e.Summary))
	if f.AttributeFilter != "" {
		v, ok := candidates.Get(f.AttributeFilter)
		if !ok {
			return false
		}
		return f.matchValue(v)
	}
	for _, attr := range candidates.List() {
		if f.matchValue(attr.Value) {
			return true
		}
	}
	return false
}

func (f CollectionFilter) matchValue(v Value) bool {
	if f.ValueFilter == "" {
		return true
	}
	text := v.Text()
	if f.Operator == OperatorLike {
		return containsFold(text, f.ValueFilter)
	}
	return text == f.ValueFilter
}

// Paginate applies Page and PageSize to a list of entities.
func (f CollectionFilter) Paginate(entities []Entity) []Entity {
	if f.PageSize < 0 {
		return entities
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * f.PageSize
	if start >= len(entities) {
		return nil
	}
	end := start + f.PageSize
	if end > len(entities) {
		end = len(entities)
	}
	return entities[start:end]
}
