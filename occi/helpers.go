// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package occi

// This file contains helpers that work on any Lookup.  Backends use
// them so that entity validation behaves identically everywhere.

import (
	"strings"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Ancestors returns the identifiers of a kind's parents, nearest
// first, not including the kind itself.  Unknown parents end the
// chain.
func Ancestors(l Lookup, kind string) []string {
	var result []string
	seen := map[string]bool{kind: true}
	for kind != "" {
		cat, err := l.Category(kind)
		if err != nil || cat.Parent == "" || seen[cat.Parent] {
			break
		}
		seen[cat.Parent] = true
		result = append(result, cat.Parent)
		kind = cat.Parent
	}
	return result
}

// Lineage returns the categories that define an entity's attributes
// and actions: its kind, the kind's ancestors, its mixins, and the
// mixins those depend on.  Categories that cannot be found are
// skipped.
func Lineage(l Lookup, kind string, mixins []string) []Category {
	var result []Category
	seen := make(map[string]bool)
	var visit func(id string, followParent bool)
	visit = func(id string, followParent bool) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		cat, err := l.Category(id)
		if err != nil {
			return
		}
		result = append(result, cat)
		if followParent {
			visit(cat.Parent, true)
		}
		for _, dep := range cat.Depends {
			visit(dep, false)
		}
	}
	visit(kind, true)
	for _, m := range mixins {
		visit(m, false)
	}
	return result
}

// AttributeType finds the declared type of an attribute across an
// entity's kind and mixins.  Returns "" if no category declares it.
func AttributeType(l Lookup, kind string, mixins []string, name string) string {
	if def, ok := FindAttribute(l, kind, mixins, name); ok {
		return def.Type
	}
	return ""
}

// FindAttribute finds an attribute definition across an entity's kind
// and mixins.
func FindAttribute(l Lookup, kind string, mixins []string, name string) (AttributeDef, bool) {
	for _, cat := range Lineage(l, kind, mixins) {
		if def, ok := cat.Attribute(name); ok {
			return def, true
		}
	}
	return AttributeDef{}, false
}

// IsLinkKind reports whether a kind is the core link kind or
// descends from it.
func IsLinkKind(l Lookup, kind string) bool {
	if kind == LinkKind {
		return true
	}
	for _, parent := range Ancestors(l, kind) {
		if parent == LinkKind {
			return true
		}
	}
	return false
}

// CollectionLocation returns where entities of a category live: its
// declared location, or "/<term>/".
func CollectionLocation(cat Category) string {
	if cat.Location != "" {
		return NormalizeLocation(cat.Location)
	}
	return "/" + cat.Term + "/"
}

// checkCategory looks up a category and verifies its class.
func checkCategory(l Lookup, id string, class Class) (Category, error) {
	cat, err := l.Category(id)
	if _, missing := err.(ErrNoSuchCategory); missing {
		return cat, CategoryError{ID: id}
	}
	if err != nil {
		return cat, err
	}
	if cat.Class != class {
		return cat, CategoryError{ID: id, Reason: "is not a " + class.String()}
	}
	return cat, nil
}

// PrepareEntity validates a new or replacement entity against the
// categories it names and fills in everything a backend needs to
// store it: identifier, location, owner, coerced attribute values, and
// defaults.  Reserved attributes left in the bag are moved to their
// dedicated fields.
func PrepareEntity(l Lookup, ctx *Context, e Entity) (Entity, error) {
	e = e.Clone()
	if e.Kind == "" {
		return e, ErrNoKind
	}
	kind, err := checkCategory(l, e.Kind, ClassKind)
	if err != nil {
		return e, err
	}
	for _, m := range e.Mixins {
		if _, err = checkCategory(l, m, ClassMixin); err != nil {
			return e, err
		}
	}
	liftReserved(&e)
	if e.ID == "" {
		e.ID = ctx.NewID()
	}
	if e.Location == "" {
		e.Location = EntityLocation(CollectionLocation(kind), e.ID)
	}
	if e.Owner == "" {
		e.Owner = ctx.OwnerName()
	}
	link := IsLinkKind(l, e.Kind)
	if link && (e.Source == "" || e.Target == "") {
		return e, ErrInvalidAttribute{Name: AttrSource, Reason: "a link needs both a source and a target"}
	}
	if !link {
		e.Source, e.Target = "", ""
	}

	var attrs Attributes
	for _, attr := range e.Attributes.List() {
		def, _ := FindAttribute(l, e.Kind, e.Mixins, attr.Name)
		v, err := Coerce(def.Type, attr.Value)
		if err != nil {
			return e, ErrInvalidAttribute{Name: attr.Name, Reason: err.Error()}
		}
		attrs.Set(attr.Name, v)
	}
	for _, cat := range Lineage(l, e.Kind, e.Mixins) {
		for _, def := range cat.Attributes {
			if IsReserved(def.Name, true) {
				continue
			}
			if _, present := attrs.Get(def.Name); present {
				continue
			}
			if def.Default != nil {
				attrs.Set(def.Name, *def.Default)
			} else if def.Required {
				return e, ErrInvalidAttribute{Name: def.Name, Reason: "is required"}
			}
		}
	}
	e.Attributes = attrs
	return e, nil
}

// MergeEntity applies a partial update to an existing entity.  Mixins
// in update are added, attributes are merged after coercion, and a
// non-empty title or summary replaces the old one.  Changing an
// immutable attribute is an error.
func MergeEntity(l Lookup, existing, update Entity) (Entity, error) {
	result := existing.Clone()
	update = update.Clone()
	liftReserved(&update)
	for _, m := range update.Mixins {
		if result.HasMixin(m) {
			continue
		}
		if _, err := checkCategory(l, m, ClassMixin); err != nil {
			return existing, err
		}
		result.Mixins = append(result.Mixins, m)
	}
	for _, attr := range update.Attributes.List() {
		def, _ := FindAttribute(l, result.Kind, result.Mixins, attr.Name)
		v, err := Coerce(def.Type, attr.Value)
		if err != nil {
			return existing, ErrInvalidAttribute{Name: attr.Name, Reason: err.Error()}
		}
		if old, present := result.Attributes.Get(attr.Name); def.Immutable && present && old != v {
			return existing, ErrInvalidAttribute{Name: attr.Name, Reason: "is immutable"}
		}
		result.Attributes.Set(attr.Name, v)
	}
	if update.Title != "" {
		result.Title = update.Title
	}
	if update.Summary != "" {
		result.Summary = update.Summary
	}
	if result.IsLink() {
		if update.Source != "" {
			result.Source = update.Source
		}
		if update.Target != "" {
			result.Target = update.Target
		}
	}
	return result, nil
}

// liftReserved moves reserved attributes out of the bag into the
// entity's dedicated fields.  Explicit field values win.
func liftReserved(e *Entity) {
	if v, ok := e.Attributes.Get(AttrID); ok {
		if e.ID == "" {
			if id, valid := ParseID(v.Text()); valid {
				e.ID = id
			}
		}
		e.Attributes.Delete(AttrID)
	}
	if v, ok := e.Attributes.Get(AttrTitle); ok {
		if e.Title == "" {
			e.Title = v.Text()
		}
		e.Attributes.Delete(AttrTitle)
	}
	if v, ok := e.Attributes.Get(AttrSummary); ok {
		if e.Summary == "" {
			e.Summary = v.Text()
		}
		e.Attributes.Delete(AttrSummary)
	}
	if v, ok := e.Attributes.Get(AttrSource); ok {
		if e.Source == "" {
			e.Source = v.Text()
		}
		e.Attributes.Delete(AttrSource)
	}
	if v, ok := e.Attributes.Get(AttrTarget); ok {
		if e.Target == "" {
			e.Target = v.Text()
		}
		e.Attributes.Delete(AttrTarget)
	}
}

// EntityFromRecord builds an entity from a decoded request record.
// Reserved attributes are kept in the bag; PrepareEntity and
// MergeEntity move them into place.
func EntityFromRecord(r RequestRecord) Entity {
	return Entity{
		ID:         r.EntityID,
		Kind:       r.Kind,
		Mixins:     append([]string(nil), r.Mixins...),
		Title:      r.Title,
		Summary:    r.Summary,
		Location:   r.Location,
		Attributes: r.Attributes.Clone(),
		Source:     r.Source,
		Target:     r.Target,
	}
}

// MixinTagFromRecord builds a mixin tag category from a definition
// record.
func MixinTagFromRecord(r RequestRecord) Category {
	scheme, term := SplitID(r.MixinTag)
	return Category{
		Scheme:   scheme,
		Term:     term,
		Class:    ClassMixin,
		Title:    r.MixinTagTitle,
		Location: NormalizeLocation(r.Location),
		Tag:      true,
	}
}

// ValidateMixinTag checks the shape of a mixin tag definition against
// the categories already registered.
func ValidateMixinTag(l Lookup, tag Category) error {
	if tag.Term == "" || tag.Scheme == "" || tag.Location == "" {
		return CategoryError{ID: tag.ID(), Reason: "a mixin tag needs a scheme, term, and location"}
	}
	if len(tag.Attributes) > 0 {
		return ErrTagHasAttributes
	}
	existing, err := l.Category(tag.ID())
	if err == nil && !existing.Tag {
		return CategoryError{ID: tag.ID(), Reason: "is already defined by an extension"}
	}
	cats, err := l.Categories()
	if err != nil {
		return err
	}
	location := NormalizeLocation(tag.Location)
	for _, cat := range cats {
		if cat.ID() == tag.ID() || cat.Class == ClassAction {
			continue
		}
		if strings.EqualFold(CollectionLocation(cat), location) {
			return ErrLocationInUse
		}
	}
	return nil
}
