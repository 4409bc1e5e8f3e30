// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package association applies a mixin to the entities named by a list
// of locations.
//
// A location is either an entity location, ending in an entity
// identifier, or a collection location such as /compute/ or a custom
// path.  An entity location resolves to exactly that entity, which
// must exist.  A collection location resolves to every entity the
// catalog currently holds there.
//
// Each location is handled on its own.  A location that cannot be
// resolved is recorded in the Report and the rest are still processed;
// nothing already applied is undone.
package association

import (
	"fmt"
	"net/http"

	"github.com/diffeo/go-occi/classify"
	"github.com/diffeo/go-occi/occi"
)

// Mode selects how resolved entities combine with the mixin's
// existing membership.
type Mode int

const (
	// Additive associates the resolved entities and leaves any
	// existing associations alone.
	Additive Mode = iota

	// ReplaceAll makes the resolved entities the mixin's only
	// members.  Entities previously associated but not resolved
	// this time are dissociated.
	ReplaceAll

	// Remove dissociates the resolved entities.
	Remove
)

func (m Mode) String() string {
	switch m {
	case ReplaceAll:
		return "replace"
	case Remove:
		return "remove"
	default:
		return "additive"
	}
}

// ResolutionError is reported for a location that does not resolve to
// any live entity.
type ResolutionError struct {
	Location string
	Reason   string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("Cannot resolve %q: %s", e.Location, e.Reason)
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ResolutionError) HTTPStatus() int {
	return http.StatusNotFound
}

// Report describes the outcome of one Resolve call.
type Report struct {
	// Mixin is the identifier of the mixin that was applied.
	Mixin string

	// Associated lists the identifiers of entities that are
	// members after the call, in resolution order.
	Associated []string

	// Dissociated lists the identifiers of entities that were
	// removed from the mixin.
	Dissociated []string

	// Failures has one entry per location that could not be
	// resolved or applied.
	Failures []ResolutionError
}

// Err returns nil if every location succeeded.  Otherwise it returns
// the first failure; the rest are in Failures.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return r.Failures[0]
}

// Resolver applies mixins to entities in a catalog.
type Resolver struct {
	Catalog occi.Catalog
}

// Resolve applies a mixin to the entities named by locations.  The
// returned error is non-nil only if nothing could be attempted at all,
// for instance because the mixin does not exist; per-location failures
// are in the Report.
func (r Resolver) Resolve(mixin string, locations []string, mode Mode) (Report, error) {
	report := Report{Mixin: mixin}
	cat, err := r.Catalog.Category(mixin)
	if _, missing := err.(occi.ErrNoSuchCategory); missing {
		return report, occi.CategoryError{ID: mixin}
	}
	if err != nil {
		return report, err
	}
	if cat.Class != occi.ClassMixin {
		return report, occi.CategoryError{ID: mixin, Reason: "is not a mixin"}
	}

	var previous []string
	if mode == ReplaceAll {
		previous, err = r.members(mixin)
		if err != nil {
			return report, err
		}
	}

	resolved := make(map[string]bool)
	for _, location := range locations {
		ids, failure := r.resolve(location)
		if failure != nil {
			report.Failures = append(report.Failures, *failure)
			continue
		}
		var fresh []string
		for _, id := range ids {
			if !resolved[id] {
				fresh = append(fresh, id)
			}
		}
		if len(fresh) == 0 {
			continue
		}
		if mode == Remove {
			err = r.Catalog.Dissociate(mixin, fresh...)
		} else {
			err = r.Catalog.Associate(mixin, fresh...)
		}
		if err != nil {
			report.Failures = append(report.Failures, ResolutionError{Location: location, Reason: err.Error()})
			continue
		}
		for _, id := range fresh {
			resolved[id] = true
		}
		if mode == Remove {
			report.Dissociated = append(report.Dissociated, fresh...)
		} else {
			report.Associated = append(report.Associated, fresh...)
		}
	}

	for _, id := range previous {
		if resolved[id] {
			continue
		}
		if err := r.Catalog.Dissociate(mixin, id); err != nil {
			report.Failures = append(report.Failures, ResolutionError{Location: id, Reason: err.Error()})
			continue
		}
		report.Dissociated = append(report.Dissociated, id)
	}
	return report, nil
}

// resolve turns one location into entity identifiers.
func (r Resolver) resolve(location string) ([]string, *ResolutionError) {
	if id, ok := occi.ParseID(location); ok {
		if _, err := r.Catalog.Entity(id); err != nil {
			return nil, &ResolutionError{Location: location, Reason: "no such entity"}
		}
		return []string{id}, nil
	}
	filter := occi.NewCollectionFilter()
	filter.PageSize = -1
	cat, found, err := classify.CategoryAt(r.Catalog, location)
	if err != nil {
		return nil, &ResolutionError{Location: location, Reason: err.Error()}
	}
	if found {
		filter.CategoryFilter = cat.ID()
	} else {
		filter.PathFilter = occi.NormalizeLocation(location)
	}
	entities, err := r.Catalog.Entities(filter)
	if err != nil {
		return nil, &ResolutionError{Location: location, Reason: err.Error()}
	}
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	return ids, nil
}

// members lists every entity the mixin is currently applied to.
func (r Resolver) members(mixin string) ([]string, error) {
	filter := occi.NewCollectionFilter()
	filter.PageSize = -1
	filter.CategoryFilter = mixin
	entities, err := r.Catalog.Entities(filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	return ids, nil
}
