// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/diffeo/go-occi/association"
	"github.com/diffeo/go-occi/classify"
	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/representation"
	"github.com/diffeo/go-occi/restdata"
)

var (
	errNoLocation   = restdata.ErrBadRequest{Err: errors.New("A mixin tag definition needs a location")}
	errNoMixin      = restdata.ErrBadRequest{Err: errors.New("No mixin named")}
	errNoTarget     = restdata.ErrBadRequest{Err: errors.New("An action needs an entity or collection to act on")}
	errNoEntity     = restdata.ErrBadRequest{Err: errors.New("No entity identifier given")}
	errNothingToDo  = restdata.ErrBadRequest{Err: errors.New("Request does not describe anything to create or associate")}
	errNotAMixinTag = restdata.ErrBadRequest{Err: errors.New("Only mixin collections can be replaced")}
	errDeleteRoot   = restdata.ErrBadRequest{Err: errors.New("Deleting everything needs a category parameter")}
)

// operation is one classified record being executed.
type operation struct {
	*restAPI
	Context *occi.Context
	Method  string
	Path    string
	Query   url.Values
	Record  occi.RequestRecord
	Result  classify.Result
}

func (op *operation) notAllowed() error {
	return errMethodNotAllowed{Method: op.Method, Class: op.Result.Classification}
}

func (op *operation) reading() bool {
	return op.Method == http.MethodGet || op.Method == http.MethodHead
}

func (op *operation) run() (result, error) {
	switch op.Result.Classification {
	case classify.InterfaceQuery:
		return op.interfaceQuery()
	case classify.MixinTagDefinition:
		return op.mixinTag()
	case classify.ActionInvocation:
		return op.action()
	case classify.EntityQuery:
		return op.entity()
	default:
		return op.collection()
	}
}

// interfaceQuery serves the discovery interface.  GET lists
// categories; DELETE removes the mixin tags named in the request.
// Mixin tags are defined through MixinTagDefinition instead.
func (op *operation) interfaceQuery() (result, error) {
	switch {
	case op.reading():
		cats, err := op.Catalog.Categories()
		if err != nil {
			return result{}, err
		}
		return result{
			Render:     renderInterface,
			Categories: representation.SelectCategories(cats, op.Query.Get(restdata.CategoryParam)),
		}, nil

	case op.Method == http.MethodDelete:
		if len(op.Record.Mixins) == 0 {
			return result{}, errNoMixin
		}
		for _, id := range op.Record.Mixins {
			if err := op.Catalog.DeleteMixinTag(id); err != nil {
				return result{}, err
			}
		}
		return result{Render: renderMessage, Message: "OK"}, nil

	case op.Method == http.MethodPut || op.Method == http.MethodPost:
		// A mixin here without a location is an incomplete tag
		// definition.
		if len(op.Record.Mixins) > 0 {
			return result{}, errNoLocation
		}
		return result{}, errNothingToDo
	}
	return result{}, op.notAllowed()
}

// mixinTag defines or deletes a user mixin tag.
func (op *operation) mixinTag() (result, error) {
	tag := occi.MixinTagFromRecord(op.Record)
	switch op.Method {
	case http.MethodGet, http.MethodHead:
		cat, err := op.Catalog.Category(tag.ID())
		if err != nil {
			return result{}, err
		}
		return result{Render: renderInterface, Categories: []occi.Category{cat}}, nil

	case http.MethodPut, http.MethodPost:
		_, err := op.Catalog.Category(tag.ID())
		existed := err == nil
		if err = op.Catalog.DefineMixinTag(op.Context, tag); err != nil {
			return result{}, err
		}
		defined, err := op.Catalog.Category(tag.ID())
		if err != nil {
			return result{}, err
		}
		res := result{Render: renderInterface, Categories: []occi.Category{defined}}
		if !existed {
			res.Status = http.StatusCreated
			res.Location = defined.Location
		}
		return res, nil

	case http.MethodDelete:
		if err := op.Catalog.DeleteMixinTag(tag.ID()); err != nil {
			return result{}, err
		}
		return result{Render: renderMessage, Message: "OK"}, nil
	}
	return result{}, op.notAllowed()
}

// action invokes an action on one entity, or on every entity in a
// collection.
func (op *operation) action() (result, error) {
	if op.Method != http.MethodPost {
		return result{}, op.notAllowed()
	}
	if classify.IsInterfacePath(op.Path) {
		return result{}, errNoTarget
	}
	if id := op.Result.EntityID; id != "" {
		e, err := op.Actions.Invoke(op.Context, op.Catalog, id, op.Record.Action, op.Record.Attributes)
		if err != nil {
			return result{}, err
		}
		return result{Render: renderEntities, Entities: []occi.Entity{e}}, nil
	}

	filter, err := classify.Filter(op.Catalog, op.Result.Path, op.Query)
	if err != nil {
		return result{}, err
	}
	filter.Page = 1
	filter.PageSize = -1
	targets, err := op.Catalog.Entities(filter)
	if err != nil {
		return result{}, err
	}
	res := result{Render: renderEntities, Entities: []occi.Entity{}}
	for _, target := range targets {
		e, err := op.Actions.Invoke(op.Context, op.Catalog, target.ID, op.Record.Action, op.Record.Attributes)
		if err != nil {
			return result{}, err
		}
		res.Entities = append(res.Entities, e)
	}
	return res, nil
}

// entity reads, creates, updates, or deletes a single entity.
func (op *operation) entity() (result, error) {
	id := op.Result.EntityID
	switch op.Method {
	case http.MethodGet, http.MethodHead:
		if id == "" {
			// A kind with no identifier on a read is a
			// filter on that kind.
			return op.list(op.Record.Kind)
		}
		e, err := op.Catalog.Entity(id)
		if err != nil {
			return result{}, err
		}
		return result{Render: renderEntities, Entities: []occi.Entity{e}}, nil

	case http.MethodPut:
		return op.save(id)

	case http.MethodPost:
		if id != "" {
			_, err := op.Catalog.Entity(id)
			if _, missing := err.(occi.ErrNoSuchEntity); missing {
				return op.save(id)
			}
			if err != nil {
				return result{}, err
			}
			update := occi.EntityFromRecord(op.Record)
			update.ID = id
			e, err := op.Catalog.UpdateEntity(op.Context, update)
			if err != nil {
				return result{}, err
			}
			return result{Render: renderEntities, Entities: []occi.Entity{e}}, nil
		}
		return op.save("")

	case http.MethodDelete:
		if id == "" {
			return result{}, errNoEntity
		}
		if err := op.Catalog.DeleteEntity(id); err != nil {
			return result{}, err
		}
		return result{Render: renderMessage, Message: "OK"}, nil
	}
	return result{}, op.notAllowed()
}

// save creates or replaces the entity the record describes.
func (op *operation) save(id string) (result, error) {
	e := occi.EntityFromRecord(op.Record)
	if id != "" {
		e.ID = id
	}
	if e.Kind == "" && op.Result.OnCategory && op.Result.Category.Class == occi.ClassKind {
		e.Kind = op.Result.Category.ID()
	}
	if e.Location == "" {
		var err error
		e, err = op.place(e)
		if err != nil {
			return result{}, err
		}
	}
	saved, created, err := op.Catalog.SaveEntity(op.Context, e)
	if err != nil {
		return result{}, err
	}
	res := result{
		Render:   renderEntities,
		Entities: []occi.Entity{saved},
		Location: saved.Location,
	}
	if created {
		res.Status = http.StatusCreated
	}
	return res, nil
}

// place picks a location for an entity that does not name one.  A
// request to an entity location puts it there; a request to a custom
// collection path puts it inside that path; anything else leaves it
// to the catalog, which uses the kind's collection.
func (op *operation) place(e occi.Entity) (occi.Entity, error) {
	path := op.Path
	if _, hasID := occi.ParseID(path); hasID {
		e.Location = "/" + strings.Trim(path, "/")
		return e, nil
	}
	if strings.Trim(path, "/") == "" || classify.IsInterfacePath(path) {
		return e, nil
	}
	_, onCategory, err := classify.CategoryAt(op.Catalog, path)
	if err != nil || onCategory {
		return e, err
	}
	if e.ID == "" {
		e.ID = op.Context.NewID()
	}
	e.Location = occi.EntityLocation(path, e.ID)
	return e, nil
}

// collection operates on a set of entities selected by category or
// path.
func (op *operation) collection() (result, error) {
	cat := op.Result.Category
	isMixin := op.Result.OnCategory && cat.Class == occi.ClassMixin
	locations := op.Record.ExtraLocations
	switch op.Method {
	case http.MethodGet, http.MethodHead:
		category := ""
		if len(op.Record.Mixins) > 0 {
			category = op.Record.Mixins[0]
		}
		return op.list(category)

	case http.MethodPost:
		if isMixin && len(locations) > 0 {
			return op.associate(association.Additive)
		}
		if op.Result.OnCategory && cat.Class == occi.ClassKind && op.Record.Subject() == occi.SubjectEntity {
			return op.save("")
		}
		return result{}, errNothingToDo

	case http.MethodPut:
		if isMixin {
			return op.associate(association.ReplaceAll)
		}
		return result{}, errNotAMixinTag

	case http.MethodDelete:
		if isMixin && len(locations) > 0 {
			return op.associate(association.Remove)
		}
		return op.deleteAll()
	}
	return result{}, op.notAllowed()
}

// list runs a collection query.  category, if not empty, names a
// category from the request itself, which is used if the path does
// not already select one.
func (op *operation) list(category string) (result, error) {
	filter, err := op.filter()
	if err != nil {
		return result{}, err
	}
	if category != "" && filter.CategoryFilter == "" {
		filter.CategoryFilter = category
		filter.PathFilter = ""
	}
	entities, err := op.Catalog.Entities(filter)
	if err != nil {
		return result{}, err
	}
	return result{Render: renderEntities, Entities: entities}, nil
}

// filter builds the collection filter for the request, applying the
// configured page size.
func (op *operation) filter() (occi.CollectionFilter, error) {
	filter, err := classify.Filter(op.Catalog, op.Result.Path, op.Query)
	if err == nil && op.PageSize != 0 && op.Query.Get(restdata.NumberParam) == "" {
		filter.PageSize = op.PageSize
	}
	return filter, err
}

// associate applies the request's mixin to the listed locations.
func (op *operation) associate(mode association.Mode) (result, error) {
	resolver := association.Resolver{Catalog: op.Catalog}
	report, err := resolver.Resolve(op.Result.Category.ID(), op.Record.ExtraLocations, mode)
	if err != nil {
		return result{}, err
	}
	if len(report.Failures) > 0 && len(report.Associated) == 0 && len(report.Dissociated) == 0 {
		return result{}, report.Err()
	}
	lines := []string{fmt.Sprintf("%v: %d associated, %d dissociated", mode, len(report.Associated), len(report.Dissociated))}
	for _, failure := range report.Failures {
		lines = append(lines, failure.Error())
	}
	return result{Render: renderMessage, Message: strings.Join(lines, "\n")}, nil
}

// deleteAll deletes every entity the collection selects.  The root
// collection selects the whole catalog, so it must be narrowed by a
// category.
func (op *operation) deleteAll() (result, error) {
	filter, err := classify.Filter(op.Catalog, op.Result.Path, op.Query)
	if err != nil {
		return result{}, err
	}
	if filter.CategoryFilter == "" && strings.Trim(filter.PathFilter, "/") == "" {
		return result{}, errDeleteRoot
	}
	filter.Page = 1
	filter.PageSize = -1
	entities, err := op.Catalog.Entities(filter)
	if err != nil {
		return result{}, err
	}
	deleted := 0
	for _, e := range entities {
		err = op.Catalog.DeleteEntity(e.ID)
		if _, gone := err.(occi.ErrNoSuchEntity); gone {
			// Deleting a resource also deletes its links.
			continue
		}
		if err != nil {
			return result{}, err
		}
		deleted++
	}
	return result{Render: renderMessage, Message: fmt.Sprintf("Deleted %d entities", deleted)}, nil
}
