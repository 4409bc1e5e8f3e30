// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package representation translates between the OCCI wire formats and
// occi.RequestRecord values, and renders catalog data back out.
//
// Each media type has a Codec.  A Factory picks one by the declared
// Content-Type: (or by negotiating an Accept: header).  Decoding
// produces zero or more request records; an empty body is zero records
// and no error.  Rendering produces an Output holding header fields and
// a body, one or both of which may be empty.
//
// Codecs hold no mutable state and are safe for concurrent use.  The
// catalog Lookup passed in is only read.
package representation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
)

// Input is the part of a request a codec reads.
type Input struct {
	Header http.Header
	Body   []byte
}

// Output is a rendered response.  Header may be nil.
type Output struct {
	Header http.Header
	Body   []byte
}

// Codec parses and renders one representation.
type Codec interface {
	// MediaType returns the canonical media type this codec
	// produces.  The no-op codec returns "".
	MediaType() string

	// Decode parses the request headers and body into request
	// records.  ctx supplies identifiers when a representation
	// needs to refer to a not-yet-created entity.
	Decode(ctx *occi.Context, l occi.Lookup, in Input) ([]occi.RequestRecord, error)

	// RenderEntities renders a list of entities.
	RenderEntities(l occi.Lookup, entities []occi.Entity) (Output, error)

	// RenderInterface renders category definitions for discovery.
	RenderInterface(categories []occi.Category) (Output, error)

	// RenderLocations renders a list of locations.
	RenderLocations(locations []string) (Output, error)

	// RenderMessage renders a plain status message.
	RenderMessage(message string) (Output, error)

	// RenderError renders an error response.
	RenderError(resp restdata.ErrorResponse) (Output, error)
}

// RepresentationError is returned when a request body or its headers
// cannot be parsed.  Reasons holds one entry per failed attempt.
type RepresentationError struct {
	MediaType string
	Reasons   []string
}

func (e RepresentationError) Error() string {
	return fmt.Sprintf("Invalid %v representation: %v", e.MediaType, strings.Join(e.Reasons, "; "))
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e RepresentationError) HTTPStatus() int {
	return http.StatusBadRequest
}

func representationError(mediaType, format string, args ...interface{}) RepresentationError {
	return RepresentationError{
		MediaType: mediaType,
		Reasons:   []string{fmt.Sprintf(format, args...)},
	}
}

// SizeLimitError is returned when a rendered header block would be
// larger than the header codec allows.
type SizeLimitError struct {
	Limit int
	Size  int
}

func (e SizeLimitError) Error() string {
	return fmt.Sprintf("Rendered headers are %v bytes, more than the limit of %v", e.Size, e.Limit)
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e SizeLimitError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotAcceptableError is returned from Factory.Negotiate if the Accept:
// header does not mention any media type we can produce.
type NotAcceptableError struct {
	Accept string
}

func (e NotAcceptableError) Error() string {
	return "No acceptable representation for response"
}

// HTTPStatus returns a fixed 406 Not Acceptable HTTP status code.
func (e NotAcceptableError) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// SelectCategories filters categories for an interface rendering.  An
// empty filter keeps everything; otherwise a category is kept if its
// identifier or its term matches, case-insensitively.
func SelectCategories(categories []occi.Category, filter string) []occi.Category {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return categories
	}
	var result []occi.Category
	for _, cat := range categories {
		if strings.EqualFold(cat.ID(), filter) || strings.EqualFold(cat.Term, filter) {
			result = append(result, cat)
		}
	}
	return result
}

// locationsOf returns the locations of a list of entities.
func locationsOf(entities []occi.Entity) []string {
	result := make([]string, len(entities))
	for i, e := range entities {
		result[i] = e.Location
	}
	return result
}

// lines joins strings one per line, with a trailing newline.
func lines(items []string) []byte {
	if len(items) == 0 {
		return nil
	}
	return []byte(strings.Join(items, "\n") + "\n")
}

// withSlash makes sure a location begins with "/".
func withSlash(location string) string {
	if location == "" || strings.HasPrefix(location, "/") || strings.Contains(location, "://") {
		return location
	}
	return "/" + location
}

// entityID canonicalizes an identifier if it is a UUID, and otherwise
// returns it trimmed.
func entityID(s string) string {
	if id, ok := occi.ParseID(s); ok {
		return id
	}
	return strings.TrimSpace(s)
}

// attributeType finds the declared type of an attribute, tolerating a
// nil lookup.
func attributeType(l occi.Lookup, kind string, mixins []string, name string) string {
	if l == nil {
		return ""
	}
	return occi.AttributeType(l, kind, mixins, name)
}

// actionsOf lists the actions an entity's kind, its ancestors, and its
// mixins expose, without duplicates.
func actionsOf(l occi.Lookup, e occi.Entity) []occi.Category {
	if l == nil {
		return nil
	}
	var result []occi.Category
	seen := make(map[string]bool)
	for _, cat := range occi.Lineage(l, e.Kind, e.Mixins) {
		for _, id := range cat.Actions {
			if seen[id] {
				continue
			}
			seen[id] = true
			action, err := l.Category(id)
			if err != nil {
				scheme, term := occi.SplitID(id)
				action = occi.Category{Scheme: scheme, Term: term, Class: occi.ClassAction}
			}
			result = append(result, action)
		}
	}
	return result
}

// categoryFor looks up a category, synthesizing a bare one of the
// given class if the lookup does not know it.
func categoryFor(l occi.Lookup, id string, class occi.Class) occi.Category {
	if l != nil {
		if cat, err := l.Category(id); err == nil {
			return cat
		}
	}
	scheme, term := occi.SplitID(id)
	return occi.Category{Scheme: scheme, Term: term, Class: class}
}

// ownerLocation is where a not-yet-stored resource will live, so that
// links embedded in it can name it as their source.
func ownerLocation(l occi.Lookup, r occi.RequestRecord) string {
	if r.Location != "" {
		return r.Location
	}
	cat := categoryFor(l, r.Kind, occi.ClassKind)
	return occi.EntityLocation(occi.CollectionLocation(cat), r.EntityID)
}
