// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes an OCCI catalog as an HTTP service.
// The restclient package is a matching client.
//
// Media types and header names are defined in the restdata package.
//
// HTTP Considerations
//
// Clients choose the response representation with the standard
// Accept: header and declare the request representation with
// Content-Type:.  A request with OCCI header fields (Category:,
// X-OCCI-Attribute:, X-OCCI-Location:) and no Content-Type: is read
// as text/occi.  If Accept: names nothing the server can produce the
// request fails with 406 Not Acceptable, reported as text/plain.
//
// This interface does not support HTTP caching or authentication
// headers.
//
// MIME Types
//
//     application/occi+json
//     application/json
//
// JSON entity, collection, and discovery documents.
//
//     text/occi
//
// The request or response is entirely in HTTP headers.
//
//     text/plain
//
// Plain lines of text; the default if Accept: is missing.  Request
// bodies of this type are not interpreted.
//
//     text/uri-list
//
// A list of locations, one per line.
//
// URL Scheme
//
// Entities are addressed by location.  A kind's collection is at its
// declared location or its term, for instance /compute/; an entity
// created there gets a location like /compute/{uuid}.  Clients may
// also place entities under paths of their own choosing, and query
// any path as a collection of the entities below it.
//
// The following URLs are defined:
//
//     /-/
//     /.well-known/org/ogf/occi/-/
//
// The discovery interface.  GET lists categories, optionally
// filtered by ?category=; PUT or POST with a mixin tag and a location
// defines a tag; DELETE with a mixin removes it.
//
//     /{collection}/
//
// GET lists the entities in a collection.  POST with a kind creates
// an entity.  POST with a mixin and X-OCCI-Location: values on a mixin
// collection associates those entities with the mixin; PUT replaces
// the mixin's membership; DELETE removes them, or without locations
// deletes the whole collection.  ?action= invokes an action on every
// member.
//
//     /{collection}/{uuid}
//
// GET, PUT, POST, and DELETE a single entity.  POST with
// ?action={term} invokes an action.
package restserver
