// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines the wire vocabulary shared between the
// representation, restserver, and restclient packages: media types,
// reserved header fields and query parameters, the discovery paths,
// and the JSON document shapes.
//
// Representations
//
// Every operation can be expressed in any of three equivalent
// representations.  text/occi carries categories and attributes in
// HTTP header fields:
//
//     Category: compute; scheme="http://schemas.ogf.org/occi/infrastructure#"; class="kind"
//     X-OCCI-Attribute: occi.compute.cores=2, occi.core.title="web"
//
// application/occi+json (or plain application/json) carries a JSON
// document in the body:
//
//     {"kind": "http://schemas.ogf.org/occi/infrastructure#compute",
//      "attributes": {"occi.compute.cores": 2, "occi.core.title": "web"}}
//
// text/uri-list carries a newline-separated list of locations, and is
// used to list collections and to associate entities with mixins.
//
// URL Scheme
//
// The discovery interface lives at /-/ and at
// /.well-known/org/ogf/occi/-/.  Entities live in the collection of
// their kind, /compute/6df690d2-3158-40c4-88fb-d1c41584d6e5, unless
// placed elsewhere explicitly.  Any other path is a collection: a
// category location such as /compute/ or /mytag/ selects entities by
// category, and any other path selects entities stored beneath it.
//
// Collection queries accept these parameters:
//
//     category   restrict to a category identifier
//     attribute  restrict to entities carrying this attribute
//     value      ...with this value
//     operator   0 for equality (default), 1 for substring match
//     page       1-based page number (default 1)
//     number     page size (default 20, negative for everything)
//
// POST to an entity or collection with ?action=term invokes an action.
package restdata

// Media types understood by the server.
const (
	// OCCIMediaType is the header-based representation.
	OCCIMediaType = "text/occi"

	// URIListMediaType is the location-list representation.
	URIListMediaType = "text/uri-list"

	// JSONMediaType is generic JSON.
	JSONMediaType = "application/json"

	// OCCIJSONMediaType is the vendor-suffixed JSON type.
	OCCIJSONMediaType = "application/occi+json"

	// PlainMediaType is the opaque plain-text type.
	PlainMediaType = "text/plain"
)

// Reserved header fields.
const (
	CategoryHeader  = "Category"
	AttributeHeader = "X-OCCI-Attribute"
	LocationHeader  = "X-OCCI-Location"
	LinkHeader      = "Link"
)

// Reserved query parameters.
const (
	CategoryParam  = "category"
	AttributeParam = "attribute"
	ValueParam     = "value"
	PageParam      = "page"
	NumberParam    = "number"
	OperatorParam  = "operator"
	ActionParam    = "action"
)

// Discovery paths.
const (
	InterfacePath          = "/-/"
	WellKnownInterfacePath = "/.well-known/org/ogf/occi/-/"
)

// LinkEnd is the JSON form of a link's source or target.
type LinkEnd struct {
	Location string `json:"location"`
	Kind     string `json:"kind,omitempty"`
}

// Resource is the JSON form of a resource.
type Resource struct {
	Kind       string                 `json:"kind,omitempty"`
	Mixins     []string               `json:"mixins,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Actions    []string               `json:"actions,omitempty"`
	ID         string                 `json:"id,omitempty"`
	Title      string                 `json:"title,omitempty"`
	Summary    string                 `json:"summary,omitempty"`
	Location   string                 `json:"location,omitempty"`
	Links      []Link                 `json:"links,omitempty"`
}

// Link is the JSON form of a link.  Source and Target are decoded
// from either a location string or a LinkEnd object, and always
// encoded as a LinkEnd.
type Link struct {
	Kind       string                 `json:"kind,omitempty"`
	Mixins     []string               `json:"mixins,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Actions    []string               `json:"actions,omitempty"`
	ID         string                 `json:"id,omitempty"`
	Title      string                 `json:"title,omitempty"`
	Summary    string                 `json:"summary,omitempty"`
	Location   string                 `json:"location,omitempty"`
	Source     interface{}            `json:"source,omitempty"`
	Target     interface{}            `json:"target,omitempty"`
}

// Mixin is the JSON form of a mixin.  As a request body with a
// location and no attributes it defines a mixin tag; in an interface
// rendering Attributes holds AttributeDef values.
type Mixin struct {
	Term       string                 `json:"term"`
	Scheme     string                 `json:"scheme"`
	Title      string                 `json:"title,omitempty"`
	Location   string                 `json:"location,omitempty"`
	Depends    []string               `json:"depends,omitempty"`
	Applies    []string               `json:"applies,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Actions    []string               `json:"actions,omitempty"`
}

// Kind is the JSON form of a kind in an interface rendering.
type Kind struct {
	Term       string                  `json:"term"`
	Scheme     string                  `json:"scheme"`
	Title      string                  `json:"title,omitempty"`
	Parent     string                  `json:"parent,omitempty"`
	Location   string                  `json:"location,omitempty"`
	Attributes map[string]AttributeDef `json:"attributes,omitempty"`
	Actions    []string                `json:"actions,omitempty"`
}

// ActionDef is the JSON form of an action in an interface rendering.
type ActionDef struct {
	Term       string                  `json:"term"`
	Scheme     string                  `json:"scheme"`
	Title      string                  `json:"title,omitempty"`
	Attributes map[string]AttributeDef `json:"attributes,omitempty"`
}

// AttributeDef is the JSON form of an attribute definition.  Type is
// a coarse JSON schema type: number, array, boolean, or string.
type AttributeDef struct {
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Mutable     bool        `json:"mutable"`
	Default     interface{} `json:"default,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Action is the JSON form of an action invocation.
type Action struct {
	Action     string                 `json:"action"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Collection is the JSON form of any number of entities, mixin tag
// definitions, and action invocations.
type Collection struct {
	Resources []Resource `json:"resources,omitempty"`
	Links     []Link     `json:"links,omitempty"`
	Mixins    []Mixin    `json:"mixins,omitempty"`
	Actions   []Action   `json:"actions,omitempty"`
}

// Extension is one group of an interface rendering.
type Extension struct {
	Name    string      `json:"name"`
	Kinds   []Kind      `json:"kinds,omitempty"`
	Mixins  []Mixin     `json:"mixins,omitempty"`
	Actions []ActionDef `json:"actions,omitempty"`
}

// Interface is the JSON form of the discovery interface.
type Interface struct {
	Extensions []Extension `json:"extensions"`
}

// Locations is the JSON form of a list of locations.
type Locations struct {
	Locations []string `json:"locations"`
}

// Message is the JSON form of a plain status message.
type Message struct {
	Message string `json:"message"`
}
