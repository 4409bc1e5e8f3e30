// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"bytes"
	"reflect"
	"sort"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
	"github.com/ugorji/go/codec"
)

// jsonHandle is shared by every JSON encode and decode.  Objects
// decoded into interface{} come out as map[string]interface{}, and
// maps are encoded with sorted keys.
var jsonHandle = newJSONHandle()

func newJSONHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.MapType = reflect.TypeOf(map[string]interface{}(nil))
	h.Canonical = true
	return h
}

// JSONCodec is the application/json and application/occi+json codec.
// Type is the media type it reports.
type JSONCodec struct {
	Type string
}

// MediaType returns the media type this codec was created for.
func (c JSONCodec) MediaType() string {
	if c.Type == "" {
		return restdata.OCCIJSONMediaType
	}
	return c.Type
}

// mismatch is the reason a document does not have some shape.  Any
// other error from a shape attempt ends decoding.
type mismatch string

func (m mismatch) Error() string {
	return string(m)
}

// jsonDecode holds the state of decoding one document.
type jsonDecode struct {
	mediaType string
	ctx       *occi.Context
	lookup    occi.Lookup
	body      []byte
	raw       map[string]interface{}
}

// shape is one rung of the decoding ladder.
type shape struct {
	name   string
	decode func(d *jsonDecode) ([]occi.RequestRecord, error)
}

// ladder lists the document shapes in the order they are tried.
var ladder = []shape{
	{"collection", (*jsonDecode).collection},
	{"resource", (*jsonDecode).resource},
	{"link", (*jsonDecode).link},
	{"mixin tag", (*jsonDecode).mixinTag},
	{"action", (*jsonDecode).action},
}

// Decode parses a JSON document.  The document is tried as each shape
// in the ladder in turn, and the first that fits produces the
// records.  If none fits the error lists why each was rejected.
func (c JSONCodec) Decode(ctx *occi.Context, l occi.Lookup, in Input) ([]occi.RequestRecord, error) {
	body := bytes.TrimSpace(in.Body)
	if len(body) == 0 {
		return nil, nil
	}
	d := &jsonDecode{
		mediaType: c.MediaType(),
		ctx:       ctx,
		lookup:    l,
		body:      body,
	}
	var doc interface{}
	if err := codec.NewDecoderBytes(body, jsonHandle).Decode(&doc); err != nil {
		return nil, representationError(d.mediaType, "%v", err)
	}
	raw, isObject := doc.(map[string]interface{})
	if !isObject {
		return nil, representationError(d.mediaType, "document is not a JSON object")
	}
	d.raw = raw

	var reasons []string
	for _, s := range ladder {
		records, err := s.decode(d)
		if err == nil {
			return records, nil
		}
		if m, isMismatch := err.(mismatch); isMismatch {
			reasons = append(reasons, s.name+": "+string(m))
			continue
		}
		if _, isRepr := err.(RepresentationError); isRepr {
			return nil, err
		}
		return nil, representationError(d.mediaType, "%v: %v", s.name, err)
	}
	return nil, RepresentationError{MediaType: d.mediaType, Reasons: reasons}
}

// has reports whether the document has any of the named top-level
// keys.
func (d *jsonDecode) has(keys ...string) bool {
	for _, key := range keys {
		if _, present := d.raw[key]; present {
			return true
		}
	}
	return false
}

// into decodes the whole document into a typed shape.  A type error
// here means the document is not this shape.
func (d *jsonDecode) into(v interface{}) error {
	if err := codec.NewDecoderBytes(d.body, jsonHandle).Decode(v); err != nil {
		return mismatch(err.Error())
	}
	return nil
}

func (d *jsonDecode) collection() ([]occi.RequestRecord, error) {
	// A single resource has "links" and "actions" of its own.
	if d.has("kind", "source", "target", "term", "scheme", "action") {
		return nil, mismatch("has fields of a single descriptor")
	}
	var doc restdata.Collection
	if err := d.into(&doc); err != nil {
		return nil, err
	}
	if len(doc.Resources) == 0 && len(doc.Links) == 0 && len(doc.Mixins) == 0 && len(doc.Actions) == 0 {
		return nil, mismatch("no resources, links, mixins, or actions")
	}
	var records []occi.RequestRecord
	for _, r := range doc.Resources {
		more, err := d.resourceRecords(r)
		if err != nil {
			return nil, err
		}
		records = append(records, more...)
	}
	for _, l := range doc.Links {
		record, err := d.linkRecord(l, "")
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	for _, m := range doc.Mixins {
		record, err := mixinTagRecord(m)
		if err != nil {
			return nil, representationError(d.mediaType, "%v", err)
		}
		records = append(records, record)
	}
	for _, a := range doc.Actions {
		record, err := d.actionRecord(a)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (d *jsonDecode) resource() ([]occi.RequestRecord, error) {
	if d.has("source", "target") {
		return nil, mismatch("has a link source or target")
	}
	// A partial update need not repeat the kind, but must not
	// look like a mixin or an action.
	if !d.has("kind") && (!d.has("attributes", "mixins", "id") || d.has("term", "scheme", "action")) {
		return nil, mismatch("no kind")
	}
	var doc restdata.Resource
	if err := d.into(&doc); err != nil {
		return nil, err
	}
	return d.resourceRecords(doc)
}

func (d *jsonDecode) link() ([]occi.RequestRecord, error) {
	if !d.has("source", "target") {
		return nil, mismatch("no source or target")
	}
	var doc restdata.Link
	if err := d.into(&doc); err != nil {
		return nil, err
	}
	record, err := d.linkRecord(doc, "")
	if err != nil {
		return nil, err
	}
	return []occi.RequestRecord{record}, nil
}

func (d *jsonDecode) mixinTag() ([]occi.RequestRecord, error) {
	var doc restdata.Mixin
	if err := d.into(&doc); err != nil {
		return nil, err
	}
	record, err := mixinTagRecord(doc)
	if err != nil {
		return nil, err
	}
	return []occi.RequestRecord{record}, nil
}

func (d *jsonDecode) action() ([]occi.RequestRecord, error) {
	var doc restdata.Action
	if err := d.into(&doc); err != nil {
		return nil, err
	}
	if doc.Action == "" {
		return nil, mismatch("no action")
	}
	record, err := d.actionRecord(doc)
	if err != nil {
		return nil, err
	}
	return []occi.RequestRecord{record}, nil
}

// attributes converts a JSON attribute object, typing each value by
// what the entity's categories declare.  Names are sorted so the
// result does not depend on map order.
func (d *jsonDecode) attributes(kind string, mixins []string, raw map[string]interface{}) (occi.Attributes, error) {
	var attrs occi.Attributes
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := occi.Coerce(attributeType(d.lookup, kind, mixins, name), raw[name])
		if err != nil {
			return attrs, representationError(d.mediaType, "attribute %v: %v", name, err)
		}
		attrs.Set(name, v)
	}
	return attrs, nil
}

// resourceRecords converts a resource descriptor, followed by one
// record for each link it embeds.  Embedded links default their
// source to the resource, which gets an identifier now if it has
// neither an identifier nor a location.
func (d *jsonDecode) resourceRecords(doc restdata.Resource) ([]occi.RequestRecord, error) {
	attrs, err := d.attributes(doc.Kind, doc.Mixins, doc.Attributes)
	if err != nil {
		return nil, err
	}
	record := occi.RequestRecord{
		Kind:       doc.Kind,
		Mixins:     doc.Mixins,
		Attributes: attrs,
		EntityID:   entityID(doc.ID),
		Title:      doc.Title,
		Summary:    doc.Summary,
		Location:   doc.Location,
	}
	if len(doc.Links) == 0 {
		return []occi.RequestRecord{record}, nil
	}
	if record.EntityID == "" && record.Location == "" {
		record.EntityID = d.ctx.NewID()
	}
	owner := ownerLocation(d.lookup, record)
	records := []occi.RequestRecord{record}
	for _, l := range doc.Links {
		link, err := d.linkRecord(l, owner)
		if err != nil {
			return nil, err
		}
		records = append(records, link)
	}
	return records, nil
}

// linkEnd extracts a location from a link source or target, which may
// be a plain string or an object with a "location" field.
func linkEnd(end interface{}) string {
	switch e := end.(type) {
	case string:
		return e
	case map[string]interface{}:
		if location, isString := e["location"].(string); isString {
			return location
		}
	case map[interface{}]interface{}:
		if location, isString := e["location"].(string); isString {
			return location
		}
	}
	return ""
}

// linkRecord converts a link descriptor.  A link without both ends is
// malformed; this is not a reason to try another shape.
func (d *jsonDecode) linkRecord(doc restdata.Link, defaultSource string) (occi.RequestRecord, error) {
	source := linkEnd(doc.Source)
	if source == "" {
		source = defaultSource
	}
	target := linkEnd(doc.Target)
	if source == "" || target == "" {
		return occi.RequestRecord{}, representationError(d.mediaType, "a link needs both a source and a target")
	}
	attrs, err := d.attributes(doc.Kind, doc.Mixins, doc.Attributes)
	if err != nil {
		return occi.RequestRecord{}, err
	}
	return occi.RequestRecord{
		Kind:       doc.Kind,
		Mixins:     doc.Mixins,
		Attributes: attrs,
		EntityID:   entityID(doc.ID),
		Title:      doc.Title,
		Summary:    doc.Summary,
		Location:   doc.Location,
		Source:     withSlash(source),
		Target:     withSlash(target),
	}, nil
}

// mixinTagRecord converts a mixin tag definition.
func mixinTagRecord(doc restdata.Mixin) (occi.RequestRecord, error) {
	if doc.Term == "" || doc.Scheme == "" || doc.Location == "" {
		return occi.RequestRecord{}, mismatch("a mixin tag needs a term, scheme, and location")
	}
	if len(doc.Attributes) > 0 {
		return occi.RequestRecord{}, mismatch("a mixin tag has no attributes")
	}
	return occi.RequestRecord{
		MixinTag:      doc.Scheme + doc.Term,
		MixinTagTitle: doc.Title,
		Location:      doc.Location,
	}, nil
}

// actionRecord converts an action invocation.  Attributes are typed
// by the action's own declarations.
func (d *jsonDecode) actionRecord(doc restdata.Action) (occi.RequestRecord, error) {
	if doc.Action == "" {
		return occi.RequestRecord{}, representationError(d.mediaType, "an action invocation needs an action")
	}
	attrs, err := d.attributes(doc.Action, nil, doc.Attributes)
	if err != nil {
		return occi.RequestRecord{}, err
	}
	return occi.RequestRecord{Action: doc.Action, Attributes: attrs}, nil
}
