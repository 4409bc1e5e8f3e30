// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
)

// DefaultHeaderLimit is the largest rendered header block, in bytes,
// the header codec produces unless configured otherwise.
const DefaultHeaderLimit = 8192

// categoryPattern matches one rendered category.  term, scheme, and
// class are mandatory; the remaining groups are optional but must
// appear in this order.
var categoryPattern = regexp.MustCompile(
	`^\s*(?P<term>[^\s;="]+)\s*` +
		`;\s*scheme\s*=\s*"(?P<scheme>[^"]+)"\s*` +
		`;\s*class\s*=\s*"?(?P<class>(?i:kind|mixin|action))"?` +
		`(?:\s*;\s*title\s*=\s*"(?P<title>[^"]*)")?` +
		`(?:\s*;\s*rel\s*=\s*"(?P<rel>[^"]*)")?` +
		`(?:\s*;\s*location\s*=\s*"(?P<location>[^"]*)")?` +
		`(?:\s*;\s*attributes\s*=\s*"(?P<attributes>[^"]*)")?` +
		`(?:\s*;\s*actions\s*=\s*"(?P<actions>[^"]*)")?` +
		`\s*;?\s*$`)

// attributePattern matches one attribute assignment, either a quoted
// string or a bare literal.
var attributePattern = regexp.MustCompile(
	`^\s*(?P<name>[A-Za-z0-9_][\w.-]*)\s*=\s*` +
		`(?:"(?P<quoted>(?:[^"\\]|\\.)*)"|(?P<literal>[^\s",]+))\s*$`)

// group returns a named group of a submatch, or "" if it did not
// participate.
func group(re *regexp.Regexp, match []string, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(match) {
		return ""
	}
	return match[idx]
}

// HeaderCodec is the text/occi codec, which carries everything in
// header fields.  Limit is the largest rendered header block in bytes;
// zero means DefaultHeaderLimit.
type HeaderCodec struct {
	Limit int
}

// MediaType returns text/occi.
func (c HeaderCodec) MediaType() string {
	return restdata.OCCIMediaType
}

// splitList splits a header value on commas that are not inside
// double quotes.
func splitList(value string) []string {
	var (
		result  []string
		current strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range value {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			if item := strings.TrimSpace(current.String()); item != "" {
				result = append(result, item)
			}
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if item := strings.TrimSpace(current.String()); item != "" {
		result = append(result, item)
	}
	return result
}

// headerValues collects every comma-separated item of a header field,
// across all of its lines.
func headerValues(h http.Header, name string) []string {
	var result []string
	for _, value := range h.Values(name) {
		result = append(result, splitList(value)...)
	}
	return result
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func unquote(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\"`, `"`).Replace(s)
}

// Decode reads the Category, X-OCCI-Attribute, and X-OCCI-Location
// fields into a single record.  A request with none of them decodes to
// no records.
func (c HeaderCodec) Decode(ctx *occi.Context, l occi.Lookup, in Input) ([]occi.RequestRecord, error) {
	categories := headerValues(in.Header, restdata.CategoryHeader)
	attributes := headerValues(in.Header, restdata.AttributeHeader)
	locations := headerValues(in.Header, restdata.LocationHeader)
	if len(categories) == 0 && len(attributes) == 0 && len(locations) == 0 {
		return nil, nil
	}
	var record occi.RequestRecord
	for _, value := range categories {
		if err := decodeCategory(&record, value); err != nil {
			return nil, err
		}
	}
	if len(attributes) > 0 && len(categories) == 0 {
		return nil, representationError(restdata.OCCIMediaType, "attributes without a category")
	}
	for _, value := range attributes {
		if err := decodeAttribute(l, &record, value); err != nil {
			return nil, err
		}
	}
	if v, ok := record.Attributes.Get(occi.AttrID); ok && record.EntityID == "" {
		record.EntityID = entityID(v.Text())
	}
	record.ExtraLocations = locations
	if err := record.Validate(); err != nil {
		return nil, representationError(restdata.OCCIMediaType, "%v", err)
	}
	return []occi.RequestRecord{record}, nil
}

func decodeCategory(record *occi.RequestRecord, value string) error {
	match := categoryPattern.FindStringSubmatch(value)
	if match == nil {
		return representationError(restdata.OCCIMediaType, "invalid category %q", value)
	}
	id := group(categoryPattern, match, "scheme") + group(categoryPattern, match, "term")
	class, _ := occi.ParseClass(strings.ToLower(group(categoryPattern, match, "class")))
	switch class {
	case occi.ClassKind:
		if record.Kind != "" && record.Kind != id {
			return representationError(restdata.OCCIMediaType, "more than one kind: %v and %v", record.Kind, id)
		}
		record.Kind = id
	case occi.ClassMixin:
		location := group(categoryPattern, match, "location")
		if location == "" {
			record.Mixins = append(record.Mixins, id)
			break
		}
		if record.MixinTag != "" {
			return representationError(restdata.OCCIMediaType, "more than one mixin tag: %v and %v", record.MixinTag, id)
		}
		record.MixinTag = id
		record.MixinTagTitle = group(categoryPattern, match, "title")
		record.Location = location
	case occi.ClassAction:
		if record.Action != "" && record.Action != id {
			return representationError(restdata.OCCIMediaType, "more than one action: %v and %v", record.Action, id)
		}
		record.Action = id
	}
	return nil
}

func decodeAttribute(l occi.Lookup, record *occi.RequestRecord, value string) error {
	idx := attributePattern.FindStringSubmatchIndex(value)
	if idx == nil {
		return representationError(restdata.OCCIMediaType, "invalid attribute %q", value)
	}
	sub := func(name string) (string, bool) {
		i := attributePattern.SubexpIndex(name)
		if idx[2*i] < 0 {
			return "", false
		}
		return value[idx[2*i]:idx[2*i+1]], true
	}
	name, _ := sub("name")
	var typeName string
	if record.Action != "" {
		typeName = attributeType(l, record.Action, nil, name)
	} else {
		typeName = attributeType(l, record.Kind, record.Mixins, name)
	}
	var raw interface{}
	if quoted, isQuoted := sub("quoted"); isQuoted {
		raw = unquote(quoted)
	} else if literal, _ := sub("literal"); typeName != "" && occi.SchemaType(typeName) == "string" {
		// A declared string keeps the literal exactly as written.
		raw = literal
	} else {
		raw = occi.ParseLiteral(literal)
	}
	v, err := occi.Coerce(typeName, raw)
	if err != nil {
		return representationError(restdata.OCCIMediaType, "attribute %v: %v", name, err)
	}
	record.Attributes.Set(name, v)
	return nil
}

// renderCategory renders one category.  A detailed rendering, used
// for discovery, also carries the title, parent or dependencies,
// location, attributes, and actions.
func renderCategory(cat occi.Category, detailed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `%s; scheme="%s"; class="%s"`, cat.Term, cat.Scheme, cat.Class)
	if !detailed {
		return b.String()
	}
	if cat.Title != "" {
		fmt.Fprintf(&b, `; title="%s"`, strings.Replace(cat.Title, `"`, `'`, -1))
	}
	rel := cat.Parent
	if cat.Class == occi.ClassMixin {
		rel = strings.Join(cat.Depends, " ")
	}
	if rel != "" {
		fmt.Fprintf(&b, `; rel="%s"`, rel)
	}
	if cat.Location != "" {
		fmt.Fprintf(&b, `; location="%s"`, cat.Location)
	}
	if len(cat.Attributes) > 0 {
		names := make([]string, len(cat.Attributes))
		for i, def := range cat.Attributes {
			names[i] = def.Name
			if def.Required {
				names[i] += "{required}"
			}
			if def.Immutable {
				names[i] += "{immutable}"
			}
		}
		fmt.Fprintf(&b, `; attributes="%s"`, strings.Join(names, " "))
	}
	if len(cat.Actions) > 0 {
		fmt.Fprintf(&b, `; actions="%s"`, strings.Join(cat.Actions, " "))
	}
	return b.String()
}

func renderAttribute(name string, v occi.Value) string {
	if v.Type == occi.StringValue {
		return name + "=" + quote(v.Str)
	}
	return name + "=" + v.Text()
}

// finish checks the size of a rendered header block.
func (c HeaderCodec) finish(h http.Header) (Output, error) {
	limit := c.Limit
	if limit <= 0 {
		limit = DefaultHeaderLimit
	}
	size := 0
	for name, values := range h {
		for _, value := range values {
			size += len(name) + len(": ") + len(value) + len("\r\n")
		}
	}
	if size > limit {
		return Output{}, SizeLimitError{Limit: limit, Size: size}
	}
	return Output{Header: h}, nil
}

// RenderEntities renders the first entity only.
func (c HeaderCodec) RenderEntities(l occi.Lookup, entities []occi.Entity) (Output, error) {
	if len(entities) == 0 {
		return Output{}, nil
	}
	e := entities[0]
	h := http.Header{}
	h.Add(restdata.CategoryHeader, renderCategory(categoryFor(l, e.Kind, occi.ClassKind), false))
	for _, m := range e.Mixins {
		h.Add(restdata.CategoryHeader, renderCategory(categoryFor(l, m, occi.ClassMixin), false))
	}
	h.Add(restdata.AttributeHeader, renderAttribute(occi.AttrID, occi.String(e.ID)))
	if e.Title != "" {
		h.Add(restdata.AttributeHeader, renderAttribute(occi.AttrTitle, occi.String(e.Title)))
	}
	if e.Summary != "" {
		h.Add(restdata.AttributeHeader, renderAttribute(occi.AttrSummary, occi.String(e.Summary)))
	}
	if e.IsLink() {
		h.Add(restdata.AttributeHeader, renderAttribute(occi.AttrSource, occi.String(withSlash(e.Source))))
		h.Add(restdata.AttributeHeader, renderAttribute(occi.AttrTarget, occi.String(withSlash(e.Target))))
	}
	for _, attr := range e.Attributes.List() {
		if occi.IsReserved(attr.Name, e.IsLink()) {
			continue
		}
		h.Add(restdata.AttributeHeader, renderAttribute(attr.Name, attr.Value))
	}
	if e.Location != "" {
		h.Add(restdata.LocationHeader, e.Location)
	}
	for _, action := range actionsOf(l, e) {
		h.Add(restdata.LinkHeader, fmt.Sprintf(`<%s?action=%s>; rel="%s"`, e.Location, action.Term, action.ID()))
	}
	for _, link := range e.Links {
		target := renderLinkEnd(l, link.Target)
		rel := target.Kind
		if rel == "" {
			rel = link.Kind
		}
		h.Add(restdata.LinkHeader, fmt.Sprintf(`<%s>; rel="%s"; self="%s"; category="%s"`,
			target.Location, rel, link.Location, link.Kind))
	}
	return c.finish(h)
}

// RenderInterface renders every category in detail.
func (c HeaderCodec) RenderInterface(categories []occi.Category) (Output, error) {
	h := http.Header{}
	for _, cat := range categories {
		h.Add(restdata.CategoryHeader, renderCategory(cat, true))
	}
	return c.finish(h)
}

// RenderLocations renders one X-OCCI-Location value per location.
func (c HeaderCodec) RenderLocations(locations []string) (Output, error) {
	h := http.Header{}
	for _, location := range locations {
		h.Add(restdata.LocationHeader, location)
	}
	return c.finish(h)
}

// RenderMessage returns the message text unchanged.
func (c HeaderCodec) RenderMessage(message string) (Output, error) {
	return Output{Body: []byte(message)}, nil
}

// RenderError returns the error message as text.
func (c HeaderCodec) RenderError(resp restdata.ErrorResponse) (Output, error) {
	return Output{Body: []byte(resp.Message + "\n")}, nil
}
