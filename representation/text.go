// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
)

// URIListCodec is the text/uri-list codec.  The body is one location
// per line.
type URIListCodec struct{}

// MediaType returns text/uri-list.
func (URIListCodec) MediaType() string {
	return restdata.URIListMediaType
}

// Decode reads the body as a list of locations, skipping blank lines
// and "#" comments, into one record.  No locations means no records.
func (URIListCodec) Decode(ctx *occi.Context, l occi.Lookup, in Input) ([]occi.RequestRecord, error) {
	var locations []string
	scanner := bufio.NewScanner(bytes.NewReader(in.Body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		locations = append(locations, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, representationError(restdata.URIListMediaType, "%v", err)
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return []occi.RequestRecord{{ExtraLocations: locations}}, nil
}

// RenderEntities renders the entity locations.
func (URIListCodec) RenderEntities(l occi.Lookup, entities []occi.Entity) (Output, error) {
	return Output{Body: lines(locationsOf(entities))}, nil
}

// RenderInterface renders the collection location of every kind and
// mixin.
func (URIListCodec) RenderInterface(categories []occi.Category) (Output, error) {
	var locations []string
	for _, cat := range categories {
		if cat.Class != occi.ClassAction {
			locations = append(locations, occi.CollectionLocation(cat))
		}
	}
	return Output{Body: lines(locations)}, nil
}

// RenderLocations renders one location per line.
func (URIListCodec) RenderLocations(locations []string) (Output, error) {
	return Output{Body: lines(locations)}, nil
}

// RenderMessage returns the message as a "#" comment, which a reader
// of the list skips.
func (URIListCodec) RenderMessage(message string) (Output, error) {
	return Output{Body: []byte("# " + message + "\n")}, nil
}

// RenderError renders the error message as a comment.
func (c URIListCodec) RenderError(resp restdata.ErrorResponse) (Output, error) {
	return c.RenderMessage(resp.Message)
}

// PlainCodec is the text/plain codec.  It never interprets a request
// body, and renders everything as plain lines of text.
type PlainCodec struct{}

// MediaType returns text/plain.
func (PlainCodec) MediaType() string {
	return restdata.PlainMediaType
}

// Decode returns no records.
func (PlainCodec) Decode(ctx *occi.Context, l occi.Lookup, in Input) ([]occi.RequestRecord, error) {
	return nil, nil
}

// RenderEntities renders the entity locations, one per line.
func (PlainCodec) RenderEntities(l occi.Lookup, entities []occi.Entity) (Output, error) {
	return Output{Body: lines(locationsOf(entities))}, nil
}

// RenderInterface renders one category identifier per line.
func (PlainCodec) RenderInterface(categories []occi.Category) (Output, error) {
	ids := make([]string, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID()
	}
	return Output{Body: lines(ids)}, nil
}

// RenderLocations renders one location per line.
func (PlainCodec) RenderLocations(locations []string) (Output, error) {
	return Output{Body: lines(locations)}, nil
}

// RenderMessage returns the message text unchanged.
func (PlainCodec) RenderMessage(message string) (Output, error) {
	return Output{Body: []byte(message)}, nil
}

// RenderError renders the error message.
func (PlainCodec) RenderError(resp restdata.ErrorResponse) (Output, error) {
	return Output{Body: []byte(resp.Message + "\n")}, nil
}

// NoopCodec stands in for an unknown media type.  It parses nothing
// and renders nothing.
type NoopCodec struct{}

// MediaType returns "".
func (NoopCodec) MediaType() string {
	return ""
}

// Decode returns no records.
func (NoopCodec) Decode(ctx *occi.Context, l occi.Lookup, in Input) ([]occi.RequestRecord, error) {
	return nil, nil
}

// RenderEntities renders nothing.
func (NoopCodec) RenderEntities(l occi.Lookup, entities []occi.Entity) (Output, error) {
	return Output{}, nil
}

// RenderInterface renders nothing.
func (NoopCodec) RenderInterface(categories []occi.Category) (Output, error) {
	return Output{}, nil
}

// RenderLocations renders nothing.
func (NoopCodec) RenderLocations(locations []string) (Output, error) {
	return Output{}, nil
}

// RenderMessage renders nothing.
func (NoopCodec) RenderMessage(message string) (Output, error) {
	return Output{}, nil
}

// RenderError renders nothing.
func (NoopCodec) RenderError(resp restdata.ErrorResponse) (Output, error) {
	return Output{}, nil
}
