// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"testing"

	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/restdata"
	"github.com/stretchr/testify/assert"
)

func TestURIListDecode(t *testing.T) {
	body := "# tagged things\n/compute/a\n\n  /compute/b  \r\n#/compute/c\n"
	records, err := URIListCodec{}.Decode(nil, nil, Input{Body: []byte(body)})
	if assert.NoError(t, err) && assert.Len(t, records, 1) {
		assert.Equal(t, []string{"/compute/a", "/compute/b"}, records[0].ExtraLocations)
	}

	records, err = URIListCodec{}.Decode(nil, nil, Input{Body: []byte("# nothing\n\n")})
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestURIListRender(t *testing.T) {
	f := newFixture(t)
	out, err := URIListCodec{}.RenderEntities(f.catalog, []occi.Entity{f.compute, f.network})
	if assert.NoError(t, err) {
		assert.Equal(t, f.compute.Location+"\n"+f.network.Location+"\n", string(out.Body))
	}

	out, err = URIListCodec{}.RenderInterface([]occi.Category{
		{Scheme: "http://x#", Term: "a", Class: occi.ClassKind, Location: "/things/"},
		{Scheme: "http://x#", Term: "b", Class: occi.ClassMixin},
		{Scheme: "http://x#", Term: "c", Class: occi.ClassAction},
	})
	if assert.NoError(t, err) {
		assert.Equal(t, "/things/\n/b/\n", string(out.Body))
	}

	out, err = URIListCodec{}.RenderLocations(nil)
	if assert.NoError(t, err) {
		assert.Empty(t, out.Body)
	}

	out, err = URIListCodec{}.RenderMessage("done")
	if assert.NoError(t, err) {
		assert.Equal(t, "# done\n", string(out.Body))
	}
}

// TestPlainPassthrough checks that text/plain never interprets a
// request.
func TestPlainPassthrough(t *testing.T) {
	records, err := PlainCodec{}.Decode(nil, nil, Input{Body: []byte("Category: compute; scheme=\"http://x#\"; class=\"kind\"\n")})
	assert.NoError(t, err)
	assert.Empty(t, records)

	out, err := PlainCodec{}.RenderMessage("hello")
	if assert.NoError(t, err) {
		assert.Equal(t, "hello", string(out.Body))
	}

	out, err = PlainCodec{}.RenderLocations([]string{"/a/", "/b/"})
	if assert.NoError(t, err) {
		assert.Equal(t, "/a/\n/b/\n", string(out.Body))
	}

	out, err = PlainCodec{}.RenderError(restdata.ErrorResponse{Message: "bad"})
	if assert.NoError(t, err) {
		assert.Equal(t, "bad\n", string(out.Body))
	}
}

func TestNoop(t *testing.T) {
	var c Codec = NoopCodec{}
	records, err := c.Decode(nil, nil, Input{Body: []byte(`{"kind":"x"}`)})
	assert.NoError(t, err)
	assert.Empty(t, records)

	out, err := c.RenderEntities(nil, []occi.Entity{{ID: "x", Location: "/x"}})
	assert.NoError(t, err)
	assert.Equal(t, Output{}, out)

	out, err = c.RenderMessage("hello")
	assert.NoError(t, err)
	assert.Equal(t, Output{}, out)
}
