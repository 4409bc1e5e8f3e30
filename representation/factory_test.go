// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package representation

import (
	"testing"

	"github.com/diffeo/go-occi/restdata"
	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	f := NewFactory(0)
	tests := []struct {
		in  string
		out string
	}{
		{"text/occi", restdata.OCCIMediaType},
		{"TEXT/OCCI", restdata.OCCIMediaType},
		{"text/occi; charset=utf-8", restdata.OCCIMediaType},
		{"text/uri-list", restdata.URIListMediaType},
		{"application/json", restdata.JSONMediaType},
		{"application/occi+json", restdata.OCCIJSONMediaType},
		{" Application/OCCI+JSON ;charset=UTF-8", restdata.OCCIJSONMediaType},
		{"text/plain", restdata.PlainMediaType},
		{"", ""},
		{"application/xml", ""},
		{"garbage;;;", ""},
	}
	for _, test := range tests {
		assert.Equal(t, test.out, f.Select(test.in).MediaType(), "%q", test.in)
		assert.Equal(t, test.out != "", f.Known(test.in), "%q", test.in)
	}
}

func TestSelectDeterministic(t *testing.T) {
	f := NewFactory(0)
	assert.Equal(t, f.Select("text/occi"), f.Select("text/occi"))
	assert.Equal(t, NoopCodec{}, f.Select("nope/nope"))
}

func TestSelectHeaderLimit(t *testing.T) {
	assert.Equal(t, HeaderCodec{Limit: DefaultHeaderLimit}, NewFactory(0).Select(restdata.OCCIMediaType))
	assert.Equal(t, HeaderCodec{Limit: 100}, NewFactory(100).Select(restdata.OCCIMediaType))
}

func TestNegotiate(t *testing.T) {
	f := NewFactory(0)
	tests := []struct {
		accept string
		out    string
	}{
		{"", restdata.PlainMediaType},
		{"*/*", restdata.PlainMediaType},
		{"text/*", restdata.PlainMediaType},
		{"application/*", restdata.OCCIJSONMediaType},
		{"application/json", restdata.JSONMediaType},
		{"text/occi", restdata.OCCIMediaType},
		{"text/occi;q=0.5, application/occi+json", restdata.OCCIJSONMediaType},
		{"application/occi+json, text/occi", restdata.OCCIJSONMediaType},
		{"*/*, text/uri-list;q=0.1", restdata.PlainMediaType},
		{"text/uri-list, */*;q=0.1", restdata.URIListMediaType},
		{"image/png, */*;q=0.2", restdata.PlainMediaType},
	}
	for _, test := range tests {
		codec, err := f.Negotiate(test.accept)
		if assert.NoError(t, err, "%q", test.accept) {
			assert.Equal(t, test.out, codec.MediaType(), "%q", test.accept)
		}
	}
}

func TestNegotiateErrors(t *testing.T) {
	f := NewFactory(0)

	_, err := f.Negotiate("image/png")
	if assert.Error(t, err) {
		assert.IsType(t, NotAcceptableError{}, err)
		assert.Equal(t, 406, restdata.StatusFor(err))
	}

	_, err = f.Negotiate("text/occi;q=2")
	if assert.Error(t, err) {
		assert.Equal(t, 400, restdata.StatusFor(err))
	}

	_, err = f.Negotiate("text/occi;q=high")
	if assert.Error(t, err) {
		assert.IsType(t, restdata.ErrBadRequest{}, err)
	}
}
