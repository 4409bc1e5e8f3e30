// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"net/http"
	"testing"

	"github.com/diffeo/go-occi/occi"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	for _, test := range []struct {
		Err    error
		Status int
	}{
		{ErrUnsupportedMediaType{Type: "image/png"}, http.StatusUnsupportedMediaType},
		{ErrBadRequest{Err: errors.New("x")}, http.StatusBadRequest},
		{ErrNotFound{Err: errors.New("x")}, http.StatusNotFound},
		{occi.ErrNoKind, http.StatusBadRequest},
		{occi.ErrNotTag, http.StatusBadRequest},
		{occi.ErrLocationInUse, http.StatusConflict},
		{occi.ErrNoSuchEntity{ID: "x"}, http.StatusNotFound},
		{occi.ErrNoSuchCategory{ID: "x"}, http.StatusNotFound},
		{occi.CategoryError{ID: "x"}, http.StatusBadRequest},
		{occi.ErrInvalidAttribute{Name: "a"}, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	} {
		assert.Equal(t, test.Status, StatusFor(test.Err), "%v", test.Err)
	}
}

// TestErrorRoundTrip checks that the well-known catalog errors
// survive FromError and ToError.
func TestErrorRoundTrip(t *testing.T) {
	for _, err := range []error{
		occi.ErrNoKind,
		occi.ErrNotTag,
		occi.ErrTagHasAttributes,
		occi.ErrLocationInUse,
		occi.ErrNoSuchEntity{ID: "00000000-0000-4000-8000-000000000001"},
		occi.ErrNoSuchCategory{ID: "http://x#y"},
	} {
		var resp ErrorResponse
		resp.FromError(err)
		assert.Equal(t, err, resp.ToError())
	}
}

func TestErrorUnwrapsStatus(t *testing.T) {
	var resp ErrorResponse
	resp.FromError(ErrNotFound{Err: occi.ErrNoSuchEntity{ID: "x"}})
	assert.Equal(t, "ErrNoSuchEntity", resp.Error)
	assert.Equal(t, "x", resp.Value)

	resp = ErrorResponse{}
	resp.FromError(errors.New("something else"))
	assert.Equal(t, "error", resp.Error)
	assert.Equal(t, "something else", resp.Message)
	assert.EqualError(t, resp.ToError(), "something else")
}

func TestFromPanic(t *testing.T) {
	var resp ErrorResponse
	resp.FromPanic("oops")
	assert.Equal(t, "panic", resp.Error)
	assert.Equal(t, "oops", resp.Message)
	assert.NotEmpty(t, resp.Stack)

	resp = ErrorResponse{}
	resp.FromPanic(errors.New("bad"))
	assert.Equal(t, "bad", resp.Message)
}
