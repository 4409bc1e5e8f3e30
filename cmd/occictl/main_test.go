// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttrs(t *testing.T) {
	attrs, err := parseAttrs(nil)
	if assert.NoError(t, err) {
		assert.Nil(t, attrs)
	}

	attrs, err = parseAttrs([]string{"occi.compute.cores=2", "occi.core.title=a=b"})
	if assert.NoError(t, err) {
		assert.Equal(t, map[string]interface{}{
			"occi.compute.cores": "2",
			"occi.core.title":    "a=b",
		}, attrs)
	}

	_, err = parseAttrs([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAttrs([]string{"=x"})
	assert.Error(t, err)
}
