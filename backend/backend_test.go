// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	for _, test := range []struct {
		Param          string
		Implementation string
		Address        string
		Error          bool
	}{
		{"memory", "memory", "", false},
		{"postgres", "postgres", "", false},
		{"postgres://db/occi", "postgres", "//db/occi", false},
		{"postgres:host=db user=occi", "postgres", "host=db user=occi", false},
		{"", "", "", true},
		{"mongodb:x", "", "", true},
	} {
		var b Backend
		err := b.Set(test.Param)
		if test.Error {
			assert.Error(t, err, test.Param)
			continue
		}
		if assert.NoError(t, err, test.Param) {
			assert.Equal(t, test.Implementation, b.Implementation)
			assert.Equal(t, test.Address, b.Address)
			assert.Equal(t, test.Param, b.String())
		}
	}
}

func TestMemoryCatalog(t *testing.T) {
	b := Backend{Implementation: "memory"}
	c, err := b.Catalog()
	if assert.NoError(t, err) {
		cats, err := c.Categories()
		assert.NoError(t, err)
		assert.Empty(t, cats)
	}

	b.Implementation = "other"
	_, err = b.Catalog()
	assert.Error(t, err)
}
