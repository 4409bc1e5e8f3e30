// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache_test

import (
	"testing"

	"github.com/diffeo/go-occi/cache"
	"github.com/diffeo/go-occi/extension"
	"github.com/diffeo/go-occi/memory"
	"github.com/diffeo/go-occi/occi"
	"github.com/diffeo/go-occi/occi/catalogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestCatalog runs the generic catalog tests through the cache.
func TestCatalog(t *testing.T) {
	suite.Run(t, &catalogtest.Suite{NewCatalog: func() (occi.Catalog, error) {
		return cache.New(memory.New(), 8), nil
	}})
}

// countingCatalog counts category reads that reach the backend.
type countingCatalog struct {
	occi.Catalog
	reads int
}

func (c *countingCatalog) Category(id string) (occi.Category, error) {
	c.reads++
	return c.Catalog.Category(id)
}

func (c *countingCatalog) CategoriesByTerm(term string) ([]occi.Category, error) {
	c.reads++
	return c.Catalog.CategoriesByTerm(term)
}

func (c *countingCatalog) Categories() ([]occi.Category, error) {
	c.reads++
	return c.Catalog.Categories()
}

func newCounting(t *testing.T) (*countingCatalog, occi.Catalog) {
	backend := &countingCatalog{Catalog: memory.New()}
	cached := cache.New(backend, 0)
	require.NoError(t, extension.Install(cached, extension.Standard()...))
	return backend, cached
}

func TestCategoryHits(t *testing.T) {
	backend, cached := newCounting(t)
	for i := 0; i < 3; i++ {
		cat, err := cached.Category(extension.ComputeKind)
		if assert.NoError(t, err) {
			assert.Equal(t, "compute", cat.Term)
		}
		cats, err := cached.CategoriesByTerm("Compute")
		if assert.NoError(t, err) {
			assert.Len(t, cats, 1)
		}
		_, err = cached.Categories()
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, backend.reads)

	// "compute" and "COMPUTE" share one entry.
	_, err := cached.CategoriesByTerm("COMPUTE")
	assert.NoError(t, err)
	assert.Equal(t, 3, backend.reads)
}

func TestMissesAreNotCached(t *testing.T) {
	backend, cached := newCounting(t)
	for i := 0; i < 2; i++ {
		_, err := cached.Category("http://nowhere#nothing")
		assert.Equal(t, occi.ErrNoSuchCategory{ID: "http://nowhere#nothing"}, err)
	}
	assert.Equal(t, 2, backend.reads)
}

func TestMixinTagInvalidates(t *testing.T) {
	_, cached := newCounting(t)
	ctx := occi.NewContext()
	tagID := "http://example.com/tags#mytag"

	cats, err := cached.CategoriesByTerm("mytag")
	if assert.NoError(t, err) {
		assert.Empty(t, cats)
	}
	before, err := cached.Categories()
	require.NoError(t, err)

	err = cached.DefineMixinTag(ctx, occi.Category{
		Scheme:   "http://example.com/tags#",
		Term:     "mytag",
		Location: "/mytag/",
	})
	require.NoError(t, err)

	cats, err = cached.CategoriesByTerm("mytag")
	if assert.NoError(t, err) && assert.Len(t, cats, 1) {
		assert.True(t, cats[0].Tag)
	}
	after, err := cached.Categories()
	if assert.NoError(t, err) {
		assert.Len(t, after, len(before)+1)
	}

	require.NoError(t, cached.DeleteMixinTag(tagID))
	_, err = cached.Category(tagID)
	assert.Equal(t, occi.ErrNoSuchCategory{ID: tagID}, err)
}

func TestRegisterInvalidates(t *testing.T) {
	_, cached := newCounting(t)
	cat, err := cached.Category(extension.ComputeKind)
	require.NoError(t, err)

	cat.Title = "Virtual Machine"
	require.NoError(t, cached.Register(cat))
	cat, err = cached.Category(extension.ComputeKind)
	if assert.NoError(t, err) {
		assert.Equal(t, "Virtual Machine", cat.Title)
	}
}
