// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEntry struct {
	key string
}

func (a fakeEntry) Key() string {
	return a.key
}

func makeEntry(key string) (entry, error) {
	return fakeEntry{key: key}, nil
}

func failEntry(key string) (entry, error) {
	return nil, assert.AnError
}

type LRUAssertions struct {
	*assert.Assertions
	LRU *lru
}

func NewLRUAssertions(t assert.TestingT, size int) *LRUAssertions {
	return &LRUAssertions{
		assert.New(t),
		newLRU(size),
	}
}

// PutKey adds an item with key to the cache.
func (a *LRUAssertions) PutKey(key string) {
	item := fakeEntry{key: key}
	a.LRU.Put(item)
}

// GetKey fetches an item with key from the cache; if not present, it
// is added.
func (a *LRUAssertions) GetKey(key string) {
	item, err := a.LRU.Get(key, makeEntry)
	if a.NoError(err) && a.IsType(fakeEntry{}, item) {
		fe := item.(fakeEntry)
		a.Equal(fe.Key(), key)
	}
}

// GetPresent fetches an item with key from the cache; if not present,
// it should produce an assertion error.
func (a *LRUAssertions) GetPresent(key string) {
	item, err := a.LRU.Get(key, failEntry)
	if a.NoError(err) && a.IsType(fakeEntry{}, item) {
		fe := item.(fakeEntry)
		a.Equal(fe.Key(), key)
	}
}

// GetError tries to fetch an item from the cache, but it should not
// exist, and the resulting error will be caught.
func (a *LRUAssertions) GetError(key string) {
	_, err := a.LRU.Get(key, failEntry)
	a.Error(err)
}

// LRUHas asserts that an item with key is in the cache.
func (a *LRUAssertions) LRUHas(key string) {
	item := a.LRU.Peek(key)
	if a.NotNil(item) {
		a.Equal(key, item.Key())
	}
}

// LRUDoesNotHave asserts that no item with key is in the cache.
func (a *LRUAssertions) LRUDoesNotHave(key string) {
	item := a.LRU.Peek(key)
	a.Nil(item)
}

// TestLRUSimple tests minimal object presence.
func TestLRUSimple(t *testing.T) {
	a := NewLRUAssertions(t, 2)
	a.PutKey("network")

	a.LRUHas("network")
	a.LRUDoesNotHave("storage")
}

// TestLRUAutoInsert tests lru.Get() adding absent items.
func TestLRUAutoInsert(t *testing.T) {
	a := NewLRUAssertions(t, 2)

	// Get (and insert) two keys
	a.GetKey("compute")
	a.GetKey("storage")

	// At this point "compute" and "storage" should both be present
	a.LRUHas("compute")
	a.LRUHas("storage")

	// Now add one more key; since it is a third one, the oldest
	// (compute) should be evicted
	a.GetKey("network")
	a.LRUDoesNotHave("compute")
	a.LRUHas("storage")
	a.LRUHas("network")
}

func TestLRUInsertError(t *testing.T) {
	a := NewLRUAssertions(t, 2)

	// As before
	a.GetKey("compute")
	a.GetKey("storage")
	a.LRUHas("compute")
	a.LRUHas("storage")

	// Now try to add "network", but the add function will return an error
	a.GetError("network")
	// Since no item was added, nothing will be evicted
	a.LRUHas("compute")
	a.LRUHas("storage")
	a.LRUDoesNotHave("network")

	// We can call the erroring version of Get() but since the item
	// is present it will not fail
	a.GetPresent("compute")
	a.GetPresent("storage")
}

// TestLRUOrder tests that getting an item causes it to not get evicted.
func TestLRUOrder(t *testing.T) {
	a := NewLRUAssertions(t, 2)

	a.GetKey("compute")
	a.GetKey("storage")
	a.LRUHas("compute")
	a.LRUHas("storage")

	// Do an *additional* get for compute, so it is more recently used
	a.GetKey("compute")

	// Now when we add Sam, storage gets pushed out
	a.GetKey("network")
	a.LRUHas("compute")
	a.LRUDoesNotHave("storage")
	a.LRUHas("network")
}

// TestLRURemoval does simple tests on the Remove call.
func TestLRURemoval(t *testing.T) {
	a := NewLRUAssertions(t, 2)

	// Obvious thing #1:
	a.GetKey("compute")
	a.LRUHas("compute")
	a.LRU.Remove("compute")
	a.LRUDoesNotHave("compute")

	// Obvious thing #2:
	a.LRU.Remove("network")
	a.LRUDoesNotHave("network")

	// Also if we remove a more-recent thing, the
	// older-but-present thing shouldn't get evicted
	a.GetKey("compute")
	a.GetKey("storage")
	a.LRU.Remove("storage")
	a.GetKey("network")
	a.LRUHas("compute")
	a.LRUDoesNotHave("storage")
	a.LRUHas("network")
}

// TestLRUPurge checks that Purge drops everything and the cache keeps
// working afterwards.
func TestLRUPurge(t *testing.T) {
	a := NewLRUAssertions(t, 3)
	a.GetKey("compute")
	a.GetKey("storage")
	a.Equal(2, a.LRU.Len())

	a.LRU.Purge()
	a.Equal(0, a.LRU.Len())
	a.LRUDoesNotHave("compute")
	a.LRUDoesNotHave("storage")

	a.GetKey("network")
	a.LRUHas("network")
	a.Equal(1, a.LRU.Len())
}

// TestLRUMinimumSize checks that a non-positive size still holds one
// item.
func TestLRUMinimumSize(t *testing.T) {
	a := NewLRUAssertions(t, 0)
	a.GetKey("compute")
	a.LRUHas("compute")
	a.GetKey("storage")
	a.LRUDoesNotHave("compute")
	a.LRUHas("storage")
}
