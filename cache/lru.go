// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

// This file provides a simple LRU cache keyed by string.

import (
	"container/list"
	"sync"
)

// entry is anything the cache can hold.
type entry interface {
	Key() string
}

// lru is a least-recently-used cache with a fixed capacity.  The cache
// can be safely accessed from multiple goroutines.
type lru struct {
	size      int
	lock      sync.RWMutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU(size int) *lru {
	if size < 1 {
		size = 1
	}
	return &lru{
		size:      size,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves an item from the cache.  If it is not present, calls
// the fetch function, and if that succeeds, saves the item and returns
// it.  This returns an error only if the item is not present and the
// fetch function returns an error; errors are never cached.
func (lru *lru) Get(key string, fetch func(string) (entry, error)) (entry, error) {
	// Moving the item to the back of the list needs the writer
	// lock, even on a hit.
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		lru.evictList.MoveToBack(element)
		return element.Value.(entry), nil
	}

	item, err := fetch(key)
	if err != nil {
		return item, err
	}
	lru.add(item)
	return item, nil
}

// Peek looks for an item in the cache and returns it if present, or
// returns nil if absent.  This does not affect the recency of the
// item.
func (lru *lru) Peek(key string) entry {
	lru.lock.RLock()
	defer lru.lock.RUnlock()

	if element, present := lru.index[key]; present {
		return element.Value.(entry)
	}
	return nil
}

// Put adds an item to the LRU cache, possibly evicting something.
func (lru *lru) Put(item entry) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[item.Key()]; present {
		element.Value = item
		lru.evictList.MoveToBack(element)
		return
	}
	lru.add(item)
}

// Remove takes an item out of the cache.  It does nothing if that
// key does not exist.
func (lru *lru) Remove(key string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		delete(lru.index, key)
		lru.evictList.Remove(element)
	}
}

// Purge empties the cache.
func (lru *lru) Purge() {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	lru.evictList.Init()
	lru.index = make(map[string]*list.Element)
}

// Len returns the number of items in the cache.
func (lru *lru) Len() int {
	lru.lock.RLock()
	defer lru.lock.RUnlock()
	return len(lru.index)
}

// add is an internal helper, running under the write lock, that adds a
// new item to the cache.  The item is known to not already exist.
func (lru *lru) add(item entry) {
	element := lru.evictList.PushBack(item)
	lru.index[item.Key()] = element

	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		item := head.Value.(entry)
		delete(lru.index, item.Key())
		lru.evictList.Remove(head)
	}
}
