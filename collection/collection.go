// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collection implements the engine's named asset registry: one
// dictionary per item kind, each entry owned until released or the
// collection itself is torn down.
package collection

import (
	"fmt"
	"sync"

	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/util/logger"
)

var log = logger.New("COLLECTION", nil)

// Kind names one of the collection's per-kind dictionaries.
type Kind int

const (
	KindScene Kind = iota
	KindNode
	KindMesh
	KindSkin
	KindMaterial
	KindTexture
	KindKfAnim
	KindFont
	kindCount
)

// Deinitializer is the per-kind destructor invoked on every surviving
// entry when the collection is deinitialised.
type Deinitializer func(item interface{})

// Collection is an ordered set of per-kind name→item dictionaries.
type Collection struct {
	mu      sync.Mutex
	dicts   [kindCount]map[string]interface{}
	counter [kindCount]uint32
	deinit  [kindCount]Deinitializer
}

// New creates an empty Collection.
func New() *Collection {

	c := new(Collection)
	for k := range c.dicts {
		c.dicts[k] = make(map[string]interface{})
	}
	return c
}

// SetDeinitializer registers the function invoked on every surviving
// entry of kind when the collection is torn down.
func (c *Collection) SetDeinitializer(kind Kind, fn Deinitializer) {

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deinit[kind] = fn
}

// Manage adopts item under kind, keyed by name. If name is empty, a name
// of the form "unnamed-XXXXX" is generated from a per-kind counter masked
// to 20 bits and five hex digits are printed. Manage fails with
// errkind.Exist if the (possibly generated) name already maps to an item
// of that kind.
func (c *Collection) Manage(kind Kind, name string, item interface{}) (string, error) {

	c.mu.Lock()
	defer c.mu.Unlock()

	if name == "" {
		name = c.genName(kind)
	}
	if _, ok := c.dicts[kind][name]; ok {
		return "", errkind.New(errkind.Exist, "collection: name %q already used for kind %d", name, kind)
	}
	c.dicts[kind][name] = item
	log.Debug("managed %v as %q", kind, name)
	return name, nil
}

// genName produces the next "unnamed-XXXXX" name for kind.
func (c *Collection) genName(kind Kind) string {

	c.counter[kind] = (c.counter[kind] + 1) & 0xFFFFF
	return fmt.Sprintf("unnamed-%05X", c.counter[kind])
}

// Get returns the item of the given kind stored under name, and whether
// it was found.
func (c *Collection) Get(kind Kind, name string) (interface{}, bool) {

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.dicts[kind][name]
	return item, ok
}

// Contains reports whether kind/name is present.
func (c *Collection) Contains(kind Kind, name string) bool {

	_, ok := c.Get(kind, name)
	return ok
}

// Release removes and returns ownership of the item stored under
// kind/name, if present.
func (c *Collection) Release(kind Kind, name string) (interface{}, bool) {

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.dicts[kind][name]
	if ok {
		delete(c.dicts[kind], name)
	}
	return item, ok
}

// EachVisitor is called once per entry of a kind during Each. Returning
// true stops the iteration early.
type EachVisitor func(name string, item interface{}) (stop bool)

// Each iterates every entry of kind until visit returns true or every
// entry has been visited.
func (c *Collection) Each(kind Kind, visit EachVisitor) {

	c.mu.Lock()
	items := make(map[string]interface{}, len(c.dicts[kind]))
	for k, v := range c.dicts[kind] {
		items[k] = v
	}
	c.mu.Unlock()

	for name, item := range items {
		if visit(name, item) {
			return
		}
	}
}

// Deinit invokes each kind's deinitializer, if any, on every surviving
// entry, then discards the collection's own bookkeeping.
func (c *Collection) Deinit() {

	c.mu.Lock()
	defer c.mu.Unlock()

	for k := Kind(0); k < kindCount; k++ {
		if fn := c.deinit[k]; fn != nil {
			for _, item := range c.dicts[k] {
				fn(item)
			}
		}
		c.dicts[k] = nil
	}
}
