// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resmgr implements the bounded pool of descriptor-table
// allocations the render orchestrator draws from, one pool per pipeline
// variant (a drawable kind crossed with, for models, an instance-count
// tier). No original source implements this component directly; its
// shape is derived from its use in the orchestrator and deliberately
// mirrors the managed-image atlas's free-bitmap-plus-round-robin-hint
// pool, since both are bounded lease/return allocators in the same
// resource-accounting layer.
package resmgr

import (
	"math/bits"
	"sync"

	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
)

// Variant identifies one pipeline-state pool: a drawable kind plus,
// for models, the instance-count tier it was baked for.
type Variant struct {
	Kind     int
	Instance int
}

// pool is one variant's fixed-size set of descriptor-table allocations.
type pool struct {
	state   gpu.GState
	tables  []gpu.DTable
	bitmap  []uint64
	hint    int
}

func newPool(state gpu.GState, tables []gpu.DTable) *pool {

	n := len(tables)
	return &pool{
		state:  state,
		tables: tables,
		bitmap: make([]uint64, (n+63)/64),
	}
}

func (p *pool) bitSet(i int) bool { return p.bitmap[i/64]&(1<<uint(i%64)) != 0 }
func (p *pool) setBit(i int)      { p.bitmap[i/64] |= 1 << uint(i%64) }
func (p *pool) clearBit(i int)    { p.bitmap[i/64] &^= 1 << uint(i%64) }

func (p *pool) popcount() int {

	n := 0
	for _, w := range p.bitmap {
		n += bits.OnesCount64(w)
	}
	return n
}

func (p *pool) firstFree() int {

	n := len(p.tables)
	for i := 0; i < n; i++ {
		idx := (p.hint + i) % n
		if !p.bitSet(idx) {
			return idx
		}
	}
	return -1
}

// Allocation identifies one leased descriptor table within a variant's
// pool.
type Allocation struct {
	Variant Variant
	Index   int
}

// AllocFunc bakes a pipeline state and allocates the descriptor tables
// backing n slots of variant. It is the orchestrator's device
// collaborator for resizing a pool.
type AllocFunc func(v Variant, n int) (gpu.GState, []gpu.DTable, error)

// Manager owns one pool per variant and vends bounded lease/return
// allocations from it.
type Manager struct {
	mu     sync.Mutex
	pools  map[Variant]*pool
	alloc  AllocFunc
}

// New creates an empty Manager. alloc is called by SetAllocCount
// whenever a variant's pool must be (re)built.
func New(alloc AllocFunc) *Manager {

	return &Manager{
		pools: make(map[Variant]*pool),
		alloc: alloc,
	}
}

// SetAllocCount resizes v's pool to exactly n slots, discarding any
// existing allocation state for v — callers must not hold outstanding
// allocations for v across a resize. n == 0 removes the pool entirely.
func (r *Manager) SetAllocCount(v Variant, n int) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 {
		delete(r.pools, v)
		return nil
	}
	state, tables, err := r.alloc(v, n)
	if err != nil {
		delete(r.pools, v)
		return errkind.Wrap(errkind.NoMemory, err, "resmgr: allocate pool for variant %+v size %d", v, n)
	}
	r.pools[v] = newPool(state, tables)
	return nil
}

// Obtain leases a free slot from v's pool, returning its baked pipeline
// state, descriptor table and allocation handle. Returns an in_use
// error if the pool is exhausted or does not exist.
func (r *Manager) Obtain(v Variant) (gpu.GState, gpu.DTable, Allocation, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[v]
	if !ok {
		return nil, nil, Allocation{}, errkind.New(errkind.InUse, "resmgr: no pool for variant %+v", v)
	}
	idx := p.firstFree()
	if idx < 0 {
		return nil, nil, Allocation{}, errkind.New(errkind.InUse, "resmgr: variant %+v exhausted", v)
	}
	p.setBit(idx)
	p.hint = (idx + 1) % len(p.tables)
	return p.state, p.tables[idx], Allocation{Variant: v, Index: idx}, nil
}

// Yield returns a previously obtained allocation to its pool.
func (r *Manager) Yield(a Allocation) {

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[a.Variant]
	if !ok {
		return
	}
	p.clearBit(a.Index)
}

// Clear discards every pool. The orchestrator calls this when a resize
// attempt fails partway, before retrying with halved counts.
func (r *Manager) Clear() {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools = make(map[Variant]*pool)
}

// UsedCount returns the number of outstanding allocations in v's pool,
// for tests exercising the used-count == popcount(bitmap) invariant
// shared with the texture atlas.
func (r *Manager) UsedCount(v Variant) int {

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[v]
	if !ok {
		return 0
	}
	return p.popcount()
}

// Capacity returns the number of slots in v's pool, or zero if it has
// none.
func (r *Manager) Capacity(v Variant) int {

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[v]
	if !ok {
		return 0
	}
	return len(p.tables)
}
