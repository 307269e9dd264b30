// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sort"

	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/resmgr"
)

// decomposePow2 expresses n as a sum of entries from tiers (each used at
// most as many times as needed), greedily taking the largest tier that
// still fits, and returns how many allocations of each tier size that
// requires. tiers must include 1 so the decomposition always terminates.
// A bucket of 67 against tiers {1,2,4,8,16,32,64} contributes one
// 64-instance allocation, one 2-instance allocation and one
// 1-instance allocation.
func decomposePow2(n int, tiers []int) map[int]int {

	sorted := append([]int(nil), tiers...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	counts := make(map[int]int)
	for n > 0 {
		for _, t := range sorted {
			if t <= n {
				counts[t]++
				n -= t
				break
			}
		}
	}
	return counts
}

// demand is the per-variant pool size the orchestrator wants to request
// this frame, derived from what classify found.
type demand map[resmgr.Variant]int

func (f *frame) demand(tiers []int) demand {

	d := make(demand)

	for _, key := range f.modelOrder {
		b := f.models[key]
		for tier, n := range decomposePow2(len(b.entries), tiers) {
			d[resmgr.Variant{Kind: int(core.KindModel), Instance: tier}] += n
		}
	}
	if n := len(f.terrains); n > 0 {
		d[resmgr.Variant{Kind: int(core.KindTerrain), Instance: 1}] = n
	}
	if n := len(f.particles); n > 0 {
		d[resmgr.Variant{Kind: int(core.KindParticleSystem), Instance: 1}] = n
	}
	if n := len(f.quads); n > 0 {
		d[resmgr.Variant{Kind: int(core.KindQuad), Instance: 1}] = n
	}
	if n := len(f.labels); n > 0 {
		d[resmgr.Variant{Kind: int(core.KindLabel), Instance: 1}] = n
	}

	return d
}

// provision requests d's counts from mgr, halving every count (never
// below one) and retrying on failure, clearing the pool between
// attempts since a partially-resized pool cannot be trusted. Gives up
// after maxAttempts halvings.
func provision(mgr *resmgr.Manager, d demand) error {

	const maxAttempts = 8
	counts := make(demand, len(d))
	for v, n := range d {
		counts[v] = n
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var err error
		for v, n := range counts {
			if e := mgr.SetAllocCount(v, n); e != nil {
				err = e
				break
			}
		}
		if err == nil {
			return nil
		}

		mgr.Clear()
		halved := false
		for v, n := range counts {
			if n > 1 {
				counts[v] = (n + 1) / 2
				halved = true
			}
		}
		if !halved {
			return errkind.Wrap(errkind.NoMemory, err, "scene: cannot provision resource pools even at minimum size")
		}
	}

	return errkind.New(errkind.NoMemory, "scene: resource pool provisioning did not converge")
}

// uniformBufferSize computes the byte size the engine-owned uniform
// buffer must have to hold the global and light blocks plus one
// instance+material block per allocation in d, every block rounded up
// to align.
func uniformBufferSize(d demand, align int64, maxJoints int) int64 {

	total := alignUp(globalBlockSize, align) + alignUp(lightBlockSize, align)

	for v, n := range d {
		var blockSize int64
		switch core.ObjectKind(v.Kind) {
		case core.KindModel:
			blockSize = modelInstanceSize(maxJoints)*int64(v.Instance) + materialBlockSize
		case core.KindTerrain, core.KindParticleSystem:
			blockSize = terrainInstanceSize
		case core.KindQuad, core.KindLabel:
			blockSize = quadInstanceSize
		}
		total += alignUp(blockSize, align) * int64(n)
	}

	return total
}
