// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/resmgr"
)

var tiers = []int{1, 2, 4, 8, 16, 32, 64}

func TestDecomposePow2SplitsLargestFirst(t *testing.T) {

	counts := decomposePow2(67, tiers)
	assert.Equal(t, 1, counts[64])
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 1, counts[1])
	assert.Equal(t, 0, counts[4])
}

func TestDecomposePow2ExactPowerOfTwo(t *testing.T) {

	counts := decomposePow2(16, tiers)
	assert.Equal(t, 1, counts[16])
	assert.Len(t, counts, 1)
}

func fakeAllocAlways(v resmgr.Variant, n int) (gpu.GState, []gpu.DTable, error) {

	tables := make([]gpu.DTable, n)
	for i := range tables {
		tables[i] = newFakeDTable()
	}
	return struct{}{}, tables, nil
}

func TestProvisionRequestsExactDemand(t *testing.T) {

	mgr := resmgr.New(fakeAllocAlways)
	v := resmgr.Variant{Kind: 1, Instance: 1}
	d := demand{v: 5}

	assert.NoError(t, provision(mgr, d))
	assert.Equal(t, 5, mgr.Capacity(v))
}

func TestProvisionHalvesOnFailureThenSucceeds(t *testing.T) {

	v := resmgr.Variant{Kind: 1, Instance: 1}
	calls := 0
	alloc := func(vv resmgr.Variant, n int) (gpu.GState, []gpu.DTable, error) {
		calls++
		if n > 2 {
			return nil, nil, assertErr{}
		}
		return fakeAllocAlways(vv, n)
	}

	mgr := resmgr.New(alloc)
	d := demand{v: 10}

	assert.NoError(t, provision(mgr, d))
	assert.LessOrEqual(t, mgr.Capacity(v), 2)
	assert.Greater(t, calls, 1)
}

type assertErr struct{}

func (assertErr) Error() string { return "simulated device out of memory" }

func TestUniformBufferSizeIncludesGlobalLightAndInstances(t *testing.T) {

	d := demand{
		{Kind: int(core.KindModel), Instance: 4}: 2,
	}
	size := uniformBufferSize(d, 256, 64)
	assert.Greater(t, size, int64(globalBlockSize+lightBlockSize))
}
