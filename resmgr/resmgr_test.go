// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
)

type fakeDTable struct{ id int }

func (fakeDTable) SetImage(binding int, img gpu.Image, layer int) error     { return nil }
func (fakeDTable) SetBuffer(binding int, buf gpu.Buffer, offset, size int64) error { return nil }
func (fakeDTable) Deinit()                                                  {}

func fakeAlloc(v Variant, n int) (gpu.GState, []gpu.DTable, error) {

	tables := make([]gpu.DTable, n)
	for i := range tables {
		tables[i] = fakeDTable{id: i}
	}
	return struct{}{}, tables, nil
}

func TestObtainExhaustsThenYieldFreesSlot(t *testing.T) {

	m := New(fakeAlloc)
	v := Variant{Kind: 0, Instance: 1}
	assert.NoError(t, m.SetAllocCount(v, 2))

	_, _, a1, err := m.Obtain(v)
	assert.NoError(t, err)
	_, _, a2, err := m.Obtain(v)
	assert.NoError(t, err)
	assert.Equal(t, 2, m.UsedCount(v))

	_, _, _, err = m.Obtain(v)
	assert.True(t, errkind.Is(err, errkind.InUse))

	m.Yield(a1)
	assert.Equal(t, 1, m.UsedCount(v))

	_, _, a3, err := m.Obtain(v)
	assert.NoError(t, err)
	assert.Equal(t, 2, m.UsedCount(v))
	_ = a2
	_ = a3
}

func TestObtainWithNoPoolIsInUse(t *testing.T) {

	m := New(fakeAlloc)
	_, _, _, err := m.Obtain(Variant{Kind: 1, Instance: 4})
	assert.True(t, errkind.Is(err, errkind.InUse))
}

func TestClearRemovesAllPools(t *testing.T) {

	m := New(fakeAlloc)
	v := Variant{Kind: 0, Instance: 1}
	assert.NoError(t, m.SetAllocCount(v, 4))
	assert.Equal(t, 4, m.Capacity(v))

	m.Clear()
	assert.Equal(t, 0, m.Capacity(v))
}

func TestSetAllocCountZeroRemovesPool(t *testing.T) {

	m := New(fakeAlloc)
	v := Variant{Kind: 0, Instance: 1}
	assert.NoError(t, m.SetAllocCount(v, 4))
	assert.NoError(t, m.SetAllocCount(v, 0))
	assert.Equal(t, 0, m.Capacity(v))
}
