// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/math32"
)

type fakeBuffer struct{ data []byte }

func newFakeBuffer(size int64) *fakeBuffer { return &fakeBuffer{data: make([]byte, size)} }

func (b *fakeBuffer) Copy(offset int64, d []byte) error {
	copy(b.data[offset:], d)
	return nil
}
func (b *fakeBuffer) Size() int64 { return int64(len(b.data)) }
func (b *fakeBuffer) Deinit()     {}

type fakeImage struct{}

func (fakeImage) Copy(offset, extent [3]int, layer, level int, data []byte) error { return nil }
func (fakeImage) Dim() (int, int, int)                                            { return 1, 1, 1 }
func (fakeImage) Deinit()                                                         {}

type fakeTarget struct{}

func (fakeTarget) Deinit() {}

type fakeDTable struct {
	buffers map[int]struct {
		buf    gpu.Buffer
		offset int64
		size   int64
	}
	images map[int]struct {
		img   gpu.Image
		layer int
	}
}

func newFakeDTable() *fakeDTable {
	return &fakeDTable{
		buffers: make(map[int]struct {
			buf    gpu.Buffer
			offset int64
			size   int64
		}),
		images: make(map[int]struct {
			img   gpu.Image
			layer int
		}),
	}
}

func (t *fakeDTable) SetBuffer(binding int, buf gpu.Buffer, offset, size int64) error {
	t.buffers[binding] = struct {
		buf    gpu.Buffer
		offset int64
		size   int64
	}{buf, offset, size}
	return nil
}

func (t *fakeDTable) SetImage(binding int, img gpu.Image, layer int) error {
	t.images[binding] = struct {
		img   gpu.Image
		layer int
	}{img, layer}
	return nil
}

type fakeEncoder struct {
	draws   int
	targets int
}

func (e *fakeEncoder) SetGState(gs gpu.GState)      {}
func (e *fakeEncoder) SetTarget(t gpu.Target)       { e.targets++ }
func (e *fakeEncoder) SetViewport(x, y, w, h float32, minDepth, maxDepth float32) {}
func (e *fakeEncoder) SetScissor(x, y, w, h int)    {}
func (e *fakeEncoder) SetDTable(index int, dt gpu.DTable) {}
func (e *fakeEncoder) SetVBuf(binding int, buf gpu.Buffer, offset int64) {}
func (e *fakeEncoder) SetIBuf(buf gpu.Buffer, offset int64, kind gpu.IndexType) {}
func (e *fakeEncoder) ClearColor(c math32.Color4) {}
func (e *fakeEncoder) ClearDepth(d float32)       {}
func (e *fakeEncoder) ClearStencil(s uint32)      {}
func (e *fakeEncoder) Draw(indexed bool, base, vertN, instN, vertID, instID int) {
	e.draws++
}
func (e *fakeEncoder) CopyBuf(dst gpu.Buffer, dstOffset int64, src gpu.Buffer, srcOffset int64, size int64) error {
	return nil
}
func (e *fakeEncoder) CopyImg(dst gpu.Image, dstOffset [3]int, dstLayer, dstLevel int, src gpu.Image, srcOffset [3]int, srcLayer, srcLevel int, extent [3]int) error {
	return nil
}

type fakeCmdBuffer struct {
	enc     *fakeEncoder
	ended   bool
	execed  int
	resets  int
}

func (c *fakeCmdBuffer) Encoder() gpu.Encoder { return c.enc }
func (c *fakeCmdBuffer) End() error           { c.ended = true; return nil }
func (c *fakeCmdBuffer) Exec() error          { c.execed++; return nil }
func (c *fakeCmdBuffer) Reset()               { c.resets++ }

type fakeContext struct {
	align   int64
	cmdBufs []*fakeCmdBuffer
}

func (c *fakeContext) MinUniformAlignment() int64 { return c.align }

func (c *fakeContext) NewCmdBuffer() (gpu.CmdBuffer, error) {
	cb := &fakeCmdBuffer{enc: &fakeEncoder{}}
	c.cmdBufs = append(c.cmdBufs, cb)
	return cb, nil
}

func (c *fakeContext) NewBuffer(size int64) (gpu.Buffer, error) {
	return newFakeBuffer(size), nil
}

type fakePass struct{}

func (fakePass) MakeTarget(colorImages []gpu.Image, depthImage gpu.Image) (gpu.Target, error) {
	return fakeTarget{}, nil
}
func (fakePass) UnmakeTarget(t gpu.Target) {}
func (fakePass) Deinit()                   {}
