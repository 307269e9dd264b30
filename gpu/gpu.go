// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu declares the explicit, Vulkan-style graphics-device contract
// the rest of the engine is built against. None of it is implemented here:
// the device, buffers, images, passes and command buffers are external
// collaborators supplied by whoever embeds the engine. Everything in this
// package is an interface or a plain value type describing the wire
// contract between the orchestrator and that collaborator.
package gpu

import "github.com/vorn3d/engine/math32"

// PixelFormat names a GPU image's texel layout.
type PixelFormat int

const (
	FormatUndefined PixelFormat = iota
	FormatRGBA8
	FormatRGBA8sRGB
	FormatRGB8
	FormatR8
	FormatRG8
	FormatRGBA16
	FormatR16
	FormatRG16
	FormatRGB16
)

// Topology names a primitive's draw topology.
type Topology int

const (
	TopologyPoint Topology = iota
	TopologyLine
	TopologyLineStrip
	TopologyTriangle
	TopologyTriangleStrip
	TopologyTriangleFan
)

// IndexType names the element type of an index buffer.
type IndexType int

const (
	IndexTypeU16 IndexType = iota
	IndexTypeU32
)

// Context is the device handle. It exposes the one device limit the
// orchestrator must respect when packing uniform buffers, plus the
// factory methods it uses to obtain the command buffer and uniform
// buffer it drives a frame with.
type Context interface {
	// MinUniformAlignment returns the device's minimum uniform-buffer
	// offset alignment, in bytes.
	MinUniformAlignment() int64
	// NewCmdBuffer returns a graphics command buffer the caller owns for
	// one encode/execute cycle.
	NewCmdBuffer() (CmdBuffer, error)
	// NewBuffer allocates a host-visible buffer of the given size.
	NewBuffer(size int64) (Buffer, error)
}

// Buffer is host-visible device memory the orchestrator copies uniform
// and vertex/index data into.
type Buffer interface {
	// Copy writes data at the given byte offset.
	Copy(offset int64, data []byte) error
	// Size returns the buffer's current capacity in bytes.
	Size() int64
	Deinit()
}

// Image is a device image, potentially a layered array image as used by
// the managed-image atlas.
type Image interface {
	// Copy uploads data into one layer/level of the image at the given
	// offset and extent (each a [width, height, depth] triple).
	Copy(offset, extent [3]int, layer, level int, data []byte) error
	// Dim returns the image's width, height and depth.
	Dim() (w, h, d int)
	Deinit()
}

// Target is a framebuffer attachment set bound to a Pass.
type Target interface {
	Deinit()
}

// Pass describes a render pass configuration able to make and unmake
// Targets against a given set of attachments.
type Pass interface {
	MakeTarget(colorImages []Image, depthImage Image) (Target, error)
	UnmakeTarget(t Target)
	Deinit()
}

// DTable is one descriptor-table allocation leased from a pipeline
// variant's pool (see the resmgr package).
type DTable interface {
	// SetImage binds an image layer into the descriptor slot at binding.
	SetImage(binding int, img Image, layer int) error
	// SetBuffer binds a buffer range into the descriptor slot at binding.
	SetBuffer(binding int, buf Buffer, offset, size int64) error
}

// GState is an opaque, pre-baked graphics pipeline state for one
// (drawable kind, instance-count tier) variant.
type GState interface{}

// Encoder records commands into a command buffer.
type Encoder interface {
	SetGState(gs GState)
	SetTarget(t Target)
	SetViewport(x, y, w, h float32, minDepth, maxDepth float32)
	SetScissor(x, y, w, h int)
	SetDTable(index int, dt DTable)
	SetVBuf(binding int, buf Buffer, offset int64)
	SetIBuf(buf Buffer, offset int64, kind IndexType)
	ClearColor(c math32.Color4)
	ClearDepth(d float32)
	ClearStencil(s uint32)
	Draw(indexed bool, base, vertN, instN, vertID, instID int)
	CopyBuf(dst Buffer, dstOffset int64, src Buffer, srcOffset int64, size int64) error
	CopyImg(dst Image, dstOffset [3]int, dstLayer, dstLevel int, src Image, srcOffset [3]int, srcLayer, srcLevel int, extent [3]int) error
}

// CmdBuffer is a graphics command buffer obtained from the Context for the
// duration of one encode/execute cycle.
type CmdBuffer interface {
	Encoder() Encoder
	End() error
	Exec() error
	Reset()
}
