// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Uniform block sizes in bytes, unpadded, per the layouts the device
// shaders are compiled against. Every block is rounded up to the
// device's minimum uniform-buffer alignment before being placed.
const (
	sizeMat4 = 16 * 4 // one 4x4 matrix of float32

	globalBlockSize = 4*sizeMat4 + 32 // view, persp, ortho, view-proj + padded viewport

	lightSlotSize  = 64
	maxLightSlots  = 16
	lightBlockSize = lightSlotSize * maxLightSlots

	// modelInstanceSize holds model, normal and model-view matrices plus
	// a joint-matrix/joint-normal-matrix pair per joint, up to maxJoints.
	modelInstanceBaseSize = 3 * sizeMat4
	jointPairSize         = 2 * sizeMat4

	terrainInstanceSize = 2 * sizeMat4
	quadInstanceSize    = 2*sizeMat4 + 16

	materialBlockSize = 64
)

func modelInstanceSize(maxJoints int) int64 {

	return int64(modelInstanceBaseSize + maxJoints*jointPairSize)
}

// alignUp rounds size up to the next multiple of align (align must be a
// positive power of two, as every device's minimum uniform-buffer
// alignment is).
func alignUp(size, align int64) int64 {

	if align <= 0 {
		return size
	}
	return (size + align - 1) / align * align
}
