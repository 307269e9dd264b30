// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texture implements the managed-image atlas — a process-wide,
// content-addressed cache of GPU array images shared by many textures —
// and the Texture handle that borrows one layer of one image.
package texture

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/util/logger"
)

var log = logger.New("TEXTURE", nil)

// key identifies a managed image by its fixed (format, width, height).
type key struct {
	format gpu.PixelFormat
	width  int
	height int
}

// ManagedImage is a GPU array image shared by every texture whose key
// matches its (pixel-format, width, height). Layers are leased out
// round-robin and reclaimed when a texture is destroyed.
type ManagedImage struct {
	mu        sync.Mutex
	key       key
	image     gpu.Image
	bitmap    []uint64 // one bit per layer
	capacity  int
	usedCount int
	hint      int // next layer index to probe from
}

// newManagedImage creates a managed image of the given key with the
// provided initial capacity (a power of two, normally the atlas
// default).
func newManagedImage(k key, img gpu.Image, capacity int) *ManagedImage {

	return &ManagedImage{
		key:      k,
		image:    img,
		bitmap:   make([]uint64, (capacity+63)/64),
		capacity: capacity,
	}
}

// UsedCount returns the number of layers currently leased out.
func (m *ManagedImage) UsedCount() int {

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedCount
}

// Capacity returns the image's current layer count.
func (m *ManagedImage) Capacity() int {

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capacity
}

// Image returns the underlying GPU image handle.
func (m *ManagedImage) Image() gpu.Image {

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.image
}

func (m *ManagedImage) bitSet(layer int) bool {

	return m.bitmap[layer/64]&(1<<uint(layer%64)) != 0
}

func (m *ManagedImage) setBit(layer int) {

	m.bitmap[layer/64] |= 1 << uint(layer%64)
}

func (m *ManagedImage) clearBit(layer int) {

	m.bitmap[layer/64] &^= 1 << uint(layer%64)
}

// popcount returns the number of set bits across the whole bitmap,
// exercised by the used_count == popcount(bitmap) invariant.
func (m *ManagedImage) popcount() int {

	n := 0
	for _, w := range m.bitmap {
		n += bits.OnesCount64(w)
	}
	return n
}

// firstFree returns the first unused layer starting from the
// round-robin hint, or -1 if the image is full.
func (m *ManagedImage) firstFree() int {

	for i := 0; i < m.capacity; i++ {
		layer := (m.hint + i) % m.capacity
		if !m.bitSet(layer) {
			return layer
		}
	}
	return -1
}

// Atlas is the process-wide dictionary of managed images keyed by
// (pixel-format, width, height).
type Atlas struct {
	mu             sync.Mutex
	images         map[key]*ManagedImage
	initialCap     int
	allocateImage  func(format gpu.PixelFormat, w, h, layers int) (gpu.Image, error)
	copyImgLayers  func(dst, src gpu.Image, layers int) error
}

// New creates an Atlas. allocateImage and copyLayers are the device
// collaborators used to create a managed image and to copy its live
// layers into a larger replacement during growth, respectively.
func New(initialCapacity int,
	allocateImage func(format gpu.PixelFormat, w, h, layers int) (gpu.Image, error),
	copyLayers func(dst, src gpu.Image, layers int) error) *Atlas {

	return &Atlas{
		images:        make(map[key]*ManagedImage),
		initialCap:    initialCapacity,
		allocateImage: allocateImage,
		copyImgLayers: copyLayers,
	}
}

// Lease finds or creates the managed image for (format, width, height),
// leases a free layer from it (growing the image if it is full), and
// returns the image and leased layer index.
//
// Failure semantics: an image-allocation failure aborts the lease
// without modifying any shared state; if growth's bitmap doubling
// succeeds but the GPU copy fails, the new image is torn down and the
// old one is left intact.
func (a *Atlas) Lease(format gpu.PixelFormat, width, height int) (*ManagedImage, int, error) {

	k := key{format: format, width: width, height: height}

	a.mu.Lock()
	m, ok := a.images[k]
	if !ok {
		img, err := a.allocateImage(format, width, height, a.initialCap)
		if err != nil {
			a.mu.Unlock()
			return nil, 0, errkind.Wrap(errkind.NoMemory, err, "texture: allocate managed image")
		}
		m = newManagedImage(k, img, a.initialCap)
		a.images[k] = m
	}
	a.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	layer := m.firstFree()
	if layer < 0 {
		if err := a.grow(m); err != nil {
			return nil, 0, err
		}
		layer = m.firstFree()
		if layer < 0 {
			return nil, 0, errkind.New(errkind.Overflow, "texture: no free layer after growth")
		}
	}

	m.setBit(layer)
	m.usedCount++
	m.hint = (layer + 1) % m.capacity
	return m, layer, nil
}

// grow doubles m's layer capacity: allocates a new image of double size,
// copies every live layer from the old image with one synchronous
// GPU-side image-to-image copy, then swaps the handle and the bitmap. m
// must already be locked by the caller.
func (a *Atlas) grow(m *ManagedImage) error {

	newCap := m.capacity * 2
	newImg, err := a.allocateImage(m.key.format, m.key.width, m.key.height, newCap)
	if err != nil {
		return errkind.Wrap(errkind.NoMemory, err, "texture: grow managed image")
	}

	if err := a.copyImgLayers(newImg, m.image, m.capacity); err != nil {
		newImg.Deinit()
		return errkind.Wrap(errkind.DeviceGenerated, err, "texture: copy layers during growth")
	}

	oldImage := m.image
	m.image = newImg
	newBitmap := make([]uint64, (newCap+63)/64)
	copy(newBitmap, m.bitmap)
	m.bitmap = newBitmap
	m.capacity = newCap
	oldImage.Deinit()

	log.Debug("grew managed image %v to capacity %d", m.key, newCap)
	return nil
}

// Release clears layer's use bit in m and, if that drops m's used count
// to zero, removes and destroys m.
func (a *Atlas) Release(m *ManagedImage, layer int) {

	m.mu.Lock()
	m.clearBit(layer)
	m.usedCount--
	empty := m.usedCount == 0
	m.mu.Unlock()

	if !empty {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cur, ok := a.images[m.key]; ok && cur == m {
		delete(a.images, m.key)
		m.image.Deinit()
	}
}

func (k key) String() string {

	return fmt.Sprintf("{format:%d %dx%d}", k.format, k.width, k.height)
}
