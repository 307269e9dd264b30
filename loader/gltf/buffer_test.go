// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatBytes(vs ...float32) []byte {

	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func docWithEmbeddedBuffer(bv bufferView, acc accessor) *document {

	return &document{
		BufferViews: []bufferView{bv},
		Accessors:   []accessor{acc},
		Buffers:     []buffer{{}},
	}
}

func TestReadFloatsTightlyPacked(t *testing.T) {

	data := floatBytes(1, 2, 3, 4, 5, 6)
	bv := bufferView{Buffer: 0, ByteOffset: 0, ByteLength: len(data)}
	acc := accessor{BufferView: intPtr(0), Count: 2, Type: "VEC3", ComponentType: compFloat}
	doc := docWithEmbeddedBuffer(bv, acc)

	bs := newBufferSource(doc, "", data)
	out, err := bs.readFloats(acc)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, out)
}

func TestReadFloatsNormalizedUnsignedByte(t *testing.T) {

	data := []byte{0, 128, 255}
	bv := bufferView{Buffer: 0, ByteOffset: 0, ByteLength: len(data)}
	acc := accessor{BufferView: intPtr(0), Count: 3, Type: "SCALAR", ComponentType: compUnsignedByte, Normalized: true}
	doc := docWithEmbeddedBuffer(bv, acc)

	bs := newBufferSource(doc, "", data)
	out, err := bs.readFloats(acc)
	require.NoError(t, err)
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 128.0/255.0, out[1], 1e-6)
	assert.InDelta(t, 1, out[2], 1e-6)
}

func TestReadFloatsByteStride(t *testing.T) {

	// Two VEC3 float elements, each padded to a 16-byte stride.
	data := make([]byte, 32)
	copy(data[0:], floatBytes(1, 2, 3))
	copy(data[16:], floatBytes(4, 5, 6))
	bv := bufferView{Buffer: 0, ByteOffset: 0, ByteLength: len(data), ByteStride: 16}
	acc := accessor{BufferView: intPtr(0), Count: 2, Type: "VEC3", ComponentType: compFloat}
	doc := docWithEmbeddedBuffer(bv, acc)

	bs := newBufferSource(doc, "", data)
	out, err := bs.readFloats(acc)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, out)
}

func TestReadIndicesUnsignedShort(t *testing.T) {

	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:], 0)
	binary.LittleEndian.PutUint16(data[2:], 1)
	binary.LittleEndian.PutUint16(data[4:], 65535)
	bv := bufferView{Buffer: 0, ByteOffset: 0, ByteLength: len(data)}
	acc := accessor{BufferView: intPtr(0), Count: 3, Type: "SCALAR", ComponentType: compUnsignedShort}
	doc := docWithEmbeddedBuffer(bv, acc)

	bs := newBufferSource(doc, "", data)
	out, err := bs.readIndices(acc)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 65535}, out)
}

func TestReadIndicesRejectsFloat(t *testing.T) {

	acc := accessor{Type: "SCALAR", ComponentType: compFloat}
	bs := newBufferSource(&document{}, "", nil)
	_, err := bs.readIndices(acc)
	assert.Error(t, err)
}

func TestBufferViewOutOfBoundsFails(t *testing.T) {

	doc := docWithEmbeddedBuffer(bufferView{Buffer: 0, ByteOffset: 0, ByteLength: 4}, accessor{})
	bs := newBufferSource(doc, "", []byte{1, 2})
	_, _, err := bs.view(0)
	assert.Error(t, err)
}

func intPtr(v int) *int { return &v }
