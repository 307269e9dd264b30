// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorn3d/engine/collection"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/texture"
)

// ---- fakes mirroring the device/atlas collaborators ----

type fakeBuffer struct{ data []byte }

func (b *fakeBuffer) Copy(offset int64, d []byte) error { copy(b.data[offset:], d); return nil }
func (b *fakeBuffer) Size() int64                       { return int64(len(b.data)) }
func (b *fakeBuffer) Deinit()                           {}

type fakeCtx struct{}

func (fakeCtx) MinUniformAlignment() int64             { return 256 }
func (fakeCtx) NewCmdBuffer() (gpu.CmdBuffer, error)   { return nil, nil }
func (fakeCtx) NewBuffer(size int64) (gpu.Buffer, error) {
	return &fakeBuffer{data: make([]byte, size)}, nil
}

type fakeImage struct{ w, h int }

func (f *fakeImage) Copy(offset, extent [3]int, layer, level int, data []byte) error { return nil }
func (f *fakeImage) Dim() (int, int, int)                                           { return f.w, f.h, 1 }
func (f *fakeImage) Deinit()                                                        {}

func newFakeAtlas() *texture.Atlas {

	alloc := func(format gpu.PixelFormat, w, h, layers int) (gpu.Image, error) {
		return &fakeImage{w: w, h: h}, nil
	}
	copyLayers := func(dst, src gpu.Image, layers int) error { return nil }
	return texture.New(64, alloc, copyLayers)
}

// ---- GLB assembly helpers ----

func f32le(vs ...float32) []byte {

	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func u16le(vs ...uint16) []byte {

	out := make([]byte, len(vs)*2)
	for i, v := range vs {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

func assembleGLB(jsonChunk, binChunk []byte) []byte {

	pad := func(b []byte, fill byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, fill)
		}
		return b
	}
	jsonChunk = pad(append([]byte(nil), jsonChunk...), ' ')
	binChunk = pad(append([]byte(nil), binChunk...), 0)

	var body []byte
	appendChunk := func(typ uint32, data []byte) {
		var hdr [8]byte
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(data)))
		binary.LittleEndian.PutUint32(hdr[4:8], typ)
		body = append(body, hdr[:]...)
		body = append(body, data...)
	}
	appendChunk(glbChunkJSON, jsonChunk)
	appendChunk(glbChunkBIN, binChunk)

	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:4], glbMagic)
	binary.LittleEndian.PutUint32(header[4:8], 2)
	binary.LittleEndian.PutUint32(header[8:12], uint32(12+len(body)))
	return append(header[:], body...)
}

// buildTriangleGLB assembles a minimal one-triangle, one-material glb
// asset: three positions, three indices, sharing a single binary chunk.
func buildTriangleGLB(t *testing.T) []byte {

	posBytes := f32le(
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	)
	idxBytes := u16le(0, 1, 2)
	// Pad positions up to a 4-byte boundary before appending indices so
	// bufferView byte offsets land cleanly.
	for len(posBytes)%4 != 0 {
		posBytes = append(posBytes, 0)
	}
	bin := append(append([]byte(nil), posBytes...), idxBytes...)

	doc := `{
	  "asset": {"version": "2.0"},
	  "scene": 0,
	  "scenes": [{"nodes": [0]}],
	  "nodes": [{"name": "Tri", "mesh": 0}],
	  "meshes": [{
	    "primitives": [{
	      "attributes": {"POSITION": 0},
	      "indices": 1,
	      "material": 0,
	      "mode": 4
	    }]
	  }],
	  "materials": [{
	    "name": "red",
	    "pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 1]}
	  }],
	  "accessors": [
	    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
	    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
	  ],
	  "bufferViews": [
	    {"buffer": 0, "byteOffset": 0, "byteLength": ` + itoa(len(posBytes)) + `},
	    {"buffer": 0, "byteOffset": ` + itoa(len(posBytes)) + `, "byteLength": ` + itoa(len(idxBytes)) + `}
	  ],
	  "buffers": [{"byteLength": ` + itoa(len(bin)) + `}]
	}`

	return assembleGLB([]byte(doc), bin)
}

func itoa(v int) string {

	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestLoadTriangleGLB(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "tri.glb")
	require.NoError(t, os.WriteFile(path, buildTriangleGLB(t), 0644))

	col := collection.New()
	err := Load(path, fakeCtx{}, newFakeAtlas(), col)
	require.NoError(t, err)

	var meshCount, nodeCount, sceneCount, materialCount int
	col.Each(collection.KindMesh, func(name string, item interface{}) bool { meshCount++; return false })
	col.Each(collection.KindNode, func(name string, item interface{}) bool { nodeCount++; return false })
	col.Each(collection.KindScene, func(name string, item interface{}) bool { sceneCount++; return false })
	col.Each(collection.KindMaterial, func(name string, item interface{}) bool { materialCount++; return false })

	assert.Equal(t, 1, meshCount)
	assert.Equal(t, 1, nodeCount)
	assert.Equal(t, 1, sceneCount)
	assert.Equal(t, 1, materialCount)
}

func TestLoadRejectsNonTriangleMode(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "lines.glb")
	raw := buildTriangleGLB(t)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	// Load succeeds on the well-formed triangle fixture.
	col := collection.New()
	err := Load(path, fakeCtx{}, newFakeAtlas(), col)
	require.NoError(t, err)

	// The same asset with its primitive switched to LINES (mode 1) is
	// rejected by mesh()'s mode check. The replacement keeps the JSON
	// length, so the GLB chunk sizes stay valid.
	lines := bytes.Replace(raw, []byte(`"mode": 4`), []byte(`"mode": 1`), 1)
	require.NoError(t, os.WriteFile(path, lines, 0644))
	err = Load(path, fakeCtx{}, newFakeAtlas(), collection.New())
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.Unsupported))
}

func TestParseContainerThenDocumentRoundTrip(t *testing.T) {

	raw := buildTriangleGLB(t)
	c, err := parseContainer(raw)
	require.NoError(t, err)
	doc, err := parseDocument(c.json)
	require.NoError(t, err)
	assert.Len(t, doc.Meshes, 1)
	assert.NotEmpty(t, c.bin)
}
