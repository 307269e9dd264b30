// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/vorn3d/engine/errkind"
)

// bufferSource resolves a glTF buffer's bytes on demand and caches the
// result — a buffer's URI is read at most once per load even if several
// accessors reference it through different bufferViews.
type bufferSource struct {
	doc     *document
	dir     string // directory the container file lives in, for relative URIs
	glbBin  []byte // embedded .glb binary chunk, nil for a .gltf document
	loaded  map[int][]byte
}

func newBufferSource(doc *document, dir string, glbBin []byte) *bufferSource {

	return &bufferSource{doc: doc, dir: dir, glbBin: glbBin, loaded: make(map[int][]byte)}
}

// bytes returns buffer i's full contents, reading and caching it on
// first use.
func (s *bufferSource) bytes(i int) ([]byte, error) {

	if b, ok := s.loaded[i]; ok {
		return b, nil
	}
	if i < 0 || i >= len(s.doc.Buffers) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: buffer index %d out of range", i)
	}
	buf := s.doc.Buffers[i]

	var data []byte
	switch {
	case buf.Uri == "":
		if s.glbBin == nil {
			return nil, errkind.New(errkind.InvalidFile, "gltf: buffer %d has no uri and no binary chunk", i)
		}
		data = s.glbBin
	default:
		path := buf.Uri
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errkind.Wrap(errkind.NoFile, err, "gltf: read buffer %q", buf.Uri)
		}
		data = raw
	}

	if buf.ByteLength > 0 && len(data) < buf.ByteLength {
		return nil, errkind.New(errkind.InvalidFile, "gltf: buffer %d shorter than byteLength", i)
	}
	s.loaded[i] = data
	return data, nil
}

// view returns the byte range addressed by bufferView i.
func (s *bufferSource) view(i int) ([]byte, bufferView, error) {

	if i < 0 || i >= len(s.doc.BufferViews) {
		return nil, bufferView{}, errkind.New(errkind.InvalidFile, "gltf: bufferView index %d out of range", i)
	}
	bv := s.doc.BufferViews[i]
	buf, err := s.bytes(bv.Buffer)
	if err != nil {
		return nil, bufferView{}, err
	}
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(buf) {
		return nil, bufferView{}, errkind.New(errkind.InvalidFile, "gltf: bufferView %d out of buffer bounds", i)
	}
	return buf[bv.ByteOffset:end], bv, nil
}

// componentSize returns the byte size of one scalar component of the
// given accessor componentType.
func componentSize(componentType int) (int, error) {

	switch componentType {
	case compByte, compUnsignedByte:
		return 1, nil
	case compShort, compUnsignedShort:
		return 2, nil
	case compUnsignedInt, compFloat:
		return 4, nil
	default:
		return 0, errkind.New(errkind.Unsupported, "gltf: unsupported component type %d", componentType)
	}
}

// readFloats reads accessor i as count*components float32 values,
// applying normalized integer-to-float conversion when the accessor
// requests it. byteStride, when non-zero, is honoured by reading one
// element at a time at its own offset (scatter-read) rather than
// assuming tight packing.
func (s *bufferSource) readFloats(acc accessor) ([]float32, error) {

	components, ok := typeComponents[acc.Type]
	if !ok {
		return nil, errkind.New(errkind.Unsupported, "gltf: unsupported accessor type %q", acc.Type)
	}
	compSz, err := componentSize(acc.ComponentType)
	if err != nil {
		return nil, err
	}
	elemSz := components * compSz

	if acc.BufferView == nil {
		return make([]float32, acc.Count*components), nil
	}
	data, bv, err := s.view(*acc.BufferView)
	if err != nil {
		return nil, err
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSz
	}

	out := make([]float32, acc.Count*components)
	for e := 0; e < acc.Count; e++ {
		base := acc.ByteOffset + e*stride
		if base+elemSz > len(data) {
			return nil, errkind.New(errkind.InvalidFile, "gltf: accessor read past bufferView end")
		}
		for c := 0; c < components; c++ {
			off := base + c*compSz
			v, err := readComponent(data[off:], acc.ComponentType, acc.Normalized)
			if err != nil {
				return nil, err
			}
			out[e*components+c] = v
		}
	}
	return out, nil
}

// readIndices reads accessor i (expected type SCALAR) as a []uint32
// index list, whatever its unsigned integer componentType.
func (s *bufferSource) readIndices(acc accessor) ([]uint32, error) {

	if acc.Type != "SCALAR" {
		return nil, errkind.New(errkind.Unsupported, "gltf: index accessor type %q", acc.Type)
	}
	compSz, err := componentSize(acc.ComponentType)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType == compFloat {
		return nil, errkind.New(errkind.Unsupported, "gltf: float index accessor")
	}

	if acc.BufferView == nil {
		return make([]uint32, acc.Count), nil
	}
	data, bv, err := s.view(*acc.BufferView)
	if err != nil {
		return nil, err
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = compSz
	}

	out := make([]uint32, acc.Count)
	for e := 0; e < acc.Count; e++ {
		base := acc.ByteOffset + e*stride
		if base+compSz > len(data) {
			return nil, errkind.New(errkind.InvalidFile, "gltf: index accessor read past bufferView end")
		}
		switch acc.ComponentType {
		case compUnsignedByte:
			out[e] = uint32(data[base])
		case compUnsignedShort:
			out[e] = uint32(binary.LittleEndian.Uint16(data[base:]))
		case compUnsignedInt:
			out[e] = binary.LittleEndian.Uint32(data[base:])
		default:
			return nil, errkind.New(errkind.Unsupported, "gltf: index component type %d", acc.ComponentType)
		}
	}
	return out, nil
}

// readComponent decodes one scalar component at the front of b per
// componentType, applying glTF's normalized integer-to-[0,1]/[-1,1]
// mapping when normalized is set.
func readComponent(b []byte, componentType int, normalized bool) (float32, error) {

	switch componentType {
	case compFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case compByte:
		v := int8(b[0])
		if normalized {
			return float32(math.Max(float64(v)/127, -1)), nil
		}
		return float32(v), nil
	case compUnsignedByte:
		v := b[0]
		if normalized {
			return float32(v) / 255, nil
		}
		return float32(v), nil
	case compShort:
		v := int16(binary.LittleEndian.Uint16(b))
		if normalized {
			return float32(math.Max(float64(v)/32767, -1)), nil
		}
		return float32(v), nil
	case compUnsignedShort:
		v := binary.LittleEndian.Uint16(b)
		if normalized {
			return float32(v) / 65535, nil
		}
		return float32(v), nil
	case compUnsignedInt:
		v := binary.LittleEndian.Uint32(b)
		if normalized {
			return float32(float64(v) / 4294967295), nil
		}
		return float32(v), nil
	default:
		return 0, errkind.New(errkind.Unsupported, "gltf: unsupported component type %d", componentType)
	}
}
