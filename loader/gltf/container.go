// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"encoding/binary"

	"github.com/vorn3d/engine/errkind"
)

// container holds the JSON document text and, for a .glb source, the
// embedded binary chunk — the pair parseContainer extracts regardless
// of which of the two file shapes it read.
type container struct {
	json []byte
	bin  []byte // nil for a .gltf source
}

// parseContainer sniffs raw for the GLB magic and either unwraps its
// chunk structure or treats raw as a bare JSON document.
func parseContainer(raw []byte) (container, error) {

	if len(raw) >= 4 && binary.LittleEndian.Uint32(raw[0:4]) == glbMagic {
		return parseGLB(raw)
	}
	return container{json: raw}, nil
}

// glb header/chunk layout: 12-byte header (magic, version, total
// length) followed by one or more 8-byte-prefixed chunks. This loader
// only looks at the first JSON chunk and the first BIN chunk, which is
// all the format requires a conforming writer to emit.
func parseGLB(raw []byte) (container, error) {

	if len(raw) < 12 {
		return container{}, errkind.New(errkind.InvalidFile, "gltf: glb header truncated")
	}
	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != 2 {
		return container{}, errkind.New(errkind.Unsupported, "gltf: glb version %d", version)
	}
	total := binary.LittleEndian.Uint32(raw[8:12])
	if int(total) > len(raw) {
		return container{}, errkind.New(errkind.InvalidFile, "gltf: glb declared length exceeds file size")
	}

	var c container
	pos := 12
	for pos+8 <= int(total) {
		chunkLen := int(binary.LittleEndian.Uint32(raw[pos : pos+4]))
		chunkType := binary.LittleEndian.Uint32(raw[pos+4 : pos+8])
		start := pos + 8
		end := start + chunkLen
		if end > int(total) {
			return container{}, errkind.New(errkind.InvalidFile, "gltf: glb chunk exceeds declared length")
		}

		switch chunkType {
		case glbChunkJSON:
			if c.json == nil {
				c.json = raw[start:end]
			}
		case glbChunkBIN:
			if c.bin == nil {
				c.bin = raw[start:end]
			}
		}
		pos = end
	}

	if c.json == nil {
		return container{}, errkind.New(errkind.InvalidFile, "gltf: glb has no JSON chunk")
	}
	return c, nil
}
