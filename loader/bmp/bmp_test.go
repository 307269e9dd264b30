// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vorn3d/engine/gpu"
)

// buildBMP24 synthesizes a minimal uncompressed 24bpp, bottom-up BMP
// of the given width/height filled with the given BGR pixel.
func buildBMP24(width, height int, b, g, r byte) []byte {

	padding := width % 4
	sclnSz := 3*width + padding
	pixelData := make([]byte, sclnSz*height)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			off := i*sclnSz + j*3
			pixelData[off+0] = b
			pixelData[off+1] = g
			pixelData[off+2] = r
		}
	}

	dataOff := uint32(14 + 40)
	fileSz := dataOff + uint32(len(pixelData))

	buf := &bytes.Buffer{}
	buf.WriteByte('B')
	buf.WriteByte('M')
	binary.Write(buf, binary.LittleEndian, fileSz)
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, dataOff)

	binary.Write(buf, binary.LittleEndian, uint32(40))
	binary.Write(buf, binary.LittleEndian, int32(width))
	binary.Write(buf, binary.LittleEndian, int32(height))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(24))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, uint32(len(pixelData)))
	binary.Write(buf, binary.LittleEndian, int32(2835))
	binary.Write(buf, binary.LittleEndian, int32(2835))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, uint32(0))

	buf.Write(pixelData)
	return buf.Bytes()
}

func TestDecode24bpp(t *testing.T) {

	raw := buildBMP24(4, 3, 10, 20, 30)
	data, err := Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, gpu.FormatRGB8, data.Format)
	assert.Equal(t, 4, data.Width)
	assert.Equal(t, 3, data.Height)
	assert.Equal(t, 30, int(data.Data[0]))
	assert.Equal(t, 20, int(data.Data[1]))
	assert.Equal(t, 10, int(data.Data[2]))
}

func TestDecodeTopDown(t *testing.T) {

	// a negative height flips the image to top-down storage order;
	// the first pixel read from the file should land in the first
	// output row rather than the last.
	raw := buildBMP24(2, 2, 1, 2, 3)
	binary.LittleEndian.PutUint32(raw[22:26], uint32(int32(-2)))

	data, err := Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, 2, data.Height)
	assert.Equal(t, byte(3), data.Data[0])
}

func TestDecodeBadSignature(t *testing.T) {

	_, err := Decode(bytes.NewReader([]byte("not a bmp file at all")))
	assert.Error(t, err)
}

func TestDecodeTruncated(t *testing.T) {

	raw := buildBMP24(4, 3, 10, 20, 30)
	_, err := Decode(bytes.NewReader(raw[:20]))
	assert.Error(t, err)
}
