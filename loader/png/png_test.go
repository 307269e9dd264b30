// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vorn3d/engine/gpu"
)

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])

	body := append([]byte(typ), data...)
	buf.Write(body)

	crc := crc32.ChecksumIEEE(body)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	buf.Write(crcBuf[:])
}

// buildPNG synthesizes a minimal non-interlaced greyscale PNG of the
// given dimensions, every scanline tagged with the "none" filter and
// filled with fill.
func buildPNG(width, height int, fill byte) []byte {

	buf := &bytes.Buffer{}
	buf.Write(signature[:])

	var ihdrData [13]byte
	binary.BigEndian.PutUint32(ihdrData[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdrData[4:8], uint32(height))
	ihdrData[8] = 8 // bit depth
	ihdrData[9] = 0 // color type: greyscale
	writeChunk(buf, typeIHDR, ihdrData[:])

	raw := make([]byte, height*(1+width))
	for i := 0; i < height; i++ {
		row := raw[i*(1+width) : (i+1)*(1+width)]
		row[0] = 0
		for j := 1; j <= width; j++ {
			row[j] = fill
		}
	}

	idatBuf := &bytes.Buffer{}
	zw := zlib.NewWriter(idatBuf)
	zw.Write(raw)
	zw.Close()
	writeChunk(buf, typeIDAT, idatBuf.Bytes())

	writeChunk(buf, typeIEND, nil)
	return buf.Bytes()
}

func TestDecodeGreyscale(t *testing.T) {

	raw := buildPNG(4, 3, 200)
	data, err := Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, gpu.FormatR8, data.Format)
	assert.Equal(t, 4, data.Width)
	assert.Equal(t, 3, data.Height)
	assert.Equal(t, 12, len(data.Data))
	for _, b := range data.Data {
		assert.Equal(t, byte(200), b)
	}
}

func TestDecodeBadSignature(t *testing.T) {

	_, err := Decode(bytes.NewReader([]byte("not a png file")))
	assert.Error(t, err)
}

func TestDecodeBadCRC(t *testing.T) {

	raw := buildPNG(2, 2, 10)
	// corrupt a byte inside the IDAT chunk's data, leaving its CRC
	// stale, to exercise the checksum check in readChunk.
	idx := bytes.Index(raw, []byte(typeIDAT))
	raw[idx+5] ^= 0xff

	_, err := Decode(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestDecodeUnknownCriticalChunk(t *testing.T) {

	raw := buildPNG(2, 2, 10)
	// splice in an unknown critical chunk (uppercase first letter)
	// before IEND.
	iendIdx := bytes.Index(raw, []byte(typeIEND)) - 4
	extra := &bytes.Buffer{}
	writeChunk(extra, "FOOB", []byte{1, 2, 3})

	spliced := append([]byte{}, raw[:iendIdx]...)
	spliced = append(spliced, extra.Bytes()...)
	spliced = append(spliced, raw[iendIdx:]...)

	_, err := Decode(bytes.NewReader(spliced))
	assert.Error(t, err)
}

func TestInflateStoredBlock(t *testing.T) {

	payload := []byte("hello, deflate")
	zbuf := &bytes.Buffer{}
	zw, _ := zlib.NewWriterLevel(zbuf, zlib.NoCompression)
	zw.Write(payload)
	zw.Close()

	out, err := inflate(zbuf.Bytes(), len(payload))
	assert.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestInflateDynamicHuffman(t *testing.T) {

	payload := bytes.Repeat([]byte("abcabcabcabcabcabc "), 50)
	zbuf := &bytes.Buffer{}
	zw := zlib.NewWriter(zbuf)
	zw.Write(payload)
	zw.Close()

	out, err := inflate(zbuf.Bytes(), len(payload))
	assert.NoError(t, err)
	assert.Equal(t, payload, out)
}
