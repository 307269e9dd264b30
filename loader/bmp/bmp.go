// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bmp decodes the legacy Windows BMP formats the engine still
// accepts as a secondary texture source: BITMAPFILEHEADER followed by
// a BITMAPINFOHEADER (40 bytes), a V4 header (108) or a V5 header
// (124), at bit depths 8/16/24/32, RGB or BITFIELDS compression, in
// either bottom-up or top-down scanline order.
package bmp

import (
	"bytes"
	"encoding/binary"
	"image"
	_ "golang.org/x/image/bmp"
	"io"

	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/texture"
	"github.com/vorn3d/engine/util/logger"
)

var log = logger.New("BMP", nil)

const (
	bmpType      = 0x4d42
	comprRGB     = 0
	comprBitFld  = 3
	fileHeaderSz = 14
	infoHeaderSz = 40
	v4HeaderSz   = 108
	v5HeaderSz   = 124
)

type header struct {
	dataOff               uint32
	width, height         int32
	bpp                   uint16
	compression           uint32
	ciN                   uint32
	maskR, maskG, maskB, maskA uint32
}

// Decode reads one BMP image into a texture-data descriptor. If the
// primary from-scratch reader encounters a feature it does not
// implement (a bit depth or compression mode outside the set above),
// it falls back to golang.org/x/image/bmp, which covers the wider BMP
// family at the cost of not sharing this package's texture-data shape
// directly — the fallback result is converted into one.
func Decode(r io.Reader) (*texture.TextureData, error) {

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidFile, err, "bmp: read source")
	}

	data, err := decodePrimary(raw)
	if err == nil {
		return data, nil
	}
	if !errkind.Is(err, errkind.Unsupported) {
		return nil, err
	}

	log.Info("falling back to golang.org/x/image/bmp: %v", err)
	img, _, fbErr := image.Decode(bytes.NewReader(raw))
	if fbErr != nil {
		return nil, errkind.Wrap(errkind.InvalidFile, fbErr, "bmp: fallback decode")
	}
	return fromImage(img), nil
}

func decodePrimary(raw []byte) (*texture.TextureData, error) {

	if len(raw) < fileHeaderSz+4 {
		return nil, errkind.New(errkind.InvalidFile, "bmp: truncated file header")
	}
	if binary.LittleEndian.Uint16(raw[0:2]) != bmpType {
		return nil, errkind.New(errkind.InvalidFile, "bmp: bad signature")
	}
	dataOff := binary.LittleEndian.Uint32(raw[10:14])
	hdrSz := binary.LittleEndian.Uint32(raw[14:18])

	var hdr header
	hdr.dataOff = dataOff

	body := raw[18:]
	switch hdrSz {
	case infoHeaderSz:
		if len(body) < int(infoHeaderSz-4) {
			return nil, errkind.New(errkind.InvalidFile, "bmp: truncated BITMAPINFOHEADER")
		}
		hdr.width = int32(binary.LittleEndian.Uint32(body[0:4]))
		hdr.height = int32(binary.LittleEndian.Uint32(body[4:8]))
		hdr.bpp = binary.LittleEndian.Uint16(body[10:12])
		hdr.compression = binary.LittleEndian.Uint32(body[12:16])
		hdr.ciN = binary.LittleEndian.Uint32(body[28:32])
		switch hdr.compression {
		case comprRGB:
		case comprBitFld:
			masks := body[int(infoHeaderSz-4):]
			if len(masks) < 12 {
				return nil, errkind.New(errkind.InvalidFile, "bmp: truncated BITFIELDS masks")
			}
			hdr.maskR = binary.LittleEndian.Uint32(masks[0:4])
			hdr.maskG = binary.LittleEndian.Uint32(masks[4:8])
			hdr.maskB = binary.LittleEndian.Uint32(masks[8:12])
		default:
			return nil, errkind.New(errkind.Unsupported, "bmp: unsupported compression %d", hdr.compression)
		}

	case v4HeaderSz, v5HeaderSz:
		if len(body) < int(hdrSz-4) {
			return nil, errkind.New(errkind.InvalidFile, "bmp: truncated V4/V5 header")
		}
		hdr.width = int32(binary.LittleEndian.Uint32(body[0:4]))
		hdr.height = int32(binary.LittleEndian.Uint32(body[4:8]))
		hdr.bpp = binary.LittleEndian.Uint16(body[10:12])
		hdr.compression = binary.LittleEndian.Uint32(body[12:16])
		hdr.ciN = binary.LittleEndian.Uint32(body[28:32])
		hdr.maskR = binary.LittleEndian.Uint32(body[32:36])
		hdr.maskG = binary.LittleEndian.Uint32(body[36:40])
		hdr.maskB = binary.LittleEndian.Uint32(body[40:44])
		if hdr.bpp == 16 || hdr.bpp == 32 {
			hdr.maskA = binary.LittleEndian.Uint32(body[44:48])
		}
		switch hdr.compression {
		case comprRGB, comprBitFld:
		default:
			return nil, errkind.New(errkind.Unsupported, "bmp: unsupported compression %d", hdr.compression)
		}

	default:
		return nil, errkind.New(errkind.Unsupported, "bmp: unsupported header size %d", hdrSz)
	}

	if hdr.width <= 0 || hdr.height == 0 {
		return nil, errkind.New(errkind.InvalidFile, "bmp: invalid dimensions")
	}

	switch hdr.bpp {
	case 8, 16, 24, 32:
	default:
		return nil, errkind.New(errkind.Unsupported, "bmp: unsupported bit depth %d", hdr.bpp)
	}

	return decodePixels(raw, hdr)
}

func decodePixels(raw []byte, hdr header) (*texture.TextureData, error) {

	width := int(hdr.width)
	height := int(hdr.height)
	flip := height < 0
	if flip {
		height = -height
	}

	channels := 3
	if hdr.maskA != 0 {
		channels = 4
	}
	out := make([]byte, channels*width*height)

	// Scanlines are stored bottom-up unless the height is negative
	// (top-down); rowAt maps a storage-order row index to its
	// destination row in out.
	rowAt := func(i int) int {
		if flip {
			return i
		}
		return height - 1 - i
	}

	off := int(hdr.dataOff)

	switch hdr.bpp {
	case 8:
		ciN := hdr.ciN
		if ciN == 0 {
			ciN = 256
		}
		palette := raw[off : off+int(ciN)*4]
		off += int(ciN) * 4
		padding := 0
		if width&3 != 0 {
			padding = 4 - (width & 3)
		}
		sclnSz := width + padding
		for i := 0; i < height; i++ {
			row := raw[off : off+sclnSz]
			off += sclnSz
			dst := rowAt(i) * channels * width
			for j := 0; j < width; j++ {
				idx := int(row[j]) * 4
				// stored BGRX in the palette
				out[dst+j*channels+0] = palette[idx+2]
				out[dst+j*channels+1] = palette[idx+1]
				out[dst+j*channels+2] = palette[idx+0]
			}
		}

	case 16:
		maskR, maskG, maskB, maskA := hdr.maskR, hdr.maskG, hdr.maskB, hdr.maskA
		if hdr.compression == comprRGB {
			maskR, maskG, maskB = 0x7c00, 0x03e0, 0x001f
		}
		lshf := [4]uint{lowestSetBit(maskR), lowestSetBit(maskG), lowestSetBit(maskB), lowestSetBit(maskA)}
		bitn := [4]uint{bitCount(maskR, lshf[0]), bitCount(maskG, lshf[1]), bitCount(maskB, lshf[2]), bitCount(maskA, lshf[3])}
		masks := [4]uint32{maskR, maskG, maskB, maskA}

		padding := (width & 1) * 2
		sclnSz := width*2 + padding
		for i := 0; i < height; i++ {
			row := raw[off : off+sclnSz]
			off += sclnSz
			dst := rowAt(i) * channels * width
			for j := 0; j < width; j++ {
				pix := binary.LittleEndian.Uint16(row[j*2 : j*2+2])
				for k := 0; k < channels; k++ {
					if masks[k] == 0 {
						continue
					}
					comp := (uint32(pix) & masks[k]) >> lshf[k]
					diff := uint(8)
					if 8-bitn[k] < diff {
						diff = 8 - bitn[k]
					}
					scale := uint32(1) << diff
					out[dst+j*channels+k] = byte(comp*scale + comp%scale)
				}
			}
		}

	case 24:
		if hdr.compression != comprRGB {
			return nil, errkind.New(errkind.Unsupported, "bmp: 24bpp requires RGB compression")
		}
		padding := width % 4
		sclnSz := 3*width + padding
		for i := 0; i < height; i++ {
			row := raw[off : off+sclnSz]
			off += sclnSz
			dst := rowAt(i) * channels * width
			for j := 0; j < width; j++ {
				out[dst+j*3+0] = row[j*3+2]
				out[dst+j*3+1] = row[j*3+1]
				out[dst+j*3+2] = row[j*3+0]
			}
		}

	case 32:
		maskR, maskG, maskB := hdr.maskR, hdr.maskG, hdr.maskB
		if hdr.compression == comprRGB {
			maskR, maskG, maskB = 0x00ff0000, 0x0000ff00, 0x000000ff
		}
		lshf := [4]uint{lowestSetBit(maskR), lowestSetBit(maskG), lowestSetBit(maskB), lowestSetBit(hdr.maskA)}
		masks := [4]uint32{maskR, maskG, maskB, hdr.maskA}
		sclnSz := width * 4
		for i := 0; i < height; i++ {
			row := raw[off : off+sclnSz]
			off += sclnSz
			dst := rowAt(i) * channels * width
			for j := 0; j < width; j++ {
				pix := binary.LittleEndian.Uint32(row[j*4 : j*4+4])
				for k := 0; k < channels; k++ {
					if masks[k] == 0 {
						continue
					}
					out[dst+j*channels+k] = byte((pix & masks[k]) >> lshf[k])
				}
			}
		}
	}

	pixfmt := gpu.FormatRGB8
	if channels == 4 {
		pixfmt = gpu.FormatRGBA8
	}

	return &texture.TextureData{
		Format: pixfmt,
		Width:  width,
		Height: height,
		Data:   out,
		UVSet:  0,
	}, nil
}

func lowestSetBit(mask uint32) uint {

	if mask == 0 {
		return 0
	}
	var n uint
	for mask&(1<<n) == 0 {
		n++
	}
	return n
}

func bitCount(mask uint32, lshf uint) uint {

	n := uint(32)
	for n > lshf && mask&(1<<(n-1)) == 0 {
		n--
	}
	return n - lshf
}

// fromImage converts an x/image/bmp fallback decode into the engine's
// texture-data descriptor.
func fromImage(img image.Image) *texture.TextureData {

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	o := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out[o] = byte(r >> 8)
			out[o+1] = byte(g >> 8)
			out[o+2] = byte(bl >> 8)
			out[o+3] = byte(a >> 8)
			o += 4
		}
	}
	return &texture.TextureData{
		Format: gpu.FormatRGBA8,
		Width:  w,
		Height: h,
		Data:   out,
		UVSet:  0,
	}
}
