// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package png decodes the PNG subset the engine accepts as a texture
// source: critical chunks only (IHDR, PLTE, IDAT, IEND), non-interlaced,
// bit depths {1,2,4,8,16} and the five standard colour types. Decoding
// is entirely hand-rolled — signature and chunk framing, CRC32
// verification, the DEFLATE decompressor and the five scanline filters
// — down to the texture-data descriptor the rest of the engine expects.
package png

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/texture"
	"github.com/vorn3d/engine/util/logger"
)

var log = logger.New("PNG", nil)

var signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

const (
	typeIHDR = "IHDR"
	typePLTE = "PLTE"
	typeIDAT = "IDAT"
	typeIEND = "IEND"
)

type ihdr struct {
	width, height         uint32
	bitDepth, colorType   byte
	compression, filter   byte
	interlace             byte
}

const ihdrSize = 13

// Decode reads one PNG image into a texture-data descriptor ready for
// texture.New. The interlace flag, if set, fails with Unsupported —
// Adam7 deinterlacing is not implemented.
func Decode(r io.Reader) (*texture.TextureData, error) {

	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil || sig != signature {
		return nil, errkind.New(errkind.InvalidFile, "png: not a PNG file")
	}

	typ, data, err := readChunk(r)
	if err != nil {
		return nil, err
	}
	if typ != typeIHDR || len(data) != ihdrSize {
		return nil, errkind.New(errkind.InvalidFile, "png: missing IHDR chunk")
	}
	hdr := ihdr{
		width:       binary.BigEndian.Uint32(data[0:4]),
		height:      binary.BigEndian.Uint32(data[4:8]),
		bitDepth:    data[8],
		colorType:   data[9],
		compression: data[10],
		filter:      data[11],
		interlace:   data[12],
	}
	if err := validateIHDR(hdr); err != nil {
		return nil, err
	}
	if hdr.interlace != 0 {
		return nil, errkind.New(errkind.Unsupported, "png: interlaced images are not supported")
	}

	var plte []byte
	var idat []byte

	for {
		typ, data, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		switch typ {
		case typeIEND:
			goto decode
		case typePLTE:
			if hdr.colorType == 0 || hdr.colorType == 4 || len(data)%3 != 0 || plte != nil || idat != nil {
				return nil, errkind.New(errkind.InvalidFile, "png: misplaced or invalid PLTE chunk")
			}
			plte = data
		case typeIDAT:
			idat = append(idat, data...)
		default:
			if typ[0] < 'a' {
				log.Warn("unsupported critical chunk %q", typ)
				return nil, errkind.New(errkind.Unsupported, "png: unsupported critical chunk %q", typ)
			}
			// unknown ancillary chunk, skip
		}
	}

decode:
	if idat == nil {
		return nil, errkind.New(errkind.InvalidFile, "png: missing IDAT data")
	}
	return decodeTexture(hdr, plte, idat)
}

// DecodeImage decodes like Decode but converts the result into the
// standard library's image.Image, for callers that only need pixel
// access (e.g. glyph atlases) and not a GPU-ready descriptor.
func DecodeImage(r io.Reader) (image.Image, error) {

	data, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return toImage(data)
}

func validateIHDR(h ihdr) error {

	if h.width == 0 || h.height == 0 {
		return errkind.New(errkind.InvalidFile, "png: zero image dimension")
	}
	switch h.bitDepth {
	case 1, 2, 4, 8, 16:
	default:
		return errkind.New(errkind.InvalidFile, "png: invalid bit depth %d", h.bitDepth)
	}
	switch h.colorType {
	case 0, 2, 3, 4, 6:
	default:
		return errkind.New(errkind.InvalidFile, "png: invalid colour type %d", h.colorType)
	}
	if h.compression != 0 || h.filter != 0 || h.interlace > 1 {
		return errkind.New(errkind.InvalidFile, "png: invalid IHDR field")
	}
	return nil
}

// readChunk reads one length-prefixed, CRC-checked chunk. The returned
// type is a 4-byte ASCII tag such as "IHDR".
func readChunk(r io.Reader) (string, []byte, error) {

	var head [8]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return "", nil, errkind.Wrap(errkind.InvalidFile, err, "png: truncated chunk header")
	}
	length := binary.BigEndian.Uint32(head[0:4])
	typeBytes := head[4:8]

	body := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return "", nil, errkind.Wrap(errkind.InvalidFile, err, "png: truncated chunk body")
		}
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return "", nil, errkind.Wrap(errkind.InvalidFile, err, "png: truncated chunk CRC")
	}
	crc := binary.BigEndian.Uint32(crcBuf[:])

	check := make([]byte, 4+length)
	copy(check, typeBytes)
	copy(check[4:], body)
	if checksum(check) != crc {
		return "", nil, errkind.New(errkind.InvalidFile, "png: chunk CRC mismatch")
	}

	return string(typeBytes), body, nil
}

// decodeTexture inflates the concatenated IDAT stream, reverses the
// per-scanline filter, applies colour-type-specific post-processing and
// maps the result onto the engine's pixel-format enum.
func decodeTexture(hdr ihdr, plte, idat []byte) (*texture.TextureData, error) {

	width, height := int(hdr.width), int(hdr.height)
	bitDepth := int(hdr.bitDepth)

	var pixfmt gpu.PixelFormat
	var storedChannels int

	switch hdr.colorType {
	case 0:
		storedChannels = 1
		if bitDepth == 16 {
			pixfmt = gpu.FormatR16
		} else {
			pixfmt = gpu.FormatR8
		}
	case 2:
		storedChannels = 3
		switch bitDepth {
		case 8:
			pixfmt = gpu.FormatRGB8
		case 16:
			pixfmt = gpu.FormatRGB16
		default:
			return nil, errkind.New(errkind.InvalidFile, "png: unsupported bit depth for RGB")
		}
	case 3:
		if plte == nil {
			return nil, errkind.New(errkind.InvalidFile, "png: palette image with no PLTE chunk")
		}
		storedChannels = 1
		pixfmt = gpu.FormatRGB8
	case 4:
		storedChannels = 2
		switch bitDepth {
		case 8:
			pixfmt = gpu.FormatRG8
		case 16:
			pixfmt = gpu.FormatRG16
		default:
			return nil, errkind.New(errkind.InvalidFile, "png: unsupported bit depth for grey+alpha")
		}
	case 6:
		storedChannels = 4
		switch bitDepth {
		case 8:
			pixfmt = gpu.FormatRGBA8
		case 16:
			pixfmt = gpu.FormatRGBA16
		default:
			return nil, errkind.New(errkind.InvalidFile, "png: unsupported bit depth for RGBA")
		}
	}

	// Every colour type's row width in bits is storedChannels*bitDepth per
	// pixel, including palette indices (one component per pixel regardless
	// of index width) — the same formula applies uniformly.
	sclnSz := 1 + ((width*storedChannels*bitDepth + 7) >> 3)
	bufSz := sclnSz * height

	buf, err := inflate(idat, bufSz)
	if err != nil {
		return nil, err
	}

	bypp := (storedChannels * bitDepth) >> 3
	if bypp < 1 {
		bypp = 1
	}
	if err := defilter(buf, sclnSz, height, bypp); err != nil {
		return nil, err
	}

	out := postProcess(buf, hdr, plte, width, height, bitDepth, sclnSz)

	return &texture.TextureData{
		Format: pixfmt,
		Width:  width,
		Height: height,
		Data:   out,
		UVSet:  0,
	}, nil
}

// defilter reverses the PNG scanline filters in place. Filter tag bytes
// stay in buf; postProcess strips them per colour type.
func defilter(buf []byte, sclnSz, height, bypp int) error {

	for i := 0; i < height; i++ {
		row := i * sclnSz
		tag := buf[row]

		switch tag {
		case 0: // none
		case 1: // sub
			for j := row + 1 + bypp; j < row+sclnSz; j++ {
				buf[j] += buf[j-bypp]
			}
		case 2: // up
			if i == 0 {
				continue
			}
			for j := row + 1; j < row+sclnSz; j++ {
				buf[j] += buf[j-sclnSz]
			}
		case 3: // average
			for j := row + 1; j < row+sclnSz; j++ {
				var a, b int
				if j-row > bypp {
					a = int(buf[j-bypp])
				}
				if i > 0 {
					b = int(buf[j-sclnSz])
				}
				buf[j] += byte((a + b) >> 1)
			}
		case 4: // paeth
			for j := row + 1; j < row+sclnSz; j++ {
				var a, b, c int
				if j-row > bypp {
					a = int(buf[j-bypp])
				}
				if i > 0 {
					b = int(buf[j-sclnSz])
				}
				if i > 0 && j-row > bypp {
					c = int(buf[j-sclnSz-bypp])
				}
				buf[j] += byte(paeth(a, b, c))
			}
		default:
			return errkind.New(errkind.InvalidFile, "png: invalid filter type %d", tag)
		}
	}
	return nil
}

func paeth(a, b, c int) int {

	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {

	if v < 0 {
		return -v
	}
	return v
}

// postProcess strips filter tags, expands palette indices, unpacks
// sub-byte greyscale and byte-swaps 16-bit channels to native order.
func postProcess(buf []byte, hdr ihdr, plte []byte, width, height, bitDepth, sclnSz int) []byte {

	switch {
	case hdr.colorType == 3:
		out := make([]byte, width*height*3)
		o := 0
		for i := 0; i < height; i++ {
			row := i*sclnSz + 1
			bitOff := 0
			byteOff := 0
			for j := 0; j < width; j++ {
				idx := (buf[row+byteOff] >> uint(8-bitDepth-bitOff)) & byte((1<<uint(bitDepth))-1)
				copy(out[o:o+3], plte[int(idx)*3:int(idx)*3+3])
				o += 3
				bitOff += bitDepth
				byteOff += bitOff / 8
				bitOff %= 8
			}
		}
		return out

	case bitDepth < 8:
		out := make([]byte, width*height)
		o := 0
		for i := 0; i < height; i++ {
			row := i*sclnSz + 1
			bitOff := 0
			byteOff := 0
			for j := 0; j < width; j++ {
				out[o] = (buf[row+byteOff] >> uint(8-bitDepth-bitOff)) & byte((1<<uint(bitDepth))-1)
				o++
				bitOff += bitDepth
				byteOff += bitOff / 8
				bitOff %= 8
			}
		}
		return out

	default:
		rowBytes := sclnSz - 1
		out := make([]byte, rowBytes*height)
		for i := 0; i < height; i++ {
			copy(out[i*rowBytes:], buf[i*sclnSz+1:i*sclnSz+sclnSz])
		}
		if bitDepth == 16 {
			for i := 0; i+1 < len(out); i += 2 {
				out[i], out[i+1] = out[i+1], out[i]
			}
		}
		return out
	}
}

// toImage converts a decoded texture-data descriptor into a standard
// library image.Image for callers outside the GPU upload path.
func toImage(d *texture.TextureData) (image.Image, error) {

	switch d.Format {
	case gpu.FormatRGBA8:
		img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
		copy(img.Pix, d.Data)
		return img, nil
	case gpu.FormatRGB8:
		img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
		for i := 0; i < d.Width*d.Height; i++ {
			img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2] = d.Data[i*3], d.Data[i*3+1], d.Data[i*3+2]
			img.Pix[i*4+3] = 255
		}
		return img, nil
	case gpu.FormatR8:
		img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
		copy(img.Pix, d.Data)
		return img, nil
	case gpu.FormatRG8:
		img := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
		for i := 0; i < d.Width*d.Height; i++ {
			g := d.Data[i*2]
			img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2] = g, g, g
			img.Pix[i*4+3] = d.Data[i*2+1]
		}
		return img, nil
	default:
		return nil, errkind.New(errkind.Unsupported, "png: no image.Image conversion for format %v", d.Format)
	}
}
