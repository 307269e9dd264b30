// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package png

import "github.com/vorn3d/engine/errkind"

// huffNode is one node of a Huffman code tree: an internal node carries
// the indices of its two children, a leaf carries the decoded symbol.
type huffNode struct {
	leaf  bool
	value uint32
	next  [2]uint16
}

// buildHuffmanTree turns a sequence of per-symbol code lengths (the
// canonical-Huffman convention DEFLATE uses for all three of its
// alphabets) into a bit-by-bit decode tree rooted at index 0.
func buildHuffmanTree(lengths []byte) ([]huffNode, error) {

	lenMax := 0
	for _, l := range lengths {
		if int(l) > lenMax {
			lenMax = int(l)
		}
	}
	if lenMax == 0 {
		return nil, errkind.New(errkind.InvalidFile, "png: empty Huffman alphabet")
	}

	lenCount := make([]int, lenMax+1)
	for _, l := range lengths {
		lenCount[l]++
	}

	nextCode := make([]uint32, lenMax+1)
	code := uint32(0)
	for bits := 1; bits <= lenMax; bits++ {
		code = (code + uint32(lenCount[bits-1])) << 1
		nextCode[bits] = code
	}

	codes := make([]uint32, len(lengths))
	codeN := 0
	for i, l := range lengths {
		if l != 0 {
			codes[i] = nextCode[l]
			nextCode[l]++
			codeN++
		}
	}

	tree := make([]huffNode, 2*codeN+1)
	idx := 0
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		cur := 0
		for j := int(l) - 1; j >= 0; j-- {
			bit := (codes[i] >> uint(j)) & 1
			if tree[cur].next[bit] == 0 {
				idx++
				tree[cur].next[bit] = uint16(idx)
			}
			cur = int(tree[cur].next[bit])
		}
		tree[idx].leaf = true
		tree[idx].value = uint32(i)
	}

	return tree, nil
}

// bitReader walks a byte slice LSB-first, the bit order DEFLATE packs
// its stream in. Reading past the end sets overflowed rather than
// panicking, so a truncated stream surfaces as a decode error.
type bitReader struct {
	data       []byte
	off, bitOff int
	overflowed bool
}

func (r *bitReader) nextBit() uint32 {

	if r.off >= len(r.data) {
		r.overflowed = true
		return 0
	}
	b := uint32((r.data[r.off] >> uint(r.bitOff)) & 1)
	r.bitOff++
	if r.bitOff == 8 {
		r.bitOff = 0
		r.off++
	}
	return b
}

func (r *bitReader) nextBits(n int) uint32 {

	var v uint32
	for i := 0; i < n; i++ {
		v |= r.nextBit() << uint(i)
	}
	return v
}

func (r *bitReader) align() {

	if r.bitOff != 0 {
		r.bitOff = 0
		r.off++
	}
}

var fixedLengths = func() []byte {
	l := make([]byte, 288+32)
	for i := 0; i < 144; i++ {
		l[i] = 8
	}
	for i := 144; i < 256; i++ {
		l[i] = 9
	}
	for i := 256; i < 280; i++ {
		l[i] = 7
	}
	for i := 280; i < 288; i++ {
		l[i] = 8
	}
	for i := 288; i < 320; i++ {
		l[i] = 5
	}
	return l
}()

var clenMap = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// decodeBlock decodes one Huffman-coded DEFLATE block's literal/length
// and <length, distance> back-reference stream into buf starting at
// bufOff, returning the new offset once the end-of-block symbol (256)
// is read. Back-references may copy from a distance smaller than their
// own length, the overlapping-copy idiom LZ77 relies on.
func decodeBlock(br *bitReader, buf []byte, bufOff int, literal, distance []huffNode) (int, error) {

	for {
		idx := 0
		for !literal[idx].leaf {
			idx = int(literal[idx].next[br.nextBit()])
		}
		val := literal[idx].value

		switch {
		case val < 256:
			if bufOff >= len(buf) {
				return 0, errkind.New(errkind.InvalidFile, "png: decompressed data exceeds scanline buffer")
			}
			buf[bufOff] = byte(val)
			bufOff++

		case val == 256:
			if br.overflowed {
				return 0, errkind.New(errkind.InvalidFile, "png: truncated compressed stream")
			}
			return bufOff, nil

		default:
			var length int
			switch {
			case val <= 264:
				length = 10 - int(264-val)
			case val <= 284:
				v := int(val) + 4 - 265
				bn := v >> 2
				rem := v & 3
				ex := int(br.nextBits(bn))
				length = (1 << uint(bn+2)) + (rem << uint(bn)) + ex + 3
			default:
				length = 258
			}

			didx := 0
			for !distance[didx].leaf {
				didx = int(distance[didx].next[br.nextBit()])
			}
			dval := distance[didx].value

			var dist int
			if dval <= 3 {
				dist = int(dval) + 1
			} else {
				bn := int(dval>>1) - 1
				ex := int(br.nextBits(bn))
				if dval&1 != 0 {
					dist = (3 << uint(bn)) + ex + 1
				} else {
					dist = (2 << uint(bn)) + ex + 1
				}
			}

			if dist > bufOff || bufOff+length > len(buf) {
				return 0, errkind.New(errkind.InvalidFile, "png: back-reference out of range")
			}
			for k := 0; k < length; k++ {
				buf[bufOff] = buf[bufOff-dist]
				bufOff++
			}
		}
	}
}

// inflate decompresses a zlib-wrapped DEFLATE stream into a buffer of
// exactly bufSz bytes, the size the caller has already computed from
// the image's scanline layout.
func inflate(strm []byte, bufSz int) ([]byte, error) {

	if len(strm) < 2 {
		return nil, errkind.New(errkind.InvalidFile, "png: truncated zlib stream")
	}
	cmf, flg := strm[0], strm[1]
	if cmf&0xf != 8 || cmf>>4 > 7 || flg&0x20 != 0 || (int(cmf)<<8+int(flg))%31 != 0 {
		return nil, errkind.New(errkind.InvalidFile, "png: invalid zlib header")
	}

	br := &bitReader{data: strm, off: 2}
	buf := make([]byte, bufSz)
	bufOff := 0

	for {
		bfinal := br.nextBit()
		btype := br.nextBits(2)

		switch btype {
		case 0:
			br.align()
			if br.off+4 > len(strm) {
				return nil, errkind.New(errkind.InvalidFile, "png: truncated stored block")
			}
			length := int(strm[br.off]) | int(strm[br.off+1])<<8
			nlength := int(strm[br.off+2]) | int(strm[br.off+3])<<8
			br.off += 4
			if length&nlength != 0 {
				return nil, errkind.New(errkind.InvalidFile, "png: corrupt stored block length")
			}
			if length+bufOff > bufSz || br.off+length > len(strm) {
				return nil, errkind.New(errkind.InvalidFile, "png: stored block overruns buffer")
			}
			copy(buf[bufOff:], strm[br.off:br.off+length])
			br.off += length
			bufOff += length

		case 1:
			literal, err := buildHuffmanTree(fixedLengths[:288])
			if err != nil {
				return nil, err
			}
			dist, err := buildHuffmanTree(fixedLengths[288:])
			if err != nil {
				return nil, err
			}
			bufOff, err = decodeBlock(br, buf, bufOff, literal, dist)
			if err != nil {
				return nil, err
			}

		case 2:
			hlit := int(br.nextBits(5)) + 257
			hdist := int(br.nextBits(5)) + 1
			hclen := int(br.nextBits(4)) + 4

			lengths := make([]byte, 19+288+32)
			for i := 0; i < hclen; i++ {
				lengths[clenMap[i]] = byte(br.nextBits(3))
			}

			clength, err := buildHuffmanTree(lengths[:19])
			if err != nil {
				return nil, err
			}

			type span struct{ n, off int }
			ranges := []span{{hlit, 19}, {hdist, 19 + 288}}
			for i := range ranges {
				rg := &ranges[i]
				for rg.n > 0 {
					idx := 0
					for !clength[idx].leaf {
						idx = int(clength[idx].next[br.nextBit()])
					}
					val := clength[idx].value

					switch {
					case val < 16:
						lengths[rg.off] = byte(val)
						rg.off++
						rg.n--
					case val == 16:
						if rg.off == 19 || rg.off == 19+288 {
							return nil, errkind.New(errkind.InvalidFile, "png: repeat code with no previous length")
						}
						rep := int(br.nextBits(2)) + 3
						prev := lengths[rg.off-1]
						for k := 0; k < rep; k++ {
							lengths[rg.off] = prev
							rg.off++
						}
						rg.n -= rep
					case val == 17:
						rep := int(br.nextBits(3)) + 3
						for k := 0; k < rep; k++ {
							lengths[rg.off] = 0
							rg.off++
						}
						rg.n -= rep
					case val == 18:
						rep := int(br.nextBits(7)) + 11
						for k := 0; k < rep; k++ {
							lengths[rg.off] = 0
							rg.off++
						}
						rg.n -= rep
					}
				}
			}

			literal, err := buildHuffmanTree(lengths[19 : 19+hlit])
			if err != nil {
				return nil, err
			}
			dist, err := buildHuffmanTree(lengths[19+288 : 19+288+hdist])
			if err != nil {
				return nil, err
			}
			bufOff, err = decodeBlock(br, buf, bufOff, literal, dist)
			if err != nil {
				return nil, err
			}

		default:
			return nil, errkind.New(errkind.InvalidFile, "png: invalid DEFLATE block type")
		}

		if br.overflowed {
			return nil, errkind.New(errkind.InvalidFile, "png: truncated compressed stream")
		}
		if bfinal != 0 {
			break
		}
	}

	return buf, nil
}
