// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"strconv"

	"github.com/vorn3d/engine/errkind"
)

// tokenKind names the kind of token a tokenizer call produced.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokError
	tokString
	tokNumber
	tokBool
	tokNull
	tokObjectStart
	tokObjectEnd
	tokArrayStart
	tokArrayEnd
	tokColon
	tokComma
)

// maxTokenBytes bounds a single string or number token's payload; the
// documents this package reads are schema data, not bulk geometry, so
// any single token this large indicates a malformed or hostile input.
const maxTokenBytes = 1024

// token is one lexical unit read from the source, with its decoded
// payload when it carries one.
type token struct {
	kind tokenKind
	str  string
	num  float64
	b    bool
}

// tokenizer is a streaming, single-token-of-lookahead JSON lexer over an
// in-memory byte slice. It recognises strings (with \" and \\ escapes),
// numbers, true/false/null, the six structural punctuators ({ } [ ] : ,),
// EOF and error — exactly the subset the glTF schema's JSON documents
// use.
type tokenizer struct {
	src []byte
	pos int
}

func newTokenizer(src []byte) *tokenizer {

	return &tokenizer{src: src}
}

func (t *tokenizer) skipSpace() {

	for t.pos < len(t.src) {
		switch t.src[t.pos] {
		case ' ', '\t', '\n', '\r':
			t.pos++
		default:
			return
		}
	}
}

// next reads and returns the next token, advancing past it.
func (t *tokenizer) next() token {

	t.skipSpace()
	if t.pos >= len(t.src) {
		return token{kind: tokEOF}
	}

	c := t.src[t.pos]
	switch c {
	case '{':
		t.pos++
		return token{kind: tokObjectStart}
	case '}':
		t.pos++
		return token{kind: tokObjectEnd}
	case '[':
		t.pos++
		return token{kind: tokArrayStart}
	case ']':
		t.pos++
		return token{kind: tokArrayEnd}
	case ':':
		t.pos++
		return token{kind: tokColon}
	case ',':
		t.pos++
		return token{kind: tokComma}
	case '"':
		return t.readString()
	case 't':
		if t.match("true") {
			return token{kind: tokBool, b: true}
		}
	case 'f':
		if t.match("false") {
			return token{kind: tokBool, b: false}
		}
	case 'n':
		if t.match("null") {
			return token{kind: tokNull}
		}
	}
	if c == '-' || (c >= '0' && c <= '9') {
		return t.readNumber()
	}

	return token{kind: tokError}
}

func (t *tokenizer) match(lit string) bool {

	if t.pos+len(lit) > len(t.src) {
		return false
	}
	if string(t.src[t.pos:t.pos+len(lit)]) != lit {
		return false
	}
	t.pos += len(lit)
	return true
}

func (t *tokenizer) readString() token {

	t.pos++ // opening quote
	start := t.pos
	var buf []byte
	escaped := false

	for t.pos < len(t.src) {
		c := t.src[t.pos]
		if c == '"' {
			var s string
			if escaped {
				s = string(buf)
			} else {
				s = string(t.src[start:t.pos])
			}
			t.pos++
			if len(s) > maxTokenBytes {
				return token{kind: tokError}
			}
			return token{kind: tokString, str: s}
		}
		if c == '\\' {
			if !escaped {
				escaped = true
				buf = append(buf, t.src[start:t.pos]...)
			}
			t.pos++
			if t.pos >= len(t.src) {
				return token{kind: tokError}
			}
			switch t.src[t.pos] {
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			case '/':
				buf = append(buf, '/')
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case 'r':
				buf = append(buf, '\r')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case 'u':
				// \uXXXX: unsupported escape for this schema's
				// identifier/name strings; pass through verbatim.
				if t.pos+4 >= len(t.src) {
					return token{kind: tokError}
				}
				buf = append(buf, t.src[t.pos-1:t.pos+5]...)
				t.pos += 4
			default:
				return token{kind: tokError}
			}
			t.pos++
			continue
		}
		if escaped {
			buf = append(buf, c)
		}
		t.pos++
	}
	return token{kind: tokError}
}

func (t *tokenizer) readNumber() token {

	start := t.pos
	if t.src[t.pos] == '-' {
		t.pos++
	}
	for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.src) && t.src[t.pos] == '.' {
		t.pos++
		for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
			t.pos++
		}
	}
	if t.pos < len(t.src) && (t.src[t.pos] == 'e' || t.src[t.pos] == 'E') {
		t.pos++
		if t.pos < len(t.src) && (t.src[t.pos] == '+' || t.src[t.pos] == '-') {
			t.pos++
		}
		for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
			t.pos++
		}
	}

	if t.pos-start > maxTokenBytes {
		return token{kind: tokError}
	}
	v, err := strconv.ParseFloat(string(t.src[start:t.pos]), 64)
	if err != nil {
		return token{kind: tokError}
	}
	return token{kind: tokNumber, num: v}
}

func isDigit(c byte) bool {

	return c >= '0' && c <= '9'
}

// errUnexpectedToken wraps a tokeniser error into the engine's error
// taxonomy.
func errUnexpectedToken(ctx string) error {

	return errkind.New(errkind.InvalidFile, "gltf: unexpected token %s", ctx)
}
