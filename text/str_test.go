// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrCount(t *testing.T) {

	assert.Equal(t, 5, StrCount("hello"))
	assert.Equal(t, 5, StrCount("héllo"))
	assert.Equal(t, 0, StrCount(""))
}

func TestStrFind(t *testing.T) {

	start, length := StrFind("héllo", 1)
	assert.Equal(t, "é", "héllo"[start:start+length])
}

func TestStrPrefix(t *testing.T) {

	assert.Equal(t, "", StrPrefix("hello", 0))
	assert.Equal(t, "he", StrPrefix("hello", 2))
	assert.Equal(t, "hello", StrPrefix("hello", 100))
}

func TestStrInsert(t *testing.T) {

	assert.Equal(t, "heXllo", StrInsert("hello", "X", 2))
	assert.Equal(t, "Xhello", StrInsert("hello", "X", 0))
}

func TestStrRemove(t *testing.T) {

	assert.Equal(t, "hllo", StrRemove("hello", 1))
	assert.Equal(t, "ello", StrRemove("hello", 0))
}
