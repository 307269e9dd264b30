// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/errkind"
)

func TestManageAutoName(t *testing.T) {

	c := New()
	n1, err := c.Manage(KindMesh, "", "mesh-a")
	assert.NoError(t, err)
	n2, err := c.Manage(KindMesh, "", "mesh-b")
	assert.NoError(t, err)
	assert.NotEqual(t, n1, n2)
	assert.Regexp(t, `^unnamed-[0-9A-F]{5}$`, n1)
}

func TestManageCollisionFails(t *testing.T) {

	c := New()
	_, err := c.Manage(KindMesh, "dup", "one")
	assert.NoError(t, err)
	_, err = c.Manage(KindMesh, "dup", "two")
	assert.Error(t, err)
	assert.Equal(t, errkind.Exist, errkind.KindOf(err))
}

func TestReleaseAndDeinit(t *testing.T) {

	c := New()
	var torn []string
	c.SetDeinitializer(KindTexture, func(item interface{}) {
		torn = append(torn, item.(string))
	})

	c.Manage(KindTexture, "a", "tex-a")
	c.Manage(KindTexture, "b", "tex-b")

	item, ok := c.Release(KindTexture, "a")
	assert.True(t, ok)
	assert.Equal(t, "tex-a", item)
	assert.False(t, c.Contains(KindTexture, "a"))

	c.Deinit()
	assert.Equal(t, []string{"tex-b"}, torn)
}
