// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package skin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/math32"
)

func identityJoint(parent int) Joint {

	var j Joint
	j.Rotation.Set(0, 0, 0, 1)
	j.Scale.Set(1, 1, 1)
	j.InverseBind.Identity()
	j.ParentIndex = parent
	return j
}

func TestMakeSkeletonManagedWiresParents(t *testing.T) {

	joints := []Joint{identityJoint(-1), identityJoint(0)}
	joints[1].Name = "child"
	s := New(joints)

	sk, err := s.MakeSkeleton(nil)
	assert.NoError(t, err)
	assert.True(t, sk.Managed)
	assert.Len(t, sk.Nodes, 3)

	root := sk.Node()
	assert.Equal(t, root, sk.Nodes[0].Parent())
	assert.Equal(t, sk.Nodes[0], sk.Nodes[1].Parent())
	assert.Equal(t, 3, root.Length())
}

func TestMakeSkeletonUnmanagedAdoptsCallerNodes(t *testing.T) {

	joints := []Joint{identityJoint(-1)}
	s := New(joints)

	nodes := []*core.Node{core.NewNode(), core.NewNode()}
	sk, err := s.MakeSkeleton(nodes)
	assert.NoError(t, err)
	assert.False(t, sk.Managed)
	assert.Equal(t, nodes, sk.Nodes)

	_, err = s.MakeSkeleton([]*core.Node{core.NewNode()})
	assert.Error(t, err)
}

func TestSkinDeinitTearsDownSkeletons(t *testing.T) {

	joints := []Joint{identityJoint(-1)}
	s := New(joints)

	sk1, _ := s.MakeSkeleton(nil)
	sk2, _ := s.MakeSkeleton(nil)
	assert.Len(t, s.skeletons, 2)

	s.Deinit()
	assert.Len(t, s.skeletons, 0)
	_ = sk1
	_ = sk2
}

func TestJointMatricesIdentityFillBeyondJointCount(t *testing.T) {

	joints := []Joint{identityJoint(-1)}
	s := New(joints)
	sk, _ := s.MakeSkeleton(nil)

	dst := make([]math32.Matrix4, 4)
	sk.JointMatrices(dst, 4)

	var identity math32.Matrix4
	identity.Identity()
	assert.Equal(t, identity, dst[1])
	assert.Equal(t, identity, dst[2])
	assert.Equal(t, identity, dst[3])
}
