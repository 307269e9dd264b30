// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package skin implements the immutable joint hierarchy (Skin) and its
// live instantiations (Skeleton) bound to scene nodes.
package skin

import (
	"fmt"
	"sync"

	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/math32"
)

// Joint is one immutable entry in a Skin's joint array.
type Joint struct {
	Position    math32.Vector3
	Rotation    math32.Quaternion
	Scale       math32.Vector3
	InverseBind math32.Matrix4
	Name        string
	ParentIndex int // index into the same joint array, or -1 for root
}

// Skin is an immutable array of joints. It tracks every live Skeleton
// instantiated from it so destroying the skin tears all of them down.
type Skin struct {
	mu         sync.Mutex
	joints     []Joint
	skeletons  map[*Skeleton]struct{}
}

// New creates a Skin from joints. The slice is copied; Skin never
// mutates it afterward.
func New(joints []Joint) *Skin {

	s := &Skin{
		joints:    append([]Joint(nil), joints...),
		skeletons: make(map[*Skeleton]struct{}),
	}
	return s
}

// Joints returns the skin's immutable joint array.
func (s *Skin) Joints() []Joint {

	return s.joints
}

// Skeleton is one live instantiation of a Skin: an array of nodes of
// length joint-count+1, the trailing entry a synthetic root. When
// Managed is true the skin allocated and owns every node in Nodes;
// otherwise the caller supplied them and retains ownership.
type Skeleton struct {
	skin    *Skin
	Nodes   []*core.Node
	Managed bool
}

// MakeSkeleton instantiates skin. If nodes is nil, joint_count+1 fresh
// nodes are allocated: each joint's local transform is copied into its
// node, the node is named from the joint, and parents are wired per
// ParentIndex — joints with ParentIndex == -1 attach to the synthetic
// trailing root node. If nodes is non-nil it is adopted verbatim and
// must have length joint_count+1; its hierarchy is the caller's
// responsibility.
func (s *Skin) MakeSkeleton(nodes []*core.Node) (*Skeleton, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.joints)
	var sk *Skeleton

	if nodes == nil {
		built := make([]*core.Node, n+1)
		for i := range built {
			built[i] = core.NewNode()
		}
		root := built[n]
		root.SetName("skeleton-root")

		for i, j := range s.joints {
			node := built[i]
			node.SetTransform(j.Position, j.Rotation, j.Scale)
			name := j.Name
			if name == "" {
				name = fmt.Sprintf("joint-%d", i)
			}
			node.SetName(name)
		}
		for i, j := range s.joints {
			node := built[i]
			if j.ParentIndex < 0 {
				root.Insert(node)
			} else {
				built[j.ParentIndex].Insert(node)
			}
		}
		sk = &Skeleton{skin: s, Nodes: built, Managed: true}
	} else {
		if len(nodes) != n+1 {
			return nil, errkind.New(errkind.InvalidArgument, "skin: expected %d nodes, got %d", n+1, len(nodes))
		}
		sk = &Skeleton{skin: s, Nodes: nodes, Managed: false}
	}

	s.skeletons[sk] = struct{}{}
	return sk, nil
}

// Node returns the skeleton's synthetic trailing root node.
func (sk *Skeleton) Node() *core.Node {

	return sk.Nodes[len(sk.Nodes)-1]
}

// JointNode returns the node bound to joint index i.
func (sk *Skeleton) JointNode(i int) *core.Node {

	return sk.Nodes[i]
}

// JointMatrices writes up to maxJoints joint matrices (world transform
// composed with the joint's inverse-bind matrix) into dst, filling any
// remaining slots with the identity matrix. These are the joint matrices
// of the pairs the model-instance uniform block needs per §6's layout; the
// joint-normal matrix of each pair is not computed here. See also the
// identity-fill-beyond-skin's-joint-count rule in §4.9(c).
func (sk *Skeleton) JointMatrices(dst []math32.Matrix4, maxJoints int) {

	joints := sk.skin.joints
	for i := 0; i < maxJoints; i++ {
		if i >= len(joints) {
			dst[i].Identity()
			continue
		}
		world := sk.Nodes[i].WorldMatrix()
		dst[i].MultiplyMatrices(&world, &joints[i].InverseBind)
	}
}

// Unmake tears down the skeleton, unregistering it from its skin. Nodes
// allocated for a Managed skeleton are left to the caller to discard
// (dropping the last reference); unmanaged nodes are untouched.
func (sk *Skeleton) Unmake() {

	sk.skin.mu.Lock()
	delete(sk.skin.skeletons, sk)
	sk.skin.mu.Unlock()
}

// Deinit unmakes every live skeleton instantiated from s.
func (s *Skin) Deinit() {

	s.mu.Lock()
	sks := make([]*Skeleton, 0, len(s.skeletons))
	for sk := range s.skeletons {
		sks = append(sks, sk)
	}
	s.mu.Unlock()

	for _, sk := range sks {
		sk.Unmake()
	}
}
