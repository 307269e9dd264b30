// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/math32"
)

func subtreeSizeHolds(n *Node) bool {

	sum := 1
	for _, c := range n.Children() {
		if !subtreeSizeHolds(c) {
			return false
		}
		sum += c.Length()
	}
	return n.Length() == sum
}

func TestNodeInsertDropSubtreeSize(t *testing.T) {

	root := NewNode()
	a := NewNode()
	b := NewNode()
	c := NewNode()

	root.Insert(a)
	root.Insert(b)
	a.Insert(c)

	assert.Equal(t, 4, root.Length())
	assert.Equal(t, 2, a.Length())
	assert.Equal(t, 1, b.Length())
	assert.True(t, subtreeSizeHolds(root))

	root.Drop(b)
	assert.Equal(t, 3, root.Length())
	assert.True(t, b.IsRoot())
	assert.True(t, subtreeSizeHolds(root))

	root.Prune()
	assert.Equal(t, 1, root.Length())
	assert.True(t, a.IsRoot())
	assert.Equal(t, 2, a.Length())
}

func TestNodeReparenting(t *testing.T) {

	p1 := NewNode()
	p2 := NewNode()
	child := NewNode()

	p1.Insert(child)
	assert.Equal(t, 2, p1.Length())
	assert.Equal(t, 1, p2.Length())

	p2.Insert(child)
	assert.Equal(t, 1, p1.Length())
	assert.Equal(t, 2, p2.Length())
	assert.Same(t, p2, child.Parent())
}

func TestTraverseBFSOrderAndWorldMatrix(t *testing.T) {

	root := NewNode()
	var visited []*Node
	root.SetPosition(math32.Vector3{X: 1, Y: 0, Z: 0})

	child := NewNode()
	child.SetPosition(math32.Vector3{X: 0, Y: 1, Z: 0})
	root.Insert(child)

	grandchild := NewNode()
	grandchild.SetPosition(math32.Vector3{X: 0, Y: 0, Z: 1})
	child.Insert(grandchild)

	sibling := NewNode()
	root.Insert(sibling)

	Traverse(root, func(n *Node) bool {
		visited = append(visited, n)
		return false
	})

	// BFS: root, then its children (sibling inserted at head), then grandchild.
	assert.Equal(t, root, visited[0])
	assert.ElementsMatch(t, []*Node{child, sibling}, visited[1:3])
	assert.Equal(t, grandchild, visited[3])

	wm := grandchild.WorldMatrix()
	assert.InDelta(t, 1, wm[12], 1e-6)
	assert.InDelta(t, 1, wm[13], 1e-6)
	assert.InDelta(t, 1, wm[14], 1e-6)
}
