// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core provides the scene graph Node and its breadth-first
// Traverse.
package core

import (
	"github.com/vorn3d/engine/math32"
)

// ObjectKind tags the kind of object a Node has attached, if any. The set
// is closed: the render orchestrator switches on it once per node per
// frame, so it is a plain enum rather than an interface.
type ObjectKind int

const (
	KindNone ObjectKind = iota
	KindModel
	KindTerrain
	KindParticleSystem
	KindQuad
	KindLabel
	KindLight
	KindEffect
)

// Object is the non-owning back pointer a Node carries when something is
// attached to it. The concrete value is one of the drawable or light
// types elsewhere in the module; the node itself never depends on those
// packages, to avoid an import cycle (they import core.Node, not the
// reverse).
type Object struct {
	Kind  ObjectKind
	Value interface{}
}

// Node is a point in the scene graph: an ordered list of children, a
// local TRS transform, and cached world-space matrices recomputed once
// per frame by the orchestrator's traversal.
//
// Node never traverses itself recursively — Traverse below does, in
// breadth-first order, so that a parent's world transform is always
// already up to date when its children are visited.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	subtree  int // 1 + sum of children's subtree sizes

	position math32.Vector3
	rotation math32.Quaternion
	scale    math32.Vector3

	worldMatrix  math32.Matrix4
	worldInverse math32.Matrix4
	worldNormal  math32.Matrix4 // 3x3 normal matrix stored in the upper-left of a 4x4

	object Object
}

// NewNode creates and returns an initialised root Node.
func NewNode() *Node {

	n := new(Node)
	n.Init()
	return n
}

// Init resets n to an unparented, unscaled, identity-rotated node of
// subtree size 1. It is exported so embedding types (skin-owned joint
// nodes, for instance) can initialise in place.
func (n *Node) Init() {

	n.name = ""
	n.parent = nil
	n.children = nil
	n.subtree = 1
	n.position.Set(0, 0, 0)
	n.rotation.Set(0, 0, 0, 1)
	n.scale.Set(1, 1, 1)
	n.worldMatrix.Identity()
	n.worldInverse.Identity()
	n.worldNormal.Identity()
	n.object = Object{}
}

// SetName sets the node's optional display name.
func (n *Node) SetName(name string) {

	n.name = name
}

// Name returns the node's display name.
func (n *Node) Name() string {

	return n.name
}

// CompareName reports whether n's name equals name.
func (n *Node) CompareName(name string) bool {

	return n.name == name
}

// Parent returns n's parent, or nil if n is a root.
func (n *Node) Parent() *Node {

	return n.parent
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {

	return n.parent == nil
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {

	return len(n.children) == 0
}

// Length returns the subtree size: n itself plus every descendant.
func (n *Node) Length() int {

	return n.subtree
}

// Children returns n's children in child-list order. The slice is owned
// by n; callers must not retain it across a mutating call.
func (n *Node) Children() []*Node {

	return n.children
}

// DescendsFrom reports whether n is anc or a descendant of anc.
func (n *Node) DescendsFrom(anc *Node) bool {

	for cur := n; cur != nil; cur = cur.parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// Insert detaches child from its current parent, if any, then makes it
// n's first child. The subtree-size delta propagates up n's ancestor
// chain.
func (n *Node) Insert(child *Node) {

	if child.parent != nil {
		child.parent.Drop(child)
	}
	child.parent = n
	n.children = append([]*Node{child}, n.children...)
	n.addSubtree(child.subtree)
}

// Drop detaches child from n, if child is in fact one of n's children.
// The inverse subtree-size delta propagates up n's ancestor chain.
func (n *Node) Drop(child *Node) {

	for i, c := range n.children {
		if c != child {
			continue
		}
		n.children = append(n.children[:i], n.children[i+1:]...)
		child.parent = nil
		n.addSubtree(-child.subtree)
		return
	}
}

// Prune detaches every child of n, subtracting their combined subtree
// sizes from n's ancestor chain exactly once.
func (n *Node) Prune() {

	var sum int
	for _, c := range n.children {
		c.parent = nil
		sum += c.subtree
	}
	n.children = n.children[:0]
	n.addSubtree(-sum)
}

// addSubtree applies delta to n's own subtree size and every ancestor's.
func (n *Node) addSubtree(delta int) {

	for cur := n; cur != nil; cur = cur.parent {
		cur.subtree += delta
	}
}

// SetTransform sets the node's local translation, rotation and scale.
func (n *Node) SetTransform(position math32.Vector3, rotation math32.Quaternion, scale math32.Vector3) {

	n.position = position
	n.rotation = rotation
	n.scale = scale
}

// Transform returns the node's local translation, rotation and scale.
func (n *Node) Transform() (position math32.Vector3, rotation math32.Quaternion, scale math32.Vector3) {

	return n.position, n.rotation, n.scale
}

// SetPosition sets the local translation.
func (n *Node) SetPosition(v math32.Vector3) {

	n.position = v
}

// Position returns the local translation.
func (n *Node) Position() math32.Vector3 {

	return n.position
}

// SetRotation sets the local rotation quaternion.
func (n *Node) SetRotation(q math32.Quaternion) {

	n.rotation = q
}

// Rotation returns the local rotation quaternion.
func (n *Node) Rotation() math32.Quaternion {

	return n.rotation
}

// SetScale sets the local scale.
func (n *Node) SetScale(v math32.Vector3) {

	n.scale = v
}

// Scale returns the local scale.
func (n *Node) Scale() math32.Vector3 {

	return n.scale
}

// SetObject attaches obj to n under the given kind. An existing
// attachment is replaced, not merged.
func (n *Node) SetObject(kind ObjectKind, obj interface{}) {

	n.object = Object{Kind: kind, Value: obj}
}

// Object returns n's attached object, whose Kind is KindNone if nothing
// is attached.
func (n *Node) Object() Object {

	return n.object
}

// WorldMatrix returns the world transform computed by the most recent
// traversal.
func (n *Node) WorldMatrix() math32.Matrix4 {

	return n.worldMatrix
}

// WorldInverse returns the inverse of WorldMatrix.
func (n *Node) WorldInverse() math32.Matrix4 {

	return n.worldInverse
}

// WorldNormal returns the transpose of WorldInverse, as used to transform
// normals into world space; only the upper-left 3x3 is meaningful.
func (n *Node) WorldNormal() math32.Matrix4 {

	return n.worldNormal
}

// updateWorld recomputes n's world matrix from parentWorld and n's local
// transform, then derives the inverse and normal matrices. Called once
// per node per frame by Traverse, parent before children.
func (n *Node) updateWorld(parentWorld *math32.Matrix4) {

	var local math32.Matrix4
	local.Compose(&n.position, &n.rotation, &n.scale)

	n.worldMatrix.MultiplyMatrices(parentWorld, &local)

	if err := n.worldInverse.GetInverse(&n.worldMatrix); err != nil {
		n.worldInverse.Identity()
	}
	n.worldNormal.Copy(&n.worldInverse)
	n.worldNormal.Transpose()
}

// Visitor is called once per node during Traverse. Returning true stops
// the traversal early; Traverse then returns immediately.
type Visitor func(n *Node) (stop bool)

// Traverse visits root and every descendant exactly once in
// breadth-first order, recomputing each node's world matrices from its
// parent's before the visitor is called, so a parent's world transform
// is always already valid when a child is visited. The visitor signals
// early stop by returning true.
func Traverse(root *Node, visit Visitor) {

	var identity math32.Matrix4
	identity.Identity()

	parentOf := identity
	if root.parent != nil {
		parentOf = root.parent.worldMatrix
	}
	root.updateWorld(&parentOf)
	if visit(root) {
		return
	}

	queue := append([]*Node(nil), root.children...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		n.updateWorld(&n.parent.worldMatrix)
		if visit(n) {
			return
		}
		queue = append(queue, n.children...)
	}
}
