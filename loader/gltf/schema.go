// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltf loads glTF 2.0 assets — the `.gltf`/`.glb` container, its
// JSON document and its binary buffers — into the engine's collection
// of meshes, materials, textures, skins, animations and scene graphs.
package gltf

// document is the parsed mirror of a glTF JSON document. Field order
// matches the schema's top-level property order; every field is
// optional except asset, per the format.
// document, and every schema struct below it, is prefixed gltf* only
// where the bare glTF name (scene, mesh, skin, material, animation,
// texture, camera) would otherwise collide with the engine package of
// the same name that the materialiser imports alongside this schema.
type document struct {
	Asset       asset
	Scene       *int
	Scenes      []gltfScene
	Nodes       []node
	Cameras     []gltfCamera
	Meshes      []gltfMesh
	Skins       []gltfSkin
	Materials   []gltfMaterial
	Animations  []gltfAnimation
	Accessors   []accessor
	BufferViews []bufferView
	Buffers     []buffer
	Textures    []gltfTexture
	Images      []image
	Samplers    []sampler
}

type asset struct {
	Version   string
	Generator string
}

type gltfScene struct {
	Name  string
	Nodes []int
}

type node struct {
	Name        string
	Children    []int
	Camera      *int
	Mesh        *int
	Skin        *int
	Matrix      []float32 // column-major 4x4 if present
	Translation []float32 // [3]
	Rotation    []float32 // [4] (x,y,z,w)
	Scale       []float32 // [3]
}

type gltfCamera struct {
	Type         string // "perspective" or "orthographic"
	Perspective  perspective
	Orthographic orthographic
}

type perspective struct {
	AspectRatio float32
	Yfov        float32
	Zfar        float32
	Znear       float32
}

type orthographic struct {
	Xmag  float32
	Ymag  float32
	Zfar  float32
	Znear float32
}

type gltfMesh struct {
	Name       string
	Primitives []primitive
}

type primitive struct {
	Attributes map[string]int
	Indices    *int
	Material   *int
	Mode       *int // default TRIANGLES(4)
}

type gltfSkin struct {
	Name                string
	InverseBindMatrices *int
	Skeleton            *int
	Joints              []int
}

type gltfMaterial struct {
	Name                 string
	PbrMetallicRoughness *pbrMetallicRoughness
	NormalTexture        *textureRef
	OcclusionTexture     *textureRef
	EmissiveTexture      *textureRef
	EmissiveFactor       []float32 // [3]
	AlphaMode            string
	AlphaCutoff          *float32
	DoubleSided          bool

	// KHR_materials_pbrSpecularGlossiness
	SpecGloss *pbrSpecularGlossiness
	// KHR_materials_unlit
	Unlit bool
}

type pbrMetallicRoughness struct {
	BaseColorFactor          []float32 // [4]
	BaseColorTexture         *textureRef
	MetallicFactor           *float32
	RoughnessFactor          *float32
	MetallicRoughnessTexture *textureRef
}

type pbrSpecularGlossiness struct {
	DiffuseFactor             []float32 // [4]
	DiffuseTexture            *textureRef
	SpecularFactor            []float32 // [3]
	GlossinessFactor          *float32
	SpecularGlossinessTexture *textureRef
}

type textureRef struct {
	Index    int
	TexCoord int
}

type gltfAnimation struct {
	Name     string
	Channels []channel
	Samplers []animSampler
}

type channel struct {
	Sampler int
	Target  channelTarget
}

type channelTarget struct {
	Node *int
	Path string // "translation", "rotation", "scale", "weights"
}

type animSampler struct {
	Input         int
	Output        int
	Interpolation string // "LINEAR", "STEP", "CUBICSPLINE"
}

type accessor struct {
	BufferView    *int
	ByteOffset    int
	ComponentType int
	Normalized    bool
	Count         int
	Type          string // SCALAR, VEC2, VEC3, VEC4, MAT4, ...
}

type bufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
	ByteStride int
}

type buffer struct {
	Uri        string
	ByteLength int
}

type gltfTexture struct {
	Sampler *int
	Source  *int
}

type image struct {
	Uri        string
	MimeType   string
	BufferView *int
}

type sampler struct {
	MagFilter *int
	MinFilter *int
	WrapS     *int
	WrapT     *int
}

// glTF component type codes (accessor.componentType).
const (
	compByte          = 5120
	compUnsignedByte  = 5121
	compShort         = 5122
	compUnsignedShort = 5123
	compUnsignedInt   = 5125
	compFloat         = 5126
)

// glTF accessor.type strings and their component counts.
var typeComponents = map[string]int{
	"SCALAR": 1,
	"VEC2":   2,
	"VEC3":   3,
	"VEC4":   4,
	"MAT2":   4,
	"MAT3":   9,
	"MAT4":   16,
}

// glTF primitive draw modes; only TRIANGLES is materialised.
const modeTriangles = 4

// glTF texture wrap mode codes.
const (
	wrapClampToEdge   = 33071
	wrapMirroredRepeat = 33648
	wrapRepeat        = 10497
)

// glTF texture filter codes; anything but NEAREST maps to linear.
const filterNearest = 9728

// GLB container constants.
const (
	glbMagic    = 0x46546c67 // "glTF"
	glbChunkJSON = 0x4e4f534a
	glbChunkBIN  = 0x004e4942
)
