// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vorn3d/engine/animation"
	"github.com/vorn3d/engine/camera"
	"github.com/vorn3d/engine/collection"
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/loader/bmp"
	"github.com/vorn3d/engine/loader/png"
	"github.com/vorn3d/engine/material"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/mesh"
	"github.com/vorn3d/engine/scene"
	"github.com/vorn3d/engine/skin"
	"github.com/vorn3d/engine/texture"
)

// materializer turns a parsed document into live engine objects,
// building each requested item once — in the order texture → skin →
// material → mesh → node → scene — and caching it by glTF index so a
// shared reference (a mesh used by two nodes, say) is built only once.
type materializer struct {
	doc *document
	bs  *bufferSource
	dir string

	ctx   gpu.Context
	atlas *texture.Atlas
	col   *collection.Collection

	textures  map[int]*texture.Texture
	materials map[int]*material.Material
	meshes    map[int]*mesh.Mesh
	skins     map[int]*skin.Skin
	nodes     map[int]*core.Node
	cameras   map[int]*camera.Camera

	// firstCamera is the first camera materialised across the whole
	// document; every scene materialised after it uses it, since glTF
	// scenes carry no explicit active-camera reference of their own. A
	// scene materialised before any camera is left without one.
	firstCamera *camera.Camera
}

// Load reads the glTF or glb container at path, materialises every
// scene it declares, and deposits the result into col. ctx provisions
// the vertex/index buffers meshes are uploaded into; atlas provisions
// the array images textures are uploaded into.
func Load(path string, ctx gpu.Context, atlas *texture.Atlas, col *collection.Collection) error {

	raw, err := os.ReadFile(path)
	if err != nil {
		return errkind.Wrap(errkind.NoFile, err, "gltf: read %q", path)
	}

	c, err := parseContainer(raw)
	if err != nil {
		return err
	}
	doc, err := parseDocument(c.json)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	m := &materializer{
		doc:       doc,
		bs:        newBufferSource(doc, dir, c.bin),
		dir:       dir,
		ctx:       ctx,
		atlas:     atlas,
		col:       col,
		textures:  make(map[int]*texture.Texture),
		materials: make(map[int]*material.Material),
		meshes:    make(map[int]*mesh.Mesh),
		skins:     make(map[int]*skin.Skin),
		nodes:     make(map[int]*core.Node),
		cameras:   make(map[int]*camera.Camera),
	}

	for i := range doc.Scenes {
		if _, err := m.scene(i); err != nil {
			return err
		}
	}
	for i := range doc.Animations {
		if _, err := m.animation(i); err != nil {
			return err
		}
	}
	return nil
}

// ---- textures ----

func (m *materializer) texture(i int) (*texture.Texture, error) {

	if t, ok := m.textures[i]; ok {
		return t, nil
	}
	if i < 0 || i >= len(m.doc.Textures) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: texture index %d out of range", i)
	}
	gt := m.doc.Textures[i]
	if gt.Source == nil {
		return nil, errkind.New(errkind.InvalidFile, "gltf: texture %d has no source image", i)
	}

	data, err := m.imageData(*gt.Source)
	if err != nil {
		return nil, err
	}
	if gt.Sampler != nil {
		data.Sampler = samplerFrom(m.doc.Samplers[*gt.Sampler])
	}

	t, err := texture.New(m.atlas, data)
	if err != nil {
		return nil, err
	}
	m.textures[i] = t
	return t, nil
}

func samplerFrom(s sampler) texture.Sampler {

	out := texture.Sampler{
		WrapS:     wrapModeFrom(s.WrapS),
		WrapT:     wrapModeFrom(s.WrapT),
		MinFilter: texture.FilterLinear,
		MagFilter: texture.FilterLinear,
		GenMipmap: true,
	}
	if s.MagFilter != nil && *s.MagFilter == filterNearest {
		out.MagFilter = texture.FilterNearest
	}
	if s.MinFilter != nil && *s.MinFilter == filterNearest {
		out.MinFilter = texture.FilterNearest
	}
	return out
}

func wrapModeFrom(code *int) texture.WrapMode {

	if code == nil {
		return texture.WrapRepeat
	}
	switch *code {
	case wrapClampToEdge:
		return texture.WrapClampToEdge
	case wrapMirroredRepeat:
		return texture.WrapMirroredRepeat
	default:
		return texture.WrapRepeat
	}
}

// imageData decodes glTF image i's pixels, reading from an external
// file or an embedded bufferView, and dispatching to the png or bmp
// decoder by file extension or declared MIME type. Data URIs are not
// decoded: a "data:" URI is read as a file path and fails as NoFile.
func (m *materializer) imageData(i int) (*texture.TextureData, error) {

	if i < 0 || i >= len(m.doc.Images) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: image index %d out of range", i)
	}
	im := m.doc.Images[i]

	var raw []byte
	var hint string
	switch {
	case im.BufferView != nil:
		data, _, err := m.bs.view(*im.BufferView)
		if err != nil {
			return nil, err
		}
		raw = data
		hint = im.MimeType
	case im.Uri != "":
		path := im.Uri
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errkind.Wrap(errkind.NoFile, err, "gltf: read image %q", im.Uri)
		}
		raw = data
		hint = im.Uri
	default:
		return nil, errkind.New(errkind.InvalidFile, "gltf: image %d has no source", i)
	}

	if strings.Contains(hint, "bmp") {
		return bmp.Decode(bytes.NewReader(raw))
	}
	return png.Decode(bytes.NewReader(raw))
}

// ---- materials ----

func (m *materializer) material(i int) (*material.Material, error) {

	if mat, ok := m.materials[i]; ok {
		return mat, nil
	}
	if i < 0 || i >= len(m.doc.Materials) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: material index %d out of range", i)
	}
	gm := m.doc.Materials[i]

	var mat *material.Material
	var err error
	switch {
	case gm.Unlit:
		mat, err = m.unlitMaterial(gm)
	case gm.SpecGloss != nil:
		mat, err = m.specGlossMaterial(gm)
	default:
		mat, err = m.metallicRoughnessMaterial(gm)
	}
	if err != nil {
		return nil, err
	}

	if gm.NormalTexture != nil {
		if mat.NormalTexture, err = m.texture(gm.NormalTexture.Index); err != nil {
			return nil, err
		}
	}
	if gm.OcclusionTexture != nil {
		if mat.OcclusionTexture, err = m.texture(gm.OcclusionTexture.Index); err != nil {
			return nil, err
		}
	}
	if gm.EmissiveTexture != nil {
		if mat.EmissiveTexture, err = m.texture(gm.EmissiveTexture.Index); err != nil {
			return nil, err
		}
	}
	mat.EmissiveFactor = colorFromSlice(gm.EmissiveFactor, math32.Color{})
	mat.DoubleSided = gm.DoubleSided
	switch gm.AlphaMode {
	case "BLEND":
		mat.AlphaMode = material.AlphaBlend
	case "MASK":
		mat.AlphaMode = material.AlphaMask
	}
	if gm.AlphaCutoff != nil {
		mat.AlphaCutoff = *gm.AlphaCutoff
	}

	if _, err := m.col.Manage(collection.KindMaterial, gm.Name, mat); err != nil {
		return nil, err
	}
	m.materials[i] = mat
	return mat, nil
}

func (m *materializer) metallicRoughnessMaterial(gm gltfMaterial) (*material.Material, error) {

	p := material.MetallicRoughness{
		BaseColorFactor: color4FromSlice(nil, math32.Color4{R: 1, G: 1, B: 1, A: 1}),
		MetallicFactor:  1,
		RoughnessFactor: 1,
	}
	pbr := gm.PbrMetallicRoughness
	if pbr == nil {
		return material.NewMetallicRoughness(p), nil
	}
	p.BaseColorFactor = color4FromSlice(pbr.BaseColorFactor, p.BaseColorFactor)
	if pbr.MetallicFactor != nil {
		p.MetallicFactor = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		p.RoughnessFactor = *pbr.RoughnessFactor
	}
	var err error
	if pbr.BaseColorTexture != nil {
		if p.BaseColorTexture, err = m.texture(pbr.BaseColorTexture.Index); err != nil {
			return nil, err
		}
	}
	if pbr.MetallicRoughnessTexture != nil {
		if p.MetallicRoughnessTexture, err = m.texture(pbr.MetallicRoughnessTexture.Index); err != nil {
			return nil, err
		}
	}
	return material.NewMetallicRoughness(p), nil
}

func (m *materializer) specGlossMaterial(gm gltfMaterial) (*material.Material, error) {

	sg := gm.SpecGloss
	p := material.SpecularGlossiness{
		DiffuseFactor:    color4FromSlice(sg.DiffuseFactor, math32.Color4{R: 1, G: 1, B: 1, A: 1}),
		SpecularFactor:   colorFromSlice(sg.SpecularFactor, math32.Color{R: 1, G: 1, B: 1}),
		GlossinessFactor: 1,
	}
	if sg.GlossinessFactor != nil {
		p.GlossinessFactor = *sg.GlossinessFactor
	}
	var err error
	if sg.DiffuseTexture != nil {
		if p.DiffuseTexture, err = m.texture(sg.DiffuseTexture.Index); err != nil {
			return nil, err
		}
	}
	if sg.SpecularGlossinessTexture != nil {
		if p.SpecularGlossinessTexture, err = m.texture(sg.SpecularGlossinessTexture.Index); err != nil {
			return nil, err
		}
	}
	return material.NewSpecularGlossiness(p), nil
}

func (m *materializer) unlitMaterial(gm gltfMaterial) (*material.Material, error) {

	p := material.Unlit{BaseColorFactor: math32.Color4{R: 1, G: 1, B: 1, A: 1}}
	if pbr := gm.PbrMetallicRoughness; pbr != nil {
		p.BaseColorFactor = color4FromSlice(pbr.BaseColorFactor, p.BaseColorFactor)
		if pbr.BaseColorTexture != nil {
			t, err := m.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				return nil, err
			}
			p.BaseColorTexture = t
		}
	}
	return material.NewUnlit(p), nil
}

func colorFromSlice(v []float32, dflt math32.Color) math32.Color {

	if len(v) < 3 {
		return dflt
	}
	return math32.Color{R: v[0], G: v[1], B: v[2]}
}

func color4FromSlice(v []float32, dflt math32.Color4) math32.Color4 {

	if len(v) < 4 {
		return dflt
	}
	return math32.Color4{R: v[0], G: v[1], B: v[2], A: v[3]}
}

// ---- cameras ----

// camera materialises glTF camera i. Only perspective cameras map onto
// the engine's camera.New, which takes fov/aspect/near/far and has no
// orthographic counterpart; an orthographic camera fails as
// unsupported rather than being approximated.
func (m *materializer) camera(i int) (*camera.Camera, error) {

	if c, ok := m.cameras[i]; ok {
		return c, nil
	}
	if i < 0 || i >= len(m.doc.Cameras) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: camera index %d out of range", i)
	}
	gc := m.doc.Cameras[i]
	if gc.Type != "perspective" {
		return nil, errkind.New(errkind.Unsupported, "gltf: camera type %q", gc.Type)
	}

	p := gc.Perspective
	aspect := p.AspectRatio
	if aspect == 0 {
		aspect = 1
	}
	far := p.Zfar
	if far == 0 {
		far = p.Znear * 1000
	}
	c := camera.New(p.Yfov, aspect, p.Znear, far)
	if m.firstCamera == nil {
		m.firstCamera = c
	}
	m.cameras[i] = c
	return c, nil
}

// ---- skins ----

func (m *materializer) skin(i int) (*skin.Skin, error) {

	if s, ok := m.skins[i]; ok {
		return s, nil
	}
	if i < 0 || i >= len(m.doc.Skins) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: skin index %d out of range", i)
	}
	gs := m.doc.Skins[i]

	var inv []float32
	if gs.InverseBindMatrices != nil {
		acc := m.doc.Accessors[*gs.InverseBindMatrices]
		var err error
		inv, err = m.bs.readFloats(acc)
		if err != nil {
			return nil, err
		}
	}

	joints := make([]skin.Joint, len(gs.Joints))
	for j, nodeIdx := range gs.Joints {
		gn := m.doc.Nodes[nodeIdx]
		joints[j] = skin.Joint{
			Position:    translationOf(gn),
			Rotation:    rotationOf(gn),
			Scale:       scaleOf(gn),
			Name:        gn.Name,
			ParentIndex: parentIndexOf(gs.Joints, nodeIdx, m.doc.Nodes),
		}
		if len(inv) >= (j+1)*16 {
			var mat math32.Matrix4
			copy(mat[:], inv[j*16:(j+1)*16])
			joints[j].InverseBind = mat
		} else {
			joints[j].InverseBind.Identity()
		}
	}

	s := skin.New(joints)
	if _, err := m.col.Manage(collection.KindSkin, gs.Name, s); err != nil {
		return nil, err
	}
	m.skins[i] = s
	return s, nil
}

// parentIndexOf finds child's parent among joints, returning the
// parent's position within the joints slice or -1 if child's glTF
// parent is not itself one of this skin's joints (the root case).
func parentIndexOf(joints []int, child int, nodes []node) int {

	for i, nIdx := range joints {
		for _, c := range nodes[nIdx].Children {
			if c == child {
				return i
			}
		}
	}
	return -1
}

// ---- meshes ----

func (m *materializer) mesh(i int) (*mesh.Mesh, error) {

	if mm, ok := m.meshes[i]; ok {
		return mm, nil
	}
	if i < 0 || i >= len(m.doc.Meshes) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: mesh index %d out of range", i)
	}
	gm := m.doc.Meshes[i]
	if len(gm.Primitives) == 0 {
		return nil, errkind.New(errkind.InvalidFile, "gltf: mesh %d has no primitives", i)
	}

	var blob []byte
	prims := make([]mesh.Primitive, 0, len(gm.Primitives))
	for _, gp := range gm.Primitives {
		if gp.Mode != nil && *gp.Mode != modeTriangles {
			return nil, errkind.New(errkind.Unsupported, "gltf: primitive mode %d", *gp.Mode)
		}
		prim, vdata, idata, err := m.buildPrimitive(gp)
		if err != nil {
			return nil, err
		}
		prim.VertexOffset = int64(len(blob))
		prim.IndexOffset = int64(len(vdata))
		blob = append(blob, vdata...)
		blob = append(blob, idata...)
		prims = append(prims, prim)
	}

	buf, err := m.ctx.NewBuffer(int64(len(blob)))
	if err != nil {
		return nil, errkind.Wrap(errkind.NoMemory, err, "gltf: allocate mesh buffer")
	}
	if err := buf.Copy(0, blob); err != nil {
		return nil, errkind.Wrap(errkind.DeviceGenerated, err, "gltf: upload mesh data")
	}

	mm, err := mesh.New(mesh.Data{Primitives: prims, Blob: blob}, buf, buf)
	if err != nil {
		return nil, err
	}
	for p, gp := range gm.Primitives {
		if gp.Material == nil {
			continue
		}
		mat, err := m.material(*gp.Material)
		if err != nil {
			return nil, err
		}
		mm.SetMaterial(p, mat)
	}

	if _, err := m.col.Manage(collection.KindMesh, gm.Name, mm); err != nil {
		return nil, err
	}
	m.meshes[i] = mm
	return mm, nil
}

// attrLayout describes one interleaved attribute slot while building a
// primitive's vertex data.
type attrLayout struct {
	semName string
	sem     mesh.Semantic
	format  mesh.Format
	size    int
	values  []float32
	stride  int // number of float32 components per vertex for this attribute
}

// buildPrimitive reads every attribute and the index accessor for gp,
// and packs them into one interleaved vertex blob plus an index blob,
// in a fixed attribute order so every primitive built this way shares a
// layout.
func (m *materializer) buildPrimitive(gp primitive) (mesh.Primitive, []byte, []byte, error) {

	order := []struct {
		name   string
		sem    mesh.Semantic
		format mesh.Format
	}{
		{"POSITION", mesh.SemPosition, mesh.FormatFloat32x3},
		{"NORMAL", mesh.SemNormal, mesh.FormatFloat32x3},
		{"TANGENT", mesh.SemTangent, mesh.FormatFloat32x4},
		{"TEXCOORD_0", mesh.SemTexCoord0, mesh.FormatFloat32x2},
		{"TEXCOORD_1", mesh.SemTexCoord1, mesh.FormatFloat32x2},
		{"COLOR_0", mesh.SemColor, mesh.FormatFloat32x4},
		{"WEIGHTS_0", mesh.SemWeights, mesh.FormatFloat32x4},
	}

	var layouts []attrLayout
	vertexCount := 0
	for _, o := range order {
		accIdx, ok := gp.Attributes[o.name]
		if !ok {
			continue
		}
		acc := m.doc.Accessors[accIdx]
		values, err := m.bs.readFloats(acc)
		if err != nil {
			return mesh.Primitive{}, nil, nil, err
		}
		stride := typeComponents[acc.Type]
		layouts = append(layouts, attrLayout{semName: o.name, sem: o.sem, format: o.format, size: formatSize(o.format), values: values, stride: stride})
		vertexCount = acc.Count
	}

	// JOINTS_0 packs into Uint16x4 regardless of its source component
	// type, so it is handled separately from the float attribute table.
	var joints []uint16
	if accIdx, ok := gp.Attributes["JOINTS_0"]; ok {
		acc := m.doc.Accessors[accIdx]
		vals, err := m.bs.readFloats(acc)
		if err != nil {
			return mesh.Primitive{}, nil, nil, err
		}
		joints = make([]uint16, len(vals))
		for i, v := range vals {
			joints[i] = uint16(v)
		}
	}

	if vertexCount == 0 {
		return mesh.Primitive{}, nil, nil, errkind.New(errkind.InvalidFile, "gltf: primitive has no POSITION attribute")
	}

	var attrs []mesh.Attribute
	var offset int64
	for _, l := range layouts {
		attrs = append(attrs, mesh.Attribute{Semantic: l.sem, Format: l.format, Offset: offset})
		offset += int64(l.size)
	}
	if joints != nil {
		attrs = append(attrs, mesh.Attribute{Semantic: mesh.SemJoints, Format: mesh.FormatUint16x4, Offset: offset})
		offset += int64(formatSize(mesh.FormatUint16x4))
	}
	vertexStride := int(offset)

	vdata := make([]byte, vertexStride*vertexCount)
	for v := 0; v < vertexCount; v++ {
		base := v * vertexStride
		off := 0
		for _, l := range layouts {
			writeFloats(vdata[base+off:], l.values[v*l.stride:v*l.stride+min(l.stride, l.size/4)])
			off += l.size
		}
		if joints != nil {
			writeUint16s(vdata[base+off:], joints[v*4:v*4+4])
			off += formatSize(mesh.FormatUint16x4)
		}
	}

	var mask mesh.Semantic
	for _, l := range layouts {
		mask |= l.sem
	}
	if joints != nil {
		mask |= mesh.SemJoints
	}

	prim := mesh.Primitive{
		Topology:     gpu.TopologyTriangle,
		VertexCount:  vertexCount,
		SemanticMask: mask,
		Attributes:   attrs,
	}

	var idata []byte
	if gp.Indices != nil {
		acc := m.doc.Accessors[*gp.Indices]
		idx, err := m.bs.readIndices(acc)
		if err != nil {
			return mesh.Primitive{}, nil, nil, err
		}
		prim.IndexCount = len(idx)
		wide := len(idx) > 0 && idxNeedsU32(idx)
		if wide {
			prim.IndexType = gpu.IndexTypeU32
			idata = make([]byte, len(idx)*4)
			for i, v := range idx {
				putU32(idata[i*4:], v)
			}
		} else {
			prim.IndexType = gpu.IndexTypeU16
			idata = make([]byte, len(idx)*2)
			for i, v := range idx {
				putU16(idata[i*2:], uint16(v))
			}
		}
	} else {
		prim.IndexCount = vertexCount
		prim.IndexType = gpu.IndexTypeU16
		idata = make([]byte, vertexCount*2)
		for i := 0; i < vertexCount; i++ {
			putU16(idata[i*2:], uint16(i))
		}
	}

	return prim, vdata, idata, nil
}

// writeFloats packs values as little-endian float32 starting at dst[0].
func writeFloats(dst []byte, values []float32) {

	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// writeUint16s packs values as little-endian uint16 starting at dst[0].
func writeUint16s(dst []byte, values []uint16) {

	for i, v := range values {
		binary.LittleEndian.PutUint16(dst[i*2:], v)
	}
}

func putU32(dst []byte, v uint32) {

	binary.LittleEndian.PutUint32(dst, v)
}

func putU16(dst []byte, v uint16) {

	binary.LittleEndian.PutUint16(dst, v)
}

func idxNeedsU32(idx []uint32) bool {

	for _, v := range idx {
		if v > 0xFFFF {
			return true
		}
	}
	return false
}

func formatSize(f mesh.Format) int {

	switch f {
	case mesh.FormatFloat32:
		return 4
	case mesh.FormatFloat32x2:
		return 8
	case mesh.FormatFloat32x3:
		return 12
	case mesh.FormatFloat32x4:
		return 16
	case mesh.FormatUint8x4:
		return 4
	case mesh.FormatUint16x4:
		return 8
	default:
		return 0
	}
}

func min(a, b int) int {

	if a < b {
		return a
	}
	return b
}

// ---- nodes / scenes ----

func (m *materializer) node(i int) (*core.Node, error) {

	if n, ok := m.nodes[i]; ok {
		return n, nil
	}
	if i < 0 || i >= len(m.doc.Nodes) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: node index %d out of range", i)
	}
	gn := m.doc.Nodes[i]

	var n *core.Node
	switch {
	case gn.Mesh != nil:
		mm, err := m.mesh(*gn.Mesh)
		if err != nil {
			return nil, err
		}
		mo := scene.NewModel(mm)
		if gn.Skin != nil {
			sk, err := m.skin(*gn.Skin)
			if err != nil {
				return nil, err
			}
			skel, err := sk.MakeSkeleton(nil)
			if err != nil {
				return nil, err
			}
			mo.SetSkeleton(skel)
		}
		n = mo.Node()
	case gn.Camera != nil:
		c, err := m.camera(*gn.Camera)
		if err != nil {
			return nil, err
		}
		n = c.Node()
	default:
		n = core.NewNode()
	}
	n.SetName(gn.Name)
	m.nodes[i] = n // registered before recursing into children, so a cyclic reference finds the slot filled rather than recursing forever

	if gn.Matrix != nil {
		var mat math32.Matrix4
		copy(mat[:], gn.Matrix)
		var pos, scl math32.Vector3
		var rot math32.Quaternion
		mat.Decompose(&pos, &rot, &scl)
		n.SetTransform(pos, rot, scl)
	} else {
		n.SetTransform(translationOf(gn), rotationOf(gn), scaleOf(gn))
	}

	for _, c := range gn.Children {
		cn, err := m.node(c)
		if err != nil {
			return nil, err
		}
		n.Insert(cn)
	}

	if _, err := m.col.Manage(collection.KindNode, gn.Name, n); err != nil {
		return nil, err
	}
	return n, nil
}

func translationOf(gn node) math32.Vector3 {

	if len(gn.Translation) < 3 {
		return math32.Vector3{}
	}
	return math32.Vector3{X: gn.Translation[0], Y: gn.Translation[1], Z: gn.Translation[2]}
}

func rotationOf(gn node) math32.Quaternion {

	if len(gn.Rotation) < 4 {
		return math32.Quaternion{W: 1}
	}
	return math32.Quaternion{X: gn.Rotation[0], Y: gn.Rotation[1], Z: gn.Rotation[2], W: gn.Rotation[3]}
}

func scaleOf(gn node) math32.Vector3 {

	if len(gn.Scale) < 3 {
		return math32.Vector3{X: 1, Y: 1, Z: 1}
	}
	return math32.Vector3{X: gn.Scale[0], Y: gn.Scale[1], Z: gn.Scale[2]}
}

func (m *materializer) scene(i int) (*scene.Scene, error) {

	if i < 0 || i >= len(m.doc.Scenes) {
		return nil, errkind.New(errkind.InvalidFile, "gltf: scene index %d out of range", i)
	}
	gs := m.doc.Scenes[i]

	s := scene.New()
	for _, nIdx := range gs.Nodes {
		n, err := m.node(nIdx)
		if err != nil {
			return nil, err
		}
		s.Node().Insert(n)
	}
	// glTF scenes carry no explicit active-camera reference of their
	// own; the first camera materialised so far in the document becomes
	// this scene's camera, whether or not it sits under this scene.
	if m.firstCamera != nil {
		s.SetCamera(m.firstCamera)
	}

	if _, err := m.col.Manage(collection.KindScene, gs.Name, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ---- animations ----

func (m *materializer) animation(i int) (*animation.KfAnim, error) {

	ga := m.doc.Animations[i]

	var inputs []animation.Input
	inputIdx := make(map[int]int) // accessor index -> inputs slot
	var outputs []animation.Output

	acts := make([]animation.Act, 0, len(ga.Channels))
	targets := make([]*core.Node, 0, len(ga.Channels))

	for _, ch := range ga.Channels {
		if ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
			return nil, errkind.New(errkind.InvalidFile, "gltf: animation %d channel references invalid sampler", i)
		}
		samp := ga.Samplers[ch.Sampler]

		inIdx, ok := inputIdx[samp.Input]
		if !ok {
			acc := m.doc.Accessors[samp.Input]
			vals, err := m.bs.readFloats(acc)
			if err != nil {
				return nil, err
			}
			sort.Float32s(vals)
			inIdx = len(inputs)
			inputs = append(inputs, animation.Input{Timeline: vals})
			inputIdx[samp.Input] = inIdx
		}

		var property animation.Property
		switch ch.Target.Path {
		case "translation":
			property = animation.PropertyT
		case "rotation":
			property = animation.PropertyR
		case "scale":
			property = animation.PropertyS
		default:
			return nil, errkind.New(errkind.Unsupported, "gltf: animated property %q", ch.Target.Path)
		}

		interp := animation.InterpLinear
		switch samp.Interpolation {
		case "STEP":
			interp = animation.InterpStep
		case "LINEAR":
			interp = animation.InterpLinear
		default:
			return nil, errkind.New(errkind.Unsupported, "gltf: interpolation %q", samp.Interpolation)
		}

		outAcc := m.doc.Accessors[samp.Output]
		vals, err := m.bs.readFloats(outAcc)
		if err != nil {
			return nil, err
		}
		out := animation.Output{Property: property}
		switch property {
		case animation.PropertyT, animation.PropertyS:
			vecs := make([]math32.Vector3, len(vals)/3)
			for v := range vecs {
				vecs[v] = math32.Vector3{X: vals[v*3], Y: vals[v*3+1], Z: vals[v*3+2]}
			}
			if property == animation.PropertyT {
				out.T = vecs
			} else {
				out.S = vecs
			}
		case animation.PropertyR:
			quats := make([]math32.Quaternion, len(vals)/4)
			for q := range quats {
				quats[q] = math32.Quaternion{X: vals[q*4], Y: vals[q*4+1], Z: vals[q*4+2], W: vals[q*4+3]}
			}
			out.R = quats
		}
		outIdx := len(outputs)
		outputs = append(outputs, out)

		acts = append(acts, animation.Act{Interp: interp, InputIdx: inIdx, OutputIdx: outIdx})

		if ch.Target.Node == nil {
			targets = append(targets, nil)
			continue
		}
		n, err := m.node(*ch.Target.Node)
		if err != nil {
			return nil, err
		}
		targets = append(targets, n)
	}

	anim, err := animation.New(inputs, outputs, acts)
	if err != nil {
		return nil, err
	}
	for act, n := range targets {
		if n == nil {
			continue
		}
		if err := anim.SetTarget(act, n); err != nil {
			return nil, err
		}
	}

	if _, err := m.col.Manage(collection.KindKfAnim, ga.Name, anim); err != nil {
		return nil, err
	}
	return anim, nil
}
