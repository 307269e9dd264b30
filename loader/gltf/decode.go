// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"github.com/vorn3d/engine/errkind"
)

// decoder drives a tokenizer with one token of lookahead, the minimum a
// recursive-descent JSON parser needs to decide whether a value or a
// closing punctuator comes next.
type decoder struct {
	tz   *tokenizer
	tok  token
	have bool
}

func newDecoder(src []byte) *decoder {

	return &decoder{tz: newTokenizer(src)}
}

func (d *decoder) peek() token {

	if !d.have {
		d.tok = d.tz.next()
		d.have = true
	}
	return d.tok
}

func (d *decoder) advance() token {

	t := d.peek()
	d.have = false
	return t
}

// fieldFunc parses the value for one known object property.
type fieldFunc func(d *decoder) error

// parseObject consumes a '{'-delimited object, dispatching each
// property to fields[key] when present and skipping the value
// (balanced-bracket skip) otherwise — unknown properties never abort
// the parse.
func parseObject(d *decoder, fields map[string]fieldFunc) error {

	if t := d.advance(); t.kind != tokObjectStart {
		return errUnexpectedToken("expected '{'")
	}
	if d.peek().kind == tokObjectEnd {
		d.advance()
		return nil
	}
	for {
		key := d.advance()
		if key.kind != tokString {
			return errUnexpectedToken("expected object key")
		}
		if d.advance().kind != tokColon {
			return errUnexpectedToken("expected ':'")
		}
		if fn, ok := fields[key.str]; ok {
			if err := fn(d); err != nil {
				return err
			}
		} else if err := skipValue(d); err != nil {
			return err
		}

		switch d.advance().kind {
		case tokComma:
			continue
		case tokObjectEnd:
			return nil
		default:
			return errUnexpectedToken("expected ',' or '}'")
		}
	}
}

// elemFunc parses one array element.
type elemFunc func(d *decoder) error

func parseArray(d *decoder, elem elemFunc) error {

	if t := d.advance(); t.kind != tokArrayStart {
		return errUnexpectedToken("expected '['")
	}
	if d.peek().kind == tokArrayEnd {
		d.advance()
		return nil
	}
	for {
		if err := elem(d); err != nil {
			return err
		}
		switch d.advance().kind {
		case tokComma:
			continue
		case tokArrayEnd:
			return nil
		default:
			return errUnexpectedToken("expected ',' or ']'")
		}
	}
}

// skipValue consumes one arbitrary JSON value — scalar, object or array
// — without interpreting it. Objects and arrays are skipped by tracking
// nesting depth rather than recursing, so skip depth is not bounded by
// Go's call stack.
func skipValue(d *decoder) error {

	switch d.peek().kind {
	case tokObjectStart:
		return skipBalanced(d, tokObjectStart, tokObjectEnd)
	case tokArrayStart:
		return skipBalanced(d, tokArrayStart, tokArrayEnd)
	case tokString, tokNumber, tokBool, tokNull:
		d.advance()
		return nil
	default:
		return errUnexpectedToken("expected a value")
	}
}

func skipBalanced(d *decoder, open, close tokenKind) error {

	depth := 0
	for {
		t := d.advance()
		switch t.kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return nil
			}
		case tokEOF, tokError:
			return errUnexpectedToken("unterminated value")
		}
	}
}

func parseString(d *decoder) (string, error) {

	t := d.advance()
	if t.kind != tokString {
		return "", errUnexpectedToken("expected a string")
	}
	return t.str, nil
}

func parseNumber(d *decoder) (float64, error) {

	t := d.advance()
	if t.kind != tokNumber {
		return 0, errUnexpectedToken("expected a number")
	}
	return t.num, nil
}

func parseInt(d *decoder) (int, error) {

	v, err := parseNumber(d)
	return int(v), err
}

func parseFloat32(d *decoder) (float32, error) {

	v, err := parseNumber(d)
	return float32(v), err
}

func parseBool(d *decoder) (bool, error) {

	t := d.advance()
	if t.kind != tokBool {
		return false, errUnexpectedToken("expected a boolean")
	}
	return t.b, nil
}

func parseIntArray(d *decoder) ([]int, error) {

	var out []int
	err := parseArray(d, func(d *decoder) error {
		v, err := parseInt(d)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func parseFloatArray(d *decoder) ([]float32, error) {

	var out []float32
	err := parseArray(d, func(d *decoder) error {
		v, err := parseFloat32(d)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// parseAttributes reads a primitive's "attributes" object, whose keys
// are attribute semantic names (POSITION, NORMAL, TEXCOORD_0, ...) not
// known in advance, so it cannot go through parseObject's fixed field
// table.
func parseAttributes(d *decoder) (map[string]int, error) {

	out := make(map[string]int)
	if t := d.advance(); t.kind != tokObjectStart {
		return nil, errUnexpectedToken("expected '{'")
	}
	if d.peek().kind == tokObjectEnd {
		d.advance()
		return out, nil
	}
	for {
		key := d.advance()
		if key.kind != tokString {
			return nil, errUnexpectedToken("expected attribute name")
		}
		if d.advance().kind != tokColon {
			return nil, errUnexpectedToken("expected ':'")
		}
		v, err := parseInt(d)
		if err != nil {
			return nil, err
		}
		out[key.str] = v

		switch d.advance().kind {
		case tokComma:
			continue
		case tokObjectEnd:
			return out, nil
		default:
			return nil, errUnexpectedToken("expected ',' or '}'")
		}
	}
}

// parseDocument decodes src into a document, ignoring any top-level
// property this package does not recognise.
func parseDocument(src []byte) (*document, error) {

	d := newDecoder(src)
	doc := &document{}

	fields := map[string]fieldFunc{
		"asset": func(d *decoder) error {
			return parseObject(d, map[string]fieldFunc{
				"version": func(d *decoder) error {
					v, err := parseString(d)
					doc.Asset.Version = v
					return err
				},
				"generator": func(d *decoder) error {
					v, err := parseString(d)
					doc.Asset.Generator = v
					return err
				},
			})
		},
		"scene": func(d *decoder) error {
			v, err := parseInt(d)
			doc.Scene = &v
			return err
		},
		"scenes": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				s, err := parseScene(d)
				doc.Scenes = append(doc.Scenes, s)
				return err
			})
		},
		"nodes": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				n, err := parseNode(d)
				doc.Nodes = append(doc.Nodes, n)
				return err
			})
		},
		"cameras": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				c, err := parseCamera(d)
				doc.Cameras = append(doc.Cameras, c)
				return err
			})
		},
		"meshes": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				m, err := parseMesh(d)
				doc.Meshes = append(doc.Meshes, m)
				return err
			})
		},
		"skins": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				s, err := parseSkin(d)
				doc.Skins = append(doc.Skins, s)
				return err
			})
		},
		"materials": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				m, err := parseMaterial(d)
				doc.Materials = append(doc.Materials, m)
				return err
			})
		},
		"animations": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				a, err := parseAnimation(d)
				doc.Animations = append(doc.Animations, a)
				return err
			})
		},
		"accessors": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				a, err := parseAccessor(d)
				doc.Accessors = append(doc.Accessors, a)
				return err
			})
		},
		"bufferViews": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				b, err := parseBufferView(d)
				doc.BufferViews = append(doc.BufferViews, b)
				return err
			})
		},
		"buffers": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				b, err := parseBuffer(d)
				doc.Buffers = append(doc.Buffers, b)
				return err
			})
		},
		"textures": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				t, err := parseTexture(d)
				doc.Textures = append(doc.Textures, t)
				return err
			})
		},
		"images": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				i, err := parseImage(d)
				doc.Images = append(doc.Images, i)
				return err
			})
		},
		"samplers": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				s, err := parseSampler(d)
				doc.Samplers = append(doc.Samplers, s)
				return err
			})
		},
	}

	if err := parseObject(d, fields); err != nil {
		return nil, err
	}
	if d.advance().kind != tokEOF {
		return nil, errkind.New(errkind.InvalidFile, "gltf: trailing data after document")
	}
	if doc.Asset.Version == "" {
		return nil, errkind.New(errkind.InvalidFile, "gltf: missing required asset.version")
	}
	return doc, nil
}

func parseScene(d *decoder) (gltfScene, error) {

	var s gltfScene
	err := parseObject(d, map[string]fieldFunc{
		"name": func(d *decoder) error { v, e := parseString(d); s.Name = v; return e },
		"nodes": func(d *decoder) error {
			v, e := parseIntArray(d)
			s.Nodes = v
			return e
		},
	})
	return s, err
}

func parseNode(d *decoder) (node, error) {

	var n node
	err := parseObject(d, map[string]fieldFunc{
		"name": func(d *decoder) error { v, e := parseString(d); n.Name = v; return e },
		"children": func(d *decoder) error {
			v, e := parseIntArray(d)
			n.Children = v
			return e
		},
		"camera": func(d *decoder) error { v, e := parseInt(d); n.Camera = &v; return e },
		"mesh":   func(d *decoder) error { v, e := parseInt(d); n.Mesh = &v; return e },
		"skin":   func(d *decoder) error { v, e := parseInt(d); n.Skin = &v; return e },
		"matrix": func(d *decoder) error { v, e := parseFloatArray(d); n.Matrix = v; return e },
		"translation": func(d *decoder) error {
			v, e := parseFloatArray(d)
			n.Translation = v
			return e
		},
		"rotation": func(d *decoder) error { v, e := parseFloatArray(d); n.Rotation = v; return e },
		"scale":    func(d *decoder) error { v, e := parseFloatArray(d); n.Scale = v; return e },
	})
	return n, err
}

func parseCamera(d *decoder) (gltfCamera, error) {

	var c gltfCamera
	err := parseObject(d, map[string]fieldFunc{
		"type": func(d *decoder) error { v, e := parseString(d); c.Type = v; return e },
		"perspective": func(d *decoder) error {
			return parseObject(d, map[string]fieldFunc{
				"aspectRatio": func(d *decoder) error { v, e := parseFloat32(d); c.Perspective.AspectRatio = v; return e },
				"yfov":        func(d *decoder) error { v, e := parseFloat32(d); c.Perspective.Yfov = v; return e },
				"zfar":        func(d *decoder) error { v, e := parseFloat32(d); c.Perspective.Zfar = v; return e },
				"znear":       func(d *decoder) error { v, e := parseFloat32(d); c.Perspective.Znear = v; return e },
			})
		},
		"orthographic": func(d *decoder) error {
			return parseObject(d, map[string]fieldFunc{
				"xmag":  func(d *decoder) error { v, e := parseFloat32(d); c.Orthographic.Xmag = v; return e },
				"ymag":  func(d *decoder) error { v, e := parseFloat32(d); c.Orthographic.Ymag = v; return e },
				"zfar":  func(d *decoder) error { v, e := parseFloat32(d); c.Orthographic.Zfar = v; return e },
				"znear": func(d *decoder) error { v, e := parseFloat32(d); c.Orthographic.Znear = v; return e },
			})
		},
	})
	return c, err
}

func parseMesh(d *decoder) (gltfMesh, error) {

	var m gltfMesh
	err := parseObject(d, map[string]fieldFunc{
		"name": func(d *decoder) error { v, e := parseString(d); m.Name = v; return e },
		"primitives": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				p, err := parsePrimitive(d)
				m.Primitives = append(m.Primitives, p)
				return err
			})
		},
	})
	return m, err
}

func parsePrimitive(d *decoder) (primitive, error) {

	var p primitive
	err := parseObject(d, map[string]fieldFunc{
		"attributes": func(d *decoder) error {
			v, err := parseAttributes(d)
			p.Attributes = v
			return err
		},
		"indices":  func(d *decoder) error { v, e := parseInt(d); p.Indices = &v; return e },
		"material": func(d *decoder) error { v, e := parseInt(d); p.Material = &v; return e },
		"mode":     func(d *decoder) error { v, e := parseInt(d); p.Mode = &v; return e },
	})
	return p, err
}

func parseSkin(d *decoder) (gltfSkin, error) {

	var s gltfSkin
	err := parseObject(d, map[string]fieldFunc{
		"name": func(d *decoder) error { v, e := parseString(d); s.Name = v; return e },
		"inverseBindMatrices": func(d *decoder) error {
			v, e := parseInt(d)
			s.InverseBindMatrices = &v
			return e
		},
		"skeleton": func(d *decoder) error { v, e := parseInt(d); s.Skeleton = &v; return e },
		"joints": func(d *decoder) error {
			v, e := parseIntArray(d)
			s.Joints = v
			return e
		},
	})
	return s, err
}

func parseTextureRef(d *decoder) (*textureRef, error) {

	r := &textureRef{}
	err := parseObject(d, map[string]fieldFunc{
		"index":    func(d *decoder) error { v, e := parseInt(d); r.Index = v; return e },
		"texCoord": func(d *decoder) error { v, e := parseInt(d); r.TexCoord = v; return e },
	})
	return r, err
}

func parseMaterial(d *decoder) (gltfMaterial, error) {

	var m gltfMaterial
	err := parseObject(d, map[string]fieldFunc{
		"name": func(d *decoder) error { v, e := parseString(d); m.Name = v; return e },
		"pbrMetallicRoughness": func(d *decoder) error {
			pbr := &pbrMetallicRoughness{}
			err := parseObject(d, map[string]fieldFunc{
				"baseColorFactor": func(d *decoder) error { v, e := parseFloatArray(d); pbr.BaseColorFactor = v; return e },
				"baseColorTexture": func(d *decoder) error {
					v, e := parseTextureRef(d)
					pbr.BaseColorTexture = v
					return e
				},
				"metallicFactor":  func(d *decoder) error { v, e := parseFloat32(d); pbr.MetallicFactor = &v; return e },
				"roughnessFactor": func(d *decoder) error { v, e := parseFloat32(d); pbr.RoughnessFactor = &v; return e },
				"metallicRoughnessTexture": func(d *decoder) error {
					v, e := parseTextureRef(d)
					pbr.MetallicRoughnessTexture = v
					return e
				},
			})
			m.PbrMetallicRoughness = pbr
			return err
		},
		"normalTexture":    func(d *decoder) error { v, e := parseTextureRef(d); m.NormalTexture = v; return e },
		"occlusionTexture": func(d *decoder) error { v, e := parseTextureRef(d); m.OcclusionTexture = v; return e },
		"emissiveTexture":  func(d *decoder) error { v, e := parseTextureRef(d); m.EmissiveTexture = v; return e },
		"emissiveFactor":   func(d *decoder) error { v, e := parseFloatArray(d); m.EmissiveFactor = v; return e },
		"alphaMode":        func(d *decoder) error { v, e := parseString(d); m.AlphaMode = v; return e },
		"alphaCutoff":      func(d *decoder) error { v, e := parseFloat32(d); m.AlphaCutoff = &v; return e },
		"doubleSided":      func(d *decoder) error { v, e := parseBool(d); m.DoubleSided = v; return e },
		"extensions": func(d *decoder) error {
			return parseObject(d, map[string]fieldFunc{
				"KHR_materials_pbrSpecularGlossiness": func(d *decoder) error {
					sg := &pbrSpecularGlossiness{}
					err := parseObject(d, map[string]fieldFunc{
						"diffuseFactor": func(d *decoder) error { v, e := parseFloatArray(d); sg.DiffuseFactor = v; return e },
						"diffuseTexture": func(d *decoder) error {
							v, e := parseTextureRef(d)
							sg.DiffuseTexture = v
							return e
						},
						"specularFactor":   func(d *decoder) error { v, e := parseFloatArray(d); sg.SpecularFactor = v; return e },
						"glossinessFactor": func(d *decoder) error { v, e := parseFloat32(d); sg.GlossinessFactor = &v; return e },
						"specularGlossinessTexture": func(d *decoder) error {
							v, e := parseTextureRef(d)
							sg.SpecularGlossinessTexture = v
							return e
						},
					})
					m.SpecGloss = sg
					return err
				},
				"KHR_materials_unlit": func(d *decoder) error {
					m.Unlit = true
					return parseObject(d, nil)
				},
			})
		},
	})
	return m, err
}

func parseAnimation(d *decoder) (gltfAnimation, error) {

	var a gltfAnimation
	err := parseObject(d, map[string]fieldFunc{
		"name": func(d *decoder) error { v, e := parseString(d); a.Name = v; return e },
		"channels": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				var c channel
				err := parseObject(d, map[string]fieldFunc{
					"sampler": func(d *decoder) error { v, e := parseInt(d); c.Sampler = v; return e },
					"target": func(d *decoder) error {
						return parseObject(d, map[string]fieldFunc{
							"node": func(d *decoder) error { v, e := parseInt(d); c.Target.Node = &v; return e },
							"path": func(d *decoder) error { v, e := parseString(d); c.Target.Path = v; return e },
						})
					},
				})
				a.Channels = append(a.Channels, c)
				return err
			})
		},
		"samplers": func(d *decoder) error {
			return parseArray(d, func(d *decoder) error {
				var s animSampler
				s.Interpolation = "LINEAR"
				err := parseObject(d, map[string]fieldFunc{
					"input":         func(d *decoder) error { v, e := parseInt(d); s.Input = v; return e },
					"output":        func(d *decoder) error { v, e := parseInt(d); s.Output = v; return e },
					"interpolation": func(d *decoder) error { v, e := parseString(d); s.Interpolation = v; return e },
				})
				a.Samplers = append(a.Samplers, s)
				return err
			})
		},
	})
	return a, err
}

func parseAccessor(d *decoder) (accessor, error) {

	var a accessor
	err := parseObject(d, map[string]fieldFunc{
		"bufferView":    func(d *decoder) error { v, e := parseInt(d); a.BufferView = &v; return e },
		"byteOffset":    func(d *decoder) error { v, e := parseInt(d); a.ByteOffset = v; return e },
		"componentType": func(d *decoder) error { v, e := parseInt(d); a.ComponentType = v; return e },
		"normalized":    func(d *decoder) error { v, e := parseBool(d); a.Normalized = v; return e },
		"count":         func(d *decoder) error { v, e := parseInt(d); a.Count = v; return e },
		"type":          func(d *decoder) error { v, e := parseString(d); a.Type = v; return e },
	})
	return a, err
}

func parseBufferView(d *decoder) (bufferView, error) {

	var b bufferView
	err := parseObject(d, map[string]fieldFunc{
		"buffer":     func(d *decoder) error { v, e := parseInt(d); b.Buffer = v; return e },
		"byteOffset": func(d *decoder) error { v, e := parseInt(d); b.ByteOffset = v; return e },
		"byteLength": func(d *decoder) error { v, e := parseInt(d); b.ByteLength = v; return e },
		"byteStride": func(d *decoder) error { v, e := parseInt(d); b.ByteStride = v; return e },
	})
	return b, err
}

func parseBuffer(d *decoder) (buffer, error) {

	var b buffer
	err := parseObject(d, map[string]fieldFunc{
		"uri":        func(d *decoder) error { v, e := parseString(d); b.Uri = v; return e },
		"byteLength": func(d *decoder) error { v, e := parseInt(d); b.ByteLength = v; return e },
	})
	return b, err
}

func parseTexture(d *decoder) (gltfTexture, error) {

	var t gltfTexture
	err := parseObject(d, map[string]fieldFunc{
		"sampler": func(d *decoder) error { v, e := parseInt(d); t.Sampler = &v; return e },
		"source":  func(d *decoder) error { v, e := parseInt(d); t.Source = &v; return e },
	})
	return t, err
}

func parseImage(d *decoder) (image, error) {

	var im image
	err := parseObject(d, map[string]fieldFunc{
		"uri":      func(d *decoder) error { v, e := parseString(d); im.Uri = v; return e },
		"mimeType": func(d *decoder) error { v, e := parseString(d); im.MimeType = v; return e },
		"bufferView": func(d *decoder) error {
			v, e := parseInt(d)
			im.BufferView = &v
			return e
		},
	})
	return im, err
}

func parseSampler(d *decoder) (sampler, error) {

	var s sampler
	err := parseObject(d, map[string]fieldFunc{
		"magFilter": func(d *decoder) error { v, e := parseInt(d); s.MagFilter = &v; return e },
		"minFilter": func(d *decoder) error { v, e := parseInt(d); s.MinFilter = &v; return e },
		"wrapS":     func(d *decoder) error { v, e := parseInt(d); s.WrapS = &v; return e },
		"wrapT":     func(d *decoder) error { v, e := parseInt(d); s.WrapT = &v; return e },
	})
	return s, err
}
