// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/resmgr"
)

// Descriptor-table binding slots used within a single step's table.
const (
	bindInstance = 0
	bindMaterial = 1
	bindTexture0 = 2
)

// encode runs the traverse-classified frame's draw work through one or
// more command buffers, falling back to a fresh pass whenever the
// resource pool is exhausted mid-frame (obtain returns in_use): the
// in-flight command buffer is executed, every allocation obtained
// during that pass is yielded, and a new command buffer resumes from
// the first still-undrawn step, rebinding the global uniforms (which
// remain valid at their original buffer offset).
func (r *Renderer) encode(s *Scene, f *frame, target gpu.Target, align int64, stats *Stats) error {

	steps := buildSteps(f, r.limits.ModelInstanceTiers)
	camView := s.Camera().ViewMatrix()

	globalOff := int64(0)
	lightOff := alignUp(globalBlockSize, align)
	instanceStart := lightOff + alignUp(lightBlockSize, align)

	if err := r.writeGlobalAndLight(s, f, globalOff, lightOff); err != nil {
		return err
	}

	cmd, enc, err := r.beginPass(s, target, globalOff, lightOff)
	if err != nil {
		return err
	}
	stats.Passes = 1

	var obtained []resmgr.Allocation
	off := instanceStart
	idx := 0

	for idx < len(steps) {
		st := steps[idx]
		variant := resmgr.Variant{Kind: int(st.kind), Instance: st.tier}

		gs, dt, alloc, oerr := r.mgr.Obtain(variant)
		if errkind.Is(oerr, errkind.InUse) {
			if err := cmd.End(); err != nil {
				return err
			}
			if err := cmd.Exec(); err != nil {
				return err
			}
			for _, a := range obtained {
				r.mgr.Yield(a)
			}
			obtained = obtained[:0]
			cmd.Reset()

			cmd, enc, err = r.beginPass(s, target, globalOff, lightOff)
			if err != nil {
				return err
			}
			stats.Passes++
			off = instanceStart
			continue
		}
		if oerr != nil {
			return oerr
		}
		obtained = append(obtained, alloc)

		sz := st.blockSize(r.limits.MaxJoints)
		if err := r.encodeStep(enc, gs, dt, st, off, sz, camView); err != nil {
			return err
		}
		off += alignUp(sz, align)
		idx++
	}

	if err := cmd.End(); err != nil {
		return err
	}
	if err := cmd.Exec(); err != nil {
		return err
	}
	for _, a := range obtained {
		r.mgr.Yield(a)
	}
	return nil
}

// beginPass starts a fresh command buffer, binds the presentation
// target and rebinds the global descriptor table at its fixed buffer
// offsets — valid across every pass of the frame, since only the
// per-step instance/material region of the uniform buffer rewinds.
func (r *Renderer) beginPass(s *Scene, target gpu.Target, globalOff, lightOff int64) (gpu.CmdBuffer, gpu.Encoder, error) {

	cmd, err := r.ctx.NewCmdBuffer()
	if err != nil {
		return nil, nil, errkind.Wrap(errkind.DeviceGenerated, err, "scene: acquire command buffer")
	}
	enc := cmd.Encoder()
	enc.SetTarget(target)
	enc.ClearColor(s.Color())
	enc.ClearDepth(1)

	if r.globalTable != nil {
		if err := r.globalTable.SetBuffer(0, r.ubuf, globalOff, globalBlockSize); err != nil {
			return nil, nil, err
		}
		if err := r.globalTable.SetBuffer(1, r.ubuf, lightOff, lightBlockSize); err != nil {
			return nil, nil, err
		}
		enc.SetDTable(0, r.globalTable)
	}

	return cmd, enc, nil
}

// writeGlobalAndLight packs and uploads the global and light uniform
// blocks for this frame.
func (r *Renderer) writeGlobalAndLight(s *Scene, f *frame, globalOff, lightOff int64) error {

	globalBuf := make([]byte, globalBlockSize)
	viewport := [6]float32{0, 0, 1, 1, 0, 1}
	packGlobal(globalBuf, s.Camera(), viewport)
	if err := r.ubuf.Copy(globalOff, globalBuf); err != nil {
		return errkind.Wrap(errkind.DeviceGenerated, err, "scene: upload global uniform block")
	}

	lightBuf := make([]byte, lightBlockSize)
	packLight(lightBuf, f.lights)
	if err := r.ubuf.Copy(lightOff, lightBuf); err != nil {
		return errkind.Wrap(errkind.DeviceGenerated, err, "scene: upload light uniform block")
	}
	return nil
}

// encodeStep packs st's instance (and, for models, material) uniform
// data at off in the uniform buffer, binds it and its textures into dt,
// and records the draw. Multi-primitive meshes share one material block
// per batch, taken from the mesh's first primitive — the resource pool
// grants one descriptor table per draw, not one per primitive.
func (r *Renderer) encodeStep(enc gpu.Encoder, gs gpu.GState, dt gpu.DTable, st step, off, size int64, camView math32.Matrix4) error {

	buf := make([]byte, size)

	switch st.kind {
	case core.KindModel:
		instSize := modelInstanceSize(r.limits.MaxJoints)
		for i, mo := range st.models {
			world := mo.node.WorldMatrix()
			normal := mo.node.WorldNormal()
			var mv math32.Matrix4
			mv.MultiplyMatrices(&camView, &world)
			packModelInstance(buf[int64(i)*instSize:], world, normal, mv, mo.skeleton, r.limits.MaxJoints)
		}
		matOff := instSize * int64(len(st.models))
		mat := st.models[0].mesh.Material(0)
		packMaterial(buf[matOff:], mat)

		if err := dt.SetBuffer(bindInstance, r.ubuf, off, matOff); err != nil {
			return err
		}
		if err := dt.SetBuffer(bindMaterial, r.ubuf, off+matOff, materialBlockSize); err != nil {
			return err
		}
		if mat != nil {
			for i, tex := range mat.Textures() {
				if err := dt.SetImage(bindTexture0+i, tex.Image(), tex.Layer()); err != nil {
					return err
				}
			}
		}
		enc.SetGState(gs)
		enc.SetDTable(1, dt)
		st.models[0].mesh.Encode(enc, len(st.models))

	case core.KindTerrain:
		world := st.terrain.node.WorldMatrix()
		normal := st.terrain.node.WorldNormal()
		packSimpleInstance(buf, world, normal)
		if err := dt.SetBuffer(bindInstance, r.ubuf, off, terrainInstanceSize); err != nil {
			return err
		}
		enc.SetGState(gs)
		enc.SetDTable(1, dt)
		st.terrain.mesh.Encode(enc, 1)

	case core.KindParticleSystem:
		world := st.particle.node.WorldMatrix()
		normal := st.particle.node.WorldNormal()
		packSimpleInstance(buf, world, normal)
		if err := dt.SetBuffer(bindInstance, r.ubuf, off, terrainInstanceSize); err != nil {
			return err
		}
		enc.SetGState(gs)
		enc.SetDTable(1, dt)
		st.particle.mesh.Encode(enc, 1)

	case core.KindQuad:
		world := st.quad.node.WorldMatrix()
		normal := st.quad.node.WorldNormal()
		packQuadInstance(buf, world, normal, st.quad.Width, st.quad.Height)
		if err := dt.SetBuffer(bindInstance, r.ubuf, off, quadInstanceSize); err != nil {
			return err
		}
		enc.SetGState(gs)
		enc.SetDTable(1, dt)
		enc.Draw(false, 0, 6, 1, 0, 0)

	case core.KindLabel:
		world := st.label.node.WorldMatrix()
		normal := st.label.node.WorldNormal()
		packQuadInstance(buf, world, normal, st.label.Width, st.label.Height)
		if err := dt.SetBuffer(bindInstance, r.ubuf, off, quadInstanceSize); err != nil {
			return err
		}
		if st.label.Texture != nil {
			if err := dt.SetImage(bindTexture0, st.label.Texture.Image(), st.label.Texture.Layer()); err != nil {
				return err
			}
		}
		enc.SetGState(gs)
		enc.SetDTable(1, dt)
		enc.Draw(false, 0, 6*len(st.label.Glyphs), 1, 0, 0)
	}

	return r.ubuf.Copy(off, buf)
}
