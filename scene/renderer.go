// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sync/atomic"

	"github.com/vorn3d/engine/config"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/resmgr"
)

// Stats reports what the most recent Render call did, for diagnostics
// and tests; it is overwritten, not accumulated, each frame.
type Stats struct {
	Models     int
	Terrains   int
	Particles  int
	Quads      int
	Labels     int
	Lights     int
	Passes     int
}

// Renderer is the per-view render orchestrator: it owns the resource
// pool and uniform buffer a scene graph is drawn against, and the
// single-threaded frame loop that drives them. It is built once per
// view and reused across frames; a single atomic guard forbids two
// concurrent Render calls on the same Renderer.
type Renderer struct {
	ctx    gpu.Context
	pass   gpu.Pass
	limits config.Limits

	mgr    *resmgr.Manager
	ubuf   gpu.Buffer
	ubufSz int64

	// globalTable is the single descriptor table the global and light
	// uniform blocks are bound through every frame; unlike per-step
	// tables it is not leased from the resource manager, since exactly
	// one is needed for the renderer's lifetime.
	globalTable gpu.DTable

	// rendering is an atomic test-and-set guard: 0 idle, 1 in flight.
	// The engine forbids two concurrent Render calls on the same view.
	rendering int32
}

// New creates a Renderer against ctx and pass, sized per limits. alloc
// is the device collaborator the resource manager calls to bake a
// pipeline state and descriptor tables for a (drawable kind, instance
// tier) variant — see resmgr.AllocFunc. globalTable is the descriptor
// table the global and light uniform blocks are bound through; it may
// be nil for a renderer under test with no device-facing binding.
func New(ctx gpu.Context, pass gpu.Pass, limits config.Limits, alloc resmgr.AllocFunc, globalTable gpu.DTable) *Renderer {

	return &Renderer{
		ctx:         ctx,
		pass:        pass,
		limits:      limits,
		mgr:         resmgr.New(alloc),
		globalTable: globalTable,
	}
}

// Render draws scene into target: it classifies the scene graph,
// provisions pool and uniform-buffer resources for what it found, then
// encodes and executes one or more command buffers, falling back to
// additional passes whenever the resource pool runs out mid-frame. It
// returns per-frame stats on success.
func (r *Renderer) Render(s *Scene, target gpu.Target) (Stats, error) {

	if !atomic.CompareAndSwapInt32(&r.rendering, 0, 1) {
		return Stats{}, errkind.New(errkind.Busy, "scene: render already in progress on this view")
	}
	defer atomic.StoreInt32(&r.rendering, 0)

	if s.Camera() == nil {
		return Stats{}, errkind.New(errkind.InvalidArgument, "scene: scene has no camera")
	}

	f := newFrame()
	if err := f.classify(s.Node(), r.limits.MaxLights); err != nil {
		return Stats{}, err
	}

	d := f.demand(r.limits.ModelInstanceTiers)
	if err := provision(r.mgr, d); err != nil {
		return Stats{}, err
	}

	align := r.ctx.MinUniformAlignment()
	need := uniformBufferSize(d, align, r.limits.MaxJoints)
	if err := r.ensureUniformBuffer(need); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Models:    len(f.modelOrder),
		Terrains:  len(f.terrains),
		Particles: len(f.particles),
		Quads:     len(f.quads),
		Labels:    len(f.labels),
		Lights:    len(f.lights),
	}

	if err := r.encode(s, f, target, align, &stats); err != nil {
		r.mgr.Clear()
		return Stats{}, err
	}

	r.mgr.Clear()
	return stats, nil
}

// ensureUniformBuffer grows or shrinks the engine-owned uniform buffer
// if its current size cannot hold need bytes, or is more than twice
// what is needed.
func (r *Renderer) ensureUniformBuffer(need int64) error {

	if r.ubuf != nil && need <= r.ubufSz && r.ubufSz <= 2*need {
		return nil
	}

	buf, err := r.ctx.NewBuffer(need)
	if err != nil {
		return errkind.Wrap(errkind.NoMemory, err, "scene: allocate uniform buffer of %d bytes", need)
	}
	if r.ubuf != nil {
		r.ubuf.Deinit()
	}
	r.ubuf = buf
	r.ubufSz = need
	return nil
}
