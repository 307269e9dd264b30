// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package animation

// Player drives a KfAnim's clock: looping, pausing and speed scaling on
// top of the animation's own Apply(time) contract.
type Player struct {
	anim    *KfAnim
	name    string
	loop    bool
	paused  bool
	speed   float32
	time    float32
}

// NewPlayer creates a Player for anim, stopped at time zero, speed 1.
func NewPlayer(anim *KfAnim) *Player {

	return &Player{anim: anim, speed: 1}
}

// SetName sets the player's display name.
func (p *Player) SetName(name string) {

	p.name = name
}

// Name returns the player's display name.
func (p *Player) Name() string {

	return p.name
}

// SetLoop sets whether the player wraps back to zero on reaching the
// animation's duration instead of pausing there.
func (p *Player) SetLoop(loop bool) {

	p.loop = loop
}

// Loop reports whether the player loops.
func (p *Player) Loop() bool {

	return p.loop
}

// SetSpeed sets the playback speed multiplier applied to Advance's delta.
func (p *Player) SetSpeed(speed float32) {

	p.speed = speed
}

// SetPaused pauses or resumes the player.
func (p *Player) SetPaused(paused bool) {

	p.paused = paused
}

// Paused reports whether the player is paused.
func (p *Player) Paused() bool {

	return p.paused
}

// Reset rewinds the player to time zero and applies that pose
// immediately.
func (p *Player) Reset() {

	p.time = 0
	p.anim.Apply(p.time)
}

// Advance steps the player's clock by delta seconds (scaled by speed)
// and applies the resulting pose, unless paused. On reaching the
// animation's duration, loops back to zero if Loop is set, otherwise
// clamps at the end and pauses.
func (p *Player) Advance(delta float32) {

	if p.paused {
		return
	}

	p.time += delta * p.speed
	duration := p.anim.Duration()

	if p.time > duration {
		if p.loop {
			p.time -= duration
		} else {
			p.time = duration
			p.paused = true
		}
	}

	p.anim.Apply(p.time)
}
