// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds device and engine limits that the original
// implementation hardcoded as preprocessor constants. Keeping them in one
// loadable struct lets an embedder tune them without recompiling.
package config

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Limits collects the tunables referenced across the scene orchestrator,
// resource manager and texture atlas.
type Limits struct {
	// MinUniformAlignment is the device's minimum uniform-buffer offset
	// alignment, in bytes. Every uniform block size is rounded up to a
	// multiple of this value before being placed in the buffer.
	MinUniformAlignment int `yaml:"min_uniform_alignment"`

	// MaxLights bounds the fixed-size light array packed into the light
	// uniform block. Scenes with more lights than this fail the frame.
	MaxLights int `yaml:"max_lights"`

	// MaxJoints bounds the number of joint matrix pairs packed per model
	// instance. Skins with more joints than this are truncated; joints
	// beyond a skin's own count are filled with identity.
	MaxJoints int `yaml:"max_joints"`

	// AtlasInitialCapacity is the initial layer-use bitmap size of a
	// freshly created managed image, before any doubling growth.
	AtlasInitialCapacity int `yaml:"atlas_initial_capacity"`

	// ModelInstanceTiers lists the pipeline-variant instance counts the
	// resource manager maintains pools for, largest-demand-first is not
	// required; the orchestrator sorts as needed.
	ModelInstanceTiers []int `yaml:"model_instance_tiers"`
}

// Default returns the limits implied by the original engine's constants.
func Default() Limits {

	return Limits{
		MinUniformAlignment: 256,
		MaxLights:           16,
		MaxJoints:           64,
		AtlasInitialCapacity: 64,
		ModelInstanceTiers:  []int{1, 2, 4, 8, 16, 32, 64},
	}
}

// Load reads limits from a YAML file, starting from Default() so that an
// omitted field keeps its default value.
func Load(path string) (Limits, error) {

	lim := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return lim, err
	}
	if err := yaml.Unmarshal(data, &lim); err != nil {
		return lim, err
	}
	return lim, nil
}
