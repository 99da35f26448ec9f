//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderSources = []string{
	"shaders/tri_mesh.vert",
	"shaders/default_lit.frag",
	"shaders/tinted.frag",
}

// Compiles every GLSL shader to SPIR-V next to its source.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the playground binary.
func (Build) Engine() error {
	if err := buildShaders(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "vulkan-playground", "."), withStream()); err != nil {
		return err
	}
	return nil
}

func buildShaders() error {
	for _, src := range shaderSources {
		if _, err := executeCmd("glslc", withArgs(src, "-o", src+".spv"), withStream()); err != nil {
			return err
		}
	}
	return nil
}
