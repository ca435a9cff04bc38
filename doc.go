// Package grain provides pixel-noise and texture-compositing effects for
// 2D raster canvases.
//
// # Overview
//
// grain is a Pure Go effect library in the GoGPU ecosystem. It perturbs
// pixels with randomized grain, tiles textures across surfaces of any size
// with configurable blending, mirrors alternating tiles for seamless
// repetition, and animates texture origins across frames. Effects run on
// any render target implementing the surface contracts.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/grain"
//		"github.com/gogpu/grain/surface"
//	)
//
//	// Create a canvas and bind an engine to it
//	canvas := surface.NewCanvas(512, 512)
//	eng, err := grain.New(canvas)
//
//	// Film grain over the whole canvas
//	err = eng.GranulateUniform(12, false)
//
//	// Tile a paper texture over it, multiplied in
//	tex, err := grain.LoadTexture("paper.png")
//	err = eng.TextureOverlay(tex, grain.OverlayReflect())
//
//	// Save to PNG
//	canvas.SavePNG("output.png")
//
// # Engines and Surfaces
//
// An Engine binds to exactly one surface and keeps its animation state per
// instance. Animating two canvases side by side takes two engines; they
// never interfere.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Engine, Texture, option constructors
//   - blend: compositing modes and per-pixel math
//   - surface: render-target contracts and the CPU CanvasSurface
//
// # Determinism
//
// Every random decision flows through one injectable function. Engines
// built with WithRandom and a seeded source replay pixel-identical output.
package grain

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
