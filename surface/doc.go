// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the render-target abstraction for grain effects.
//
// Surface is the pixel-access contract: a flat RGBA buffer borrowed through
// LoadPixels/UpdatePixels for one mutate-in-place pass at a time. Canvas
// extends it with the drawing operations texture compositing needs: blended
// image blits, scaling, and an isolated push/pop transform scope.
//
// # Surface Types
//
//   - CanvasSurface: CPU canvas over *image.NRGBA, density-aware, with
//     blend-mode compositing and x/image resampling.
//
// Other backends can satisfy Surface or Canvas to host the same effects;
// the effect engine never depends on a concrete implementation.
//
// # Usage
//
//	c := surface.NewCanvas(800, 600)
//	c.Clear(color.White)
//
//	pix := c.LoadPixels()
//	// ... mutate pix in place ...
//	c.UpdatePixels()
//
//	img := c.Snapshot()
package surface
