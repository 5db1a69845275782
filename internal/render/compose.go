/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render composites a scene snapshot onto a Surface: background,
// grid, images in z-order with their reflections, and the selection overlay.
package render

import (
	"image"
	"math"

	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/vector"
	"mirrorcanvas/internal/viewport"
)

// Options selects which layers Compose draws.
type Options struct {
	Grid        bool // draw the grid when the scene grid is visible
	Selection   bool
	Reflections bool
}

// Live is the option set for the interactive canvas.
var Live = Options{Grid: true, Selection: true, Reflections: true}

const (
	selectionMargin = 2
	minGridSpacing  = 4 // device pixels
)

var (
	selectionStroke = vector.Stroke{Color: vector.Selection, Width: 2, Dash: []float64{5, 5}}
	gridDash        = []float64{2, 4}
)

// Compose paints snap onto s as seen through vp.
func Compose(s Surface, snap scene.Snapshot, vp viewport.Transform, opts Options) {
	s.Clear()
	if !snap.Background.Transparent {
		s.Fill(snap.Background.Color)
	}
	if opts.Grid && snap.Grid.Visible {
		drawGrid(s, snap.Grid, vp)
	}
	view := vp.Affine()
	for _, p := range snap.Images {
		if p.Source == nil || p.OriginalWidth <= 0 || p.OriginalHeight <= 0 {
			continue
		}
		s.DrawImage(p.Source, ImageMatrix(view, p), p.Opacity)
		if opts.Reflections && p.HasReflection() {
			band := view.ApplyRect(p.ReflectionBand())
			s.DrawReflection(p.Source, ReflectionMatrix(view, p), p.MirrorOpacity, band,
				Fade{Y0: band.Y, Y1: band.Y + band.H})
		}
		if opts.Selection && p.ID == snap.Selected {
			s.StrokeRect(view.ApplyRect(p.Bounds().Inset(-selectionMargin, -selectionMargin)), selectionStroke)
			s.FillRect(view.ApplyRect(p.ResizeHandle()), vector.Selection)
		}
	}
}

// ImageMatrix maps source pixels of p to device space: viewport, then the
// image position, then the horizontal flip about the image center, then the
// scale from original to rendered size.
func ImageMatrix(view vector.Affine2D, p scene.PlacedImage) vector.Affine2D {
	m := view.Mul(vector.Translate(p.X, p.Y))
	if p.Flipped {
		m = m.Mul(vector.FlipX(p.Width))
	}
	return m.Mul(vector.Scale(p.Width/p.OriginalWidth, p.Height/p.OriginalHeight))
}

// ReflectionMatrix maps source pixels of p to the vertically flipped copy
// whose top edge sits at the bottom of the reflection band and extends upward.
func ReflectionMatrix(view vector.Affine2D, p scene.PlacedImage) vector.Affine2D {
	m := view.Mul(vector.Translate(p.X, p.Y+p.Height+p.MirrorDistance)).Mul(vector.Scale(1, -1))
	if p.Flipped {
		m = m.Mul(vector.FlipX(p.Width))
	}
	return m.Mul(vector.Scale(p.Width/p.OriginalWidth, p.Height/p.OriginalHeight))
}

func drawGrid(s Surface, g scene.Grid, vp viewport.Transform) {
	cell := g.CellSize
	if !(cell > 0) || !vector.Finite(cell) {
		return
	}
	for cell*vp.Affine().A < minGridSpacing {
		cell *= 2
	}
	w, h := s.Size()
	vis := vp.VisibleRect(float64(w), float64(h))
	st := vector.Stroke{Color: g.Color, Width: 1, Dash: gridDash}
	for x := math.Floor(vis.X/cell) * cell; x <= vis.X+vis.W; x += cell {
		a := vp.ToScreen(vector.Pt{X: x, Y: vis.Y})
		s.StrokeLine(vector.Pt{X: a.X, Y: 0}, vector.Pt{X: a.X, Y: float64(h)}, st)
	}
	for y := math.Floor(vis.Y/cell) * cell; y <= vis.Y+vis.H; y += cell {
		a := vp.ToScreen(vector.Pt{X: vis.X, Y: y})
		s.StrokeLine(vector.Pt{X: 0, Y: a.Y}, vector.Pt{X: float64(w), Y: a.Y}, st)
	}
}

// Frame composes snap onto a fresh w x h raster and returns its pixels.
func Frame(snap scene.Snapshot, vp viewport.Transform, w, h int, opts Options) *image.RGBA {
	r := NewRaster(w, h)
	Compose(r, snap, vp, opts)
	return r.Image()
}
