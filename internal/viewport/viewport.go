/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport maps between canvas (screen) pixels and scene coordinates:
//
//	screen = scene*Scale + Offset
//
// All operations reject non-finite results and leave the transform unchanged
// in that case, so a Transform never holds NaN or Inf.
package viewport

import (
	"math"

	"mirrorcanvas/internal/vector"
)

// Limits bounds the zoom factor.
type Limits struct {
	MinScale float64
	MaxScale float64
}

// DefaultLimits allows zooming from 10% to 1000%.
var DefaultLimits = Limits{MinScale: 0.1, MaxScale: 10}

// Clamp limits s to l. Broken limits fall back to DefaultLimits.
func (l Limits) Clamp(s float64) float64 {
	if !(l.MinScale > 0) || !(l.MaxScale >= l.MinScale) || !vector.Finite(l.MinScale, l.MaxScale) {
		l = DefaultLimits
	}
	return vector.Clamp(s, l.MinScale, l.MaxScale)
}

// Transform is the pan/zoom state of the live canvas.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Limits  Limits
}

// New returns the identity transform with the given limits.
func New(l Limits) Transform {
	return Transform{Scale: 1, Limits: l}
}

// Affine returns the scene-to-screen matrix.
func (t Transform) Affine() vector.Affine2D {
	return vector.Translate(t.OffsetX, t.OffsetY).Mul(vector.Scale(t.scale(), t.scale()))
}

func (t Transform) scale() float64 {
	if !(t.Scale > 0) || !vector.Finite(t.Scale) {
		return 1
	}
	return t.Scale
}

// ToScreen maps a scene point to canvas pixels.
func (t Transform) ToScreen(p vector.Pt) vector.Pt {
	s := t.scale()
	return vector.Pt{X: p.X*s + t.OffsetX, Y: p.Y*s + t.OffsetY}
}

// ToScene maps canvas pixels to a scene point.
func (t Transform) ToScene(p vector.Pt) vector.Pt {
	s := t.scale()
	return vector.Pt{X: (p.X - t.OffsetX) / s, Y: (p.Y - t.OffsetY) / s}
}

// Pan moves the view by a screen-space delta.
func (t *Transform) Pan(dx, dy float64) bool {
	ox, oy := t.OffsetX+dx, t.OffsetY+dy
	if !vector.Finite(ox, oy) {
		return false
	}
	t.OffsetX, t.OffsetY = ox, oy
	return true
}

// ZoomAt multiplies the scale by factor while keeping the scene point under
// the screen point at fixed. The resulting scale is clamped to the limits.
// It reports whether the transform changed.
func (t *Transform) ZoomAt(at vector.Pt, factor float64) bool {
	if !(factor > 0) || !vector.Finite(factor, at.X, at.Y) {
		return false
	}
	old := t.scale()
	next := t.Limits.Clamp(old * factor)
	if next == old && t.Scale == old {
		return false
	}
	anchor := t.ToScene(at)
	ox := at.X - anchor.X*next
	oy := at.Y - anchor.Y*next
	if !vector.Finite(next, ox, oy) {
		return false
	}
	t.Scale, t.OffsetX, t.OffsetY = next, ox, oy
	return true
}

// Wheel zooms at the pointer by step per notch. Negative deltaY (wheel up) zooms in.
func (t *Transform) Wheel(at vector.Pt, deltaY, step float64) bool {
	if deltaY == 0 || !vector.Finite(deltaY) {
		return false
	}
	if !(step > 1) || !vector.Finite(step) {
		step = 1.1
	}
	notches := math.Max(1, math.Round(math.Abs(deltaY)/100))
	factor := math.Pow(step, notches)
	if deltaY > 0 {
		factor = 1 / factor
	}
	return t.ZoomAt(at, factor)
}

// Reset restores scale 1 and zero offset.
func (t *Transform) Reset() {
	t.Scale, t.OffsetX, t.OffsetY = 1, 0, 0
}

// VisibleRect returns the scene-space rectangle shown on a w x h canvas.
func (t Transform) VisibleRect(w, h float64) vector.Rect {
	s := t.scale()
	tl := t.ToScene(vector.Pt{})
	return vector.R(tl.X, tl.Y, w/s, h/s)
}
