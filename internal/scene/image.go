/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"image"
	"math"

	"mirrorcanvas/internal/vector"
)

// ID identifies a placed image for the lifetime of its Scene.
type ID int

// MinImageSize is the floor applied to width and height on resize.
const MinImageSize = 10

// HandleSize is the edge length of the bottom-right resize handle in scene units.
// It does not scale with zoom.
const HandleSize = 10

// PlacedImage is one uploaded image instance on the canvas.
// Source is shared, never copied; all other fields are plain values so a
// PlacedImage can be handed out as a snapshot.
type PlacedImage struct {
	ID     ID
	Name   string
	Source image.Image

	OriginalWidth  float64
	OriginalHeight float64

	X, Y          float64
	Width, Height float64
	// ScaleFactor tracks Width / OriginalWidth.
	ScaleFactor float64

	Opacity        float64
	Flipped        bool
	MirrorOpacity  float64
	MirrorDistance float64

	// ZOrder is 1..N; higher paints later (on top).
	ZOrder int
}

// Bounds returns the image rectangle in scene coordinates.
func (p PlacedImage) Bounds() vector.Rect { return vector.R(p.X, p.Y, p.Width, p.Height) }

// HasReflection reports whether a reflection pass would draw anything.
func (p PlacedImage) HasReflection() bool {
	return p.MirrorOpacity > 0 && p.MirrorDistance > 0
}

// ReflectionBand is the rectangle below the image that its reflection may occupy.
func (p PlacedImage) ReflectionBand() vector.Rect {
	return vector.R(p.X, p.Y+p.Height, p.Width, math.Max(0, p.MirrorDistance))
}

// ResizeHandle returns the hit box of the resize handle in scene coordinates.
func (p PlacedImage) ResizeHandle() vector.Rect {
	return vector.R(p.X+p.Width-HandleSize, p.Y+p.Height-HandleSize, HandleSize, HandleSize)
}

// AspectRatio returns OriginalWidth / OriginalHeight.
func (p PlacedImage) AspectRatio() float64 {
	if p.OriginalHeight == 0 {
		return 1
	}
	return p.OriginalWidth / p.OriginalHeight
}

func newPlacedImage(id ID, name string, src image.Image) PlacedImage {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	return PlacedImage{
		ID:             id,
		Name:           name,
		Source:         src,
		OriginalWidth:  w,
		OriginalHeight: h,
		Width:          w,
		Height:         h,
		ScaleFactor:    1,
		Opacity:        1,
	}
}

// Snap rounds value to the nearest multiple of cell. A non-positive cell disables snapping.
func Snap(value, cell float64) float64 {
	if !(cell > 0) || !vector.Finite(value) {
		return value
	}
	return math.Round(value/cell) * cell
}
