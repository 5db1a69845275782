/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"

	"mirrorcanvas/internal/vector"
)

// Fade describes a vertical linear fade in device space: content is kept
// fully at Y0 and erased completely at Y1.
type Fade struct {
	Y0, Y1 float64
}

// Keep returns the fraction of alpha kept at device row y.
func (f Fade) Keep(y float64) float64 {
	span := f.Y1 - f.Y0
	if span == 0 || !vector.Finite(span) {
		return 1
	}
	return vector.Clamp(1-(y-f.Y0)/span, 0, 1)
}

// Surface is a drawing target in device pixels. Compose only talks to this
// interface so that raster and non-raster backends render the same scene.
//
// Image matrices map source pixel coordinates, relative to src.Bounds().Min,
// to device space.
type Surface interface {
	Size() (w, h int)
	Clear()
	Fill(c vector.Color)
	DrawImage(src image.Image, m vector.Affine2D, opacity float64)
	// DrawReflection draws src through m with the given opacity into an
	// isolated layer clipped to clip, erases it along fade and composites the
	// result over the surface.
	DrawReflection(src image.Image, m vector.Affine2D, opacity float64, clip vector.Rect, fade Fade)
	StrokeLine(a, b vector.Pt, st vector.Stroke)
	StrokeRect(r vector.Rect, st vector.Stroke)
	FillRect(r vector.Rect, c vector.Color)
}
