/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a scene snapshot to a standalone raster, independent
// of the live canvas pan and zoom.
package export

import (
	"fmt"
	"image"
	"math"

	"mirrorcanvas/internal/render"
	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/vector"
	"mirrorcanvas/internal/viewport"
)

// Options controls export layout.
//   - Padding: scene units added on every side of the content box
//   - DefaultWidth/DefaultHeight: size of an auto export of an empty scene
//   - IncludeReflections: draw reflections and count their bands as content
type Options struct {
	Padding            float64
	DefaultWidth       int
	DefaultHeight      int
	IncludeReflections bool
}

func DefaultOptions() Options {
	return Options{Padding: 20, DefaultWidth: 800, DefaultHeight: 600, IncludeReflections: true}
}

func (o Options) normalized() Options {
	if !(o.Padding >= 0) || !vector.Finite(o.Padding) {
		o.Padding = 0
	}
	if o.DefaultWidth <= 0 || o.DefaultHeight <= 0 {
		o.DefaultWidth, o.DefaultHeight = 800, 600
	}
	return o
}

// ContentBounds returns the union of all image rectangles, extended by the
// reflection band of images that draw one when includeReflections is set.
// ok is false when there is nothing to bound.
func ContentBounds(images []scene.PlacedImage, includeReflections bool) (vector.Rect, bool) {
	var (
		b  vector.Rect
		ok bool
	)
	for _, p := range images {
		r := p.Bounds()
		if includeReflections && p.HasReflection() {
			r = r.Union(p.ReflectionBand())
		}
		if r.Empty() || !vector.Finite(r.X, r.Y, r.W, r.H) {
			continue
		}
		if !ok {
			b, ok = r, true
			continue
		}
		b = b.Union(r)
	}
	return b, ok
}

// Layout computes the output size and the scene-to-output transform for snap.
func Layout(images []scene.PlacedImage, policy SizePolicy, opts Options) (w, h int, vp viewport.Transform, err error) {
	opts = opts.normalized()
	vp = viewport.Transform{Scale: 1}
	if !policy.Auto && (policy.Width < 1 || policy.Height < 1) {
		return 0, 0, vp, fmt.Errorf("%w: %s", ErrInvalidSizePolicy, policy)
	}
	b, ok := ContentBounds(images, opts.IncludeReflections)

	switch {
	case !ok && policy.Auto:
		w, h = opts.DefaultWidth, opts.DefaultHeight
	case !ok:
		w, h = policy.Width, policy.Height
	case policy.Auto:
		pad := opts.Padding
		w = int(math.Ceil(b.W + 2*pad))
		h = int(math.Ceil(b.H + 2*pad))
		vp.OffsetX, vp.OffsetY = pad-b.X, pad-b.Y
	default:
		w, h = policy.Width, policy.Height
		pad := opts.Padding
		s := math.Min(float64(w)/(b.W+2*pad), float64(h)/(b.H+2*pad))
		if !(s > 0) || !vector.Finite(s) {
			return 0, 0, vp, fmt.Errorf("%w: content %vx%v cannot be fit", ErrInvalidSizePolicy, b.W, b.H)
		}
		vp.Scale = s
		vp.OffsetX = (float64(w)-b.W*s)/2 - b.X*s
		vp.OffsetY = (float64(h)-b.H*s)/2 - b.Y*s
	}
	if w < 1 || h < 1 || w > MaxSide || h > MaxSide {
		return 0, 0, vp, fmt.Errorf("%w: %dx%d exceeds %d per side", ErrExportTooLarge, w, h, MaxSide)
	}
	return w, h, vp, nil
}

// Render paints snap into a new image sized by policy. Grid and selection are
// never drawn.
func Render(snap scene.Snapshot, policy SizePolicy, opts Options) (*image.RGBA, error) {
	opts = opts.normalized()
	w, h, vp, err := Layout(snap.Images, policy, opts)
	if err != nil {
		return nil, err
	}
	r := render.NewRaster(w, h)
	render.Compose(r, snap, vp, render.Options{Reflections: opts.IncludeReflections})
	return r.Image(), nil
}
