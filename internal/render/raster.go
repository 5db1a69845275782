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
	"image/color"
	stddraw "image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"mirrorcanvas/internal/vector"
)

// Raster is a Surface backed by an *image.RGBA. Vector primitives go through
// gg, image transforms through x/image/draw.
type Raster struct {
	img    *image.RGBA
	dc     *gg.Context
	interp draw.Transformer
}

// NewRaster allocates a w x h transparent raster. Sizes below 1 are raised to 1.
func NewRaster(w, h int) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	return &Raster{img: img, dc: gg.NewContextForRGBA(img), interp: draw.BiLinear}
}

// Image returns the backing image. It is reused by later draws.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear() {
	stddraw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, stddraw.Src)
}

func (r *Raster) Fill(c vector.Color) {
	r.dc.SetColor(c.RGBA())
	r.dc.Clear()
}

func (r *Raster) DrawImage(src image.Image, m vector.Affine2D, opacity float64) {
	if src == nil || opacity <= 0 || !m.Finite() {
		return
	}
	r.transform(r.img, src, m, opacity)
}

func (r *Raster) DrawReflection(src image.Image, m vector.Affine2D, opacity float64, clip vector.Rect, fade Fade) {
	if src == nil || opacity <= 0 || !m.Finite() {
		return
	}
	band := clip.Pixels().Intersect(r.img.Bounds())
	if band.Empty() {
		return
	}
	// The layer shares device coordinates with the target; only its bounds differ.
	layer := image.NewRGBA(band)
	r.transform(layer, src, m, opacity)

	mask := image.NewAlpha(band)
	for y := band.Min.Y; y < band.Max.Y; y++ {
		a := uint8(math.Round(fade.Keep(float64(y)+0.5) * 255))
		row := mask.Pix[mask.PixOffset(band.Min.X, y):mask.PixOffset(band.Max.X-1, y)+1]
		for i := range row {
			row[i] = a
		}
	}
	stddraw.DrawMask(r.img, band, layer, band.Min, mask, band.Min, stddraw.Over)
}

func (r *Raster) transform(dst draw.Image, src image.Image, m vector.Affine2D, opacity float64) {
	sb := src.Bounds()
	aff := m.Mul(vector.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)))
	var opts *draw.Options
	if opacity < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(math.Round(opacity * 0xffff))})}
	}
	r.interp.Transform(dst, aff.Aff3(), src, sb, draw.Over, opts)
}

func (r *Raster) StrokeLine(a, b vector.Pt, st vector.Stroke) {
	r.stroke(st, func() { r.dc.DrawLine(a.X, a.Y, b.X, b.Y) })
}

func (r *Raster) StrokeRect(rc vector.Rect, st vector.Stroke) {
	r.stroke(st, func() { r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H) })
}

func (r *Raster) FillRect(rc vector.Rect, c vector.Color) {
	r.dc.SetColor(c.RGBA())
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.dc.Fill()
}

func (r *Raster) stroke(st vector.Stroke, path func()) {
	if st.Width <= 0 || st.Color.A == 0 {
		return
	}
	r.dc.Push()
	defer r.dc.Pop()
	r.dc.SetColor(st.Color.RGBA())
	r.dc.SetLineWidth(st.Width)
	r.dc.SetDash(st.Dash...)
	path()
	r.dc.Stroke()
}
