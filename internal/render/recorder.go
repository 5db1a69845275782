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

type OpKind int

const (
	OpClear OpKind = iota
	OpFill
	OpImage
	OpReflection
	OpLine
	OpStrokeRect
	OpFillRect
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpFill:
		return "fill"
	case OpImage:
		return "image"
	case OpReflection:
		return "reflection"
	case OpLine:
		return "line"
	case OpStrokeRect:
		return "stroke-rect"
	case OpFillRect:
		return "fill-rect"
	}
	return "unknown"
}

// Op is one recorded drawing call.
type Op struct {
	Kind    OpKind
	Src     image.Image
	M       vector.Affine2D
	Opacity float64
	Rect    vector.Rect
	A, B    vector.Pt
	Color   vector.Color
	Stroke  vector.Stroke
	Fade    Fade
}

// Recorder is a Surface that keeps the calls it receives instead of drawing.
// It lets overlay style backends replay a composition with their own
// primitives.
type Recorder struct {
	W, H int
	Ops  []Op
}

func NewRecorder(w, h int) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) Size() (int, int) { return r.W, r.H }

// Clear drops previously recorded ops and records a clear.
func (r *Recorder) Clear() { r.Ops = append(r.Ops[:0], Op{Kind: OpClear}) }

func (r *Recorder) Fill(c vector.Color) { r.Ops = append(r.Ops, Op{Kind: OpFill, Color: c}) }

func (r *Recorder) DrawImage(src image.Image, m vector.Affine2D, opacity float64) {
	r.Ops = append(r.Ops, Op{Kind: OpImage, Src: src, M: m, Opacity: opacity})
}

func (r *Recorder) DrawReflection(src image.Image, m vector.Affine2D, opacity float64, clip vector.Rect, fade Fade) {
	r.Ops = append(r.Ops, Op{Kind: OpReflection, Src: src, M: m, Opacity: opacity, Rect: clip, Fade: fade})
}

func (r *Recorder) StrokeLine(a, b vector.Pt, st vector.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, A: a, B: b, Stroke: st})
}

func (r *Recorder) StrokeRect(rc vector.Rect, st vector.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeRect, Rect: rc, Stroke: st})
}

func (r *Recorder) FillRect(rc vector.Rect, c vector.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: rc, Color: c})
}

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}
