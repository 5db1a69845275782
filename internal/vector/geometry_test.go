/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"image"
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
	out := r.Inset(-3, -3)
	if out.X != 7 || out.W != 106 {
		t.Fatalf("negative inset should grow: %+v", out)
	}
}

func TestRectUnionIntersect(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(5, -5, 10, 10)
	if u := a.Union(b); u != R(0, -5, 15, 15) {
		t.Fatalf("union = %+v", u)
	}
	if i := a.Intersect(b); i != R(5, 0, 5, 5) {
		t.Fatalf("intersect = %+v", i)
	}
	if i := a.Intersect(R(20, 20, 1, 1)); !i.Empty() {
		t.Fatalf("disjoint intersect should be empty: %+v", i)
	}
}

func TestRectPixels(t *testing.T) {
	got := R(0.4, 1.6, 10, 2.2).Pixels()
	if got != image.Rect(0, 2, 10, 4) {
		t.Fatalf("pixels = %v", got)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Translate(-30, 12).Mul(Scale(2.5, -0.5)).Mul(FlipX(40))
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible")
	}
	for _, p := range []Pt{{0, 0}, {3, 7}, {-11, 250}} {
		q := inv.Apply(m.Apply(p))
		if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
			t.Fatalf("round trip %+v -> %+v", p, q)
		}
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular matrix reported invertible")
	}
}

func TestFlipXMirrorsAboutCenter(t *testing.T) {
	f := FlipX(100)
	if p := f.Apply(Pt{0, 5}); p.X != 100 || p.Y != 5 {
		t.Fatalf("left edge should map to right: %+v", p)
	}
	if p := f.Mul(f).Apply(Pt{30, 5}); p.X != 30 {
		t.Fatalf("double flip should be identity: %+v", p)
	}
}

func TestApplyRectAndAff3(t *testing.T) {
	m := Translate(5, 5).Mul(Scale(2, -1))
	r := m.ApplyRect(R(0, 0, 10, 10))
	if r != R(5, -5, 20, 10) {
		t.Fatalf("ApplyRect = %+v", r)
	}
	a := m.Aff3()
	if a[0] != 2 || a[2] != 5 || a[4] != -1 || a[5] != 5 {
		t.Fatalf("Aff3 layout wrong: %v", a)
	}
}

func TestFiniteGuards(t *testing.T) {
	if !Finite(1, 2, 3) || Finite(1, math.NaN()) || Finite(math.Inf(1)) {
		t.Fatalf("Finite misreports")
	}
	if (Affine2D{A: math.Inf(1), D: 1}).Finite() {
		t.Fatalf("infinite affine reported finite")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	if err != nil || c != (Color{255, 128, 0, 255}) {
		t.Fatalf("ParseHexColor = %+v, %v", c, err)
	}
	c, err = ParseHexColor("0f0")
	if err != nil || c != (Color{0, 255, 0, 255}) {
		t.Fatalf("short form = %+v, %v", c, err)
	}
	if _, err := ParseHexColor("#zzzzzz"); err == nil {
		t.Fatalf("expected error for garbage")
	}
	if got := (Color{1, 2, 255, 255}).Hex(); got != "#0102ff" {
		t.Fatalf("Hex = %s", got)
	}
}
