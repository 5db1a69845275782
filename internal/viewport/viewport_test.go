/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"
	"testing"

	"mirrorcanvas/internal/vector"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRoundTrip(t *testing.T) {
	tr := Transform{Scale: 2.5, OffsetX: -40, OffsetY: 13, Limits: DefaultLimits}
	for _, p := range []vector.Pt{{X: 0, Y: 0}, {X: 10, Y: -3}, {X: 1234.5, Y: 99}} {
		q := tr.ToScene(tr.ToScreen(p))
		if !near(p.X, q.X) || !near(p.Y, q.Y) {
			t.Fatalf("round trip %v -> %v", p, q)
		}
		a := tr.Affine().Apply(p)
		s := tr.ToScreen(p)
		if !near(a.X, s.X) || !near(a.Y, s.Y) {
			t.Fatalf("Affine disagrees with ToScreen: %v vs %v", a, s)
		}
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := New(DefaultLimits)
	tr.Pan(30, -20)
	at := vector.Pt{X: 400, Y: 250}
	before := tr.ToScene(at)
	if !tr.ZoomAt(at, 1.7) {
		t.Fatalf("zoom reported no change")
	}
	after := tr.ToScene(at)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Fatalf("anchor moved: %v -> %v", before, after)
	}
}

func TestZoomClamps(t *testing.T) {
	tr := New(DefaultLimits)
	for i := 0; i < 100; i++ {
		tr.ZoomAt(vector.Pt{X: 10, Y: 10}, 2)
	}
	if tr.Scale != 10 {
		t.Fatalf("scale should clamp at 10, got %v", tr.Scale)
	}
	if tr.ZoomAt(vector.Pt{X: 10, Y: 10}, 2) {
		t.Fatalf("zoom past the limit should report no change")
	}
	for i := 0; i < 100; i++ {
		tr.Wheel(vector.Pt{}, 120, 1.1)
	}
	if tr.Scale != 0.1 {
		t.Fatalf("scale should clamp at 0.1, got %v", tr.Scale)
	}
}

func TestRejectsNonFinite(t *testing.T) {
	tr := Transform{Scale: 1.5, OffsetX: 3, OffsetY: 4, Limits: DefaultLimits}
	orig := tr
	cases := []func() bool{
		func() bool { return tr.ZoomAt(vector.Pt{X: 1, Y: 1}, 0) },
		func() bool { return tr.ZoomAt(vector.Pt{X: 1, Y: 1}, math.NaN()) },
		func() bool { return tr.ZoomAt(vector.Pt{X: math.Inf(1), Y: 1}, 2) },
		func() bool { return tr.Pan(math.Inf(-1), 0) },
		func() bool { return tr.Wheel(vector.Pt{}, math.NaN(), 1.1) },
		func() bool { return tr.Wheel(vector.Pt{}, 0, 1.1) },
	}
	for i, fn := range cases {
		if fn() {
			t.Fatalf("case %d reported a change", i)
		}
		if tr != orig {
			t.Fatalf("case %d mutated the transform: %+v", i, tr)
		}
	}
}

func TestVisibleRectAndReset(t *testing.T) {
	tr := Transform{Scale: 2, OffsetX: -100, OffsetY: 50, Limits: DefaultLimits}
	r := tr.VisibleRect(800, 600)
	if r != vector.R(50, -25, 400, 300) {
		t.Fatalf("visible = %+v", r)
	}
	tr.Reset()
	if tr.Scale != 1 || tr.OffsetX != 0 || tr.OffsetY != 0 {
		t.Fatalf("reset = %+v", tr)
	}
}

func TestBrokenLimitsFallBack(t *testing.T) {
	l := Limits{MinScale: 5, MaxScale: 1}
	if got := l.Clamp(50); got != 10 {
		t.Fatalf("clamp with inverted limits = %v", got)
	}
}
