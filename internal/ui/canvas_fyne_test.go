//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne canvas widget. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"mirrorcanvas/internal/interact"
	"mirrorcanvas/internal/scene"
)

func TestDesignCanvas_GenerateSizesController(t *testing.T) {
	test.NewApp()
	c := interact.New(scene.New(), interact.DefaultConfig())
	dc := NewDesignCanvas(c)
	dc.Resize(fyne.NewSize(100, 50))

	img := dc.generate(200, 100)
	if img.Bounds().Dx() == 0 {
		t.Fatalf("expected a non-empty image")
	}
	if got := dc.toPixels(fyne.NewPos(10, 5)); got.X != 20 || got.Y != 10 {
		t.Fatalf("toPixels = %+v, want (20,10)", got)
	}
}

func TestDesignCanvas_MiddleButtonPans(t *testing.T) {
	test.NewApp()
	c := interact.New(scene.New(), interact.DefaultConfig())
	dc := NewDesignCanvas(c)
	dc.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonTertiary})
	if c.Mode() != interact.ModePan {
		t.Fatalf("mode = %v, want pan", c.Mode())
	}
	dc.DragEnd()
	if c.Mode() != interact.ModeIdle {
		t.Fatalf("mode = %v after release", c.Mode())
	}
}

func TestModifiersAndKeys(t *testing.T) {
	m := modifiers(fyne.KeyModifierShift | fyne.KeyModifierAlt)
	if m&interact.ModShift == 0 || m&interact.ModAlt == 0 || m&interact.ModCtrl != 0 {
		t.Fatalf("modifiers = %b", m)
	}
	for name, want := range map[fyne.KeyName]interact.Key{
		fyne.KeyDelete:    interact.KeyDelete,
		fyne.KeyBackspace: interact.KeyBackspace,
		fyne.KeyLeft:      interact.KeyLeft,
		fyne.KeyF:         interact.KeyFlip,
		fyne.KeyC:         interact.KeyCenter,
	} {
		if got := keyFor(name); got != want {
			t.Fatalf("keyFor(%q) = %q", name, got)
		}
	}
}
