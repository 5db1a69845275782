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

package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"mirrorcanvas/internal/interact"
	"mirrorcanvas/internal/vector"
)

// DesignCanvas shows the controller's frames and forwards pointer input to it.
// Positions arrive in Fyne units and are converted to raster pixels.
type DesignCanvas struct {
	widget.BaseWidget

	ctrl   *interact.Controller
	raster *canvas.Raster

	mu      sync.Mutex
	pxScale float64 // raster pixels per Fyne unit
	pressed bool
}

func NewDesignCanvas(c *interact.Controller) *DesignCanvas {
	d := &DesignCanvas{ctrl: c, pxScale: 1}
	d.raster = canvas.NewRaster(d.generate)
	d.ExtendBaseWidget(d)
	return d
}

func (d *DesignCanvas) generate(w, h int) image.Image {
	if sz := d.Size(); sz.Width > 0 {
		d.mu.Lock()
		d.pxScale = float64(w) / float64(sz.Width)
		d.mu.Unlock()
	}
	d.ctrl.SetCanvasSize(w, h)
	if f := d.ctrl.Frame(); f != nil {
		return f
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func (d *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.raster)
}

// MinSize keeps the canvas usable when the side panel grows.
func (d *DesignCanvas) MinSize() fyne.Size { return fyne.NewSize(400, 300) }

func (d *DesignCanvas) toPixels(p fyne.Position) vector.Pt {
	d.mu.Lock()
	s := d.pxScale
	d.mu.Unlock()
	return vector.Pt{X: float64(p.X) * s, Y: float64(p.Y) * s}
}

func (d *DesignCanvas) MouseDown(e *desktop.MouseEvent) {
	btn := interact.ButtonPrimary
	switch e.Button {
	case desktop.MouseButtonSecondary:
		btn = interact.ButtonSecondary
	case desktop.MouseButtonTertiary:
		btn = interact.ButtonMiddle
	}
	d.mu.Lock()
	d.pressed = true
	d.mu.Unlock()
	d.ctrl.PointerDown(d.toPixels(e.Position), btn, modifiers(e.Modifier))
}

func (d *DesignCanvas) MouseUp(*desktop.MouseEvent) { d.release() }

func (d *DesignCanvas) Dragged(e *fyne.DragEvent) {
	d.ctrl.PointerMove(d.toPixels(e.Position), currentModifiers())
}

func (d *DesignCanvas) DragEnd() { d.release() }

func (d *DesignCanvas) release() {
	d.mu.Lock()
	was := d.pressed
	d.pressed = false
	d.mu.Unlock()
	if was {
		d.ctrl.PointerUp()
	}
}

// Scrolled zooms toward the pointer. Fyne reports wheel-up as positive DY.
func (d *DesignCanvas) Scrolled(e *fyne.ScrollEvent) {
	d.ctrl.Wheel(d.toPixels(e.Position), -float64(e.Scrolled.DY)*wheelUnitsPerNotch)
}

// wheelUnitsPerNotch converts Fyne scroll steps into browser-style wheel deltas.
const wheelUnitsPerNotch = 10

func modifiers(m fyne.KeyModifier) interact.Modifiers {
	var out interact.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= interact.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= interact.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= interact.ModAlt
	}
	return out
}

func currentModifiers() interact.Modifiers {
	app := fyne.CurrentApp()
	if app == nil {
		return 0
	}
	if drv, ok := app.Driver().(desktop.Driver); ok {
		return modifiers(drv.CurrentKeyModifiers())
	}
	return 0
}

// keyFor maps Fyne key names onto controller keys. Fyne already uses the
// same names for the keys the controller understands.
func keyFor(name fyne.KeyName) interact.Key { return interact.Key(name) }
