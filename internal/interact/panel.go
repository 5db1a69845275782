/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"math"

	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/vector"
)

// Panel holds the property panel values of one image.
type Panel struct {
	Name                 string
	ScalePercent         int
	OpacityPercent       int
	MirrorOpacityPercent int
	MirrorDistance       int
	Number               int
	Flipped              bool
}

// PanelFor derives the panel values shown for p.
func PanelFor(p scene.PlacedImage) Panel {
	return Panel{
		Name:                 p.Name,
		ScalePercent:         int(math.Round(p.ScaleFactor * 100)),
		OpacityPercent:       int(math.Round(p.Opacity * 100)),
		MirrorOpacityPercent: int(math.Round(p.MirrorOpacity * 100)),
		MirrorDistance:       int(math.Round(p.MirrorDistance)),
		Number:               p.ZOrder,
		Flipped:              p.Flipped,
	}
}

// OnSelection calls fn with the panel values whenever the selection changes.
// ok is false when nothing is selected.
func (c *Controller) OnSelection(fn func(p Panel, ok bool)) {
	c.scene.OnSelectionChange(func(img scene.PlacedImage, ok bool) {
		if !ok {
			fn(Panel{}, false)
			return
		}
		fn(PanelFor(img), true)
	})
}

// SelectedPanel returns the panel values of the selected image.
func (c *Controller) SelectedPanel() (Panel, bool) {
	sel, ok := c.scene.Selected()
	if !ok {
		return Panel{}, false
	}
	return PanelFor(sel), true
}

func (c *Controller) SetScalePercent(pct float64) error {
	return c.withSelected(func(id scene.ID) error { return c.scene.SetScale(id, pct/100) })
}

func (c *Controller) SetOpacityPercent(pct float64) error {
	return c.withSelected(func(id scene.ID) error { return c.scene.SetOpacity(id, pct/100) })
}

func (c *Controller) SetMirrorOpacityPercent(pct float64) error {
	return c.withSelected(func(id scene.ID) error { return c.scene.SetMirrorOpacity(id, pct/100) })
}

func (c *Controller) SetMirrorDistance(px float64) error {
	return c.withSelected(func(id scene.ID) error { return c.scene.SetMirrorDistance(id, px) })
}

// SetNumber moves the selected image to z-order position n.
func (c *Controller) SetNumber(n int) error {
	return c.withSelected(func(id scene.ID) error { return c.scene.SetZOrder(id, n) })
}

// SetBackgroundHex sets a solid background from a hex color.
func (c *Controller) SetBackgroundHex(hex string) error {
	col, err := vector.ParseHexColor(hex)
	if err != nil {
		return err
	}
	bg := c.scene.Background()
	bg.Color = col
	c.scene.SetBackground(bg)
	return nil
}

func (c *Controller) SetTransparent(on bool) {
	bg := c.scene.Background()
	bg.Transparent = on
	c.scene.SetBackground(bg)
}

func (c *Controller) SetSnap(on bool) {
	g := c.scene.Grid()
	g.Snap = on
	c.scene.SetGrid(g)
}

func (c *Controller) SetGridVisible(on bool) {
	g := c.scene.Grid()
	g.Visible = on
	c.scene.SetGrid(g)
}

// SetExportSize changes the default export size policy string.
func (c *Controller) SetExportSize(policy string) {
	c.mu.Lock()
	c.cfg.ExportSize = policy
	c.mu.Unlock()
}
