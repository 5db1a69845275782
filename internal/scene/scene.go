/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the placed-image model: the ordered list of images on the
// canvas, the current selection, and the canvas-wide background and grid settings.
//
// A Scene is safe for concurrent use. Callers never receive pointers into the
// list; reads return value copies and Snapshot returns a consistent view for
// rendering and export. Every successful mutation notifies OnChange listeners
// exactly once, after the lock is released.
package scene

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"sort"
	"sync"

	"mirrorcanvas/internal/vector"
	"mirrorcanvas/internal/viewport"
)

var (
	ErrNotFound     = errors.New("image not found")
	ErrNilImage     = errors.New("image source is nil")
	ErrEmptyImage   = errors.New("image has no pixels")
	ErrInvalidValue = errors.New("invalid value")
)

// Background is either a solid color or transparent.
type Background struct {
	Color       vector.Color
	Transparent bool
}

// Grid configures the drawing and snapping grid.
type Grid struct {
	CellSize float64
	Color    vector.Color // alpha is used as stroke alpha
	Visible  bool
	Snap     bool
}

// Snapshot is an immutable copy of the scene taken under one lock.
type Snapshot struct {
	Images     []PlacedImage // ascending z-order; ties keep insertion order
	Selected   ID            // 0 when nothing is selected
	Background Background
	Grid       Grid
}

// SelectedImage returns the selected image from the snapshot.
func (s Snapshot) SelectedImage() (PlacedImage, bool) {
	if s.Selected == 0 {
		return PlacedImage{}, false
	}
	for _, img := range s.Images {
		if img.ID == s.Selected {
			return img, true
		}
	}
	return PlacedImage{}, false
}

type Scene struct {
	mu         sync.RWMutex
	images     []*PlacedImage // insertion order
	nextID     ID
	selected   ID
	background Background
	grid       Grid

	lmu      sync.Mutex
	onChange []func()
	onSelect []func(PlacedImage, bool)
}

// DefaultGrid is a 20 unit grid drawn in translucent gray.
func DefaultGrid() Grid {
	return Grid{CellSize: 20, Color: vector.Color{R: 136, G: 136, B: 136, A: 77}}
}

// New returns an empty scene with a white background and the default grid.
func New() *Scene {
	return &Scene{
		background: Background{Color: vector.White},
		grid:       DefaultGrid(),
	}
}

// OnChange registers fn to be called after every successful mutation.
func (s *Scene) OnChange(fn func()) {
	s.lmu.Lock()
	s.onChange = append(s.onChange, fn)
	s.lmu.Unlock()
}

// OnSelectionChange registers fn to be called when the selection changes.
// ok is false when the selection was cleared.
func (s *Scene) OnSelectionChange(fn func(img PlacedImage, ok bool)) {
	s.lmu.Lock()
	s.onSelect = append(s.onSelect, fn)
	s.lmu.Unlock()
}

func (s *Scene) notify(selChanged bool, sel PlacedImage, selOK bool) {
	s.lmu.Lock()
	change := slices.Clone(s.onChange)
	selfns := slices.Clone(s.onSelect)
	s.lmu.Unlock()
	if selChanged {
		for _, fn := range selfns {
			fn(sel, selOK)
		}
	}
	for _, fn := range change {
		fn()
	}
}

// Add places a decoded image at the origin with scale 1 on top of the z-order
// and selects it.
func (s *Scene) Add(name string, src image.Image) (ID, error) {
	if src == nil {
		return 0, ErrNilImage
	}
	if b := src.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrEmptyImage)
	}
	s.mu.Lock()
	s.nextID++
	img := newPlacedImage(s.nextID, name, src)
	img.ZOrder = len(s.images) + 1
	s.images = append(s.images, &img)
	s.selected = img.ID
	cp := img
	s.mu.Unlock()

	s.notify(true, cp, true)
	return cp.ID, nil
}

// Len returns the number of placed images.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

// Image returns a copy of the image with the given id.
func (s *Scene) Image(id ID) (PlacedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.findLocked(id); p != nil {
		return *p, true
	}
	return PlacedImage{}, false
}

// Images returns copies of all images in ascending z-order.
func (s *Scene) Images() []PlacedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copiesLocked()
}

// Snapshot returns a consistent copy of the whole scene.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Images:     s.copiesLocked(),
		Selected:   s.selected,
		Background: s.background,
		Grid:       s.grid,
	}
}

// Selected returns the selected image, if any.
func (s *Scene) Selected() (PlacedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.findLocked(s.selected); p != nil {
		return *p, true
	}
	return PlacedImage{}, false
}

// Select makes id the selected image.
func (s *Scene) Select(id ID) error {
	s.mu.Lock()
	p := s.findLocked(id)
	if p == nil {
		s.mu.Unlock()
		return fmt.Errorf("select %d: %w", id, ErrNotFound)
	}
	changed := s.selected != id
	s.selected = id
	cp := *p
	s.mu.Unlock()
	if changed {
		s.notify(true, cp, true)
	}
	return nil
}

// ClearSelection deselects any selected image.
func (s *Scene) ClearSelection() {
	s.mu.Lock()
	changed := s.selected != 0
	s.selected = 0
	s.mu.Unlock()
	if changed {
		s.notify(true, PlacedImage{}, false)
	}
}

// Move sets the top-left position, snapping both coordinates when grid snapping is on.
func (s *Scene) Move(id ID, x, y float64) error {
	if !vector.Finite(x, y) {
		return fmt.Errorf("move to (%v, %v): %w", x, y, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, g Grid) error {
		if g.Snap {
			x, y = Snap(x, g.CellSize), Snap(y, g.CellSize)
		}
		p.X, p.Y = x, y
		return nil
	})
}

// Resize sets the rendered size. With keepAspect the height follows from width
// and the original aspect ratio; otherwise both are taken as given. Both
// dimensions are floored at MinImageSize.
func (s *Scene) Resize(id ID, width, height float64, keepAspect bool) error {
	if !vector.Finite(width) || (!keepAspect && !vector.Finite(height)) {
		return fmt.Errorf("resize to %vx%v: %w", width, height, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		resizeLocked(p, width, height, keepAspect)
		return nil
	})
}

func resizeLocked(p *PlacedImage, width, height float64, keepAspect bool) {
	if keepAspect {
		ratio := p.AspectRatio()
		w := math.Max(width, MinImageSize)
		h := w / ratio
		if h < MinImageSize {
			h = MinImageSize
			w = h * ratio
		}
		p.Width, p.Height = w, h
	} else {
		p.Width = math.Max(width, MinImageSize)
		p.Height = math.Max(height, MinImageSize)
	}
	p.ScaleFactor = p.Width / p.OriginalWidth
}

// SetScale sizes the image to factor times its original size.
func (s *Scene) SetScale(id ID, factor float64) error {
	if !vector.Finite(factor) || factor <= 0 {
		return fmt.Errorf("scale %v: %w", factor, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		resizeLocked(p, p.OriginalWidth*factor, 0, true)
		return nil
	})
}

// SetOpacity sets the image alpha, clamped to [0,1].
func (s *Scene) SetOpacity(id ID, a float64) error {
	if !vector.Finite(a) {
		return fmt.Errorf("opacity %v: %w", a, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		p.Opacity = vector.Clamp(a, 0, 1)
		return nil
	})
}

// SetMirrorOpacity sets the reflection alpha, clamped to [0,1]. Zero disables the reflection.
func (s *Scene) SetMirrorOpacity(id ID, a float64) error {
	if !vector.Finite(a) {
		return fmt.Errorf("mirror opacity %v: %w", a, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		p.MirrorOpacity = vector.Clamp(a, 0, 1)
		return nil
	})
}

// SetMirrorDistance sets the height of the reflection band.
func (s *Scene) SetMirrorDistance(id ID, d float64) error {
	if !vector.Finite(d) || d < 0 {
		return fmt.Errorf("mirror distance %v: %w", d, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		p.MirrorDistance = d
		return nil
	})
}

// SetFlipped sets horizontal mirroring. Position and size are unaffected.
func (s *Scene) SetFlipped(id ID, flipped bool) error {
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		p.Flipped = flipped
		return nil
	})
}

// ToggleFlip inverts horizontal mirroring.
func (s *Scene) ToggleFlip(id ID) error {
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		p.Flipped = !p.Flipped
		return nil
	})
}

// Center positions the image so that its center coincides with the center of
// the canvasW x canvasH canvas as currently panned and zoomed by vp.
func (s *Scene) Center(id ID, vp viewport.Transform, canvasW, canvasH float64) error {
	visible := vp.VisibleRect(canvasW, canvasH)
	c := visible.Center()
	if !vector.Finite(c.X, c.Y) {
		return fmt.Errorf("center in %+v: %w", visible, ErrInvalidValue)
	}
	return s.mutate(id, func(p *PlacedImage, _ Grid) error {
		p.X = c.X - p.Width/2
		p.Y = c.Y - p.Height/2
		return nil
	})
}

// SetZOrder moves the image to position n (1 = bottom) and renumbers all
// images to 1..N. Out-of-range n is clamped.
func (s *Scene) SetZOrder(id ID, n int) error {
	s.mu.Lock()
	target := s.findLocked(id)
	if target == nil {
		s.mu.Unlock()
		return fmt.Errorf("z-order of %d: %w", id, ErrNotFound)
	}
	order := s.sortedLocked()
	order = slices.DeleteFunc(order, func(p *PlacedImage) bool { return p.ID == id })
	n = max(1, min(n, len(order)+1))
	order = slices.Insert(order, n-1, target)
	for i, p := range order {
		p.ZOrder = i + 1
	}
	s.mu.Unlock()
	s.notify(false, PlacedImage{}, false)
	return nil
}

// BringToFront places the image on top.
func (s *Scene) BringToFront(id ID) error { return s.SetZOrder(id, math.MaxInt32) }

// SendToBack places the image at the bottom.
func (s *Scene) SendToBack(id ID) error { return s.SetZOrder(id, 1) }

// Delete removes the image, clears the selection if it pointed at it and
// renumbers the remaining z-orders to 1..N preserving their relative order.
func (s *Scene) Delete(id ID) error {
	s.mu.Lock()
	idx := slices.IndexFunc(s.images, func(p *PlacedImage) bool { return p.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	s.images = slices.Delete(s.images, idx, idx+1)
	for i, p := range s.sortedLocked() {
		p.ZOrder = i + 1
	}
	selChanged := s.selected == id
	if selChanged {
		s.selected = 0
	}
	s.mu.Unlock()
	s.notify(selChanged, PlacedImage{}, false)
	return nil
}

// HitTest returns the topmost image containing p.
func (s *Scene) HitTest(p vector.Pt) (ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.sortedLocked()
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].Bounds().Contains(p) {
			return order[i].ID, true
		}
	}
	return 0, false
}

// HitResizeHandle reports whether p lies on the resize handle of image id.
func (s *Scene) HitResizeHandle(id ID, p vector.Pt) bool {
	img, ok := s.Image(id)
	return ok && img.ResizeHandle().Contains(p)
}

// Background returns the background setting.
func (s *Scene) Background() Background {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

// SetBackground replaces the background setting.
func (s *Scene) SetBackground(bg Background) {
	s.mu.Lock()
	s.background = bg
	s.mu.Unlock()
	s.notify(false, PlacedImage{}, false)
}

// Grid returns the grid setting.
func (s *Scene) Grid() Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// SetGrid replaces the grid setting. A non-positive cell size keeps the previous one.
func (s *Scene) SetGrid(g Grid) {
	s.mu.Lock()
	if !(g.CellSize > 0) || !vector.Finite(g.CellSize) {
		g.CellSize = s.grid.CellSize
	}
	s.grid = g
	s.mu.Unlock()
	s.notify(false, PlacedImage{}, false)
}

func (s *Scene) mutate(id ID, fn func(p *PlacedImage, g Grid) error) error {
	s.mu.Lock()
	p := s.findLocked(id)
	if p == nil {
		s.mu.Unlock()
		return fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	work := *p
	if err := fn(&work, s.grid); err != nil {
		s.mu.Unlock()
		return err
	}
	*p = work
	s.mu.Unlock()
	s.notify(false, PlacedImage{}, false)
	return nil
}

func (s *Scene) findLocked(id ID) *PlacedImage {
	if id == 0 {
		return nil
	}
	for _, p := range s.images {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// sortedLocked returns the image pointers in ascending z-order, stable on insertion order.
func (s *Scene) sortedLocked() []*PlacedImage {
	out := slices.Clone(s.images)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZOrder < out[j].ZOrder })
	return out
}

func (s *Scene) copiesLocked() []PlacedImage {
	order := s.sortedLocked()
	out := make([]PlacedImage, len(order))
	for i, p := range order {
		out[i] = *p
	}
	return out
}
