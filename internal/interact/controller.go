/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package interact converts raw pointer, wheel and keyboard input plus panel
// values into scene and viewport mutations, and schedules repaints.
//
// The controller never owns event dispatch. A UI adapter forwards events in
// canvas pixel coordinates and reads back frames and panel values.
package interact

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"mirrorcanvas/internal/export"
	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/render"
	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/upload"
	"mirrorcanvas/internal/vector"
	"mirrorcanvas/internal/viewport"
)

var ErrNoSelection = errors.New("no image selected")

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

type Key string

const (
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "BackSpace"
	KeyLeft      Key = "Left"
	KeyRight     Key = "Right"
	KeyUp        Key = "Up"
	KeyDown      Key = "Down"
	KeyFlip      Key = "F"
	KeyCenter    Key = "C"
)

// Mode is the active pointer gesture. Only one is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrag
	ModeResize
	ModePan
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "drag"
	case ModeResize:
		return "resize"
	case ModePan:
		return "pan"
	}
	return "idle"
}

// Config carries the settings the controller reads at mutation time.
type Config struct {
	CanvasWidth  int
	CanvasHeight int
	Limits       viewport.Limits
	ZoomStep     float64
	ExportSize   string
	Export       export.Options
}

func DefaultConfig() Config {
	return Config{
		CanvasWidth:  1200,
		CanvasHeight: 800,
		Limits:       viewport.DefaultLimits,
		ZoomStep:     1.1,
		ExportSize:   "auto",
		Export:       export.DefaultOptions(),
	}
}

type gesture struct {
	mode     Mode
	target   scene.ID
	start    vector.Pt // scene coordinates at pointer down
	last     vector.Pt // screen coordinates of the previous move
	startImg scene.PlacedImage
}

type Controller struct {
	scene    *scene.Scene
	importer *upload.Importer
	repaint  *render.Repainter
	log      *slog.Logger

	mu    sync.Mutex
	cfg   Config
	vp    viewport.Transform
	g     gesture
	frame *image.RGBA

	fmu     sync.Mutex
	onFrame []func(*image.RGBA)
}

// New wires a controller to s. Every scene change schedules a repaint.
func New(s *scene.Scene, cfg Config) *Controller {
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		cfg.CanvasWidth, cfg.CanvasHeight = 1200, 800
	}
	c := &Controller{
		scene:    s,
		importer: upload.NewImporter(s),
		log:      applog.WithComponent("interact"),
		cfg:      cfg,
		vp:       viewport.New(cfg.Limits),
	}
	c.repaint = render.NewRepainter(c.paint)
	s.OnChange(c.repaint.Request)
	c.repaint.Request()
	return c
}

func (c *Controller) Scene() *scene.Scene          { return c.scene }
func (c *Controller) Repainter() *render.Repainter { return c.repaint }

// Viewport returns the current pan/zoom.
func (c *Controller) Viewport() viewport.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vp
}

// Mode returns the active gesture.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g.mode
}

// Frame returns the most recently painted frame, or nil before the first paint.
func (c *Controller) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// OnFrame registers fn to receive every painted frame.
func (c *Controller) OnFrame(fn func(*image.RGBA)) {
	c.fmu.Lock()
	c.onFrame = append(c.onFrame, fn)
	c.fmu.Unlock()
}

// Run drives the repaint loop until ctx ends.
func (c *Controller) Run(ctx context.Context) error { return c.repaint.Run(ctx) }

func (c *Controller) paint() {
	snap := c.scene.Snapshot()
	c.mu.Lock()
	vp, w, h := c.vp, c.cfg.CanvasWidth, c.cfg.CanvasHeight
	c.mu.Unlock()

	frame := render.Frame(snap, vp, w, h, render.Live)

	c.mu.Lock()
	c.frame = frame
	c.mu.Unlock()
	c.fmu.Lock()
	fns := append([]func(*image.RGBA){}, c.onFrame...)
	c.fmu.Unlock()
	for _, fn := range fns {
		fn(frame)
	}
}

// SetCanvasSize updates the live canvas size in pixels.
func (c *Controller) SetCanvasSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.mu.Lock()
	changed := c.cfg.CanvasWidth != w || c.cfg.CanvasHeight != h
	c.cfg.CanvasWidth, c.cfg.CanvasHeight = w, h
	c.mu.Unlock()
	if changed {
		c.repaint.Request()
	}
}

// PointerDown starts a gesture. Priority: resize handle of the selected
// image, then the topmost image under the pointer, then panning. The middle
// button always pans. A press during an active gesture is ignored.
func (c *Controller) PointerDown(at vector.Pt, btn Button, _ Modifiers) Mode {
	if !vector.Finite(at.X, at.Y) {
		return c.Mode()
	}
	c.mu.Lock()
	if c.g.mode != ModeIdle {
		m := c.g.mode
		c.mu.Unlock()
		return m
	}
	sp := c.vp.ToScene(at)
	c.mu.Unlock()

	g := gesture{start: sp, last: at, mode: ModePan}
	if btn != ButtonMiddle {
		if sel, ok := c.scene.Selected(); ok && c.scene.HitResizeHandle(sel.ID, sp) {
			g.mode, g.target, g.startImg = ModeResize, sel.ID, sel
		} else if id, ok := c.scene.HitTest(sp); ok {
			_ = c.scene.Select(id)
			img, _ := c.scene.Image(id)
			g.mode, g.target, g.startImg = ModeDrag, id, img
		} else {
			c.scene.ClearSelection()
		}
	}

	c.mu.Lock()
	c.g = g
	c.mu.Unlock()
	c.log.Debug("gesture started", slog.String("mode", g.mode.String()), slog.Int("target", int(g.target)))
	return g.mode
}

// PointerMove advances the active gesture.
func (c *Controller) PointerMove(at vector.Pt, mods Modifiers) {
	if !vector.Finite(at.X, at.Y) {
		return
	}
	c.mu.Lock()
	g := c.g
	sp := c.vp.ToScene(at)
	if g.mode == ModePan {
		c.vp.Pan(at.X-g.last.X, at.Y-g.last.Y)
		c.g.last = at
	}
	c.mu.Unlock()

	dx, dy := sp.X-g.start.X, sp.Y-g.start.Y
	switch g.mode {
	case ModeDrag:
		c.report("move", c.scene.Move(g.target, g.startImg.X+dx, g.startImg.Y+dy))
	case ModeResize:
		keep := mods&ModShift == 0
		c.report("resize", c.scene.Resize(g.target, g.startImg.Width+dx, g.startImg.Height+dy, keep))
	case ModePan:
		c.repaint.Request()
	}
}

// PointerUp ends the active gesture.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	c.g = gesture{}
	c.mu.Unlock()
}

// Wheel zooms toward the pointer by the configured step per notch.
func (c *Controller) Wheel(at vector.Pt, deltaY float64) {
	c.mu.Lock()
	changed := c.vp.Wheel(at, deltaY, c.cfg.ZoomStep)
	c.mu.Unlock()
	if changed {
		c.repaint.Request()
	}
}

// ZoomBy zooms around the canvas center.
func (c *Controller) ZoomBy(factor float64) {
	c.mu.Lock()
	at := vector.Pt{X: float64(c.cfg.CanvasWidth) / 2, Y: float64(c.cfg.CanvasHeight) / 2}
	changed := c.vp.ZoomAt(at, factor)
	c.mu.Unlock()
	if changed {
		c.repaint.Request()
	}
}

// ResetView restores 100% zoom without pan.
func (c *Controller) ResetView() {
	c.mu.Lock()
	c.vp.Reset()
	c.mu.Unlock()
	c.repaint.Request()
}

// Key handles a key press and reports whether it was consumed.
func (c *Controller) Key(k Key, _ Modifiers) bool {
	sel, ok := c.scene.Selected()
	if !ok {
		return false
	}
	step := 1.0
	if g := c.scene.Grid(); g.Snap && g.CellSize > 0 {
		step = g.CellSize
	}
	switch k {
	case KeyDelete, KeyBackspace:
		c.report("delete", c.Delete())
	case KeyFlip, "f":
		c.report("flip", c.scene.ToggleFlip(sel.ID))
	case KeyCenter, "c":
		c.report("center", c.Center())
	case KeyLeft:
		c.report("nudge", c.scene.Move(sel.ID, sel.X-step, sel.Y))
	case KeyRight:
		c.report("nudge", c.scene.Move(sel.ID, sel.X+step, sel.Y))
	case KeyUp:
		c.report("nudge", c.scene.Move(sel.ID, sel.X, sel.Y-step))
	case KeyDown:
		c.report("nudge", c.scene.Move(sel.ID, sel.X, sel.Y+step))
	default:
		return false
	}
	return true
}

// Delete removes the selected image.
func (c *Controller) Delete() error {
	return c.withSelected(func(id scene.ID) error { return c.scene.Delete(id) })
}

// Flip toggles horizontal mirroring of the selected image.
func (c *Controller) Flip() error {
	return c.withSelected(c.scene.ToggleFlip)
}

// Center centers the selected image in the visible canvas area.
func (c *Controller) Center() error {
	c.mu.Lock()
	vp, w, h := c.vp, float64(c.cfg.CanvasWidth), float64(c.cfg.CanvasHeight)
	c.mu.Unlock()
	return c.withSelected(func(id scene.ID) error { return c.scene.Center(id, vp, w, h) })
}

// Upload decodes files and adds the decodable ones to the scene.
func (c *Controller) Upload(ctx context.Context, files []upload.File) ([]upload.Result, error) {
	return c.importer.Import(ctx, files)
}

// Export renders the scene as PNG. policy is "auto" or "WxH"; empty uses the
// configured default. Garbage input is rejected without producing a file.
func (c *Controller) Export(policy string) ([]byte, error) {
	c.mu.Lock()
	if policy == "" {
		policy = c.cfg.ExportSize
	}
	opts := c.cfg.Export
	c.mu.Unlock()

	l := applog.WithOperation(c.log, "export")
	p, err := export.ParseSizePolicy(policy)
	if err != nil {
		l.Warn("export rejected", slog.String("size", policy), slog.Any("err", err))
		return nil, err
	}
	data, err := export.PNG(c.scene.Snapshot(), p, opts)
	if err != nil {
		l.Warn("export rejected", slog.String("size", policy), slog.Any("err", err))
		return nil, err
	}
	return data, nil
}

func (c *Controller) withSelected(fn func(scene.ID) error) error {
	sel, ok := c.scene.Selected()
	if !ok {
		return ErrNoSelection
	}
	return fn(sel.ID)
}

func (c *Controller) report(op string, err error) {
	if err != nil {
		c.log.Warn("operation failed", slog.String("op", op), slog.Any("err", err))
	}
}

// String describes the controller state for debug output.
func (c *Controller) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("mode=%s scale=%.2f offset=(%.1f,%.1f)", c.g.mode, c.vp.Scale, c.vp.OffsetX, c.vp.OffsetY)
}
