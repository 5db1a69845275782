/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirrorcanvas/internal/export"
	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/upload"
	"mirrorcanvas/internal/vector"
)

func newController(t *testing.T) (*Controller, scene.ID) {
	t.Helper()
	s := scene.New()
	cfg := DefaultConfig()
	cfg.CanvasWidth, cfg.CanvasHeight = 200, 150
	c := New(s, cfg)
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{200, 10, 10, 255}), image.Point{}, draw.Src)
	id, err := s.Add("a.png", src)
	require.NoError(t, err)
	return c, id
}

func pt(x, y float64) vector.Pt { return vector.Pt{X: x, Y: y} }

func TestDragWithoutSnap(t *testing.T) {
	c, id := newController(t)
	require.Equal(t, ModeDrag, c.PointerDown(pt(50, 50), ButtonPrimary, 0))
	c.PointerMove(pt(63, 77), 0)
	c.PointerUp()

	p, _ := c.Scene().Image(id)
	if p.X != 13 || p.Y != 27 {
		t.Fatalf("position = (%v,%v), want (13,27)", p.X, p.Y)
	}
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestDragWithSnap(t *testing.T) {
	c, id := newController(t)
	c.SetSnap(true)
	c.PointerDown(pt(50, 50), ButtonPrimary, 0)
	c.PointerMove(pt(63, 77), 0)
	c.PointerUp()

	p, _ := c.Scene().Image(id)
	if p.X != 20 || p.Y != 20 {
		t.Fatalf("position = (%v,%v), want (20,20)", p.X, p.Y)
	}
}

func TestDragAccountsForZoom(t *testing.T) {
	c, id := newController(t)
	c.ZoomBy(2) // about canvas center (100,75)
	vp := c.Viewport()
	start := vp.ToScreen(pt(50, 50))
	c.PointerDown(start, ButtonPrimary, 0)
	c.PointerMove(pt(start.X+20, start.Y+10), 0)
	c.PointerUp()

	p, _ := c.Scene().Image(id)
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 5, p.Y, 1e-9)
}

func TestResizeHandleHasPriority(t *testing.T) {
	c, id := newController(t)
	require.Equal(t, ModeResize, c.PointerDown(pt(95, 95), ButtonPrimary, 0))
	c.PointerMove(pt(145, 100), 0)
	c.PointerUp()
	p, _ := c.Scene().Image(id)
	if p.Width != 150 || p.Height != 150 {
		t.Fatalf("keep-aspect resize = %vx%v", p.Width, p.Height)
	}

	require.Equal(t, ModeResize, c.PointerDown(pt(145, 145), ButtonPrimary, 0))
	c.PointerMove(pt(105, 185), ModShift)
	c.PointerUp()
	p, _ = c.Scene().Image(id)
	if p.Width != 110 || p.Height != 190 {
		t.Fatalf("free resize = %vx%v", p.Width, p.Height)
	}
}

func TestPanOnEmptyAreaDeselects(t *testing.T) {
	c, _ := newController(t)
	require.Equal(t, ModePan, c.PointerDown(pt(150, 120), ButtonPrimary, 0))
	if _, ok := c.Scene().Selected(); ok {
		t.Fatalf("click on empty area should deselect")
	}
	c.PointerMove(pt(170, 130), 0)
	c.PointerMove(pt(175, 135), 0)
	c.PointerUp()
	vp := c.Viewport()
	if vp.OffsetX != 25 || vp.OffsetY != 15 {
		t.Fatalf("offset = (%v,%v)", vp.OffsetX, vp.OffsetY)
	}
}

func TestMiddleButtonPansOverImage(t *testing.T) {
	c, id := newController(t)
	require.Equal(t, ModePan, c.PointerDown(pt(50, 50), ButtonMiddle, 0))
	c.PointerMove(pt(60, 50), 0)
	c.PointerUp()
	p, _ := c.Scene().Image(id)
	if p.X != 0 {
		t.Fatalf("middle-button pan moved the image")
	}
}

func TestGesturesAreExclusive(t *testing.T) {
	c, _ := newController(t)
	c.PointerDown(pt(50, 50), ButtonPrimary, 0)
	if m := c.PointerDown(pt(95, 95), ButtonPrimary, 0); m != ModeDrag {
		t.Fatalf("second press changed mode to %v", m)
	}
	c.PointerUp()
}

func TestEveryMutationSchedulesRepaint(t *testing.T) {
	c, id := newController(t)
	rp := c.Repainter()
	rp.Flush()

	steps := []func(){
		func() { _ = c.Scene().Move(id, 5, 5) },
		func() { c.Wheel(pt(10, 10), -120) },
		func() { _ = c.SetMirrorOpacityPercent(40) },
		func() { c.SetGridVisible(true) },
		func() { c.PointerDown(pt(150, 140), ButtonPrimary, 0); c.PointerMove(pt(151, 140), 0); c.PointerUp() },
	}
	for i, step := range steps {
		step()
		if !rp.Flush() {
			t.Fatalf("step %d did not schedule a repaint", i)
		}
	}
	if rp.Flush() {
		t.Fatalf("no mutation, no repaint")
	}
	frame := c.Frame()
	require.NotNil(t, frame)
	assert.Equal(t, image.Rect(0, 0, 200, 150), frame.Bounds())
}

func TestExportIgnoresPanZoom(t *testing.T) {
	c, id := newController(t)
	require.NoError(t, c.Scene().SetMirrorOpacity(id, 0.5))
	require.NoError(t, c.Scene().SetMirrorDistance(id, 20))

	first, err := c.Export("auto")
	require.NoError(t, err)
	c.Wheel(pt(30, 40), -240)
	c.PointerDown(pt(190, 140), ButtonPrimary, 0)
	c.PointerMove(pt(120, 90), 0)
	c.PointerUp()
	second, err := c.Export("auto")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	img, err := png.Decode(bytes.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dy())
}

func TestExportRejectsGarbage(t *testing.T) {
	c, _ := newController(t)
	if _, err := c.Export("12by4"); !errors.Is(err, export.ErrInvalidSizePolicy) {
		t.Fatalf("want ErrInvalidSizePolicy, got %v", err)
	}
	c.SetExportSize("64x64")
	data, err := c.Export("")
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
}

func TestKeys(t *testing.T) {
	c, id := newController(t)
	assert.True(t, c.Key("f", 0))
	p, _ := c.Scene().Image(id)
	assert.True(t, p.Flipped)

	assert.True(t, c.Key(KeyRight, 0))
	p, _ = c.Scene().Image(id)
	assert.Equal(t, 1.0, p.X)

	c.SetSnap(true)
	assert.True(t, c.Key(KeyDown, 0))
	p, _ = c.Scene().Image(id)
	assert.Equal(t, 20.0, p.Y)

	assert.True(t, c.Key(KeyCenter, 0))
	p, _ = c.Scene().Image(id)
	assert.Equal(t, vector.R(50, 25, 100, 100), p.Bounds())

	assert.False(t, c.Key("q", 0))
	assert.True(t, c.Key(KeyDelete, 0))
	assert.Equal(t, 0, c.Scene().Len())
	assert.False(t, c.Key(KeyDelete, 0), "no selection, nothing to delete")
}

func TestPanelSetters(t *testing.T) {
	c, _ := newController(t)
	var seen []Panel
	c.OnSelection(func(p Panel, ok bool) {
		if ok {
			seen = append(seen, p)
		}
	})

	require.NoError(t, c.SetScalePercent(50))
	require.NoError(t, c.SetMirrorOpacityPercent(35))
	require.NoError(t, c.SetMirrorDistance(12))
	require.NoError(t, c.SetOpacityPercent(80))
	p, ok := c.SelectedPanel()
	require.True(t, ok)
	assert.Equal(t, Panel{Name: "a.png", ScalePercent: 50, OpacityPercent: 80, MirrorOpacityPercent: 35, MirrorDistance: 12, Number: 1}, p)

	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	_, err := c.Scene().Add("b.png", src)
	require.NoError(t, err)
	require.NoError(t, c.SetNumber(1))
	p, _ = c.SelectedPanel()
	assert.Equal(t, 1, p.Number)
	require.Len(t, seen, 1)
	assert.Equal(t, "b.png", seen[0].Name)

	c.Scene().ClearSelection()
	if err := c.SetScalePercent(10); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("want ErrNoSelection, got %v", err)
	}
}

func TestBackgroundSettings(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.SetBackgroundHex("#102030"))
	assert.Equal(t, vector.Color{R: 16, G: 32, B: 48, A: 255}, c.Scene().Background().Color)
	assert.Error(t, c.SetBackgroundHex("nope"))
	c.SetTransparent(true)
	assert.True(t, c.Scene().Background().Transparent)
}

func TestUploadThroughController(t *testing.T) {
	c, _ := newController(t)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 3))))
	res, err := c.Upload(context.Background(), []upload.File{
		upload.BytesFile("ok.png", buf.Bytes()),
		upload.BytesFile("bad.png", []byte("not a png")),
	})
	require.NoError(t, err)
	assert.NoError(t, res[0].Err)
	assert.ErrorIs(t, res[1].Err, upload.ErrUnsupportedFormat)
	assert.Equal(t, 2, c.Scene().Len())
}
