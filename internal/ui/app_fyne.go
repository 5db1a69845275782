//go:build fyne && cgo

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
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"mirrorcanvas/internal/interact"
	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/upload"
)

// Run starts the Fyne-based desktop UI around c and blocks until the window closes.
func Run(ctx context.Context, c *interact.Controller, opts Options) error {
	opts = opts.withDefaults()
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fyneApp := app.NewWithID("mirrorcanvas")
	w := fyneApp.NewWindow(opts.Title)
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	setStatus := func(s string) { fyne.Do(func() { status.SetText(s) }) }

	dc := NewDesignCanvas(c)
	c.OnFrame(func(*image.RGBA) { fyne.Do(dc.raster.Refresh) })
	go func() {
		if err := c.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error("repaint loop stopped", slog.Any("err", err))
		}
	}()

	// Property panel. syncing suppresses slider callbacks while the panel is
	// filled from a selection change.
	syncing := false
	nameLabel := widget.NewLabel("No image selected")
	scale := widget.NewSlider(10, 500)
	opacity := widget.NewSlider(0, 100)
	mirrorOpacity := widget.NewSlider(0, 100)
	mirrorDistance := widget.NewSlider(0, 200)
	number := widget.NewEntry()
	number.SetPlaceHolder("1")

	apply := func(op string, err error) {
		if err != nil {
			l.Warn("panel change rejected", slog.String("op", op), slog.Any("err", err))
			setStatus(fmt.Sprintf("%s: %v", op, err))
		}
	}
	scale.OnChanged = func(v float64) {
		if !syncing {
			apply("scale", c.SetScalePercent(v))
		}
	}
	opacity.OnChanged = func(v float64) {
		if !syncing {
			apply("opacity", c.SetOpacityPercent(v))
		}
	}
	mirrorOpacity.OnChanged = func(v float64) {
		if !syncing {
			apply("mirror opacity", c.SetMirrorOpacityPercent(v))
		}
	}
	mirrorDistance.OnChanged = func(v float64) {
		if !syncing {
			apply("mirror distance", c.SetMirrorDistance(v))
		}
	}
	number.OnSubmitted = func(s string) {
		n, err := strconv.Atoi(s)
		if err != nil {
			apply("number", err)
			return
		}
		apply("number", c.SetNumber(n))
	}

	imageControls := container.NewVBox(
		nameLabel,
		widget.NewLabel("Scale %"), scale,
		widget.NewLabel("Opacity %"), opacity,
		widget.NewLabel("Mirror opacity %"), mirrorOpacity,
		widget.NewLabel("Mirror distance"), mirrorDistance,
		widget.NewLabel("Number"), number,
		container.NewGridWithColumns(3,
			widget.NewButton("Flip", func() { apply("flip", c.Flip()) }),
			widget.NewButton("Center", func() { apply("center", c.Center()) }),
			widget.NewButton("Delete", func() { apply("delete", c.Delete()) }),
		),
	)
	imageControls.Hide()

	c.OnSelection(func(p interact.Panel, ok bool) {
		fyne.Do(func() {
			if !ok {
				nameLabel.SetText("No image selected")
				imageControls.Hide()
				return
			}
			syncing = true
			nameLabel.SetText(p.Name)
			scale.SetValue(float64(p.ScalePercent))
			opacity.SetValue(float64(p.OpacityPercent))
			mirrorOpacity.SetValue(float64(p.MirrorOpacityPercent))
			mirrorDistance.SetValue(float64(p.MirrorDistance))
			number.SetText(strconv.Itoa(p.Number))
			syncing = false
			imageControls.Show()
		})
	})

	// Canvas settings
	bg := widget.NewEntry()
	bg.SetText(c.Scene().Background().Color.Hex())
	bg.OnSubmitted = func(s string) { apply("background", c.SetBackgroundHex(s)) }
	transparent := widget.NewCheck("Transparent background", c.SetTransparent)
	gridVisible := widget.NewCheck("Show grid", c.SetGridVisible)
	snap := widget.NewCheck("Snap to grid", c.SetSnap)
	gridVisible.SetChecked(c.Scene().Grid().Visible)
	snap.SetChecked(c.Scene().Grid().Snap)

	exportSize := widget.NewSelectEntry([]string{"auto", "1920x1080", "1080x1080", "800x600"})
	exportSize.SetText("auto")
	exportSize.OnChanged = c.SetExportSize

	uploadBtn := widget.NewButton("Upload image…", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			name := rc.URI().Name()
			data, rerr := io.ReadAll(rc)
			_ = rc.Close()
			if rerr != nil {
				dialog.ShowError(rerr, w)
				return
			}
			go func() {
				res, ierr := c.Upload(ctx, []upload.File{upload.BytesFile(name, data)})
				if ierr != nil {
					setStatus(ierr.Error())
					return
				}
				if res[0].Err != nil {
					setStatus(fmt.Sprintf("skipped %s: %v", name, res[0].Err))
					return
				}
				setStatus("Added " + name)
			}()
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
		fd.Show()
	})

	exportBtn := widget.NewButton("Export PNG…", func() {
		data, err := c.Export(exportSize.Text)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			defer func() { _ = uc.Close() }()
			if _, werr := uc.Write(data); werr != nil {
				dialog.ShowError(werr, w)
				return
			}
			l.Info("export saved", slog.String("uri", uc.URI().String()), slog.Int("bytes", len(data)))
			setStatus("Exported " + uc.URI().Name())
		}, w)
		save.SetFileName(opts.ExportFileName)
		save.Show()
	})

	zoomBar := container.NewGridWithColumns(3,
		widget.NewButton("−", func() { c.ZoomBy(1 / 1.1) }),
		widget.NewButton("100%", c.ResetView),
		widget.NewButton("+", func() { c.ZoomBy(1.1) }),
	)

	side := container.NewVScroll(container.NewVBox(
		uploadBtn,
		widget.NewSeparator(),
		imageControls,
		widget.NewSeparator(),
		widget.NewLabel("Background"), bg, transparent,
		gridVisible, snap,
		widget.NewLabel("Zoom"), zoomBar,
		widget.NewSeparator(),
		widget.NewLabel("Export size"), exportSize, exportBtn,
	))
	split := container.NewHSplit(dc, side)
	split.Offset = 0.75
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		c.Key(keyFor(ev.Name), currentModifiers())
	})

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		cancel()
	})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}
