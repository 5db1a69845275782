/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"

	"mirrorcanvas/internal/config"
	"mirrorcanvas/internal/export"
	"mirrorcanvas/internal/interact"
	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/vector"
	"mirrorcanvas/internal/viewport"
)

// newScene returns an empty scene carrying the configured background and grid.
func newScene(cfg config.AppConfig) (*scene.Scene, error) {
	s := scene.New()
	bg := s.Background()
	if cfg.Canvas.Background != "" {
		c, err := vector.ParseHexColor(cfg.Canvas.Background)
		if err != nil {
			return nil, fmt.Errorf("canvas.background: %w", err)
		}
		bg.Color = c
	}
	bg.Transparent = cfg.Canvas.Transparent
	s.SetBackground(bg)

	g := s.Grid()
	if cfg.Grid.Color != "" {
		c, err := vector.ParseHexColor(cfg.Grid.Color)
		if err != nil {
			return nil, fmt.Errorf("grid.color: %w", err)
		}
		g.Color = c.WithAlpha(cfg.Grid.Alpha)
	}
	if cfg.Grid.CellSize > 0 {
		g.CellSize = cfg.Grid.CellSize
	}
	g.Visible, g.Snap = cfg.Grid.Visible, cfg.Grid.Snap
	s.SetGrid(g)
	return s, nil
}

func exportOptions(cfg config.AppConfig) export.Options {
	return export.Options{
		Padding:            cfg.Export.Padding,
		DefaultWidth:       cfg.Export.DefaultWidth,
		DefaultHeight:      cfg.Export.DefaultHeight,
		IncludeReflections: cfg.Export.IncludeReflections,
	}
}

func controllerConfig(cfg config.AppConfig) interact.Config {
	return interact.Config{
		CanvasWidth:  cfg.Canvas.Width,
		CanvasHeight: cfg.Canvas.Height,
		Limits:       viewport.Limits{MinScale: cfg.Viewport.MinScale, MaxScale: cfg.Viewport.MaxScale},
		ZoomStep:     cfg.Viewport.ZoomStep,
		ExportSize:   cfg.Export.Size,
		Export:       exportOptions(cfg),
	}
}
