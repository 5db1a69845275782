/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout reads a YAML description of a composition (background,
// grid and placed images) and applies it to a scene. Layouts are input only;
// nothing is ever written back.
package layout

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/scene"
	"mirrorcanvas/internal/upload"
	"mirrorcanvas/internal/vector"
)

var ErrInvalidManifest = errors.New("invalid layout")

//go:embed layout.schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

type Canvas struct {
	Background  string `yaml:"background"`
	Transparent bool   `yaml:"transparent"`
}

type Grid struct {
	CellSize float64 `yaml:"cell_size"`
	Visible  bool    `yaml:"visible"`
	Snap     bool    `yaml:"snap"`
}

// Image places one file. Pointer fields keep the scene default when unset.
type Image struct {
	Path           string   `yaml:"path"`
	X              float64  `yaml:"x"`
	Y              float64  `yaml:"y"`
	Scale          *float64 `yaml:"scale"`
	Opacity        *float64 `yaml:"opacity"`
	Flipped        bool     `yaml:"flipped"`
	MirrorOpacity  float64  `yaml:"mirror_opacity"`
	MirrorDistance float64  `yaml:"mirror_distance"`
	Z              int      `yaml:"z"`
}

type Manifest struct {
	Canvas *Canvas `yaml:"canvas"`
	Grid   *Grid   `yaml:"grid"`
	Images []Image `yaml:"images"`

	// Dir resolves relative image paths.
	Dir string `yaml:"-"`
}

// Parse validates data against the layout schema and decodes it. dir is used
// to resolve relative image paths.
func Parse(data []byte, dir string) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile layout schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(msgs, "; "))
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	m.Dir = dir
	return &m, nil
}

// Load reads and parses the layout file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// Apply imports the listed images into s and sets their parameters, then the
// canvas and grid settings. Images that fail to load are skipped and reported
// in the results. The selection is cleared afterwards.
func (m *Manifest) Apply(ctx context.Context, s *scene.Scene) ([]upload.Result, error) {
	l := applog.WithOperation(applog.WithComponent("layout"), "apply")
	if m.Canvas != nil {
		bg := s.Background()
		if m.Canvas.Background != "" {
			c, err := vector.ParseHexColor(m.Canvas.Background)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
			}
			bg.Color = c
		}
		bg.Transparent = m.Canvas.Transparent
		s.SetBackground(bg)
	}

	files := make([]upload.File, len(m.Images))
	for i, im := range m.Images {
		files[i] = upload.PathFile(m.resolve(im.Path))
	}
	results, err := upload.NewImporter(s).Import(ctx, files)
	if err != nil {
		return nil, err
	}

	type zreq struct {
		id scene.ID
		z  int
	}
	var zs []zreq
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		entry := m.Images[i]
		if err := applyImage(s, r.ID, entry); err != nil {
			l.Warn("image parameters rejected", slog.String("file", entry.Path), slog.Any("err", err))
		}
		if entry.Z > 0 {
			zs = append(zs, zreq{r.ID, entry.Z})
		}
	}
	sort.SliceStable(zs, func(i, j int) bool { return zs[i].z < zs[j].z })
	for _, z := range zs {
		_ = s.SetZOrder(z.id, z.z)
	}

	if m.Grid != nil {
		g := s.Grid()
		if m.Grid.CellSize > 0 {
			g.CellSize = m.Grid.CellSize
		}
		g.Visible, g.Snap = m.Grid.Visible, m.Grid.Snap
		s.SetGrid(g)
	}
	s.ClearSelection()
	l.Info("layout applied", slog.Int("images", len(upload.Added(results))), slog.Int("requested", len(m.Images)))
	return results, nil
}

func applyImage(s *scene.Scene, id scene.ID, entry Image) error {
	var errs []error
	if entry.Scale != nil {
		errs = append(errs, s.SetScale(id, *entry.Scale))
	}
	errs = append(errs, s.Move(id, entry.X, entry.Y))
	if entry.Opacity != nil {
		errs = append(errs, s.SetOpacity(id, *entry.Opacity))
	}
	errs = append(errs,
		s.SetFlipped(id, entry.Flipped),
		s.SetMirrorOpacity(id, entry.MirrorOpacity),
		s.SetMirrorDistance(id, entry.MirrorDistance),
	)
	return errors.Join(errs...)
}
