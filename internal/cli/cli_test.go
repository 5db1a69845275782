/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirrorcanvas/internal/config"
	"mirrorcanvas/internal/export"
	"mirrorcanvas/internal/vector"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func useTempConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvConfigPath, p)
	return p
}

func writeLayout(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 100, 100))))
	require.NoError(t, f.Close())

	doc := "images:\n  - path: a.png\n    mirror_opacity: 0.5\n    mirror_distance: 20\n  - path: gone.png\n"
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestComposeAutoSize(t *testing.T) {
	useTempConfig(t)
	layout := writeLayout(t)
	out := filepath.Join(t.TempDir(), "nested", "out.png")

	stdout, stderr, err := execute(t, "compose", layout, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 of 2 images")
	assert.Contains(t, stderr, "skipped gone.png")

	w, h := pngSize(t, out)
	assert.Equal(t, 140, w)
	assert.Equal(t, 160, h)
}

func TestComposeFlags(t *testing.T) {
	useTempConfig(t)
	layout := writeLayout(t)
	dir := t.TempDir()

	noRefl := filepath.Join(dir, "plain.png")
	_, _, err := execute(t, "compose", layout, "-o", noRefl, "--no-reflections")
	require.NoError(t, err)
	w, h := pngSize(t, noRefl)
	assert.Equal(t, [2]int{140, 140}, [2]int{w, h})

	fixed := filepath.Join(dir, "fixed.png")
	_, _, err = execute(t, "compose", layout, "-o", fixed, "--size", "64X32")
	require.NoError(t, err)
	w, h = pngSize(t, fixed)
	assert.Equal(t, [2]int{64, 32}, [2]int{w, h})
}

func TestComposeRejectsBadSize(t *testing.T) {
	useTempConfig(t)
	layout := writeLayout(t)
	out := filepath.Join(t.TempDir(), "out.png")
	_, _, err := execute(t, "compose", layout, "-o", out, "--size", "big")
	require.ErrorIs(t, err, export.ErrInvalidSizePolicy)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no file should be written")
}

func TestComposeUsesConfigSize(t *testing.T) {
	useTempConfig(t)
	t.Setenv(config.EnvExportSize, "50x40")
	layout := writeLayout(t)
	out := filepath.Join(t.TempDir(), "out.png")
	_, _, err := execute(t, "compose", layout, "-o", out)
	require.NoError(t, err)
	w, h := pngSize(t, out)
	assert.Equal(t, [2]int{50, 40}, [2]int{w, h})
}

func TestConfigCommand(t *testing.T) {
	path := useTempConfig(t)
	t.Setenv(config.EnvGridSnap, "true")

	out, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "cell_size: 20")
	assert.Contains(t, out, "# overridden: grid.snap="+config.EnvGridSnap)

	out, _, err = execute(t, "config", "--init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, _, err = execute(t, "config", "--path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestVersionCommand(t *testing.T) {
	useTempConfig(t)
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mirrorcanvas "), out)
}

func TestNewSceneFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Canvas.Background = "#102030"
	cfg.Grid.Snap = true
	s, err := newScene(cfg)
	require.NoError(t, err)
	assert.Equal(t, vector.Color{R: 16, G: 32, B: 48, A: 255}, s.Background().Color)
	g := s.Grid()
	assert.True(t, g.Snap)
	assert.Equal(t, 20.0, g.CellSize)
	assert.InDelta(t, 0.3*255, float64(g.Color.A), 1)

	cfg.Grid.Color = "nope"
	_, err = newScene(cfg)
	assert.Error(t, err)
}
