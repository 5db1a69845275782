/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	return p
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	useTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Defaults()
	if cfg.Export.Padding != def.Export.Padding || cfg.Viewport.MaxScale != 10 || cfg.Grid.CellSize != 20 {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := useTempConfig(t)
	cfg := Defaults()
	cfg.Canvas.Background = "#102030"
	cfg.Grid.Snap = true
	cfg.Export.Size = "1920x1080"
	path, err := Save(cfg)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if path != p {
		t.Fatalf("saved to %s, want %s", path, p)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Canvas.Background != "#102030" || !got.Grid.Snap || got.Export.Size != "1920x1080" {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestLoadMalformedFileKeepsDefaults(t *testing.T) {
	p := useTempConfig(t)
	if err := os.WriteFile(p, []byte("canvas: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Canvas.Background != "#ffffff" {
		t.Fatalf("defaults not preserved: %#v", cfg.Canvas)
	}
}

func TestMergeSwapsInvertedScaleLimits(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Viewport: ViewportConfig{MinScale: 5, MaxScale: 0.5}}
	mergeInto(&dst, &src)
	if dst.Viewport.MinScale != 0.5 || dst.Viewport.MaxScale != 5 {
		t.Fatalf("limits not normalized: %#v", dst.Viewport)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/mc.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/mc.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvGridSize, "25")
	t.Setenv(EnvGridSnap, "yes")
	t.Setenv(EnvExportSize, "640x480")
	t.Setenv(EnvTransparent, "1")
	t.Setenv(EnvLogLevel, "ERROR")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Grid.CellSize != 25 || !cfg.Grid.Snap || cfg.Export.Size != "640x480" || !cfg.Canvas.Transparent || cfg.Logging.Level != "error" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if name, ok := EnvOverrideFor("grid.snap"); !ok || name != EnvGridSnap {
		t.Fatalf("EnvOverrideFor(grid.snap) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("export.padding"); ok {
		t.Fatalf("export.padding should not be reported as overridden")
	}
	active := strings.Join(ActiveEnvOverrides(), ",")
	if !strings.Contains(active, "grid.snap="+EnvGridSnap) || strings.Contains(active, "export.padding") {
		t.Fatalf("ActiveEnvOverrides() = %s", active)
	}
}

func TestEnvOverrideIgnoresInvalidNumbers(t *testing.T) {
	useTempConfig(t)
	t.Setenv(EnvGridSize, "-3")
	t.Setenv(EnvExportPad, "abc")
	cfg, _ := Load()
	if cfg.Grid.CellSize != 20 || cfg.Export.Padding != 20 {
		t.Fatalf("invalid env values should be ignored: %#v", cfg)
	}
}
