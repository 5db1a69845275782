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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type CanvasConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Background  string `yaml:"background"` // hex color, e.g. "#ffffff"
	Transparent bool   `yaml:"transparent"`
}

type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
	Color    string  `yaml:"color"`
	Alpha    float64 `yaml:"alpha"`
	Visible  bool    `yaml:"visible"`
	Snap     bool    `yaml:"snap"`
}

type ViewportConfig struct {
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	ZoomStep float64 `yaml:"zoom_step"` // multiplicative factor per wheel notch
}

type ExportConfig struct {
	Size               string  `yaml:"size"` // "auto" or "WxH"
	Padding            float64 `yaml:"padding"`
	DefaultWidth       int     `yaml:"default_width"`
	DefaultHeight      int     `yaml:"default_height"`
	IncludeReflections bool    `yaml:"include_reflections"`
	FileName           string  `yaml:"file_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Canvas        CanvasConfig   `yaml:"canvas"`
	Grid          GridConfig     `yaml:"grid"`
	Viewport      ViewportConfig `yaml:"viewport"`
	Export        ExportConfig   `yaml:"export"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas:        CanvasConfig{Width: 1200, Height: 800, Background: "#ffffff"},
		Grid:          GridConfig{CellSize: 20, Color: "#888888", Alpha: 0.3},
		Viewport:      ViewportConfig{MinScale: 0.1, MaxScale: 10, ZoomStep: 1.1},
		Export: ExportConfig{
			Size:               "auto",
			Padding:            20,
			DefaultWidth:       800,
			DefaultHeight:      600,
			IncludeReflections: true,
			FileName:           "design-export.png",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvBackground  = "MC_BACKGROUND"
	EnvTransparent = "MC_TRANSPARENT"
	EnvGridSize    = "MC_GRID_SIZE"
	EnvGridSnap    = "MC_GRID_SNAP"
	EnvExportSize  = "MC_EXPORT_SIZE"
	EnvExportPad   = "MC_EXPORT_PADDING"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "MC_LOG_LEVEL"
	EnvLogFormat = "MC_LOG_FORMAT"
	EnvLogSource = "MC_LOG_SOURCE"
	EnvLogFile   = "MC_LOG_FILE"
	// EnvConfigPath points Load/Save at an explicit file.
	EnvConfigPath = "MC_CONFIG"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "MirrorCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "MirrorCanvas")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "mirrorcanvas")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "mirrorcanvas")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and applies env overrides.
// A missing file is not an error; a malformed one is reported but defaults are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var loadErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, loadErr
}

// Save writes cfg to the user config path.
func Save(cfg AppConfig) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// canvas
	if src.Canvas.Width > 0 {
		dst.Canvas.Width = src.Canvas.Width
	}
	if src.Canvas.Height > 0 {
		dst.Canvas.Height = src.Canvas.Height
	}
	if s := strings.TrimSpace(src.Canvas.Background); s != "" {
		dst.Canvas.Background = s
	}
	dst.Canvas.Transparent = src.Canvas.Transparent
	// grid
	if src.Grid.CellSize > 0 {
		dst.Grid.CellSize = src.Grid.CellSize
	}
	if s := strings.TrimSpace(src.Grid.Color); s != "" {
		dst.Grid.Color = s
	}
	if src.Grid.Alpha > 0 && src.Grid.Alpha <= 1 {
		dst.Grid.Alpha = src.Grid.Alpha
	}
	dst.Grid.Visible = src.Grid.Visible
	dst.Grid.Snap = src.Grid.Snap
	// viewport
	if src.Viewport.MinScale > 0 {
		dst.Viewport.MinScale = src.Viewport.MinScale
	}
	if src.Viewport.MaxScale > 0 {
		dst.Viewport.MaxScale = src.Viewport.MaxScale
	}
	if dst.Viewport.MaxScale < dst.Viewport.MinScale {
		dst.Viewport.MinScale, dst.Viewport.MaxScale = dst.Viewport.MaxScale, dst.Viewport.MinScale
	}
	if src.Viewport.ZoomStep > 1 {
		dst.Viewport.ZoomStep = src.Viewport.ZoomStep
	}
	// export
	if s := strings.TrimSpace(src.Export.Size); s != "" {
		dst.Export.Size = s
	}
	if src.Export.Padding > 0 {
		dst.Export.Padding = src.Export.Padding
	}
	if src.Export.DefaultWidth > 0 {
		dst.Export.DefaultWidth = src.Export.DefaultWidth
	}
	if src.Export.DefaultHeight > 0 {
		dst.Export.DefaultHeight = src.Export.DefaultHeight
	}
	dst.Export.IncludeReflections = src.Export.IncludeReflections
	if s := strings.TrimSpace(src.Export.FileName); s != "" {
		dst.Export.FileName = s
	}
	// logging
	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackground)); v != "" {
		cfg.Canvas.Background = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTransparent)); v != "" {
		cfg.Canvas.Transparent = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvGridSize)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.Grid.CellSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvGridSnap)); v != "" {
		cfg.Grid.Snap = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportSize)); v != "" {
		cfg.Export.Size = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportPad)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			cfg.Export.Padding = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"canvas.background":  EnvBackground,
	"canvas.transparent": EnvTransparent,
	"grid.cell_size":     EnvGridSize,
	"grid.snap":          EnvGridSnap,
	"export.size":        EnvExportSize,
	"export.padding":     EnvExportPad,
	"logging.level":      EnvLogLevel,
	"logging.format":     EnvLogFormat,
	"logging.source":     EnvLogSource,
	"logging.file":       EnvLogFile,
}

// EnvOverrideFor returns the env var name if the key is currently overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// ActiveEnvOverrides lists the config keys currently overridden by the
// environment as "key=ENV_NAME", sorted by key.
func ActiveEnvOverrides() []string {
	keys := make([]string, 0, len(envKeys))
	for k := range envKeys {
		if name, ok := EnvOverrideFor(k); ok {
			keys = append(keys, k+"="+name)
		}
	}
	sort.Strings(keys)
	return keys
}
