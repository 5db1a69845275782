/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/scene"
)

// PNG renders snap and encodes it as PNG.
func PNG(snap scene.Snapshot, policy SizePolicy, opts Options) ([]byte, error) {
	img, err := Render(snap, policy, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	b := img.Bounds()
	applog.WithOperation(applog.WithComponent("export"), "png").Info("export rendered",
		slog.String("size", policy.String()),
		slog.Int("width", b.Dx()), slog.Int("height", b.Dy()),
		slog.Int("images", len(snap.Images)), slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// WriteFile renders snap as PNG to path, creating parent directories.
func WriteFile(path string, snap scene.Snapshot, policy SizePolicy, opts Options) error {
	data, err := PNG(snap, policy, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	applog.WithComponent("export").Info("export written", slog.String("path", path))
	return nil
}
