/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package upload turns uploaded files into placed images. Files are decoded
// concurrently; only successfully decoded images reach the scene, in the
// order they were given.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/scene"
)

var ErrUnsupportedFormat = errors.New("unsupported or corrupt image")

// File is one upload. Open is called once, possibly from another goroutine.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// PathFile uploads the file at path.
func PathFile(path string) File {
	return File{Name: filepath.Base(path), Open: func() (io.ReadCloser, error) { return os.Open(path) }}
}

// BytesFile uploads in-memory data.
func BytesFile(name string, data []byte) File {
	return File{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}}
}

// Decode decodes one raster, applying EXIF orientation.
func Decode(name string, r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrUnsupportedFormat, err)
	}
	return img, nil
}

// Result reports the outcome for one file.
type Result struct {
	Name string
	ID   scene.ID // zero when Err is set
	Err  error
}

type Importer struct {
	Scene *scene.Scene
	// Limit bounds concurrent decodes; zero means GOMAXPROCS.
	Limit int
	log   *slog.Logger
}

func NewImporter(s *scene.Scene) *Importer {
	return &Importer{Scene: s, log: applog.WithComponent("upload")}
}

// Import decodes files concurrently and adds the decoded ones to the scene in
// input order. A file that fails is skipped and reported in its Result. The
// returned error is non-nil only if ctx ends before decoding finished, in
// which case the scene is left untouched.
func (im *Importer) Import(ctx context.Context, files []File) ([]Result, error) {
	l := im.log
	if l == nil {
		l = applog.WithComponent("upload")
	}
	l = applog.WithOperation(l, "import")

	decoded := make([]image.Image, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := im.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decoded[i], errs[i] = decodeFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, len(files))
	for i, f := range files {
		results[i].Name = f.Name
		if errs[i] != nil {
			results[i].Err = errs[i]
			l.Warn("upload skipped", slog.String("file", f.Name), slog.Any("err", errs[i]))
			continue
		}
		id, err := im.Scene.Add(f.Name, decoded[i])
		if err != nil {
			results[i].Err = err
			l.Warn("upload skipped", slog.String("file", f.Name), slog.Any("err", err))
			continue
		}
		results[i].ID = id
		b := decoded[i].Bounds()
		l.Info("image imported", slog.String("file", f.Name), slog.Int("id", int(id)),
			slog.Int("width", b.Dx()), slog.Int("height", b.Dy()))
	}
	return results, nil
}

func decodeFile(f File) (image.Image, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("%s: no data", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()
	return Decode(f.Name, rc)
}

// Added returns the ids of successfully imported files.
func Added(results []Result) []scene.ID {
	var ids []scene.ID
	for _, r := range results {
		if r.Err == nil && r.ID != 0 {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
