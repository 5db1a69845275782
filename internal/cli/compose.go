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
	"log/slog"

	"github.com/spf13/cobra"

	"mirrorcanvas/internal/export"
	"mirrorcanvas/internal/layout"
	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/upload"
)

type composeOpts struct {
	output        string
	size          string
	noReflections bool
}

// newComposeCmd renders a layout file straight to PNG without opening a window.
func newComposeCmd(a *app) *cobra.Command {
	var opts composeOpts
	cmd := &cobra.Command{
		Use:   "compose <layout.yaml>",
		Short: "Render a layout file to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.compose(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG path (default: export.file_name from config)")
	cmd.Flags().StringVar(&opts.size, "size", "", "export size: auto or WxH (default: export.size from config)")
	cmd.Flags().BoolVar(&opts.noReflections, "no-reflections", false, "leave reflections out of the content bounds")
	return cmd
}

func (a *app) compose(cmd *cobra.Command, path string, opts composeOpts) error {
	l := applog.WithOperation(a.log, "compose")
	size := opts.size
	if size == "" {
		size = a.cfg.Export.Size
	}
	policy, err := export.ParseSizePolicy(size)
	if err != nil {
		return err
	}
	out := opts.output
	if out == "" {
		out = a.cfg.Export.FileName
	}

	m, err := layout.Load(path)
	if err != nil {
		return err
	}
	s, err := newScene(a.cfg)
	if err != nil {
		return err
	}
	results, err := m.Apply(cmd.Context(), s)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", r.Name, r.Err)
		}
	}

	eo := exportOptions(a.cfg)
	if opts.noReflections {
		eo.IncludeReflections = false
	}
	if err := export.WriteFile(out, s.Snapshot(), policy, eo); err != nil {
		return err
	}
	l.Debug("compose done", slog.String("layout", path), slog.String("out", out))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d of %d images)\n", out, len(upload.Added(results)), len(results))
	return nil
}
