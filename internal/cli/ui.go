/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"github.com/spf13/cobra"

	"mirrorcanvas/internal/interact"
	"mirrorcanvas/internal/layout"
	"mirrorcanvas/internal/ui"
)

func newUICmd(a *app) *cobra.Command {
	var layoutPath string
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop editor (requires a fyne build)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newScene(a.cfg)
			if err != nil {
				return err
			}
			if layoutPath != "" {
				m, err := layout.Load(layoutPath)
				if err != nil {
					return err
				}
				if _, err := m.Apply(cmd.Context(), s); err != nil {
					return err
				}
			}
			c := interact.New(s, controllerConfig(a.cfg))
			return ui.Run(cmd.Context(), c, ui.Options{ExportFileName: a.cfg.Export.FileName})
		},
	}
	cmd.Flags().StringVar(&layoutPath, "layout", "", "layout file to open")
	return cmd
}
