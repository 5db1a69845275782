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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mirrorcanvas/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var initFile, showPath bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the effective configuration: defaults, merged with the user file, then MC_* environment overrides.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case initFile:
				p, err := config.Save(config.Defaults())
				if err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				_, _ = fmt.Fprintf(out, "wrote defaults to %s\n", p)
				return nil
			case showPath:
				p, err := config.ConfigPath()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, p)
				return nil
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, _ = out.Write(data)
			for _, o := range config.ActiveEnvOverrides() {
				_, _ = fmt.Fprintf(out, "# overridden: %s\n", o)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "write the default configuration to the user config file")
	cmd.Flags().BoolVar(&showPath, "path", false, "print the config file path")
	return cmd
}
