/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli holds the mirrorcanvas command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mirrorcanvas/internal/config"
	applog "mirrorcanvas/internal/log"
	"mirrorcanvas/internal/version"
)

// app carries state shared by all subcommands after the persistent pre-run.
type app struct {
	verbose bool
	cfg     config.AppConfig
	log     *slog.Logger
}

// NewRootCommand builds the command tree. Config is loaded and logging is
// initialized before any subcommand runs.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mirrorcanvas",
		Short:         "Compose images with mirror reflections and export them as PNG",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s\n", version.String()))
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newComposeCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newUICmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	lvl := cfg.Logging.Level
	if a.verbose {
		lvl = "debug"
	}
	applog.Init(applog.Options{
		Level:     lvl,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Writer:    cmd.ErrOrStderr(),
	})
	a.cfg = cfg
	a.log = applog.WithComponent("cli")
	if err != nil {
		// Defaults are still usable; a broken user file should not block the command.
		a.log.Warn("config not loaded, using defaults", slog.Any("err", err))
	}
	a.log.Debug("config loaded", slog.String("command", cmd.Name()))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
