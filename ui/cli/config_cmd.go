// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/keykapp/internal/config"
	"github.com/toeirei/keykapp/internal/i18n"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or persist keykapp configuration",
	}

	var system bool
	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a config file",
		Long: `Resolves the configuration the same way "append" does and writes it
as YAML to the user config path, the system path with --system, or the
file given with --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			path := output
			if path != "" {
				err = config.WriteConfigFileTo(&c, path)
			} else {
				path, err = config.WriteConfigFile(&c, system)
			}
			if err != nil {
				return fmt.Errorf("%s", i18n.T("config.error_write", err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("config.written", path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&system, "system", false, "Write to the system-wide config path")
	initCmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := config.Marshal(&c)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
