// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, its persistent flags and the shared
// setup that every subcommand runs before doing its work.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/keykapp/internal/appender"
	"github.com/toeirei/keykapp/internal/config"
	"github.com/toeirei/keykapp/internal/i18n"
	"github.com/toeirei/keykapp/internal/logging"
)

// rootOptions holds the flags that are not part of config.Config.
type rootOptions struct {
	cfgFile string
	verbose bool
}

// Execute runs the CLI entrypoint. The main package should call this
// function and exit non-zero when it returns an error.
func Execute() error {
	return ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the CLI with explicit arguments.
func ExecuteArgs(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	// Append failures are reported where they happen, with the target path.
	if err != nil && !appender.IsIOError(err) {
		logging.Errorf("%v", err)
	}
	return err
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "keykapp",
		Short: "keykapp appends a message to a log file.",
		Long: `keykapp opens a log file in append mode, writes one message to it and
closes it again. The file is created when missing; its parent directory
is not.

Path and message come from flags, KEYKAPP_* environment variables or a
keykapp.yaml config file, in that order of precedence.

Running without a subcommand is the same as running "keykapp append".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(cmd, opts)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/keykapp/keykapp.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringP("path", "p", config.DefaultPath, "File to append to")
	cmd.PersistentFlags().StringP("message", "m", config.DefaultMessage, "Message to append, written verbatim")
	cmd.PersistentFlags().Bool("sync", false, "Flush the file to stable storage before closing it")
	cmd.PersistentFlags().String("language", config.DefaultLanguage, `Output language ("en", "de")`)

	cmd.AddCommand(newAppendCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves the effective configuration for cmd and initialises
// localisation from it.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfgPath, err := getConfigPathFromCli(cmd, opts)
	if err != nil {
		return config.Config{}, err
	}

	c, err := config.LoadConfig[config.Config](cmd, config.Defaults(), cfgPath)
	if err != nil {
		return c, fmt.Errorf("%s: %w", i18n.T("config.error_load"), err)
	}
	if c.Path == "" {
		c.Path = config.DefaultPath
	}
	if c.Language == "" {
		c.Language = config.DefaultLanguage
	}

	i18n.Init(c.Language)
	logging.Debugf("resolved config: path=%s sync=%t language=%s", c.Path, c.Sync, i18n.GetLang())
	return c, nil
}

// getConfigPathFromCli returns the --config value when it was set and
// points at an accessible file.
func getConfigPathFromCli(cmd *cobra.Command, opts *rootOptions) (*string, error) {
	if !cmd.Flags().Changed("config") || opts.cfgFile == "" {
		return nil, nil
	}
	if _, err := os.Stat(opts.cfgFile); err != nil {
		return nil, fmt.Errorf("%s", i18n.T("config.error_flag", err))
	}
	path := opts.cfgFile
	return &path, nil
}
