// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/toeirei/keykapp/internal/appender"
	"github.com/toeirei/keykapp/internal/i18n"
	"github.com/toeirei/keykapp/internal/logging"
)

// newAppender is swapped in tests to inject a file system.
var newAppender = func(opts appender.Options) *appender.Appender {
	return appender.New(nil, opts)
}

func newAppendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "append",
		Short: "Append the configured message to the configured file",
		Long: `Opens the configured file in append mode, creating it if needed, writes
the message exactly once and closes the file. A failed or partial write
exits with a non-zero status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(cmd, opts)
		},
	}
}

// runAppend performs exactly one append for the resolved configuration.
func runAppend(cmd *cobra.Command, opts *rootOptions) error {
	c, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	content := []byte(c.Message)
	if len(content) == 0 {
		logging.Warnf("%s", i18n.T("append.empty", c.Path))
	}
	a := newAppender(appender.Options{Sync: c.Sync})
	if err := a.AppendLine(c.Path, content); err != nil {
		var aerr *appender.Error
		if errors.As(err, &aerr) && aerr.Partial() {
			logging.Errorf("%s", i18n.T("append.partial", aerr.Written, len(content), c.Path))
		}
		logging.Errorf("%s", i18n.T("append.failed", c.Path, err))
		return err
	}

	if opts.verbose {
		logging.Infof("%s", i18n.T("append.success", len(content), c.Path))
	}
	return nil
}
