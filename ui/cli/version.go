// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/keykapp/buildvars"
	"github.com/toeirei/keykapp/internal/i18n"
)

const modulePath = "github.com/toeirei/keykapp"

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("version.line", compositeVersion(v, c, d)))
		},
	}
}

func compositeVersion(v, commit, date string) string {
	out := v
	if commit != "" && commit != "dev" && commit != v {
		out += " (" + commit + ")"
	}
	if date != "" {
		out += " built: " + date
	}
	return out
}

// resolveBuildVersion combines link-time variables with the module build
// info. A nil info reads the running binary's build info.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	if info == nil {
		info, _ = debug.ReadBuildInfo()
	}

	versionOut = firstSet(moduleVersion(info), buildvars.VersionOrDefault(version))
	commitOut = firstSet(vcsSetting(info, "vcs.revision"), gitCommit)
	dateOut = firstSet(vcsSetting(info, "vcs.time"), buildDate)

	// A dev build with a known commit is better identified by the commit.
	if versionOut == "dev" && commitOut != "" && commitOut != "dev" {
		versionOut = commitOut
	}
	return versionOut, commitOut, dateOut
}

// moduleVersion returns keykapp's module version from info, looking at the
// dependency list when keykapp was built as part of another module.
func moduleVersion(info *debug.BuildInfo) string {
	if info == nil {
		return ""
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}
	return ""
}

func vcsSetting(info *debug.BuildInfo, key string) string {
	if info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
