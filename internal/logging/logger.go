// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"io"
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Setup points L at w. Verbose lowers the level to debug. Terminals get
// the styled text formatter, everything else gets logfmt.
func Setup(w io.Writer, verbose bool) {
	L.SetOutput(w)
	SetDebug(verbose)

	if isTerminal(w) {
		L.SetFormatter(clog.TextFormatter)
		L.SetStyles(styles())
		L.SetReportTimestamp(false)
		return
	}
	L.SetFormatter(clog.LogfmtFormatter)
	L.SetReportTimestamp(true)
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	if enabled {
		L.SetLevel(clog.DebugLevel)
		return
	}
	L.SetLevel(clog.InfoLevel)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func styles() *clog.Styles {
	s := clog.DefaultStyles()
	s.Levels[clog.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("204"))
	s.Levels[clog.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("192"))
	return s
}
