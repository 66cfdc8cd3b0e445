// Package tui implements the interactive terminal viewer: an ANSI image
// preview with keyboard-driven intensity windowing, an open dialog over the
// preferred DICOM directory, and the decision dialog for files with missing
// required attributes.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mrsinham/dicomview/internal/prefs"
)

// Options configures a viewer session.
type Options struct {
	// InitialFile is displayed immediately when non-empty; otherwise the
	// session starts at the open dialog.
	InitialFile string
	Preferences prefs.Preferences
	// PrefsPath is where preferences are saved on quit. Empty disables
	// persistence for the session.
	PrefsPath string
	Logger    zerolog.Logger
	// Preset is applied to the initial file once it is displayed.
	Preset string
}

// Run starts the interactive viewer and blocks until the user quits.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
