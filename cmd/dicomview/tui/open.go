package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/dicomview/internal/dicom"
)

// manualEntry is the select option that switches to free path input.
const manualEntry = "\x00manual"

// openScreen picks the next file to display. Files found in the preferred
// DICOM directory are offered as a list; a manual path entry is always
// available, and is the whole screen when the directory has nothing to offer.
type openScreen struct {
	form      *huh.Form
	dir       string
	files     []string
	path      string
	manual    bool
	done      bool
	cancelled bool
}

func newOpenScreen(dir string) *openScreen {
	s := &openScreen{dir: dir}
	if files, err := dicom.ScanDirectory(dir); err == nil {
		s.files = files
	}
	if len(s.files) > 0 {
		s.form = s.selectForm()
	} else {
		s.manual = true
		s.form = s.inputForm()
	}
	return s
}

func (s *openScreen) selectForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(s.files)+1)
	for _, f := range s.files {
		options = append(options, huh.NewOption(filepath.Base(f), f))
	}
	options = append(options, huh.NewOption("Enter a path manually...", manualEntry))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("file").
				Title("Open DICOM file").
				Description(fmt.Sprintf("%d file(s) in %s", len(s.files), s.dir)).
				Options(options...).
				Value(&s.path),
		),
	).WithShowHelp(false)
}

func (s *openScreen) inputForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Open DICOM file").
				Description("Path to a DICOM file").
				Value(&s.path).
				Validate(func(v string) error {
					if v == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)
}

// Init implements tea.Model
func (s *openScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *openScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			s.cancelled = true
			return s, nil
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		if s.path == manualEntry {
			// Swap in the free input and run the form again.
			s.manual = true
			s.path = ""
			s.form = s.inputForm()
			return s, s.form.Init()
		}
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *openScreen) View() string {
	title := titleStyle.Render("DICOM Viewer - Open")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		hintStyle.Render("Enter: Open | Esc: Back"),
	)
}

// Done returns true when a path has been chosen.
func (s *openScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user backed out.
func (s *openScreen) Cancelled() bool {
	return s.cancelled
}

// Path returns the chosen file path.
func (s *openScreen) Path() string {
	return s.path
}
