package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/dicomview/internal/viewer"
)

// decisionScreen asks what to do with a file whose required attributes are
// missing. The load is blocked until the screen resolves; backing out
// resolves to Abort, matching the safe default.
type decisionScreen struct {
	form    *huh.Form
	path    string
	missing []string

	// providable excludes attributes that cannot be typed in, PixelData
	// being the one that matters.
	providable []string
	values     []string
	choice     string
	providing  bool

	done       bool
	resolution viewer.Resolution
}

func newDecisionScreen(path string, missing []string) *decisionScreen {
	s := &decisionScreen{
		path:    path,
		missing: missing,
		choice:  "abort",
	}
	for _, name := range missing {
		if name != "PixelData" {
			s.providable = append(s.providable, name)
		}
	}
	s.values = make([]string, len(s.providable))
	s.form = s.choiceForm()
	return s
}

func (s *decisionScreen) choiceForm() *huh.Form {
	options := []huh.Option[string]{
		huh.NewOption("Abort - do not display this file", "abort"),
		huh.NewOption("Continue - display it anyway", "continue"),
	}
	if len(s.providable) > 0 {
		options = append(options, huh.NewOption("Provide the missing values now", "provide"))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("decision").
				Title("Required attributes are missing").
				Description(fmt.Sprintf("%s is missing: %s",
					filepath.Base(s.path), strings.Join(s.missing, ", "))).
				Options(options...).
				Value(&s.choice),
		),
	).WithShowHelp(false)
}

func (s *decisionScreen) provideForm() *huh.Form {
	fields := make([]huh.Field, 0, len(s.providable))
	for i, name := range s.providable {
		fields = append(fields, huh.NewInput().
			Key(name).
			Title(name).
			Description("Leave empty to keep it missing").
			Value(&s.values[i]))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false)
}

// Init implements tea.Model
func (s *decisionScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *decisionScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		s.resolve(viewer.Resolution{Decision: viewer.Abort})
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted && !s.done {
		if s.providing {
			s.resolve(viewer.Resolution{Decision: viewer.Provide, Values: s.providedValues()})
			return s, nil
		}
		switch s.choice {
		case "provide":
			s.providing = true
			s.form = s.provideForm()
			return s, s.form.Init()
		case "continue":
			s.resolve(viewer.Resolution{Decision: viewer.Continue})
		default:
			s.resolve(viewer.Resolution{Decision: viewer.Abort})
		}
	}

	return s, cmd
}

func (s *decisionScreen) resolve(res viewer.Resolution) {
	if s.done {
		return
	}
	s.done = true
	s.resolution = res
}

func (s *decisionScreen) providedValues() map[string]string {
	values := make(map[string]string)
	for i, name := range s.providable {
		if v := strings.TrimSpace(s.values[i]); v != "" {
			values[name] = v
		}
	}
	return values
}

// View implements tea.Model
func (s *decisionScreen) View() string {
	title := warningStyle.Render("! Incomplete DICOM file")

	var hint string
	if s.providing {
		hint = hintStyle.Render("Enter: Confirm values | Esc: Abort")
	} else {
		hint = hintStyle.Render("Enter: Choose | Esc: Abort")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		hint,
	)
}

// Done reports whether a resolution has been made.
func (s *decisionScreen) Done() bool {
	return s.done
}

// Resolution returns the user's answer once Done.
func (s *decisionScreen) Resolution() viewer.Resolution {
	return s.resolution
}
