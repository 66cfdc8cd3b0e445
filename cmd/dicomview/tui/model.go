package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/mrsinham/dicomview/internal/dicom"
	"github.com/mrsinham/dicomview/internal/prefs"
	"github.com/mrsinham/dicomview/internal/render"
	"github.com/mrsinham/dicomview/internal/viewer"
)

// phase represents the current screen of the viewer.
type phase int

const (
	phaseViewing phase = iota
	phaseOpen
	phaseLoading
	phaseDecision
)

// decisionRequest crosses from the loading goroutine into the UI: the load
// blocks on respond until the decision screen answers.
type decisionRequest struct {
	path    string
	missing []string
	respond chan viewer.Resolution
}

// loadedMsg reports a finished load attempt.
type loadedMsg struct {
	path string
	err  error
}

// decisionMsg surfaces a pending decision request to the UI.
type decisionMsg struct {
	req decisionRequest
}

// Model is the root bubbletea model of the viewer.
type Model struct {
	viewer    *viewer.Viewer
	prefs     prefs.Preferences
	prefsPath string
	log       zerolog.Logger

	phase phase
	keys  keyMap
	help  help.Model

	openScreen      *openScreen
	decisionScreen  *decisionScreen
	pendingDecision *decisionRequest
	decisionCh      chan decisionRequest

	loadingPath   string
	initialPreset string

	width  int
	height int

	status        string
	statusIsError bool

	// frameDirty is set by the display surface whenever a new frame is
	// presented, possibly from the loading goroutine.
	frameDirty atomic.Bool
	preview    string

	cancelled bool
}

func newModel(opts Options) *Model {
	m := &Model{
		prefs:         opts.Preferences,
		prefsPath:     opts.PrefsPath,
		log:           opts.Logger,
		keys:          defaultKeyMap(),
		help:          help.New(),
		decisionCh:    make(chan decisionRequest),
		initialPreset: opts.Preset,
	}

	surface := viewer.SurfaceFunc(func(display []uint8, rows, cols int) {
		m.frameDirty.Store(true)
	})
	handler := viewer.DecisionFunc(func(path string, missing []string) viewer.Resolution {
		respond := make(chan viewer.Resolution, 1)
		m.decisionCh <- decisionRequest{path: path, missing: missing, respond: respond}
		return <-respond
	})
	m.viewer = viewer.New(dicom.NewLoader(opts.Logger), surface, handler, opts.Logger)

	if opts.InitialFile != "" {
		m.phase = phaseLoading
		m.loadingPath = opts.InitialFile
	} else {
		m.phase = phaseOpen
		m.openScreen = newOpenScreen(m.prefs.DICOMDirectory)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForDecision()}
	if m.phase == phaseLoading {
		cmds = append(cmds, m.loadCmd(m.loadingPath))
	} else {
		cmds = append(cmds, m.openScreen.Init())
	}
	return tea.Batch(cmds...)
}

// loadCmd runs the blocking load pipeline off the UI goroutine.
func (m *Model) loadCmd(path string) tea.Cmd {
	v := m.viewer
	return func() tea.Msg {
		return loadedMsg{path: path, err: v.LoadFile(path)}
	}
}

// waitForDecision delivers the next pending decision request. It is
// re-armed only after the previous request has been answered; loads are
// serial, so at most one request is ever outstanding.
func (m *Model) waitForDecision() tea.Cmd {
	ch := m.decisionCh
	return func() tea.Msg {
		return decisionMsg{req: <-ch}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.frameDirty.Store(true)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit(true)
		}

	case decisionMsg:
		m.pendingDecision = &msg.req
		m.decisionScreen = newDecisionScreen(msg.req.path, msg.req.missing)
		m.phase = phaseDecision
		return m, m.decisionScreen.Init()

	case loadedMsg:
		return m.updateLoaded(msg)
	}

	switch m.phase {
	case phaseOpen:
		return m.updateOpen(msg)
	case phaseDecision:
		return m.updateDecision(msg)
	case phaseViewing:
		return m.updateViewing(msg)
	}
	return m, nil
}

func (m *Model) updateLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loadingPath = ""

	if msg.err != nil {
		if errors.Is(msg.err, viewer.ErrAborted) {
			m.setStatus("Load aborted", false)
		} else {
			m.setStatus(msg.err.Error(), true)
		}
		if m.viewer.HasImage() {
			m.phase = phaseViewing
			return m, nil
		}
		m.phase = phaseOpen
		m.openScreen = newOpenScreen(m.prefs.DICOMDirectory)
		return m, m.openScreen.Init()
	}

	m.setStatus("", false)
	m.phase = phaseViewing
	m.prefs.DICOMDirectory = filepath.Dir(msg.path)

	if m.initialPreset != "" {
		if !m.viewer.ApplyPreset(m.initialPreset) {
			m.setStatus(fmt.Sprintf("Unknown preset %q", m.initialPreset), true)
		}
		m.initialPreset = ""
	}
	return m, nil
}

func (m *Model) updateOpen(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.openScreen.Update(msg)
	if s, ok := model.(*openScreen); ok {
		m.openScreen = s
	}

	if m.openScreen.Cancelled() {
		if m.viewer.HasImage() {
			m.phase = phaseViewing
			return m, nil
		}
		return m.quit(false)
	}

	if m.openScreen.Done() {
		path := m.openScreen.Path()
		m.phase = phaseLoading
		m.loadingPath = path
		return m, m.loadCmd(path)
	}
	return m, cmd
}

func (m *Model) updateDecision(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.decisionScreen.Update(msg)
	if s, ok := model.(*decisionScreen); ok {
		m.decisionScreen = s
	}

	if m.decisionScreen.Done() {
		m.pendingDecision.respond <- m.decisionScreen.Resolution()
		m.pendingDecision = nil
		m.decisionScreen = nil
		// The load is still finishing; loadedMsg moves us on.
		m.phase = phaseLoading
		return m, m.waitForDecision()
	}
	return m, cmd
}

func (m *Model) updateViewing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit(false)
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.NarrowWindow):
		m.viewer.StepWindow(-viewer.AdjustStep)
	case key.Matches(keyMsg, m.keys.WidenWindow):
		m.viewer.StepWindow(viewer.AdjustStep)
	case key.Matches(keyMsg, m.keys.LevelUp):
		m.viewer.StepLevel(viewer.AdjustStep)
	case key.Matches(keyMsg, m.keys.LevelDown):
		m.viewer.StepLevel(-viewer.AdjustStep)
	case key.Matches(keyMsg, m.keys.Brain):
		m.applyPreset("brain")
	case key.Matches(keyMsg, m.keys.Bone):
		m.applyPreset("bone")
	case key.Matches(keyMsg, m.keys.Lung):
		m.applyPreset("lung")
	case key.Matches(keyMsg, m.keys.Abdomen):
		m.applyPreset("abdomen")
	case key.Matches(keyMsg, m.keys.Auto):
		if m.viewer.HasImage() {
			m.viewer.AutoWindow()
			m.setStatus("Auto window", false)
		}
	case key.Matches(keyMsg, m.keys.Export):
		m.exportCurrent()
	case key.Matches(keyMsg, m.keys.Open):
		m.phase = phaseOpen
		m.openScreen = newOpenScreen(m.prefs.DICOMDirectory)
		return m, m.openScreen.Init()
	}
	return m, nil
}

func (m *Model) applyPreset(name string) {
	if !m.viewer.HasImage() {
		m.setStatus("No image loaded", true)
		return
	}
	if m.viewer.ApplyPreset(name) {
		m.setStatus(fmt.Sprintf("Preset: %s", name), false)
	}
}

// exportCurrent writes the displayed frame next to the working directory,
// named after the source file.
func (m *Model) exportCurrent() {
	display, rows, cols := m.viewer.Display()
	if display == nil {
		m.setStatus("No image loaded", true)
		return
	}

	img, err := render.GrayImage(append([]uint8(nil), display...), rows, cols)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}

	state := m.viewer.State()
	lines := []string{fmt.Sprintf("W:%d L:%d", state.Window, state.Level)}
	for _, item := range m.viewer.Metadata() {
		lines = append(lines, fmt.Sprintf("%s: %s", item.Name, item.Value))
	}

	base := filepath.Base(m.viewer.Path())
	name := strings.TrimSuffix(base, filepath.Ext(base))
	ext := "png"
	if m.prefs.ExportFormat == "jpeg" {
		ext = "jpg"
	}
	path := fmt.Sprintf("%s-w%d-l%d.%s", name, state.Window, state.Level, ext)

	if err := render.ExportFile(path, render.Annotate(img, lines), m.prefs.ExportFormat, m.prefs.JPEGQuality); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.log.Info().Str("path", path).Msg("exported view")
	m.setStatus(fmt.Sprintf("Exported %s", path), false)
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusIsError = isError
}

// quit releases a blocked load, persists preferences and stops the program.
func (m *Model) quit(cancelled bool) (tea.Model, tea.Cmd) {
	if m.pendingDecision != nil {
		m.pendingDecision.respond <- viewer.Resolution{Decision: viewer.Abort}
		m.pendingDecision = nil
	}
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.log.Warn().Err(err).Msg("could not save preferences")
		}
	}
	m.cancelled = cancelled
	return m, tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.phase {
	case phaseOpen:
		return m.openScreen.View()
	case phaseDecision:
		return m.decisionScreen.View()
	case phaseLoading:
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("DICOM Viewer"),
			"",
			subtitleStyle.Render(fmt.Sprintf("Loading %s...", m.loadingPath)),
		)
	}
	return m.viewViewing()
}

func (m *Model) viewViewing() string {
	title := titleStyle.Render("DICOM Viewer")

	if !m.viewer.HasImage() {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			subtitleStyle.Render("No image loaded."),
			"",
			m.statusLine(),
			hintStyle.Render("Press o to open a file, q to quit"),
		)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		subtitleStyle.Render("  "+filepath.Base(m.viewer.Path())),
	)

	sections := []string{
		header,
		"",
		m.renderPreview(),
		"",
		m.statusBar(),
	}
	if line := m.statusLine(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPreview rebuilds the cached ANSI frame when the surface marked it
// stale or the terminal was resized.
func (m *Model) renderPreview() string {
	if !m.frameDirty.Swap(false) && m.preview != "" {
		return m.preview
	}

	display, rows, cols := m.viewer.Display()
	if display == nil {
		return ""
	}
	img, err := render.GrayImage(display, rows, cols)
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	maxCols, maxRows := m.width-2, m.height-8
	if maxCols < 16 {
		maxCols = 78
	}
	if maxRows < 4 {
		maxRows = 20
	}

	m.preview = render.Preview(img, maxCols, maxRows)
	return m.preview
}

func (m *Model) statusBar() string {
	state := m.viewer.State()
	parts := []string{
		statusLabelStyle.Render("W:") + statusValueStyle.Render(fmt.Sprintf("%d", state.Window)),
		statusLabelStyle.Render("L:") + statusValueStyle.Render(fmt.Sprintf("%d", state.Level)),
	}

	for _, item := range m.viewer.Metadata() {
		if item.Name == "Dimensions" || item.Name == "PatientName" {
			parts = append(parts, statusLabelStyle.Render(item.Name+": ")+statusValueStyle.Render(item.Value))
		}
	}

	if validation := m.viewer.Validation(); !validation.Valid && len(validation.Missing) > 0 {
		parts = append(parts, warningStyle.Render("missing: "+strings.Join(validation.Missing, ", ")))
	}

	return strings.Join(parts, statusLabelStyle.Render("  |  "))
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusIsError {
		return errorStyle.Render(m.status)
	}
	return successStyle.Render(m.status)
}
