package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/explorer/internal/fetch"
	"github.com/five82/explorer/internal/logtail"
	"github.com/five82/explorer/internal/nasa"
	"github.com/five82/explorer/internal/prefs"
	"github.com/five82/explorer/internal/present"
	"github.com/five82/explorer/internal/state"
)

// Runner runs one fetch cycle to completion.
type Runner interface {
	Run(ctx context.Context, c state.Cycle) fetch.Report
}

// overlay is a full-screen view drawn instead of the sections.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayLogs
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Runner     Runner
	ArchiveURL present.ArchiveURLFunc
	Prefs      prefs.Prefs
	PrefsPath  string
	LogPath    string // empty disables the log overlay
	Logger     zerolog.Logger
	Tick       time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	runner     Runner
	archiveURL present.ArchiveURLFunc
	prefsPath  string
	prefs      prefs.Prefs
	logPath    string
	logger     zerolog.Logger
	tick       time.Duration
	keys       keyMap

	// UI state
	theme   Theme
	width   int
	height  int
	ready   bool
	overlay overlay
	notice  string

	// Data state
	snapshot state.Snapshot
	page     present.Page
	initial  state.Cycle
	pending  int

	// Loading indicator
	spinner  spinner.Model
	spinning bool

	// Sections
	focused        int
	sectionOffsets []int
	content        viewport.Model

	// Log overlay
	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates a Model and begins the first cycle for the stored selection.
// Init runs it; it is counted as pending until it reports back.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Prefs.Theme)
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Info))),
	)

	m := Model{
		ctx:        ctx,
		store:      opts.Store,
		runner:     opts.Runner,
		archiveURL: opts.ArchiveURL,
		prefsPath:  prefsPath,
		prefs:      opts.Prefs,
		logPath:    opts.LogPath,
		logger:     opts.Logger,
		tick:       tick,
		keys:       DefaultKeyMap(),
		theme:      theme,
		spinner:    sp,
		spinning:   true,
		initial:    opts.Store.Begin(),
		pending:    1,
	}
	m.setSnapshot(m.store.Snapshot())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		runCycleCmd(m.ctx, m.runner, m.initial),
		m.spinner.Tick,
		tickCmd(m.tick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			m.spinning = false
			return m, nil
		}
		m.setSnapshot(m.store.Snapshot())
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.tick))

	case snapshotMsg:
		m.setSnapshot(state.Snapshot(msg))
		return m, nil

	case cycleDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.setSnapshot(m.store.Snapshot())
		return m, nil

	case logsMsg:
		m.logErr = msg.err
		m.logLines = msg.lines
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayLogs:
		return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + m.renderLogs()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) loading() bool {
	return m.pending > 0 || m.snapshot.Status.Loading
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == overlayHelp {
		// Any key closes help
		m.overlay = overlayNone
		return m, nil
	}
	if m.overlay == overlayLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.overlay = overlayLogs
		return m, loadLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
		m.savePrefs(m.store.Params())
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.NextRover):
		return m.selectRover(m.store.Params().Rover.Next())

	case key.Matches(msg, m.keys.PrevRover):
		return m.selectRover(m.store.Params().Rover.Prev())

	case key.Matches(msg, m.keys.PickRover):
		rovers := nasa.Rovers()
		idx := int(msg.String()[0] - '1')
		if idx < 0 || idx >= len(rovers) {
			return m, nil
		}
		return m.selectRover(rovers[idx])

	case key.Matches(msg, m.keys.SolUp):
		return m.paramsChanged(m.store.StepSol(1))

	case key.Matches(msg, m.keys.SolDown):
		return m.paramsChanged(m.store.StepSol(-1))

	case key.Matches(msg, m.keys.SolStepUp):
		return m.paramsChanged(m.store.StepSol(state.SolStep))

	case key.Matches(msg, m.keys.SolStepDown):
		return m.paramsChanged(m.store.StepSol(-state.SolStep))

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.startCycle(m.store.Begin())
		m.setSnapshot(m.store.Snapshot())
		return m, cmd

	case key.Matches(msg, m.keys.NextSection):
		m.focusSection(m.focused + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSection):
		m.focusSection(m.focused - 1)
		return m, nil
	}

	m.scroll(&m.content, msg)
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Escape):
		m.overlay = overlayNone
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, loadLogsCmd(m.logPath)
	}
	m.scroll(&m.logViewport, msg)
	return m, nil
}

// scroll applies navigation keys to vp.
func (m Model) scroll(vp *viewport.Model, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	case key.Matches(msg, m.keys.PageUp):
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.HalfPageDown()
	}
}

func (m Model) selectRover(rover nasa.Rover) (tea.Model, tea.Cmd) {
	cycle, err := m.store.SetRover(rover)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	return m.paramsChanged(cycle)
}

// paramsChanged remembers the selection of c and runs c.
func (m Model) paramsChanged(c state.Cycle) (tea.Model, tea.Cmd) {
	m.savePrefs(c.Params)
	cmd := m.startCycle(c)
	m.setSnapshot(m.store.Snapshot())
	return m, cmd
}

// startCycle launches a cycle in the background and keeps the spinner going
// until every pending cycle has reported back.
func (m *Model) startCycle(c state.Cycle) tea.Cmd {
	m.pending++
	cmds := []tea.Cmd{runCycleCmd(m.ctx, m.runner, c)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) savePrefs(params state.Params) {
	m.prefs.Theme = m.theme.Name
	m.prefs.Rover = params.Rover
	m.prefs.Sol = params.Sol
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
		m.notice = "preferences not saved"
		return
	}
	m.notice = ""
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.page = present.Build(snap, m.archiveURL)
	m.refreshContent()
}

// resize fits both viewports inside the bordered content box.
func (m *Model) resize() {
	w, h := m.contentSize()
	if m.content.Width == 0 {
		m.content = viewport.New(w, h)
		m.logViewport = viewport.New(w, h)
	}
	m.content.Width, m.content.Height = w, h
	m.logViewport.Width, m.logViewport.Height = w, h
	m.refreshContent()
	m.updateLogViewport()
}

// contentSize is the inner size of the content box: the header and command
// bar take two rows and the border one cell on every side.
func (m Model) contentSize() (int, int) {
	return max(m.width-2, 10), max(m.height-4, 3)
}

func (m *Model) refreshContent() {
	if m.content.Width == 0 {
		return
	}
	content, offsets := m.renderSections(m.content.Width)
	m.content.SetContent(content)
	m.sectionOffsets = offsets
}

// focusSection moves focus to section i, wrapping, and scrolls to it.
func (m *Model) focusSection(i int) {
	n := len(m.page.Sections)
	if n == 0 {
		return
	}
	m.focused = ((i % n) + n) % n
	m.refreshContent()
	if m.focused < len(m.sectionOffsets) {
		m.content.SetYOffset(m.sectionOffsets[m.focused])
	}
}

func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		return
	}
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.GotoBottom()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type cycleDoneMsg fetch.Report

type logsMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func runCycleCmd(ctx context.Context, runner Runner, c state.Cycle) tea.Cmd {
	return func() tea.Msg {
		return cycleDoneMsg(runner.Run(ctx, c))
	}
}

func loadLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Tail(path, LogTailLines)
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = logtail.Format(e)
		}
		return logsMsg{lines: lines, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
