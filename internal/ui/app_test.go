package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/explorer/internal/fetch"
	"github.com/five82/explorer/internal/nasa"
	"github.com/five82/explorer/internal/prefs"
	"github.com/five82/explorer/internal/state"
)

// stubRunner completes cycles immediately, optionally with a cycle error.
// With photos set, each cycle stores one photo named after its rover.
type stubRunner struct {
	store  *state.Store
	err    error
	photos bool

	mu     sync.Mutex
	params []state.Params
}

func (r *stubRunner) Run(_ context.Context, c state.Cycle) fetch.Report {
	r.mu.Lock()
	r.params = append(r.params, c.Params)
	r.mu.Unlock()
	if r.photos {
		r.store.SetRoverPhotos(c.ID, []nasa.RoverPhoto{{Rover: nasa.RoverInfo{Name: c.Params.Rover.Label()}}})
	}
	current := r.store.Finish(c.ID, r.err)
	return fetch.Report{Cycle: c.ID, Params: c.Params, Err: r.err, Current: current}
}

func (r *stubRunner) calls() []state.Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]state.Params(nil), r.params...)
}

func newTestModel(t *testing.T, runErr error) (Model, *stubRunner, string) {
	t.Helper()
	store := state.NewStore(state.DefaultParams())
	runner := &stubRunner{store: store, err: runErr}
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Store:     store,
		Runner:    runner,
		Prefs:     prefs.Prefs{Theme: "Nightfox"},
		PrefsPath: path,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, runner, path
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// finishCycles runs every cycle command in cmd and feeds the results back.
func finishCycles(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		if done, ok := msg.(cycleDoneMsg); ok {
			m = update(t, m, done)
		}
	}
	return m
}

// collect executes cmd, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func TestNew_StartsLoading(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	if !m.loading() {
		t.Fatal("expected the first cycle to be pending")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Fatal("expected header to show Loading")
	}
}

func TestView_BeforeWindowSize(t *testing.T) {
	store := state.NewStore(state.DefaultParams())
	m := New(Options{Store: store, Runner: &stubRunner{store: store}, PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestCycleDone_ShowsEmptySections(t *testing.T) {
	m, runner, _ := newTestModel(t, nil)
	report := runner.Run(context.Background(), m.initial)
	m = update(t, m, cycleDoneMsg(report))

	if m.loading() {
		t.Fatal("expected loading to end after the cycle finished")
	}
	view := m.View()
	for _, want := range []string{
		"● Ready",
		"Astronomy Picture of the Day",
		"Mars Exploration",
		"No near-Earth asteroids detected for today.",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestCycleDone_ShowsCycleError(t *testing.T) {
	m, runner, _ := newTestModel(t, errors.New("decode apod: unexpected EOF"))
	report := runner.Run(context.Background(), m.initial)
	m = update(t, m, cycleDoneMsg(report))

	view := m.View()
	if !strings.Contains(view, "● Error") {
		t.Fatal("expected header to show the error state")
	}
	if !strings.Contains(view, "api.nasa.gov") {
		t.Fatal("expected sections to show the API key hint")
	}
}

func TestKey_NextRoverStartsCycleAndSavesPrefs(t *testing.T) {
	m, runner, path := newTestModel(t, nil)

	next, cmd := m.Update(keyRunes("r"))
	m = next.(Model)
	if got := m.store.Params().Rover; got != nasa.Opportunity {
		t.Fatalf("rover = %s, want opportunity", got)
	}
	if m.pending != 2 {
		t.Fatalf("pending = %d, want 2", m.pending)
	}

	m = finishCycles(t, m, cmd)
	calls := runner.calls()
	if len(calls) != 1 || calls[0].Rover != nasa.Opportunity {
		t.Fatalf("runner calls = %+v, want one opportunity cycle", calls)
	}
	if m.pending != 1 {
		t.Fatalf("pending = %d after cycle, want 1", m.pending)
	}

	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if saved.Rover != nasa.Opportunity || saved.Sol != state.DefaultSol {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestKey_PickRover(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = update(t, m, keyRunes("4"))
	if got := m.store.Params().Rover; got != nasa.Perseverance {
		t.Fatalf("rover = %s, want perseverance", got)
	}
	m = update(t, m, keyRunes("R"))
	if got := m.store.Params().Rover; got != nasa.Spirit {
		t.Fatalf("rover = %s, want spirit", got)
	}
}

func TestKey_SolStepping(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = update(t, m, keyRunes("]"))
	if got := m.store.Params().Sol; got != state.DefaultSol+state.SolStep {
		t.Fatalf("sol = %d, want %d", got, state.DefaultSol+state.SolStep)
	}
	m = update(t, m, keyRunes("+"))
	if got := m.store.Params().Sol; got != state.DefaultSol+state.SolStep+1 {
		t.Fatalf("sol = %d after +", got)
	}

	if _, err := m.store.SetSol(1); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, keyRunes("-"))
	if got := m.store.Params().Sol; got != 1 {
		t.Fatalf("sol = %d, want clamp at 1", got)
	}
	m = update(t, m, keyRunes("["))
	if got := m.store.Params().Sol; got != 1 {
		t.Fatalf("sol = %d, want clamp at 1", got)
	}
}

func TestKey_RefreshKeepsParams(t *testing.T) {
	m, runner, _ := newTestModel(t, nil)
	m = update(t, m, cycleDoneMsg(runner.Run(context.Background(), m.initial)))
	if m.loading() {
		t.Fatal("expected the first cycle to be finished")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if m.pending != 1 {
		t.Fatalf("pending = %d after refresh, want 1", m.pending)
	}
	if !m.loading() || !m.snapshot.Status.Loading {
		t.Fatal("expected refresh to show loading before the cycle runs")
	}
	if m.snapshot.Status.Cycle != m.initial.ID+1 {
		t.Fatalf("cycle = %d, want %d", m.snapshot.Status.Cycle, m.initial.ID+1)
	}

	m = finishCycles(t, m, cmd)
	calls := runner.calls()
	if len(calls) != 2 || calls[1] != state.DefaultParams() {
		t.Fatalf("runner calls = %+v, want a second default cycle", calls)
	}
	if m.pending != 0 || m.loading() {
		t.Fatalf("pending = %d, want refresh cycle finished", m.pending)
	}
}

func TestKey_RoverChangesFinishingOutOfOrder(t *testing.T) {
	m, runner, _ := newTestModel(t, nil)
	runner.photos = true
	m = update(t, m, cycleDoneMsg(runner.Run(context.Background(), m.initial)))

	next, first := m.Update(keyRunes("r"))
	m = next.(Model)
	next, second := m.Update(keyRunes("r"))
	m = next.(Model)
	if got := m.store.Params().Rover; got != nasa.Spirit {
		t.Fatalf("rover = %s, want spirit", got)
	}

	// The newer cycle completes before the older one.
	m = finishCycles(t, m, second)
	m = finishCycles(t, m, first)

	snap := m.store.Snapshot()
	if snap.CycleParams != snap.Params {
		t.Fatalf("cycle params = %+v, selection = %+v", snap.CycleParams, snap.Params)
	}
	if snap.Status.Loading || m.loading() {
		t.Fatal("expected loading to end once both cycles reported back")
	}
	if len(snap.Results.RoverPhotos) != 1 || snap.Results.RoverPhotos[0].Rover.Name != "Spirit" {
		t.Fatalf("photos = %+v, want Spirit's", snap.Results.RoverPhotos)
	}
	if !strings.Contains(m.View(), "Spirit") {
		t.Fatal("view should show the Spirit selection")
	}
}

func TestKey_SectionFocusWraps(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != 1 {
		t.Fatalf("focused = %d, want 1", m.focused)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focused != len(m.page.Sections)-1 {
		t.Fatalf("focused = %d, want last section", m.focused)
	}
}

func TestKey_CycleThemePersists(t *testing.T) {
	m, _, path := newTestModel(t, nil)
	m = update(t, m, keyRunes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %s, want Kanagawa", m.theme.Name)
	}
	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %s, want Kanagawa", saved.Theme)
	}
}

func TestKey_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	_, cmd := m.Update(keyRunes("e"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestOverlays(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m = update(t, m, keyRunes("?"))
	if m.overlay != overlayHelp {
		t.Fatal("expected help overlay")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help view missing title")
	}
	m = update(t, m, keyRunes("x"))
	if m.overlay != overlayNone {
		t.Fatal("expected any key to close help")
	}

	next, cmd := m.Update(keyRunes("L"))
	m = next.(Model)
	if m.overlay != overlayLogs {
		t.Fatal("expected log overlay")
	}
	if cmd != nil {
		t.Fatal("expected no log read without a log path")
	}
	if !strings.Contains(m.View(), "Logging to a file is disabled.") {
		t.Fatal("log view missing disabled message")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != overlayNone {
		t.Fatal("expected esc to close the log overlay")
	}
}

func TestLogsMsg_RendersLines(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m.logPath = filepath.Join(t.TempDir(), "explorer.log")
	m = update(t, m, keyRunes("L"))
	m = update(t, m, logsMsg{lines: []string{"12:00:00 WARN  [api] rate limited"}})
	if !strings.Contains(m.View(), "rate limited") {
		t.Fatal("log view missing entry")
	}
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := formatTimestamp(now.Add(-30*time.Second), now); !strings.HasSuffix(got, "(now)") {
		t.Fatalf("formatTimestamp = %q, want (now)", got)
	}
	if got := formatTimestamp(now.Add(-5*time.Minute), now); !strings.HasSuffix(got, "(5m ago)") {
		t.Fatalf("formatTimestamp = %q, want (5m ago)", got)
	}
	if got := formatTimestamp(time.Time{}, now); got != "" {
		t.Fatalf("formatTimestamp(zero) = %q, want empty", got)
	}
}
