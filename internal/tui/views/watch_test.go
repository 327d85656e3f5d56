package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/tui/components"
)

func update(t *testing.T, m WatchModel, msg tea.Msg) (WatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(WatchModel)
	require.True(t, ok)
	return wm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestWatchModel_Init(t *testing.T) {
	m := NewWatchModel("42", "http://localhost:5000", nil)
	assert.NotNil(t, m.Init(), "should start the spinner")
}

func TestWatchModel_View_BeforeFirstStatus(t *testing.T) {
	m := NewWatchModel("42", "http://localhost:5000", nil)
	view := m.View()
	assert.Contains(t, view, "Job 42")
	assert.Contains(t, view, "http://localhost:5000")
	assert.Contains(t, view, "waiting for first status")
	assert.Contains(t, view, "Preparing audio")
	assert.Contains(t, view, "Finalizing output")
	assert.Contains(t, view, stopHint)
}

func TestWatchModel_AppliesView(t *testing.T) {
	m := NewWatchModel("42", "", nil)
	m, _ = update(t, m, ViewMsg{View: monitor.Resolve(45, monitor.StatusProcessing, "Diarizing")})

	assert.Equal(t, 45.0, m.Overall.Percent)
	assert.Equal(t, components.StepCompleted, m.Steps.Steps[0].Status)
	assert.Equal(t, components.StepCompleted, m.Steps.Steps[1].Status)
	assert.Equal(t, components.StepRunning, m.Steps.Steps[2].Status)
	assert.Equal(t, 25, m.Steps.Steps[2].Percent)
	assert.Equal(t, "Diarizing", m.Steps.Steps[2].Detail)
	assert.Equal(t, components.StepPending, m.Steps.Steps[3].Status)

	view := m.View()
	assert.Contains(t, view, "processing - Diarizing")
	assert.Contains(t, view, "45.0%")
}

func TestWatchModel_Failed(t *testing.T) {
	m := NewWatchModel("9", "", nil)
	failed := monitor.Resolve(70, monitor.StatusFailed, "gpu lost")
	m, cmd := update(t, m, FinishedMsg{Outcome: monitor.Outcome{Phase: monitor.PhaseFailed, View: failed}})

	assert.True(t, isQuit(cmd))
	assert.Equal(t, components.StepFailed, m.Steps.Steps[3].Status)
	view := m.View()
	assert.Contains(t, view, "Failed at stage 4/5")
	assert.Contains(t, view, "failed - gpu lost")
	assert.NotContains(t, view, stopHint)
}

func TestWatchModel_Completed(t *testing.T) {
	m := NewWatchModel("9", "", nil)
	done := monitor.Resolve(100, monitor.StatusCompleted, "")
	m, cmd := update(t, m, FinishedMsg{Outcome: monitor.Outcome{
		Phase:       monitor.PhaseCompleted,
		View:        done,
		RedirectURL: "http://localhost:5000/transcript/9",
	}})

	assert.True(t, isQuit(cmd))
	for _, s := range m.Steps.Steps {
		assert.Equal(t, components.StepCompleted, s.Status)
	}
	require.NotNil(t, m.Result())
	assert.Contains(t, m.View(), "http://localhost:5000/transcript/9")
}

func TestWatchModel_QuitStopsMonitor(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		stopped := 0
		m := NewWatchModel("1", "", func() { stopped++ })
		m, cmd := update(t, m, key)

		assert.True(t, isQuit(cmd))
		assert.True(t, m.Quitting)
		assert.Equal(t, 1, stopped)
		assert.Nil(t, m.Result())
	}
}

func TestWatchModel_OtherKeysIgnored(t *testing.T) {
	stopped := false
	m := NewWatchModel("1", "", func() { stopped = true })
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.False(t, stopped)
	assert.False(t, m.Quitting)
}

func TestWatchModel_WindowResize(t *testing.T) {
	m := NewWatchModel("1", "", nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 116, m.Box.Width)
	assert.Equal(t, 110, m.Overall.Width)
}
