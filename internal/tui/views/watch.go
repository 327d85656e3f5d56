// Package views holds full-screen bubbletea models built from components.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/tui"
	"github.com/altuslabsxyz/jobwatch/internal/tui/components"
)

// ViewMsg carries a resolved stage view from the monitor.
type ViewMsg struct {
	View monitor.StageView
}

// FinishedMsg is sent once the monitor stops polling.
type FinishedMsg struct {
	Outcome monitor.Outcome
}

const stopHint = "press q to stop watching"

// WatchModel is the TUI model for the watch command
type WatchModel struct {
	JobID    string
	Server   string
	Steps    components.StepListModel
	Overall  components.ProgressModel
	Box      components.BoxModel
	Current  monitor.StageView
	Outcome  *monitor.Outcome
	Quitting bool

	stop   func()
	seen   bool
	width  int
	height int
}

// NewWatchModel creates the model. stop is called when the user asks to quit.
func NewWatchModel(jobID, server string, stop func()) WatchModel {
	steps := components.NewStepListModel(monitor.StageNames[:]...)

	overall := components.NewProgressModel("Overall", 0)
	overall.Decimals = 1

	box := components.NewBoxModel(fmt.Sprintf("Job %s", jobID), "")
	box.SetFooter(stopHint)

	return WatchModel{
		JobID:   jobID,
		Server:  server,
		Steps:   steps,
		Overall: overall,
		Box:     box,
		stop:    stop,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return m.Steps.Init()
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Quitting = true
			if m.stop != nil {
				m.stop()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Box.Width = msg.Width - 4
		overall, cmd := m.Overall.Update(msg)
		m.Overall = overall.(components.ProgressModel)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		overall, cmd := m.Overall.Update(msg)
		m.Overall = overall.(components.ProgressModel)
		cmds = append(cmds, cmd)

	case ViewMsg:
		m.apply(msg.View)

	case FinishedMsg:
		out := msg.Outcome
		m.Outcome = &out
		m.apply(out.View)
		m.Box.SetFooter("")
		return m, tea.Quit
	}

	// Update child components
	stepsModel, stepsCmd := m.Steps.Update(msg)
	m.Steps = stepsModel.(components.StepListModel)
	cmds = append(cmds, stepsCmd)

	return m, tea.Batch(cmds...)
}

func (m *WatchModel) apply(view monitor.StageView) {
	m.Current = view
	m.seen = true
	m.Overall.SetPercent(view.Progress)

	for _, band := range view.Bands() {
		idx := band.Index - 1
		m.Steps.SetPercent(idx, band.Percent)
		m.Steps.SetDetail(idx, "")
		switch band.State {
		case monitor.BandDone:
			m.Steps.SetStatus(idx, components.StepCompleted)
		case monitor.BandActive:
			m.Steps.SetStatus(idx, components.StepRunning)
			if view.Message != "" {
				m.Steps.SetDetail(idx, view.Message)
			}
		case monitor.BandFailed:
			m.Steps.SetStatus(idx, components.StepFailed)
			if view.Message != "" {
				m.Steps.SetDetail(idx, view.Message)
			}
		default:
			m.Steps.SetStatus(idx, components.StepPending)
		}
	}
}

// View implements tea.Model
func (m WatchModel) View() string {
	var b strings.Builder

	content := fmt.Sprintf("Status: %s", m.statusText())
	if m.Server != "" {
		content = fmt.Sprintf("Server: %s\n%s", m.Server, content)
	}
	m.Box.SetContent(content)
	b.WriteString(m.Box.View())
	b.WriteString("\n\n")

	b.WriteString(m.Overall.View())
	b.WriteString("\n\n")

	b.WriteString(m.Steps.View())
	b.WriteString("\n")

	if m.Outcome != nil {
		b.WriteString("\n")
		b.WriteString(m.outcomeBox().View())
		b.WriteString("\n")
	}

	return b.String()
}

func (m WatchModel) outcomeBox() components.BoxModel {
	out := m.Outcome
	switch out.Phase {
	case monitor.PhaseCompleted:
		body := "Transcription is ready"
		if out.RedirectURL != "" {
			body += "\n" + out.RedirectURL
		}
		return components.NewSuccessBoxModel("Complete", body)
	case monitor.PhaseFailed:
		body := m.Current.StatusMessage
		return components.NewErrorBoxModel(
			fmt.Sprintf("Failed at stage %d/%d", m.Current.FailedStage, monitor.StageCount), body)
	default:
		body := "Stopped watching"
		if out.Err != nil {
			body = out.Err.Error()
		}
		return components.NewBoxModel("Stopped", body)
	}
}

func (m WatchModel) statusText() string {
	if !m.seen {
		return tui.MutedStyle.Render("waiting for first status...")
	}
	if m.Outcome != nil {
		switch m.Outcome.Phase {
		case monitor.PhaseCompleted:
			return tui.SuccessStyle.Render(m.Current.StatusMessage)
		case monitor.PhaseFailed:
			return tui.ErrorStyle.Render(m.Current.StatusMessage)
		}
	}
	return m.Current.StatusMessage
}

// Result returns the monitor outcome, or nil if the model quit before the
// monitor finished.
func (m WatchModel) Result() *monitor.Outcome {
	return m.Outcome
}
