package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
)

func TestBandIcon(t *testing.T) {
	tests := []struct {
		state monitor.BandState
		icon  string
		color lipgloss.Color
	}{
		{monitor.BandWaiting, IconPending, ColorMuted},
		{monitor.BandActive, IconRunning, ColorInfo},
		{monitor.BandDone, IconSuccess, ColorSuccess},
		{monitor.BandFailed, IconError, ColorError},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.icon, BandIcon(tt.state))
			assert.Equal(t, tt.color, BandColor(tt.state))
		})
	}
}

func TestBandIcon_FailedView(t *testing.T) {
	view := monitor.Resolve(70, monitor.StatusFailed, "gpu lost")

	var icons []string
	for _, b := range view.Bands() {
		icons = append(icons, BandIcon(b.State))
	}
	assert.Equal(t, []string{IconSuccess, IconSuccess, IconSuccess, IconError, IconPending}, icons)
}

func TestStatusStyles_CarryIcons(t *testing.T) {
	assert.Equal(t, IconSuccess+" ", SuccessStyle.String())
	assert.Equal(t, IconError+" ", ErrorStyle.String())
	assert.Contains(t, MutedStyle.Render("waiting for first status..."), "waiting for first status...")
}

func TestResultBoxes_Bordered(t *testing.T) {
	for name, style := range map[string]lipgloss.Style{
		"watching":  BoxStyle,
		"failed":    ErrorBoxStyle,
		"completed": SuccessBoxStyle,
	} {
		t.Run(name, func(t *testing.T) {
			rendered := style.Render("Transcription is ready")
			assert.Contains(t, rendered, "Transcription is ready")
			assert.Contains(t, rendered, "╭")
			assert.Contains(t, rendered, "│")
		})
	}
}
