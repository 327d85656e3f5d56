// Package tui renders the interactive stage board.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
)

// Stage board palette. The line renderer uses the matching fatih/color
// attributes (green, red, cyan).
var (
	ColorSuccess = lipgloss.Color("#22c55e")
	ColorError   = lipgloss.Color("#ef4444")
	ColorInfo    = lipgloss.Color("#06b6d4")
	ColorMuted   = lipgloss.Color("#6b7280")
)

// Band icons, shared by the line renderer and the TUI step list.
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconRunning = "→"
	IconPending = " "
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess).SetString(IconSuccess + " ")
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).SetString(IconError + " ")
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Result boxes: neutral while watching, green on completion, red on failure.
var (
	BoxStyle        = roundedBox(ColorInfo)
	ErrorBoxStyle   = roundedBox(ColorError)
	SuccessBoxStyle = roundedBox(ColorSuccess)
)

func roundedBox(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// BandIcon returns the icon drawn in front of a stage band.
func BandIcon(state monitor.BandState) string {
	switch state {
	case monitor.BandDone:
		return IconSuccess
	case monitor.BandFailed:
		return IconError
	case monitor.BandActive:
		return IconRunning
	default:
		return IconPending
	}
}

// BandColor returns the foreground color of a stage band.
func BandColor(state monitor.BandState) lipgloss.Color {
	switch state {
	case monitor.BandDone:
		return ColorSuccess
	case monitor.BandFailed:
		return ColorError
	case monitor.BandActive:
		return ColorInfo
	default:
		return ColorMuted
	}
}
