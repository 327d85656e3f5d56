package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepList_AddStep(t *testing.T) {
	m := NewStepListModel()
	m.AddStep("Preparing audio")
	m.AddStep("Transcribing speech")
	assert.Len(t, m.Steps, 2)
}

func TestStepList_NewWithNames(t *testing.T) {
	m := NewStepListModel("a", "b", "c")
	assert.Len(t, m.Steps, 3)
	assert.Equal(t, 1, m.FindStepByName("b"))
	assert.Equal(t, -1, m.FindStepByName("z"))
}

func TestStepList_View_PendingStep(t *testing.T) {
	m := NewStepListModel("Preparing audio")
	view := m.View()
	assert.Contains(t, view, "Preparing audio")
	assert.Contains(t, view, "[1/1]")
	assert.NotContains(t, view, "%")
}

func TestStepList_View_RunningStep(t *testing.T) {
	m := NewStepListModel("Preparing audio", "Transcribing speech")
	m.SetStatus(1, StepRunning)
	m.SetPercent(1, 45)
	view := m.View()
	assert.Contains(t, view, "[2/2]")
	assert.Contains(t, view, "45%")
}

func TestStepList_View_CompletedStep(t *testing.T) {
	m := NewStepListModel("Preparing audio")
	m.SetStatus(0, StepCompleted)
	view := m.View()
	assert.Contains(t, view, "✓")
}

func TestStepList_View_FailedStep(t *testing.T) {
	m := NewStepListModel("Preparing audio")
	m.SetStatus(0, StepFailed)
	m.SetPercent(0, 12)
	view := m.View()
	assert.Contains(t, view, "✗")
	assert.Contains(t, view, "12%")
}

func TestStepList_SetDetail(t *testing.T) {
	m := NewStepListModel("Identifying speakers")
	m.SetDetail(0, "2 speakers")
	view := m.View()
	assert.Contains(t, view, "2 speakers")
}

func TestStepList_View_RunningProgress(t *testing.T) {
	m := NewStepListModel("Aligning transcript")
	m.SetStatus(0, StepRunning)
	p := NewProgressModel("", 30)
	m.SetProgress(0, &p)
	assert.Contains(t, m.View(), "30%")

	m.SetStatus(0, StepCompleted)
	assert.NotContains(t, m.View(), "30%")
}
