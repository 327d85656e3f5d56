package monitor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_BandBoundaries(t *testing.T) {
	tests := []struct {
		progress      float64
		wantStage     int
		wantWithinPct int
	}{
		{0, 1, 0},
		{10, 1, 50},
		{20, 1, 100},
		{21, 2, 5},
		{40, 2, 100},
		{40.5, 3, 3},
		{60, 3, 100},
		{61, 4, 5},
		{80, 4, 100},
		{81, 5, 5},
		{99.9, 5, 100},
		{100, 5, 100},
	}

	for _, tt := range tests {
		view := Resolve(tt.progress, StatusProcessing, "")
		assert.Equal(t, tt.wantStage, view.StageIndex, "stage for %.1f", tt.progress)
		assert.Equal(t, tt.wantWithinPct, view.StageProgress, "within-stage for %.1f", tt.progress)
		assert.False(t, view.Terminal)
	}
}

func TestResolve_StageIsMonotonic(t *testing.T) {
	prev := 0
	for p := 0.0; p <= 100.0; p += 0.25 {
		view := Resolve(p, StatusProcessing, "")
		require.GreaterOrEqual(t, view.StageIndex, prev, "stage went backwards at %.2f", p)
		require.GreaterOrEqual(t, view.StageIndex, 1)
		require.LessOrEqual(t, view.StageIndex, StageCount)
		require.GreaterOrEqual(t, view.StageProgress, 0)
		require.LessOrEqual(t, view.StageProgress, 100)
		prev = view.StageIndex
	}
}

func TestResolve_ClampsOutOfRange(t *testing.T) {
	low := Resolve(-15, StatusProcessing, "")
	assert.Equal(t, 1, low.StageIndex)
	assert.Equal(t, 0, low.StageProgress)
	assert.Equal(t, 0.0, low.Progress)

	high := Resolve(250, StatusProcessing, "")
	assert.Equal(t, 5, high.StageIndex)
	assert.Equal(t, 100, high.StageProgress)
	assert.Equal(t, 100.0, high.Progress)

	nan := Resolve(math.NaN(), StatusPending, "")
	assert.Equal(t, 1, nan.StageIndex)
	assert.Equal(t, 0, nan.StageProgress)

	inf := Resolve(math.Inf(1), StatusProcessing, "")
	assert.Equal(t, 5, inf.StageIndex)
}

func TestResolve_CompletedIgnoresProgress(t *testing.T) {
	for _, p := range []float64{0, 13, 55, 100, -4} {
		view := Resolve(p, StatusCompleted, "")
		assert.Equal(t, StageAllComplete, view.StageIndex)
		assert.Equal(t, 100, view.StageProgress)
		assert.Equal(t, 100.0, view.Progress)
		assert.True(t, view.Terminal)
		assert.Zero(t, view.FailedStage)

		for _, b := range view.Bands() {
			assert.Equal(t, BandDone, b.State, "band %d", b.Index)
			assert.Equal(t, 100, b.Percent)
		}
	}
}

func TestResolve_FailedMarksCurrentBand(t *testing.T) {
	view := Resolve(47, StatusFailed, "decoder crashed")

	assert.Equal(t, 3, view.StageIndex)
	assert.Equal(t, 3, view.FailedStage)
	assert.Equal(t, 35, view.StageProgress)
	assert.True(t, view.Terminal)
	assert.Equal(t, "failed - decoder crashed", view.StatusMessage)

	bands := view.Bands()
	require.Len(t, bands, StageCount)
	assert.Equal(t, BandDone, bands[0].State)
	assert.Equal(t, BandDone, bands[1].State)
	assert.Equal(t, BandFailed, bands[2].State)
	assert.Equal(t, 35, bands[2].Percent)
	assert.Equal(t, BandWaiting, bands[3].State)
	assert.Equal(t, BandWaiting, bands[4].State)
	assert.Zero(t, bands[4].Percent)
}

func TestResolve_ActiveBands(t *testing.T) {
	bands := Resolve(30, StatusProcessing, "").Bands()

	assert.Equal(t, BandDone, bands[0].State)
	assert.Equal(t, BandActive, bands[1].State)
	assert.Equal(t, 50, bands[1].Percent)
	assert.Equal(t, BandWaiting, bands[2].State)
}

func TestResolve_IsIdempotent(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, "canceled"} {
		a := Resolve(63.2, status, "msg")
		b := Resolve(63.2, status, "msg")
		assert.Equal(t, a, b, "status %s", status)
	}
}

func TestStatusMessage_Table(t *testing.T) {
	tests := []struct {
		status  Status
		message string
		want    string
	}{
		{StatusPending, "", "awaiting processing"},
		{StatusProcessing, "", "processing"},
		{StatusCompleted, "", "complete"},
		{StatusFailed, "", "failed"},
		{"canceled", "", "canceled"},
		{StatusProcessing, "42.0%", "processing - 42.0%"},
		{"queued", "behind 3 jobs", "queued - behind 3 jobs"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status)+"/"+tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusMessage(tt.status, tt.message))
		})
	}

	// Every known status has an entry.
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		_, ok := statusMessages[s]
		assert.True(t, ok, "missing message for %s", s)
	}
}

func TestResolveReport_UsesLastKnownProgress(t *testing.T) {
	view := ResolveReport(StatusReport{Status: StatusFailed, Message: "oom"}, 72)
	assert.Equal(t, 4, view.StageIndex)
	assert.Equal(t, 4, view.FailedStage)
	assert.Equal(t, 72.0, view.Progress)

	p := 12.0
	view = ResolveReport(StatusReport{Status: StatusProcessing, Progress: &p}, 72)
	assert.Equal(t, 1, view.StageIndex)
	assert.Equal(t, 60, view.StageProgress)
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusProcessing.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, Status("canceled").IsKnown())
}

func TestStageName(t *testing.T) {
	assert.Equal(t, "Preparing audio", StageName(1))
	assert.Equal(t, "Finalizing output", StageName(StageCount))
	assert.Empty(t, StageName(0))
	assert.Empty(t, StageName(StageAllComplete))

	bands := Resolve(50, StatusProcessing, "").Bands()
	assert.Equal(t, "Identifying speakers", bands[2].Name)
}
