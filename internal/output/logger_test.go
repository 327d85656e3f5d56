package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_JSONModeSuppressesText(t *testing.T) {
	withoutColor(t)
	var out, errOut bytes.Buffer
	l := NewLoggerWithWriters(&out, &errOut)
	l.SetJSONMode(true)

	l.Info("hello")
	l.Success("done")
	l.Warn("careful")
	l.Error("broken %d", 1)

	assert.Empty(t, out.String())
	assert.Equal(t, "Error: broken 1\n", errOut.String())
	assert.True(t, l.IsJSONMode())
}

func TestLogger_DebugRequiresVerbose(t *testing.T) {
	withoutColor(t)
	var out, errOut bytes.Buffer
	l := NewLoggerWithWriters(&out, &errOut)

	l.Debug("hidden")
	assert.Empty(t, errOut.String())

	l.SetVerbose(true)
	l.Debug("shown %s", "now")
	assert.Equal(t, "[DEBUG] shown now\n", errOut.String())
	assert.True(t, l.IsVerbose())
}

func TestLogger_PrintJobError(t *testing.T) {
	withoutColor(t)
	var out, errOut bytes.Buffer
	l := NewLoggerWithWriters(&out, &errOut)

	l.PrintJobError(&JobErrorInfo{
		JobID:      "12",
		Phase:      "failed",
		StageIndex: 2,
		StageCount: 5,
		StageName:  "Transcribing speech",
		Progress:   33,
		Message:    "model crashed",
		Err:        errors.New("boom"),
		Server:     "http://x",
		Hint:       "retry the upload",
	})

	got := errOut.String()
	assert.Contains(t, got, "Job 12 failed on the server")
	assert.Contains(t, got, "Stage: 2/5 (Transcribing speech)")
	assert.Contains(t, got, "Progress: 33.0%")
	assert.Contains(t, got, "Message: model crashed")
	assert.Contains(t, got, "Cause: boom")
	assert.Contains(t, got, "Hint: retry the upload")
	assert.NotContains(t, got, "Server:")

	errOut.Reset()
	l.SetVerbose(true)
	l.PrintJobError(&JobErrorInfo{JobID: "12", Phase: "stopped", Server: "http://x", Polls: 4})
	assert.Contains(t, errOut.String(), "is no longer being watched")
	assert.Contains(t, errOut.String(), "Server: http://x")
	assert.Contains(t, errOut.String(), "Polls: 4")

	assert.Empty(t, out.String())
}
