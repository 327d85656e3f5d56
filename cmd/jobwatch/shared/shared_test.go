package shared

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/jobwatch/internal/history"
	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/types/ctxconfig"
)

func newTestLogger(t *testing.T) (*output.Logger, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return output.NewLoggerWithWriters(&buf, &buf), &buf
}

func TestHandleError(t *testing.T) {
	logger, buf := newTestLogger(t)

	assert.Equal(t, ExitCodeOK, HandleError(logger, nil))
	assert.Empty(t, buf.String())

	assert.Equal(t, ExitCodeError, HandleError(logger, errors.New("boom")))
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	reported := NewReportedError(ExitCodeJobFailed, errors.New("job 1 failed"))
	assert.Equal(t, ExitCodeJobFailed, HandleError(logger, fmt.Errorf("wrapped: %w", reported)))
	assert.Empty(t, buf.String(), "reported errors are not printed twice")

	assert.Equal(t, ExitCodeStopped, HandleError(logger, &ExitError{Code: ExitCodeStopped, Err: errors.New("stopped")}))
	assert.Contains(t, buf.String(), "stopped")

	buf.Reset()
	assert.Equal(t, ExitCodeError, HandleError(logger, output.ErrCancelled))
	assert.Contains(t, buf.String(), "Operation cancelled.")
}

func TestExitError_Unwrap(t *testing.T) {
	err := NewReportedError(ExitCodeStopped, monitor.ErrStopped)
	assert.ErrorIs(t, err, monitor.ErrStopped)
	assert.Equal(t, "exit status 3", (&ExitError{Code: 3}).Error())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		jsonMode bool
		want     Format
		wantErr  bool
	}{
		{"", false, FormatTable, false},
		{"", true, FormatJSON, false},
		{"YAML", true, FormatYAML, false},
		{"table", true, FormatTable, false},
		{"xml", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in, tt.jsonMode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteStructured(t *testing.T) {
	v := struct {
		Name  string `json:"name" yaml:"name"`
		Count int    `json:"count" yaml:"count"`
	}{"job", 2}

	var buf bytes.Buffer
	require.NoError(t, WriteStructured(&buf, FormatJSON, v))
	assert.Equal(t, "{\n  \"name\": \"job\",\n  \"count\": 2\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteStructured(&buf, FormatYAML, v))
	assert.Equal(t, "name: job\ncount: 2\n", buf.String())

	assert.Error(t, WriteStructured(&buf, FormatTable, v))
}

type stubPrompter struct {
	input  string
	recent []string
}

func (s *stubPrompter) SelectFromList(_ string, items []string) (int, string, error) {
	s.recent = items
	return 0, items[0], nil
}

func (s *stubPrompter) InputText(_ string, validate func(string) error) (string, error) {
	return s.input, validate(s.input)
}

func (s *stubPrompter) Confirm(string) (bool, error) { return true, nil }

func TestResolveJobID(t *testing.T) {
	id, err := ResolveJobID([]string{" 42 "}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = ResolveJobID([]string{"a/b"}, false, nil, nil)
	assert.Error(t, err)

	_, err = ResolveJobID(nil, false, &stubPrompter{input: "1"}, nil)
	assert.ErrorIs(t, err, ErrJobIDRequired)

	id, err = ResolveJobID(nil, true, &stubPrompter{input: "77"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "77", id)
}

func TestResolveJobID_OffersRecentJobs(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store, err := history.Open(history.BackendMemory, "", history.Options{
		Now: func() time.Time { now = now.Add(time.Second); return now },
	})
	require.NoError(t, err)
	defer store.Close()

	for _, id := range []monitor.JobID{"1", "2", "3"} {
		_, err := store.Record(id, monitor.StatusReport{Status: monitor.StatusProcessing}, "s")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"3", "2"}, RecentJobs(store, 2))
	assert.Nil(t, RecentJobs(nil, 2))

	p := &stubPrompter{}
	id, err := ResolveJobID(nil, true, p, store)
	require.NoError(t, err)
	assert.Equal(t, "3", id)
	assert.Equal(t, []string{"3", "2", "1", "[Enter another job ID]"}, p.recent)
}

func TestMonitorConfig(t *testing.T) {
	cfg := ctxconfig.New(
		ctxconfig.WithPolling(3*time.Second, 4*time.Second, 5*time.Second),
		ctxconfig.WithLimits(7, time.Minute),
	)
	mc := MonitorConfig(cfg, nil)
	assert.Equal(t, 3*time.Second, mc.Interval)
	assert.Equal(t, 4*time.Second, mc.ErrorBackoff)
	assert.Equal(t, 5*time.Second, mc.RequestTimeout)
	assert.Equal(t, 7, mc.MaxConsecutiveErrors)
	assert.Equal(t, time.Minute, mc.Deadline)
	assert.NotNil(t, mc.Logger)

	mc = MonitorConfig(ctxconfig.New(), nil)
	assert.Equal(t, monitor.DefaultInterval, mc.Interval)
	assert.Equal(t, monitor.DefaultErrorBackoff, mc.ErrorBackoff)
}

func TestOpenHistory(t *testing.T) {
	store, err := OpenHistory(ctxconfig.New(ctxconfig.WithHistory(false, "memory", 10)))
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = OpenHistory(ctxconfig.New(ctxconfig.WithHistory(true, "memory", 10)))
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())

	_, err = OpenHistory(ctxconfig.New(ctxconfig.WithHistory(true, "redis", 10)))
	assert.Error(t, err)
}

func TestNewDiagnosticLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDiagnosticLogger(&buf, ctxconfig.New(ctxconfig.WithJSONMode(true)))
	logger.Debug("hidden")
	logger.Error("poll failed", "job", "42")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"job":"42"`)

	buf.Reset()
	logger = NewDiagnosticLogger(&buf, ctxconfig.New(ctxconfig.WithVerbose(true), ctxconfig.WithNoColor(true)))
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
