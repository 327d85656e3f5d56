package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newLoader(home, explicit string, workDir string) *ConfigLoader {
	l := NewConfigLoader(home, explicit, nil)
	l.workDir = workDir
	return l
}

func noEnv(string) (string, bool) { return "", false }

func mapEnv(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.String(FlagHome, "", "")
	f.Bool(FlagNoColor, false, "")
	f.BoolP(FlagVerbose, "v", false, "")
	f.Bool(FlagJSON, false, "")
	f.String(FlagServer, "", "")
	f.String(FlagStatusPath, "", "")
	f.String(FlagAPIToken, "", "")
	f.String(FlagSessionCookie, "", "")
	f.Duration(FlagInterval, 0, "")
	f.Duration(FlagBackoff, 0, "")
	f.Duration(FlagTimeout, 0, "")
	f.Int(FlagMaxErrors, 0, "")
	f.Duration(FlagDeadline, 0, "")
	f.Bool(FlagNoHistory, false, "")
	f.String(FlagHistoryBackend, "", "")
	f.String(FlagUI, "", "")
	return cmd
}

func TestLoadFileConfig_NoFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, path, err := newLoader(filepath.Join(dir, "home"), "", dir).LoadFileConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsEmpty())
	assert.Empty(t, path)
}

func TestLoadFileConfig_MergePriority(t *testing.T) {
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	work := filepath.Join(dir, "work")
	explicit := filepath.Join(dir, "explicit.toml")

	writeFile(t, filepath.Join(home, FileName), `
server = "http://home:5000"
poll_interval = "3s"
max_errors = 5
`)
	writeFile(t, filepath.Join(work, FileName), `
server = "http://work:5000"
ui = "line"
`)
	writeFile(t, explicit, `
ui = "tui"
`)

	cfg, path, err := newLoader(home, explicit, work).LoadFileConfig()
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	require.NotNil(t, cfg.Server)
	assert.Equal(t, "http://work:5000", *cfg.Server)
	assert.Equal(t, "3s", *cfg.PollInterval)
	assert.Equal(t, 5, *cfg.MaxErrors)
	assert.Equal(t, "tui", *cfg.UI)
}

func TestLoadFileConfig_ExplicitMissing(t *testing.T) {
	dir := t.TempDir()
	_, _, err := newLoader(dir, filepath.Join(dir, "nope.toml"), dir).LoadFileConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", `server = `, "failed to parse"},
		{"bad server", `server = "ftp://x"`, "invalid server"},
		{"bad path", `status_path = "/status"`, "must contain {id}"},
		{"bad duration", `poll_interval = "soon"`, "invalid poll_interval"},
		{"negative errors", `max_errors = -1`, "invalid max_errors"},
		{"bad backend", `history_backend = "redis"`, "unknown history backend"},
		{"bad limit", `history_limit = 0`, "invalid history_limit"},
		{"bad ui", `ui = "gui"`, "invalid ui"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, FileName), tt.content)
			_, _, err := newLoader(dir, "", t.TempDir()).LoadFileConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	l := newLoader(dir, "", dir)

	values, path, err := l.LoadEnvFile()
	require.NoError(t, err)
	assert.Nil(t, values)
	assert.Empty(t, path)

	writeFile(t, filepath.Join(dir, EnvFileName), "JOBWATCH_SERVER=http://dotenv:5000\n# comment\nJOBWATCH_API_TOKEN=\"secret-token\"\n")
	values, path, err = l.LoadEnvFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, EnvFileName), path)
	assert.Equal(t, "http://dotenv:5000", values[EnvServer])
	assert.Equal(t, "secret-token", values[EnvAPIToken])
}

func TestEnv_ProcessWinsOverFile(t *testing.T) {
	env := NewEnvWithLookup(mapEnv(map[string]string{EnvServer: "http://process"}), map[string]string{
		EnvServer: "http://file",
		EnvUI:     "line",
	})

	assert.Equal(t, EnvVar{Value: "http://process", Source: SourceEnvironment}, env.Get(EnvServer))
	assert.Equal(t, EnvVar{Value: "line", Source: SourceEnvFile}, env.Get(EnvUI))
	assert.False(t, env.Get(EnvDeadline).IsSet())
}

func TestResolve_Defaults(t *testing.T) {
	c, err := Resolve(testCommand(t), "/home/u/.jobwatch", nil, NewEnvWithLookup(noEnv, nil))
	require.NoError(t, err)

	assert.Equal(t, StringValue{Value: "/home/u/.jobwatch", Source: SourceDefault}, c.Home)
	assert.Equal(t, DefaultServer, c.Server.Value)
	assert.Equal(t, "/processing_status/{id}/check", c.StatusPath.Value)
	assert.Equal(t, time.Second, c.PollInterval.Value)
	assert.Equal(t, 2*time.Second, c.ErrorBackoff.Value)
	assert.Equal(t, 10*time.Second, c.RequestTimeout.Value)
	assert.Zero(t, c.Deadline.Value)
	assert.Zero(t, c.MaxErrors.Value)
	assert.True(t, c.History.Value)
	assert.Equal(t, "goleveldb", c.HistoryBackend.Value)
	assert.Equal(t, 500, c.HistoryLimit.Value)
	assert.Equal(t, "auto", c.UI.Value)
}

func TestResolve_Priority(t *testing.T) {
	server := "http://file:5000"
	interval := "5s"
	maxErrors := 3
	ui := "line"
	history := true
	fc := &FileConfig{Server: &server, PollInterval: &interval, MaxErrors: &maxErrors, UI: &ui, History: &history}

	env := NewEnvWithLookup(mapEnv(map[string]string{
		EnvPollInterval: "750ms",
		EnvNoColor:      "1",
	}), map[string]string{
		EnvMaxErrors: "7",
		EnvServer:    "http://dotenv:5000",
	})

	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set(FlagServer, "https://flag.example"))
	require.NoError(t, cmd.Flags().Set(FlagNoHistory, "true"))

	c, err := Resolve(cmd, "/h", fc, env)
	require.NoError(t, err)

	assert.Equal(t, StringValue{Value: "https://flag.example", Source: SourceFlag}, c.Server)
	assert.Equal(t, DurationValue{Value: 750 * time.Millisecond, Source: SourceEnvironment}, c.PollInterval)
	assert.Equal(t, IntValue{Value: 7, Source: SourceEnvFile}, c.MaxErrors)
	assert.Equal(t, StringValue{Value: "line", Source: SourceConfigFile}, c.UI)
	assert.Equal(t, BoolValue{Value: true, Source: SourceEnvironment}, c.NoColor)
	assert.Equal(t, BoolValue{Value: false, Source: SourceFlag}, c.History)
}

func TestResolve_FlagDurationWinsOverEnv(t *testing.T) {
	cmd := testCommand(t)
	require.NoError(t, cmd.Flags().Set(FlagDeadline, "90s"))
	env := NewEnvWithLookup(mapEnv(map[string]string{EnvDeadline: "10s"}), nil)

	c, err := Resolve(cmd, "/h", nil, env)
	require.NoError(t, err)
	assert.Equal(t, DurationValue{Value: 90 * time.Second, Source: SourceFlag}, c.Deadline)
}

func TestResolve_InvalidEnv(t *testing.T) {
	tests := []struct {
		key  string
		val  string
		want string
	}{
		{EnvPollInterval, "fast", "poll_interval"},
		{EnvMaxErrors, "many", "max_errors"},
		{EnvServer, "localhost", "invalid server"},
		{EnvUI, "gui", "invalid ui"},
		{EnvHistoryLimit, "0", "invalid history_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			env := NewEnvWithLookup(mapEnv(map[string]string{tt.key: tt.val}), nil)
			_, err := Resolve(testCommand(t), "/h", nil, env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolve_NilCommand(t *testing.T) {
	token := "abcdefghijkl"
	c, err := Resolve(nil, "/h", &FileConfig{APIToken: &token}, NewEnvWithLookup(noEnv, nil))
	require.NoError(t, err)
	assert.Equal(t, StringValue{Value: token, Source: SourceConfigFile}, c.APIToken)
}

func TestEffectiveConfig_Output(t *testing.T) {
	c := NewEffectiveConfig("/h")
	c.APIToken = StringValue{Value: "abcdefghijkl", Source: SourceEnvironment}

	var b strings.Builder
	c.ToTable(&b)
	out := b.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "abcd****ijkl")
	assert.NotContains(t, out, "abcdefghijkl")
	assert.Contains(t, out, "(not set)")

	m := c.ToMap()
	assert.Equal(t, "abcd****ijkl", m["api_token"])
	assert.Equal(t, "1s", m["poll_interval"])
	assert.Equal(t, 500, m["history_limit"])
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", maskToken(""))
	assert.Equal(t, "********", maskToken("short"))
	assert.Equal(t, "abcd****wxyz", maskToken("abcdefghuvwxyz"))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("0")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseDuration("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = ParseDuration("90")
	assert.Error(t, err)
}

func TestParseUIMode(t *testing.T) {
	m, err := ParseUIMode("")
	require.NoError(t, err)
	assert.Equal(t, UIAuto, m)

	m, err = ParseUIMode(" TUI ")
	require.NoError(t, err)
	assert.Equal(t, UITUI, m)

	_, err = ParseUIMode("web")
	assert.Error(t, err)
}

func TestConfigWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewConfigWriter(dir)
	assert.False(t, w.Exists())

	server := "https://transcribe.example"
	limit := 50
	cfg := &FileConfig{Server: &server, HistoryLimit: &limit}
	require.NoError(t, w.Write(cfg))
	assert.True(t, w.Exists())

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `server = "https://transcribe.example"`)
	assert.Contains(t, content, "# poll_interval = \"1s\"")
	assert.Contains(t, content, "history_limit = 50")

	var parsed FileConfig
	require.NoError(t, toml.Unmarshal(data, &parsed))
	assert.Equal(t, server, *parsed.Server)
	assert.Equal(t, limit, *parsed.HistoryLimit)
	assert.Nil(t, parsed.PollInterval)

	info, err := os.Stat(w.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestInteractiveSetup_RunWithDefaults(t *testing.T) {
	dir := t.TempDir()
	s := NewInteractiveSetup(dir)
	assert.False(t, s.ConfigExists())

	cfg := s.RunWithDefaults()
	require.NotNil(t, cfg.Server)
	assert.Equal(t, DefaultServer, *cfg.Server)
	assert.Equal(t, "auto", *cfg.UI)

	require.NoError(t, s.WriteConfig(cfg))
	assert.True(t, s.ConfigExists())

	server := "http://other:8080"
	require.NoError(t, s.WriteConfig(&FileConfig{Server: &server}))
	assert.Equal(t, server, *NewInteractiveSetup(dir).LoadDefaults().Server)
}
