package ctxconfig

import (
	"context"
	"testing"
	"time"

	"github.com/altuslabsxyz/jobwatch/internal/config"
)

func TestNew(t *testing.T) {
	cfg := New(
		WithHomeDir("/home/test"),
		WithServer("http://localhost:5000"),
		WithVerbose(true),
	)

	if cfg.HomeDir() != "/home/test" {
		t.Errorf("expected HomeDir /home/test, got %s", cfg.HomeDir())
	}
	if cfg.Server() != "http://localhost:5000" {
		t.Errorf("expected Server http://localhost:5000, got %s", cfg.Server())
	}
	if !cfg.Verbose() {
		t.Error("expected Verbose true, got false")
	}
}

func TestConfigClone(t *testing.T) {
	original := New(
		WithHomeDir("/original"),
		WithServer("http://original"),
	)

	clone := original.Clone(WithServer("http://cloned"))

	if original.Server() != "http://original" {
		t.Errorf("original Server changed: %s", original.Server())
	}
	if clone.Server() != "http://cloned" {
		t.Errorf("expected clone Server http://cloned, got %s", clone.Server())
	}
	if clone.HomeDir() != "/original" {
		t.Errorf("expected clone HomeDir /original, got %s", clone.HomeDir())
	}
}

func TestNilConfigClone(t *testing.T) {
	var nilCfg *Config
	clone := nilCfg.Clone(WithHomeDir("/new"))

	if clone == nil {
		t.Fatal("Clone of nil should return non-nil config")
	}
	if clone.HomeDir() != "/new" {
		t.Errorf("expected HomeDir /new, got %s", clone.HomeDir())
	}
}

func TestWithConfig(t *testing.T) {
	ctx := WithConfig(context.Background(), New(WithServer("http://ctx")))

	retrieved := FromContext(ctx)
	if retrieved == nil {
		t.Fatal("expected config in context, got nil")
	}
	if retrieved.Server() != "http://ctx" {
		t.Errorf("expected Server http://ctx, got %s", retrieved.Server())
	}
	if ServerFromContext(ctx) != "http://ctx" {
		t.Errorf("ServerFromContext mismatch")
	}
}

func TestFromContextNil(t *testing.T) {
	if cfg := FromContext(context.Background()); cfg != nil {
		t.Errorf("expected nil config from empty context, got %v", cfg)
	}
	if cfg := FromContext(nil); cfg != nil {
		t.Errorf("expected nil config from nil context, got %v", cfg)
	}
	if cfg := FromContextOrDefault(context.Background()); cfg == nil {
		t.Error("expected non-nil default config")
	}
}

func TestMustFromContextPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustFromContext to panic on empty context")
		}
	}()

	MustFromContext(context.Background())
}

func TestUpdateInContext(t *testing.T) {
	ctx := WithConfig(context.Background(), New(WithHomeDir("/h"), WithServer("http://a")))
	updated := UpdateInContext(ctx, WithServer("http://b"))

	if ServerFromContext(ctx) != "http://a" {
		t.Error("original context must be unchanged")
	}
	if ServerFromContext(updated) != "http://b" {
		t.Errorf("expected updated server, got %s", ServerFromContext(updated))
	}
	if HomeDirFromContext(updated) != "/h" {
		t.Error("expected HomeDir to be kept")
	}

	fresh := UpdateInContext(context.Background(), WithVerbose(true))
	if !VerboseFromContext(fresh) {
		t.Error("expected verbose config in a fresh context")
	}
}

func TestNilConfigAccessors(t *testing.T) {
	var cfg *Config

	if cfg.HomeDir() != "" {
		t.Error("expected empty HomeDir from nil config")
	}
	if cfg.JSONMode() {
		t.Error("expected false JSONMode from nil config")
	}
	if cfg.Server() != "" {
		t.Error("expected empty Server from nil config")
	}
	if cfg.PollInterval() != 0 {
		t.Error("expected zero PollInterval from nil config")
	}
	if cfg.HistoryEnabled() {
		t.Error("expected history disabled from nil config")
	}
	if cfg.UIMode() != config.UIAuto {
		t.Error("expected auto UIMode from nil config")
	}
	if cfg.Effective() != nil || cfg.FileConfig() != nil {
		t.Error("expected nil effective and file config")
	}
}

func TestAllOptions(t *testing.T) {
	cfg := New(
		WithHomeDir("/test/home"),
		WithConfigPath("/test/config.toml"),
		WithJSONMode(true),
		WithNoColor(true),
		WithVerbose(true),
		WithUIMode(config.UILine),
		WithServer("https://svc"),
		WithStatusPath("/s/{id}"),
		WithCredentials("tok", "session=1"),
		WithPolling(time.Second, 3*time.Second, 5*time.Second),
		WithLimits(4, time.Minute),
		WithHistory(true, "bolt", 20),
	)

	if cfg.ConfigPath() != "/test/config.toml" {
		t.Errorf("ConfigPath mismatch")
	}
	if !cfg.JSONMode() || !cfg.NoColor() || !cfg.Verbose() {
		t.Errorf("output flags mismatch")
	}
	if cfg.UIMode() != config.UILine {
		t.Errorf("UIMode mismatch")
	}
	if cfg.StatusPath() != "/s/{id}" {
		t.Errorf("StatusPath mismatch")
	}
	if cfg.APIToken() != "tok" || cfg.SessionCookie() != "session=1" {
		t.Errorf("credentials mismatch")
	}
	if cfg.PollInterval() != time.Second || cfg.ErrorBackoff() != 3*time.Second || cfg.RequestTimeout() != 5*time.Second {
		t.Errorf("polling mismatch")
	}
	if cfg.MaxErrors() != 4 || cfg.Deadline() != time.Minute {
		t.Errorf("limits mismatch")
	}
	if !cfg.HistoryEnabled() || cfg.HistoryBackend() != "bolt" || cfg.HistoryLimit() != 20 {
		t.Errorf("history mismatch")
	}
}

func TestBuilderFromEffective(t *testing.T) {
	ec := config.NewEffectiveConfig("/home/u/.jobwatch")
	ec.Server = config.StringValue{Value: "https://svc", Source: config.SourceFlag}
	ec.UI = config.StringValue{Value: "tui", Source: config.SourceConfigFile}
	ec.MaxErrors = config.IntValue{Value: 9, Source: config.SourceEnvironment}

	server := "https://file"
	fc := &config.FileConfig{Server: &server}

	cfg := NewBuilder().
		FromEffective(ec).
		WithFileConfig(fc).
		WithConfigPath("/etc/jobwatch.toml").
		Build()

	if cfg.HomeDir() != "/home/u/.jobwatch" {
		t.Errorf("HomeDir mismatch: %s", cfg.HomeDir())
	}
	if cfg.Server() != "https://svc" {
		t.Errorf("Server mismatch: %s", cfg.Server())
	}
	if cfg.UIMode() != config.UITUI {
		t.Errorf("UIMode mismatch: %s", cfg.UIMode())
	}
	if cfg.MaxErrors() != 9 {
		t.Errorf("MaxErrors mismatch: %d", cfg.MaxErrors())
	}
	if cfg.PollInterval() != time.Second {
		t.Errorf("PollInterval mismatch: %s", cfg.PollInterval())
	}
	if !cfg.HistoryEnabled() || cfg.HistoryLimit() != 500 {
		t.Errorf("history defaults not copied")
	}
	if cfg.Effective() != ec || cfg.FileConfig() != fc {
		t.Errorf("expected effective and file config to be attached")
	}
	if cfg.ConfigPath() != "/etc/jobwatch.toml" {
		t.Errorf("ConfigPath mismatch")
	}
}
