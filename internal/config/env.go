package config

import "os"

// Environment variables read by jobwatch.
const (
	EnvHome           = "JOBWATCH_HOME"
	EnvServer         = "JOBWATCH_SERVER"
	EnvStatusPath     = "JOBWATCH_STATUS_PATH"
	EnvAPIToken       = "JOBWATCH_API_TOKEN"
	EnvSessionCookie  = "JOBWATCH_SESSION_COOKIE"
	EnvPollInterval   = "JOBWATCH_POLL_INTERVAL"
	EnvErrorBackoff   = "JOBWATCH_ERROR_BACKOFF"
	EnvRequestTimeout = "JOBWATCH_REQUEST_TIMEOUT"
	EnvMaxErrors      = "JOBWATCH_MAX_ERRORS"
	EnvDeadline       = "JOBWATCH_DEADLINE"
	EnvHistoryBackend = "JOBWATCH_HISTORY_BACKEND"
	EnvHistoryLimit   = "JOBWATCH_HISTORY_LIMIT"
	EnvUI             = "JOBWATCH_UI"
	EnvNoColor        = "NO_COLOR"
)

// EnvVar is an environment value and where it was read from.
type EnvVar struct {
	Value  string
	Source ConfigSource
}

// IsSet reports whether the variable had a non-empty value.
func (v EnvVar) IsSet() bool {
	return v.Value != ""
}

// Env looks variables up in the process environment first and then in the
// values read from a .env file.
type Env struct {
	lookup func(string) (string, bool)
	file   map[string]string
}

// NewEnv creates an Env over the process environment and the given .env
// values (may be nil).
func NewEnv(file map[string]string) *Env {
	return NewEnvWithLookup(os.LookupEnv, file)
}

// NewEnvWithLookup is NewEnv with a custom process environment lookup.
func NewEnvWithLookup(lookup func(string) (string, bool), file map[string]string) *Env {
	return &Env{lookup: lookup, file: file}
}

// Get returns the value of key. A nil Env reads the process environment only.
func (e *Env) Get(key string) EnvVar {
	lookup := os.LookupEnv
	var file map[string]string
	if e != nil {
		lookup = e.lookup
		file = e.file
	}

	if v, ok := lookup(key); ok && v != "" {
		return EnvVar{Value: v, Source: SourceEnvironment}
	}
	if v := file[key]; v != "" {
		return EnvVar{Value: v, Source: SourceEnvFile}
	}
	return EnvVar{}
}
