// Package history persists status observations made while watching jobs.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
)

// Backend names a storage engine.
type Backend string

const (
	BackendGoLevelDB Backend = "goleveldb"
	BackendBolt      Backend = "bolt"
	BackendMemory    Backend = "memory"

	// DefaultBackend is used when no backend is configured.
	DefaultBackend = BackendGoLevelDB

	// DefaultMaxPerJob bounds the observations kept per job.
	DefaultMaxPerJob = 500
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return DefaultBackend, nil
	case BackendGoLevelDB, BackendBolt, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unknown history backend %q (valid: goleveldb, bolt, memory)", s)
	}
}

var (
	ErrNotFound     = errors.New("no observations recorded")
	ErrInvalidJobID = errors.New("invalid job id")
	ErrClosed       = errors.New("history store is closed")
)

// Observation is one successful status poll.
type Observation struct {
	ID          string    `json:"id" yaml:"id"`
	JobID       string    `json:"job_id" yaml:"job_id"`
	SessionID   string    `json:"session_id" yaml:"session_id"`
	Status      string    `json:"status" yaml:"status"`
	Progress    *float64  `json:"progress,omitempty" yaml:"progress,omitempty"`
	Message     string    `json:"message,omitempty" yaml:"message,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty" yaml:"redirect_url,omitempty"`
	ObservedAt  time.Time `json:"observed_at" yaml:"observed_at"`
}

// Report converts the observation back into a status report.
func (o Observation) Report() monitor.StatusReport {
	return monitor.StatusReport{
		Progress:    o.Progress,
		Status:      monitor.Status(o.Status),
		Message:     o.Message,
		RedirectURL: o.RedirectURL,
	}
}

// JobSummary describes the stored history of one job.
type JobSummary struct {
	JobID        string    `json:"job_id" yaml:"job_id"`
	Observations int       `json:"observations" yaml:"observations"`
	LastStatus   string    `json:"last_status" yaml:"last_status"`
	LastProgress *float64  `json:"last_progress,omitempty" yaml:"last_progress,omitempty"`
	LastSeen     time.Time `json:"last_seen" yaml:"last_seen"`
}

// Options configures a Store.
type Options struct {
	// MaxPerJob trims the oldest observations beyond this count. Zero uses
	// DefaultMaxPerJob; negative disables trimming.
	MaxPerJob int

	// Now overrides the clock.
	Now func() time.Time
}

// Store records observations keyed by job and time.
type Store struct {
	kv        kv
	maxPerJob int
	now       func() time.Time
	closed    bool
}

// Open opens a store for backend under dir. The memory backend ignores dir.
func Open(backend Backend, dir string, opts Options) (*Store, error) {
	if backend != BackendMemory {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	var (
		engine kv
		err    error
	)
	switch backend {
	case BackendGoLevelDB, "":
		engine, err = openLevelDB(dir)
	case BackendBolt:
		engine, err = openBolt(dir)
	case BackendMemory:
		engine = &dbmKV{db: dbm.NewMemDB()}
	default:
		err = fmt.Errorf("unknown history backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return newStore(engine, opts), nil
}

func newStore(engine kv, opts Options) *Store {
	s := &Store{kv: engine, maxPerJob: opts.MaxPerJob, now: opts.Now}
	if s.maxPerJob == 0 {
		s.maxPerJob = DefaultMaxPerJob
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.kv.close()
}

// Record stores report as the latest observation of jobID.
func (s *Store) Record(jobID monitor.JobID, report monitor.StatusReport, sessionID string) (Observation, error) {
	if s.closed {
		return Observation{}, ErrClosed
	}
	if err := validateJobID(jobID); err != nil {
		return Observation{}, err
	}

	obs := Observation{
		ID:          uuid.NewString(),
		JobID:       string(jobID),
		SessionID:   sessionID,
		Status:      string(report.Status),
		Progress:    report.Progress,
		Message:     report.Message,
		RedirectURL: report.RedirectURL,
		ObservedAt:  s.now().UTC(),
	}

	value, err := json.Marshal(obs)
	if err != nil {
		return Observation{}, fmt.Errorf("failed to encode observation: %w", err)
	}
	if err := s.kv.put(observationKey(obs), value); err != nil {
		return Observation{}, fmt.Errorf("failed to store observation: %w", err)
	}

	if s.maxPerJob > 0 {
		if err := s.trim(jobID); err != nil {
			return obs, err
		}
	}
	return obs, nil
}

// Last returns the most recent observation of jobID.
func (s *Store) Last(jobID monitor.JobID) (*Observation, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}

	start, end := jobRange(jobID)
	var (
		last    *Observation
		decoErr error
	)
	err := s.kv.scan(start, end, true, func(_, value []byte) bool {
		var obs Observation
		if decoErr = json.Unmarshal(value, &obs); decoErr != nil {
			return false
		}
		last = &obs
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if decoErr != nil {
		return nil, fmt.Errorf("failed to decode observation: %w", decoErr)
	}
	if last == nil {
		return nil, fmt.Errorf("%w for job %s", ErrNotFound, jobID)
	}
	return last, nil
}

// List returns the observations of jobID, oldest first.
func (s *Store) List(jobID monitor.JobID) ([]Observation, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}

	start, end := jobRange(jobID)
	return s.collect(start, end)
}

// Jobs summarizes every job with stored observations, most recently seen
// first.
func (s *Store) Jobs() ([]JobSummary, error) {
	if s.closed {
		return nil, ErrClosed
	}

	all, err := s.collect(prefixRange())
	if err != nil {
		return nil, err
	}

	byJob := make(map[string]*JobSummary)
	for _, obs := range all {
		sum, ok := byJob[obs.JobID]
		if !ok {
			sum = &JobSummary{JobID: obs.JobID}
			byJob[obs.JobID] = sum
		}
		sum.Observations++
		if !obs.ObservedAt.Before(sum.LastSeen) {
			sum.LastSeen = obs.ObservedAt
			sum.LastStatus = obs.Status
			sum.LastProgress = obs.Progress
		}
	}

	out := make([]JobSummary, 0, len(byJob))
	for _, sum := range byJob {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].JobID < out[j].JobID
		}
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	return out, nil
}

// Delete removes the observations of jobID and returns how many were removed.
func (s *Store) Delete(jobID monitor.JobID) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := validateJobID(jobID); err != nil {
		return 0, err
	}
	start, end := jobRange(jobID)
	return s.deleteRange(start, end, -1)
}

// Clear removes every observation.
func (s *Store) Clear() (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	start, end := prefixRange()
	return s.deleteRange(start, end, -1)
}

func (s *Store) trim(jobID monitor.JobID) error {
	start, end := jobRange(jobID)

	count := 0
	if err := s.kv.scan(start, end, false, func(_, _ []byte) bool {
		count++
		return true
	}); err != nil {
		return fmt.Errorf("failed to count observations: %w", err)
	}

	excess := count - s.maxPerJob
	if excess <= 0 {
		return nil
	}
	if _, err := s.deleteRange(start, end, excess); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

// deleteRange removes up to limit keys from the start of the range. A
// negative limit removes all of them.
func (s *Store) deleteRange(start, end []byte, limit int) (int, error) {
	var keys [][]byte
	err := s.kv.scan(start, end, false, func(key, _ []byte) bool {
		keys = append(keys, append([]byte(nil), key...))
		return limit < 0 || len(keys) < limit
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read history: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.kv.deleteKeys(keys); err != nil {
		return 0, fmt.Errorf("failed to delete observations: %w", err)
	}
	return len(keys), nil
}

func (s *Store) collect(start, end []byte) ([]Observation, error) {
	var (
		out     []Observation
		decoErr error
	)
	err := s.kv.scan(start, end, false, func(_, value []byte) bool {
		var obs Observation
		if decoErr = json.Unmarshal(value, &obs); decoErr != nil {
			return false
		}
		out = append(out, obs)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if decoErr != nil {
		return nil, fmt.Errorf("failed to decode observation: %w", decoErr)
	}
	return out, nil
}

func validateJobID(jobID monitor.JobID) error {
	if jobID == "" || strings.ContainsRune(string(jobID), 0) {
		return fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}
	return nil
}
