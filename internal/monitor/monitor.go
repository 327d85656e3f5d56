package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
)

// Monitor polls the status of one job until the server reports a terminal
// status or the monitor is stopped. At most one fetch is in flight at a time.
type Monitor struct {
	jobID   JobID
	fetcher Fetcher
	render  RenderFunc
	cfg     Config
	logger  log.Logger

	mu           sync.Mutex
	phase        Phase
	view         StageView
	lastProgress float64
	redirectURL  string
	message      string
	polls        int
	errStreak    int
	err          error
	cancel       context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
}

// New creates an idle monitor for jobID. A nil cfg uses DefaultConfig.
func New(jobID JobID, fetcher Fetcher, render RenderFunc, cfg *Config) (*Monitor, error) {
	if jobID == "" {
		return nil, ErrEmptyJobID
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	c := cfg.withDefaults()
	return &Monitor{
		jobID:   jobID,
		fetcher: fetcher,
		render:  render,
		cfg:     c,
		logger:  c.Logger.With("module", "monitor", "job", string(jobID)),
		phase:   PhaseIdle,
		done:    make(chan struct{}),
	}, nil
}

// JobID returns the monitored job.
func (m *Monitor) JobID() JobID {
	return m.jobID
}

// Start emits the view for the seed values and, when the seed status is
// pending or processing, starts polling. The first poll is issued right away.
// Cancelling ctx stops the monitor.
func (m *Monitor) Start(ctx context.Context, initialStatus Status, initialProgress float64) error {
	m.mu.Lock()
	if m.phase != PhaseIdle {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}

	m.lastProgress = clampPercent(initialProgress)
	view := Resolve(m.lastProgress, initialStatus, "")
	m.view = view

	var loopCtx context.Context
	switch {
	case initialStatus.IsActive():
		m.phase = PhasePolling
		loopCtx = m.loopContext(ctx)
	case initialStatus == StatusCompleted:
		m.phase = PhaseCompleted
	case initialStatus == StatusFailed:
		m.phase = PhaseFailed
	default:
		m.phase = PhaseStopped
		m.err = fmt.Errorf("%w: %q", ErrUnrecognizedStatus, initialStatus)
	}
	phase := m.phase
	m.mu.Unlock()

	m.logger.Debug("monitor started", "status", string(initialStatus), "progress", view.Progress, "phase", phase.String())
	m.emit(view)

	if phase != PhasePolling {
		m.closeDone()
		return nil
	}

	go m.run(loopCtx)
	return nil
}

// loopContext derives the polling context. Must be called with m.mu held.
func (m *Monitor) loopContext(parent context.Context) context.Context {
	ctx, cancelCause := context.WithCancelCause(parent)
	cancel := func() { cancelCause(ErrStopped) }

	if m.cfg.Deadline > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeoutCause(ctx, m.cfg.Deadline, ErrDeadlineExceeded)
		cancel = func() {
			cancelCause(ErrStopped)
			cancelTimeout()
		}
	}

	m.cancel = cancel
	return ctx
}

// Stop cancels the pending poll and any in-flight request. It does not wait
// for the loop to exit; use Wait or Done for that. Stopping a finished
// monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	switch m.phase {
	case PhaseIdle:
		m.phase = PhaseStopped
		m.err = ErrStopped
		m.mu.Unlock()
		m.closeDone()
	case PhasePolling:
		cancel := m.cancel
		m.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	default:
		m.mu.Unlock()
	}
}

// Done returns a channel that is closed once the monitor stops polling.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the monitor finishes or ctx is done.
func (m *Monitor) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-m.done:
		return m.Outcome(), nil
	case <-ctx.Done():
		return m.Outcome(), ctx.Err()
	}
}

// Phase returns the current phase.
func (m *Monitor) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// LastView returns the most recently rendered view.
func (m *Monitor) LastView() StageView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Outcome returns a snapshot of the run so far.
func (m *Monitor) Outcome() Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Outcome{
		Phase:       m.phase,
		View:        m.view,
		RedirectURL: m.redirectURL,
		Message:     m.message,
		Polls:       m.polls,
		Err:         m.err,
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer m.closeDone()
	defer m.releaseContext()

	var delay time.Duration
	for {
		if !sleep(ctx, delay) {
			m.halt(ctx)
			return
		}

		next, ok := m.poll(ctx)
		if !ok {
			return
		}
		delay = next
	}
}

// poll performs one fetch and reports the delay before the next one, or
// false when polling is over.
func (m *Monitor) poll(ctx context.Context) (time.Duration, bool) {
	m.mu.Lock()
	m.polls++
	attempt := m.polls
	m.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	report, err := m.fetcher.FetchStatus(reqCtx, m.jobID)
	cancel()

	if ctx.Err() != nil {
		m.halt(ctx)
		return 0, false
	}
	if err == nil && (report == nil || report.Status == "") {
		err = ErrMissingStatus
	}
	if err != nil {
		return m.pollFailed(attempt, err)
	}

	if m.cfg.OnReport != nil {
		m.cfg.OnReport(*report)
	}

	m.mu.Lock()
	m.errStreak = 0
	if report.Progress != nil {
		m.lastProgress = clampPercent(*report.Progress)
	}
	view := ResolveReport(*report, m.lastProgress)
	m.view = view

	next, keepPolling := m.cfg.Interval, true
	switch {
	case report.Status.IsActive():
	case report.Status == StatusCompleted:
		m.phase = PhaseCompleted
		m.redirectURL = report.RedirectURL
		m.message = report.Message
		keepPolling = false
	case report.Status == StatusFailed:
		m.phase = PhaseFailed
		m.message = report.Message
		keepPolling = false
	default:
		m.phase = PhaseStopped
		m.message = report.Message
		m.err = fmt.Errorf("%w: %q", ErrUnrecognizedStatus, report.Status)
		keepPolling = false
	}
	phase := m.phase
	m.mu.Unlock()

	m.logger.Debug("status polled", "attempt", attempt, "status", string(report.Status), "progress", view.Progress, "stage", view.StageIndex)
	m.emit(view)

	if !keepPolling {
		m.logger.Info("monitor finished", "phase", phase.String(), "polls", attempt)
	}
	return next, keepPolling
}

// pollFailed records a transient failure. The phase and the last view are
// left untouched.
func (m *Monitor) pollFailed(attempt int, err error) (time.Duration, bool) {
	m.mu.Lock()
	m.errStreak++
	streak := m.errStreak
	limit := m.cfg.MaxConsecutiveErrors
	if limit > 0 && streak >= limit {
		m.phase = PhaseStopped
		m.err = fmt.Errorf("%w: %d in a row, last: %w", ErrRetriesExhausted, streak, err)
		m.mu.Unlock()
		m.logger.Error("giving up on status polling", "attempt", attempt, "consecutive", streak, "err", err)
		return 0, false
	}
	m.mu.Unlock()

	m.logger.Error("status poll failed", "attempt", attempt, "consecutive", streak,
		"retry_in", m.cfg.ErrorBackoff.String(), "err", err)
	return m.cfg.ErrorBackoff, true
}

// halt moves a polling monitor to PhaseStopped with the cancellation cause.
func (m *Monitor) halt(ctx context.Context) {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = ErrStopped
	}

	m.mu.Lock()
	if m.phase == PhasePolling {
		m.phase = PhaseStopped
		m.err = cause
	}
	m.mu.Unlock()

	if errors.Is(cause, ErrDeadlineExceeded) {
		m.logger.Error("monitor deadline exceeded", "deadline", m.cfg.Deadline.String())
		return
	}
	m.logger.Debug("monitor stopped", "cause", cause.Error())
}

func (m *Monitor) releaseContext() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Monitor) emit(view StageView) {
	if m.render != nil {
		m.render(view)
	}
}

func (m *Monitor) closeDone() {
	m.doneOnce.Do(func() { close(m.done) })
}

// sleep waits for d or until ctx is done. It reports whether polling should
// continue.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
