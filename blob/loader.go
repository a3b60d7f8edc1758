package blob

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Fetcher performs one authenticated fetch of a media file.
type Fetcher interface {
	FetchMediaFile(ctx context.Context, token, uri string) ([]byte, string, error)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Result is the outcome of a Job. It is only meaningful to the Loader that
// produced it.
type Result struct {
	gen     uint64
	locator string
	handle  *Handle
	err     error
}

func (r Result) Locator() string { return r.locator }
func (r Result) Err() error      { return r.err }

// Handle exposes the result's handle so callers can prepare a preview before
// Apply. It must not be retained once Apply returns false.
func (r Result) Handle() *Handle { return r.handle }

// Job runs the fetch for one input pair. It is safe to run off the UI goroutine.
type Job func() Result

// Snapshot is the loader's externally visible state.
type Snapshot struct {
	State   State
	Locator string
	Handle  *Handle
	Err     error
}

// Loader turns one (locator, token) pair into at most one live handle.
// Results from superseded pairs or after Close are revoked on arrival.
type Loader struct {
	fetcher Fetcher
	pool    *Pool
	log     *zap.Logger

	mu      sync.Mutex
	locator string
	token   string
	gen     uint64
	cancel  context.CancelFunc
	state   State
	handle  *Handle
	err     error
	closed  bool
}

func NewLoader(fetcher Fetcher, pool *Pool, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, pool: pool, log: log}
}

// SetInputs records a new input pair. It returns the job to run, or nil when
// the pair is unchanged, incomplete, or the loader is closed.
func (l *Loader) SetInputs(locator, token string) Job {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	if locator == l.locator && token == l.token {
		return nil
	}

	l.supersedeLocked()
	l.locator = locator
	l.token = token
	if locator == "" || token == "" {
		l.state = StateIdle
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.state = StateLoading
	gen := l.gen
	return func() Result {
		return l.fetch(ctx, gen, locator, token)
	}
}

func (l *Loader) fetch(ctx context.Context, gen uint64, locator, token string) Result {
	data, contentType, err := l.fetcher.FetchMediaFile(ctx, token, locator)
	if err != nil {
		return Result{gen: gen, locator: locator, err: err}
	}
	if err := ctx.Err(); err != nil {
		return Result{gen: gen, locator: locator, err: err}
	}
	h, err := l.pool.Create(locator, data, contentType)
	if err != nil {
		return Result{gen: gen, locator: locator, err: err}
	}
	return Result{gen: gen, locator: locator, handle: h}
}

// Apply installs r if it belongs to the current input pair. A discarded
// result's handle is revoked before Apply returns.
func (l *Loader) Apply(r Result) bool {
	l.mu.Lock()
	if l.closed || r.gen != l.gen || l.state != StateLoading {
		l.mu.Unlock()
		l.discard(r)
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if r.err != nil {
		l.state = StateFailed
		l.err = r.err
		l.mu.Unlock()
		l.log.Debug("media load failed", zap.String("locator", r.locator), zap.Error(r.err))
		return true
	}
	l.handle = r.handle
	l.state = StateReady
	l.mu.Unlock()
	return true
}

// Close cancels any outstanding fetch, revokes the current handle and rejects
// every later result. It is safe to call more than once.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.supersedeLocked()
	l.closed = true
	l.state = StateIdle
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{State: l.state, Locator: l.locator, Handle: l.handle, Err: l.err}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ready reports the live handle, if any.
func (l *Loader) Ready() (*Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle, l.state == StateReady
}

func (l *Loader) supersedeLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.handle != nil {
		if err := l.handle.revoke(); err != nil && !errors.Is(err, ErrAlreadyRevoked) {
			l.log.Debug("revoking handle", zap.Error(err))
		}
		l.handle = nil
	}
	l.err = nil
	l.gen++
}

func (l *Loader) discard(r Result) {
	if r.handle == nil {
		return
	}
	if err := r.handle.revoke(); err != nil && !errors.Is(err, ErrAlreadyRevoked) {
		l.log.Debug("revoking stale handle", zap.Error(err))
	}
}
