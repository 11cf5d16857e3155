// ABOUTME: Generic polling aggregate holding the latest snapshot of one query
// ABOUTME: Fetches on a period without blocking readers and drops out-of-order responses
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FetchError is recorded on a snapshot when a fetch fails. The previous
// value is kept.
type FetchError struct {
	Query string
	Seq   uint64
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s #%d failed: %v", e.Query, e.Seq, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Snapshot is the latest known result of a query.
type Snapshot[T any] struct {
	Value     T
	Ready     bool
	FetchedAt time.Time
	Seq       uint64
	Err       *FetchError
	Failures  int
}

// Status is a type-erased snapshot for renderers and APIs.
type Status struct {
	Query     string    `json:"query"`
	Value     any       `json:"value"`
	Ready     bool      `json:"ready"`
	FetchedAt time.Time `json:"fetched_at"`
	Seq       uint64    `json:"seq"`
	Error     string    `json:"error,omitempty"`
	Failures  int       `json:"failures"`
}

// Poller re-fetches one query every period.
type Poller[T any] struct {
	name    string
	period  time.Duration
	timeout time.Duration
	fetch   func(context.Context) (T, error)
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	snap     Snapshot[T]
	issued   uint64
	applied  uint64
	onChange []func(Snapshot[T])

	inflight sync.WaitGroup
}

func NewPoller[T any](name string, period, timeout time.Duration, fetch func(context.Context) (T, error), logger *zap.Logger) *Poller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller[T]{
		name:    name,
		period:  period,
		timeout: timeout,
		fetch:   fetch,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Poller[T]) Name() string { return p.name }

// OnChange registers a callback run after each applied response, success or failure.
// Register before Run.
func (p *Poller[T]) OnChange(fn func(Snapshot[T])) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// Snapshot returns the current snapshot without waiting for any fetch.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Poller[T]) Status() Status {
	snap := p.Snapshot()
	st := Status{
		Query:     p.name,
		Value:     snap.Value,
		Ready:     snap.Ready,
		FetchedAt: snap.FetchedAt,
		Seq:       snap.Seq,
		Failures:  snap.Failures,
	}
	if snap.Err != nil {
		st.Error = snap.Err.Error()
	}
	return st
}

// Run fetches immediately and then every period until ctx is done. Each fetch
// runs in its own goroutine so a slow backend never delays the ticker.
func (p *Poller[T]) Run(ctx context.Context) {
	defer p.inflight.Wait()

	p.launch(ctx)
	if p.period <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.launch(ctx)
		}
	}
}

// Refresh runs one fetch synchronously and returns its error.
func (p *Poller[T]) Refresh(ctx context.Context) error {
	return p.fetchOnce(ctx, p.next())
}

func (p *Poller[T]) launch(ctx context.Context) {
	seq := p.next()
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		_ = p.fetchOnce(ctx, seq)
	}()
}

func (p *Poller[T]) next() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

func (p *Poller[T]) fetchOnce(ctx context.Context, seq uint64) error {
	fctx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	val, err := p.fetch(fctx)
	fetchSeconds.WithLabelValues(p.name).Observe(time.Since(start).Seconds())

	if ctx.Err() != nil {
		// shutting down; nothing to apply
		return ctx.Err()
	}
	p.apply(seq, val, err)
	return err
}

// apply stores a response unless a newer one has already been applied.
func (p *Poller[T]) apply(seq uint64, val T, err error) bool {
	p.mu.Lock()
	if seq <= p.applied {
		p.mu.Unlock()
		staleDiscards.WithLabelValues(p.name).Inc()
		p.logger.Debug("discarded stale response", zap.String("query", p.name), zap.Uint64("seq", seq))
		return false
	}
	p.applied = seq

	if err != nil {
		p.snap.Err = &FetchError{Query: p.name, Seq: seq, Err: err}
		p.snap.Failures++
		fetchTotal.WithLabelValues(p.name, "error").Inc()
		p.logger.Warn("aggregate fetch failed",
			zap.String("query", p.name),
			zap.Uint64("seq", seq),
			zap.Int("failures", p.snap.Failures),
			zap.Error(err))
	} else {
		p.snap = Snapshot[T]{Value: val, Ready: true, FetchedAt: p.now(), Seq: seq}
		fetchTotal.WithLabelValues(p.name, "ok").Inc()
	}
	snap := p.snap
	callbacks := p.onChange
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(snap)
	}
	return true
}
