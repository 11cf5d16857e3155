// ABOUTME: Generic circular view rotator driven by a fixed period
// ABOUTME: Cycles through an immutable ordered list of views
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Rotator cycles through a fixed list of views.
type Rotator[V comparable] struct {
	views []V

	mu        sync.RWMutex
	idx       int
	rotatedAt time.Time
	onAdvance []func(V)
}

func NewRotator[V comparable](views []V) (*Rotator[V], error) {
	if len(views) == 0 {
		return nil, errors.New("rotator needs at least one view")
	}
	return &Rotator[V]{views: append([]V(nil), views...), rotatedAt: time.Now()}, nil
}

func (r *Rotator[V]) Current() V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.views[r.idx]
}

func (r *Rotator[V]) Index() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idx
}

// RotatedAt is when the current view became active.
func (r *Rotator[V]) RotatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rotatedAt
}

// Views returns a copy of the view list.
func (r *Rotator[V]) Views() []V {
	return append([]V(nil), r.views...)
}

// OnAdvance registers a callback run with the new view after every advance.
func (r *Rotator[V]) OnAdvance(fn func(V)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onAdvance = append(r.onAdvance, fn)
}

// Advance moves to the next view, wrapping at the end.
func (r *Rotator[V]) Advance() V {
	r.mu.Lock()
	r.idx = (r.idx + 1) % len(r.views)
	r.rotatedAt = time.Now()
	v := r.views[r.idx]
	callbacks := r.onAdvance
	r.mu.Unlock()

	for _, fn := range callbacks {
		fn(v)
	}
	return v
}

// Run advances every period until ctx is done.
func (r *Rotator[V]) Run(ctx context.Context, period time.Duration) {
	r.mu.Lock()
	r.rotatedAt = time.Now()
	r.mu.Unlock()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Advance()
		}
	}
}
