// ABOUTME: Monitor screen combining a view rotator, per-query pollers and alert rules
// ABOUTME: Start launches every timer, Stop cancels them and waits for in-flight fetches
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
)

// Alerter is the alert engine as seen by a screen.
type Alerter interface {
	Trigger(ctx context.Context, alertCtx models.AlertContext) alert.Event
	Mode() models.AlertMode
}

// ViewID names one view of a screen.
type ViewID string

type viewDef struct {
	id      ViewID
	title   string
	query   string
	project func(any) any
}

type aggregate interface {
	Name() string
	Run(ctx context.Context)
	Refresh(ctx context.Context) error
	Status() Status
}

type rule struct {
	query   string
	context models.AlertContext
	count   func() int
}

// ViewState is what a renderer needs to draw the active view.
type ViewState struct {
	Screen    Kind          `json:"screen"`
	Title     string        `json:"title"`
	View      ViewID        `json:"view"`
	ViewTitle string        `json:"view_title"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	RotatedAt time.Time     `json:"rotated_at"`
	Period    time.Duration `json:"period"`
	Data      Status        `json:"data"`
}

// Screen is one monitor: a fixed rotation of views over independently polled queries.
type Screen struct {
	kind    Kind
	title   string
	defs    map[ViewID]viewDef
	rotator *Rotator[ViewID]
	queries map[string]aggregate
	order   []string
	rules   []rule
	alerts  Alerter
	edges   *alert.EdgeDetector
	cfg     Config
	logger  *zap.Logger

	mu      sync.Mutex
	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func newScreen(kind Kind, title string, views []viewDef, alerts Alerter, cfg Config, logger *zap.Logger) (*Screen, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := make([]ViewID, 0, len(views))
	defs := make(map[ViewID]viewDef, len(views))
	for _, v := range views {
		ids = append(ids, v.id)
		defs[v.id] = v
	}
	rotator, err := NewRotator(ids)
	if err != nil {
		return nil, err
	}

	s := &Screen{
		kind:    kind,
		title:   title,
		defs:    defs,
		rotator: rotator,
		queries: make(map[string]aggregate),
		alerts:  alerts,
		edges:   alert.NewEdgeDetector(),
		cfg:     cfg,
		logger:  logger.With(zap.String("screen", string(kind))),
	}
	rotator.OnAdvance(func(v ViewID) {
		rotationsTotal.WithLabelValues(string(kind)).Inc()
		s.logger.Debug("view rotated", zap.String("view", string(v)))
	})
	return s, nil
}

// addQuery registers a poller for a query on the screen.
func addQuery[T any](s *Screen, name string, period time.Duration, fetch func(context.Context) (T, error)) *Poller[T] {
	p := NewPoller(name, period, s.cfg.FetchTimeout, fetch, s.logger)
	s.queries[name] = p
	s.order = append(s.order, name)
	return p
}

// watch raises alertCtx whenever the counted collection of p grows.
func watch[T any](s *Screen, p *Poller[T], alertCtx models.AlertContext, count func(T) int) {
	s.rules = append(s.rules, rule{
		query:   p.Name(),
		context: alertCtx,
		count: func() int {
			snap := p.Snapshot()
			if !snap.Ready {
				return 0
			}
			return count(snap.Value)
		},
	})

	p.OnChange(func(snap Snapshot[T]) {
		if !snap.Ready || snap.Err != nil {
			return
		}
		if s.edges.Observe(alertCtx, count(snap.Value)) {
			s.trigger(alertCtx)
		}
	})
}

func (s *Screen) trigger(alertCtx models.AlertContext) {
	if s.alerts == nil {
		return
	}
	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.alerts.Trigger(ctx, alertCtx)
}

func (s *Screen) Kind() Kind { return s.kind }

func (s *Screen) Title() string { return s.title }

// Views lists the screen's views in rotation order.
func (s *Screen) Views() []ViewID { return s.rotator.Views() }

// Queries lists the screen's query names in registration order.
func (s *Screen) Queries() []string { return append([]string(nil), s.order...) }

// Start launches the rotation timer, every poller and the reminder loop.
func (s *Screen) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("screen %s already started", s.kind)
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.runCtx, s.cancel = runCtx, cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.rotator.Run(runCtx, s.cfg.RotationPeriod)
	}()

	for _, name := range s.order {
		q := s.queries[name]
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			q.Run(runCtx)
		}()
	}

	if s.cfg.AlertInterval > 0 && len(s.rules) > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.remind(runCtx)
		}()
	}

	s.logger.Info("monitor started",
		zap.Int("views", len(s.defs)),
		zap.Int("queries", len(s.order)),
		zap.Duration("rotation", s.cfg.RotationPeriod))
	return nil
}

// Stop cancels every timer and waits for running fetches to return.
func (s *Screen) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("monitor stopped")
}

// remind re-triggers every non-empty condition while the mode is interval.
func (s *Screen) remind(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.AlertInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Remind(ctx)
		}
	}
}

// Remind runs one interval reminder pass and returns the contexts it raised.
func (s *Screen) Remind(ctx context.Context) []models.AlertContext {
	if s.alerts == nil || s.alerts.Mode() != models.AlertModeInterval {
		return nil
	}
	var raised []models.AlertContext
	for _, r := range s.rules {
		if r.count() > 0 {
			s.alerts.Trigger(ctx, r.context)
			raised = append(raised, r.context)
		}
	}
	return raised
}

// Refresh fetches every query once, synchronously.
func (s *Screen) Refresh(ctx context.Context) error {
	var errs []error
	for _, name := range s.order {
		if err := s.queries[name].Refresh(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Current returns the active view with its cached data. It never waits on a fetch.
func (s *Screen) Current() ViewState {
	return s.state(s.rotator.Current(), s.rotator.Index())
}

// ViewState returns the state of any view of the screen.
func (s *Screen) ViewState(id ViewID) (ViewState, bool) {
	for i, v := range s.rotator.Views() {
		if v == id {
			return s.state(id, i), true
		}
	}
	return ViewState{}, false
}

// AllViews returns the state of every view in rotation order.
func (s *Screen) AllViews() []ViewState {
	views := s.rotator.Views()
	out := make([]ViewState, 0, len(views))
	for i, v := range views {
		out = append(out, s.state(v, i))
	}
	return out
}

// Status returns the snapshot of one query.
func (s *Screen) Status(query string) (Status, bool) {
	q, ok := s.queries[query]
	if !ok {
		return Status{}, false
	}
	return q.Status(), true
}

func (s *Screen) state(id ViewID, idx int) ViewState {
	def := s.defs[id]
	data := s.queries[def.query].Status()
	if def.project != nil && data.Ready {
		data.Value = def.project(data.Value)
	}
	return ViewState{
		Screen:    s.kind,
		Title:     s.title,
		View:      id,
		ViewTitle: def.title,
		Index:     idx,
		Total:     len(s.defs),
		RotatedAt: s.rotator.RotatedAt(),
		Period:    s.cfg.RotationPeriod,
		Data:      data,
	}
}
