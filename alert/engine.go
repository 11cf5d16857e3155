// ABOUTME: Alert policy engine deciding whether and which sound plays
// ABOUTME: Consults preferences for mode, source and per-context sound, then delegates to the player
package alert

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/painel/models"
)

// Preferences is the subset of the preference store the engine reads.
type Preferences interface {
	AlertMode() (models.AlertMode, error)
	AudioSource() (models.AudioSource, error)
	SoundForContext(ctx models.AlertContext) (models.SoundType, error)
	PreferredAudioAsset() (string, bool, error)
}

// Player plays resolved sounds. Implementations absorb their own failures.
type Player interface {
	PlayBundled(ctx context.Context, sound models.SoundType)
	PlayStoredAsset(ctx context.Context, name string)
}

// Outcome describes what a trigger did.
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeBundled Outcome = "bundled"
	OutcomeStored  Outcome = "stored"
)

// Event records one trigger decision.
type Event struct {
	Context  models.AlertContext `json:"context"`
	Outcome  Outcome             `json:"outcome"`
	Resource string              `json:"resource,omitempty"`
	At       time.Time           `json:"at"`
}

// Engine is built once per monitor process and shared by every screen and control.
type Engine struct {
	prefs  Preferences
	player Player
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	last *Event
}

func NewEngine(prefs Preferences, player Player, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{prefs: prefs, player: player, logger: logger, now: time.Now}
}

// Mode returns the configured alert mode, disabled if it cannot be read.
func (e *Engine) Mode() models.AlertMode {
	mode, err := e.prefs.AlertMode()
	if err != nil {
		e.logger.Warn("failed to read alert mode", zap.Error(err))
		return models.AlertModeDisabled
	}
	return mode
}

// Trigger plays the sound for an alert context unless alerts are disabled.
// Callers decide when a condition is worth announcing.
func (e *Engine) Trigger(ctx context.Context, alertCtx models.AlertContext) Event {
	return e.fire(ctx, alertCtx, func() models.SoundType {
		sound, err := e.prefs.SoundForContext(alertCtx)
		if err != nil {
			e.logger.Warn("failed to read context sound", zap.String("context", string(alertCtx)), zap.Error(err))
			return models.DefaultSound
		}
		return sound
	})
}

// TestSound is a trigger on the default context that always uses the new-order sound.
func (e *Engine) TestSound(ctx context.Context) Event {
	return e.fire(ctx, models.ContextDefault, func() models.SoundType {
		return models.SoundNewOrder
	})
}

// Last returns the most recent trigger decision.
func (e *Engine) Last() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Event{}, false
	}
	return *e.last, true
}

func (e *Engine) fire(ctx context.Context, alertCtx models.AlertContext, resolve func() models.SoundType) Event {
	ev := Event{Context: alertCtx, Outcome: OutcomeSkipped, At: e.now()}
	defer e.record(&ev)

	if e.Mode() == models.AlertModeDisabled {
		return ev
	}

	source, err := e.prefs.AudioSource()
	if err != nil {
		e.logger.Warn("failed to read audio source", zap.Error(err))
		source = models.AudioSourceBundled
	}

	if source == models.AudioSourceUserUploaded {
		name, ok, err := e.prefs.PreferredAudioAsset()
		if err != nil {
			e.logger.Warn("failed to read preferred sound", zap.Error(err))
		}
		if ok {
			ev.Outcome, ev.Resource = OutcomeStored, name
			e.player.PlayStoredAsset(ctx, name)
			return ev
		}
	}

	sound := resolve()
	ev.Outcome, ev.Resource = OutcomeBundled, string(sound)
	e.player.PlayBundled(ctx, sound)
	return ev
}

func (e *Engine) record(ev *Event) {
	triggersTotal.WithLabelValues(string(ev.Context), string(ev.Outcome)).Inc()
	e.logger.Info("alert triggered",
		zap.String("context", string(ev.Context)),
		zap.String("outcome", string(ev.Outcome)),
		zap.String("resource", ev.Resource))

	e.mu.Lock()
	last := *ev
	e.last = &last
	e.mu.Unlock()
}
