// ABOUTME: Tests for the alert policy engine
// ABOUTME: Covers modes, per-context sounds, preferred uploads and edge detection
package alert

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/painel/audio"
	"github.com/harperreed/painel/kv"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/prefs"
)

const soundsDir = "/opt/painel/sounds"

func setup(t *testing.T) (*Engine, *prefs.Store, *audio.RecordingSink) {
	t.Helper()
	store := prefs.New(kv.NewTestClient(t))
	sink := &audio.RecordingSink{}
	player := audio.NewPlayer(soundsDir, ".mp3", sink, store, nil)
	return NewEngine(store, player, nil), store, sink
}

func TestDisabledModeNeverPlays(t *testing.T) {
	engine, store, sink := setup(t)
	ctx := context.Background()

	// unset mode defaults to disabled
	for _, c := range append(models.KnownContexts, models.ContextDefault, "anything") {
		ev := engine.Trigger(ctx, c)
		assert.Equal(t, OutcomeSkipped, ev.Outcome)
	}

	require.NoError(t, store.SetAlertMode(models.AlertModeDisabled))
	require.NoError(t, store.SetAudioSource(models.AudioSourceUserUploaded))
	for i := 0; i < 20; i++ {
		engine.Trigger(ctx, models.ContextMarketplaceNew)
	}
	engine.TestSound(ctx)

	assert.Empty(t, sink.Clips())
}

func TestStockAlertPlaysMappedBundledSound(t *testing.T) {
	engine, store, sink := setup(t)
	ctx := context.Background()

	require.NoError(t, store.SetAlertMode(models.AlertModeOnEvent))
	require.NoError(t, store.SetAudioSource(models.AudioSourceBundled))
	require.NoError(t, store.SetSoundForContext(models.ContextStockAlert, models.SoundLowStock))

	// low stock goes from empty to one item
	edges := NewEdgeDetector()
	assert.False(t, edges.Observe(models.ContextStockAlert, 0))
	if edges.Observe(models.ContextStockAlert, 1) {
		engine.Trigger(ctx, models.ContextStockAlert)
	}

	clips := sink.Clips()
	require.Len(t, clips, 1)
	assert.Equal(t, filepath.Join(soundsDir, "estoque_baixo.mp3"), clips[0].Path)
}

func TestUnmappedContextUsesNewOrderSound(t *testing.T) {
	engine, store, sink := setup(t)
	require.NoError(t, store.SetAlertMode(models.AlertModeInterval))

	ev := engine.Trigger(context.Background(), models.ContextExpenseUrgent)

	assert.Equal(t, OutcomeBundled, ev.Outcome)
	assert.Equal(t, string(models.SoundNewOrder), ev.Resource)
	require.Len(t, sink.Clips(), 1)
	assert.Equal(t, filepath.Join(soundsDir, "novo_pedido.mp3"), sink.Clips()[0].Path)
}

func TestUserUploadedPlaysPreferredAsset(t *testing.T) {
	engine, store, sink := setup(t)
	ctx := context.Background()

	require.NoError(t, store.SetAlertMode(models.AlertModeOnEvent))
	require.NoError(t, store.SetAudioSource(models.AudioSourceUserUploaded))
	_, err := store.SaveAudioAsset("Alerta1", "audio/mpeg", []byte("ID3-payload"))
	require.NoError(t, err)
	require.NoError(t, store.SetPreferredAudioAsset("Alerta1"))

	ev := engine.Trigger(ctx, models.ContextMarketplaceNew)

	assert.Equal(t, OutcomeStored, ev.Outcome)
	clips := sink.Clips()
	require.Len(t, clips, 1)
	assert.Equal(t, []byte("ID3-payload"), clips[0].Data)
	assert.Empty(t, clips[0].Path)
}

func TestUserUploadedWithoutPreferenceFallsBackToBundled(t *testing.T) {
	engine, store, sink := setup(t)

	require.NoError(t, store.SetAlertMode(models.AlertModeOnEvent))
	require.NoError(t, store.SetAudioSource(models.AudioSourceUserUploaded))
	require.NoError(t, store.SetSoundForContext(models.ContextProductionMonitor, models.SoundMachineAttention))

	ev := engine.Trigger(context.Background(), models.ContextProductionMonitor)

	assert.Equal(t, OutcomeBundled, ev.Outcome)
	require.Len(t, sink.Clips(), 1)
	assert.Equal(t, filepath.Join(soundsDir, "atencao_maquina.mp3"), sink.Clips()[0].Path)
}

func TestTestSoundUsesNewOrderSound(t *testing.T) {
	engine, store, sink := setup(t)
	require.NoError(t, store.SetAlertMode(models.AlertModeOnEvent))
	require.NoError(t, store.SetSoundForContext(models.ContextDefault, models.SoundSummonToOffice))

	ev := engine.TestSound(context.Background())

	assert.Equal(t, models.ContextDefault, ev.Context)
	require.Len(t, sink.Clips(), 1)
	assert.Equal(t, filepath.Join(soundsDir, "novo_pedido.mp3"), sink.Clips()[0].Path)

	last, ok := engine.Last()
	require.True(t, ok)
	assert.Equal(t, OutcomeBundled, last.Outcome)
}

func TestSinkFailureDoesNotEscape(t *testing.T) {
	engine, store, sink := setup(t)
	sink.Err = errors.New("autoplay blocked")
	require.NoError(t, store.SetAlertMode(models.AlertModeOnEvent))

	assert.NotPanics(t, func() {
		engine.Trigger(context.Background(), models.ContextStockAlert)
	})
	assert.Len(t, sink.Clips(), 1)
}

type failingPrefs struct{}

func (failingPrefs) AlertMode() (models.AlertMode, error) { return "", errors.New("down") }
func (failingPrefs) AudioSource() (models.AudioSource, error) {
	return "", errors.New("down")
}
func (failingPrefs) SoundForContext(models.AlertContext) (models.SoundType, error) {
	return "", errors.New("down")
}
func (failingPrefs) PreferredAudioAsset() (string, bool, error) { return "", false, errors.New("down") }

func TestUnreadablePreferencesDisableAlerts(t *testing.T) {
	sink := &audio.RecordingSink{}
	player := audio.NewPlayer(soundsDir, ".mp3", sink, nil, nil)
	engine := NewEngine(failingPrefs{}, player, nil)

	ev := engine.Trigger(context.Background(), models.ContextStockAlert)

	assert.Equal(t, OutcomeSkipped, ev.Outcome)
	assert.Equal(t, models.AlertModeDisabled, engine.Mode())
	assert.Empty(t, sink.Clips())
}

func TestEdgeDetector(t *testing.T) {
	d := NewEdgeDetector()

	assert.False(t, d.Observe(models.ContextMarketplaceNew, 3), "first observation is the baseline")
	assert.False(t, d.Observe(models.ContextMarketplaceNew, 3))
	assert.True(t, d.Observe(models.ContextMarketplaceNew, 4))
	assert.False(t, d.Observe(models.ContextMarketplaceNew, 2))
	assert.True(t, d.Observe(models.ContextMarketplaceNew, 5))
	assert.Equal(t, 5, d.Count(models.ContextMarketplaceNew))

	assert.False(t, d.Observe(models.ContextStockAlert, 1), "contexts are tracked independently")
}
