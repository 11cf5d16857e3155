// ABOUTME: Tests for the preference store
// ABOUTME: Covers defaults, context sound merging, upload validation, preferred asset and usage

package prefs

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/painel/kv"
	"github.com/harperreed/painel/models"
)

func newTestStore(t *testing.T, opts ...kv.Option) *Store {
	t.Helper()
	return New(kv.NewTestClient(t, opts...))
}

func TestAlertModeDefaultsToDisabled(t *testing.T) {
	s := newTestStore(t)

	mode, err := s.AlertMode()
	require.NoError(t, err)
	assert.Equal(t, models.AlertModeDisabled, mode)

	require.NoError(t, s.SetAlertMode(models.AlertModeOnEvent))
	mode, err = s.AlertMode()
	require.NoError(t, err)
	assert.Equal(t, models.AlertModeOnEvent, mode)

	var verr *ValidationError
	assert.True(t, errors.As(s.SetAlertMode("loud"), &verr))
}

func TestAudioSourceDefaultsToBundled(t *testing.T) {
	s := newTestStore(t)

	src, err := s.AudioSource()
	require.NoError(t, err)
	assert.Equal(t, models.AudioSourceBundled, src)

	require.NoError(t, s.SetAudioSource(models.AudioSourceUserUploaded))
	src, err = s.AudioSource()
	require.NoError(t, err)
	assert.Equal(t, models.AudioSourceUserUploaded, src)
}

func TestUnknownContextFallsBackToNewOrder(t *testing.T) {
	s := newTestStore(t)

	sound, err := s.SoundForContext("unseen_context")
	require.NoError(t, err)
	assert.Equal(t, models.SoundNewOrder, sound)
}

func TestSetSoundForContextMerges(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetSoundForContext(models.ContextStockAlert, models.SoundLowStock))
	require.NoError(t, s.SetSoundForContext(models.ContextProductionMonitor, models.SoundMachineAttention))

	sound, err := s.SoundForContext(models.ContextStockAlert)
	require.NoError(t, err)
	assert.Equal(t, models.SoundLowStock, sound)

	sound, err = s.SoundForContext(models.ContextProductionMonitor)
	require.NoError(t, err)
	assert.Equal(t, models.SoundMachineAttention, sound)

	all, err := s.ContextSounds()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	var verr *ValidationError
	assert.True(t, errors.As(s.SetSoundForContext(models.ContextStockAlert, "sirene"), &verr))
}

func TestSaveAudioAssetValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name     string
		fileName string
		mime     string
		size     int
		field    string
	}{
		{name: "text file", fileName: "notes", mime: "text/plain", size: 1024, field: "mime_type"},
		{name: "oversized", fileName: "Big", mime: "audio/mpeg", size: 6 * 1024 * 1024, field: "size"},
		{name: "missing name", fileName: "   ", mime: "audio/mpeg", size: 1024, field: "name"},
		{name: "empty file", fileName: "Empty", mime: "audio/wav", size: 0, field: "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveAudioAsset(tt.fileName, tt.mime, make([]byte, tt.size))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	names, err := s.ListAudioAssetNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSaveAudioAssetSucceeds(t *testing.T) {
	s := newTestStore(t)

	payload := bytes.Repeat([]byte{0xFF, 0xFB}, 512*1024) // 1MB
	asset, err := s.SaveAudioAsset("Alerta1", "audio/mpeg", payload)
	require.NoError(t, err)
	assert.Equal(t, "Alerta1", asset.Name)
	assert.Equal(t, int64(len(payload)), asset.Size)
	assert.NotEmpty(t, asset.ID)

	names, err := s.ListAudioAssetNames()
	require.NoError(t, err)
	assert.Contains(t, names, "Alerta1")

	stored, err := s.AudioAsset("Alerta1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, asset.Data, stored.Data)
}

func TestSaveAudioAssetSanitizesName(t *testing.T) {
	s := newTestStore(t)

	asset, err := s.SaveAudioAsset("  Sino da  loja ", "audio/wav", []byte("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "Sino_da_loja", asset.Name)

	// lookups sanitize too
	stored, err := s.AudioAsset("Sino da loja")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestListAudioAssetNamesOrderedByCreation(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"zeta", "alpha", "mid"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		_, err := s.SaveAudioAsset(name, "audio/ogg", []byte("OggS"))
		require.NoError(t, err)
	}

	names, err := s.ListAudioAssetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestDeleteAudioAssetIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveAudioAsset("Bell", "audio/mpeg", []byte("ID3"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteAudioAsset("Bell"))
	require.NoError(t, s.DeleteAudioAsset("Bell"))

	stored, err := s.AudioAsset("Bell")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// both the index entry and the payload are gone
	keys, err := s.kv.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPreferredAssetExclusivity(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveAudioAsset("A", "audio/mpeg", []byte("a"))
	require.NoError(t, err)
	_, err = s.SaveAudioAsset("B", "audio/mpeg", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, s.SetPreferredAudioAsset("A"))
	require.NoError(t, s.SetPreferredAudioAsset("B"))

	preferred, ok, err := s.PreferredAudioAsset()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "B", preferred)

	names, err := s.ListAudioAssetNames()
	require.NoError(t, err)
	assert.Contains(t, names, "A")
}

func TestPreferredAssetMustExist(t *testing.T) {
	s := newTestStore(t)

	var verr *ValidationError
	assert.True(t, errors.As(s.SetPreferredAudioAsset("ghost"), &verr))

	_, ok, err := s.PreferredAudioAsset()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeletingPreferredAssetClearsPreference(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveAudioAsset("A", "audio/mpeg", []byte("a"))
	require.NoError(t, err)
	require.NoError(t, s.SetPreferredAudioAsset("A"))
	require.NoError(t, s.DeleteAudioAsset("A"))

	_, ok, err := s.PreferredAudioAsset()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAudioAssetQuotaExceeded(t *testing.T) {
	s := newTestStore(t, kv.WithMaxBytes(1024))

	_, err := s.SaveAudioAsset("Long", "audio/mpeg", make([]byte, 4096))
	var qerr *StorageQuotaError
	require.True(t, errors.As(err, &qerr), "expected StorageQuotaError, got %v", err)
	assert.True(t, errors.Is(err, kv.ErrQuotaExceeded))

	names, err := s.ListAudioAssetNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

// failingBackend refuses writes to keys under failPrefix.
type failingBackend struct {
	kv.Backend
	failPrefix string
}

func (b *failingBackend) Set(key, value []byte) error {
	if b.failPrefix != "" && strings.HasPrefix(string(key), b.failPrefix) {
		return errors.New("disk full")
	}
	return b.Backend.Set(key, value)
}

func TestFailedReplaceKeepsPreviousAsset(t *testing.T) {
	inner, err := kv.OpenBadgerInMemory()
	require.NoError(t, err)
	backend := &failingBackend{Backend: inner}
	client := kv.NewClient(backend)
	t.Cleanup(func() { _ = client.Close() })
	s := New(client)

	original, err := s.SaveAudioAsset("Sino", "audio/mpeg", []byte("first take"))
	require.NoError(t, err)

	backend.failPrefix = prefixIndex
	_, err = s.SaveAudioAsset("Sino", "audio/wav", []byte("second take, longer"))
	require.Error(t, err)
	backend.failPrefix = ""

	stored, err := s.AudioAsset("Sino")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "audio/mpeg", stored.MIMEType)
	assert.Equal(t, original.Data, stored.Data)

	backend.failPrefix = prefixIndex
	_, err = s.SaveAudioAsset("Outra", "audio/mpeg", []byte("never indexed"))
	require.Error(t, err)
	backend.failPrefix = ""

	_, err = client.Get([]byte(prefixData + "Outra"))
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStorageUsage(t *testing.T) {
	s := newTestStore(t)

	usage, err := s.StorageUsage()
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage.UsedBytes)
	assert.Equal(t, int64(SoftMaxBytes), usage.EstimatedMaxBytes)

	require.NoError(t, s.SetAlertMode(models.AlertModeInterval))
	usage, err = s.StorageUsage()
	require.NoError(t, err)
	// "alert:mode" + "interval" = 18 characters, two bytes each
	assert.Equal(t, int64(36), usage.UsedBytes)
	assert.InDelta(t, 36.0/float64(SoftMaxBytes)*100, usage.Percentage, 1e-9)
}
