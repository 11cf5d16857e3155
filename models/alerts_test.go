// ABOUTME: Tests for alert configuration types
// ABOUTME: Validates enum parsing and sound labels
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlertMode(t *testing.T) {
	for _, m := range AllAlertModes {
		parsed, err := ParseAlertMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseAlertMode("loud")
	assert.Error(t, err)
}

func TestParseAudioSource(t *testing.T) {
	src, err := ParseAudioSource("user-uploaded")
	require.NoError(t, err)
	assert.Equal(t, AudioSourceUserUploaded, src)

	_, err = ParseAudioSource("cloud")
	assert.Error(t, err)
}

func TestParseSoundType(t *testing.T) {
	s, err := ParseSoundType("estoque_baixo")
	require.NoError(t, err)
	assert.Equal(t, SoundLowStock, s)
	assert.Equal(t, "Low stock", s.Label())

	_, err = ParseSoundType("sirene")
	assert.Error(t, err)
}

func TestDefaultSoundIsNewOrder(t *testing.T) {
	assert.Equal(t, SoundNewOrder, DefaultSound)
	assert.Equal(t, "novo_pedido", string(DefaultSound))
}
