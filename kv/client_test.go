// ABOUTME: Tests for the key-value client and badger backend
// ABOUTME: Covers CRUD, prefix enumeration, size accounting and quota refusal

package kv

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSetGetDelete(t *testing.T) {
	c := NewTestClient(t)

	require.NoError(t, c.Set([]byte("alert:mode"), []byte("on-event")))

	val, err := c.Get([]byte("alert:mode"))
	require.NoError(t, err)
	assert.Equal(t, "on-event", string(val))

	require.NoError(t, c.Delete([]byte("alert:mode")))
	_, err = c.Get([]byte("alert:mode"))
	assert.True(t, errors.Is(err, ErrNotFound))

	// deleting again is fine
	assert.NoError(t, c.Delete([]byte("alert:mode")))
}

func TestClientKeysWithPrefix(t *testing.T) {
	c := NewTestClient(t)

	for _, k := range []string{"audio:index:b", "audio:index:a", "audio:data:a", "alert:mode"} {
		require.NoError(t, c.Set([]byte(k), []byte("x")))
	}

	keys, err := c.KeysWithPrefix([]byte("audio:index:"))
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "audio:index:a", string(keys[0]))
	assert.Equal(t, "audio:index:b", string(keys[1]))

	all, err := c.Keys()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestEncodedSize(t *testing.T) {
	assert.Equal(t, int64(0), EncodedSize(nil))
	assert.Equal(t, int64(6), EncodedSize([]byte("abc")))
	// "ç" is one UTF-16 unit even though it is two UTF-8 bytes
	assert.Equal(t, int64(2), EncodedSize([]byte("ç")))
	// emoji lives outside the BMP: a surrogate pair
	assert.Equal(t, int64(4), EncodedSize([]byte("🔔")))
}

func TestClientSize(t *testing.T) {
	c := NewTestClient(t)
	require.NoError(t, c.Set([]byte("ab"), []byte("cde")))

	size, err := c.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
}

func TestClientQuota(t *testing.T) {
	c := NewTestClient(t, WithMaxBytes(40))

	require.NoError(t, c.Set([]byte("k1"), []byte("0123456789"))) // 24 bytes

	err := c.Set([]byte("k2"), []byte("0123456789"))
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	// overwriting an existing key only counts the difference
	assert.NoError(t, c.Set([]byte("k1"), []byte("01234567890123")))
}

func TestClientReset(t *testing.T) {
	c := NewTestClient(t)
	require.NoError(t, c.Set([]byte("a"), []byte("1")))
	require.NoError(t, c.Reset())

	keys, err := c.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestOpenBadgerOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")

	backend, err := OpenBadger(dir)
	require.NoError(t, err)
	c := NewClient(backend)
	require.NoError(t, c.Set([]byte("alert:audio_source"), []byte("bundled")))
	require.NoError(t, c.Close())

	backend, err = OpenBadger(dir)
	require.NoError(t, err)
	c = NewClient(backend)
	defer func() { _ = c.Close() }()

	val, err := c.Get([]byte("alert:audio_source"))
	require.NoError(t, err)
	assert.Equal(t, "bundled", string(val))
}
