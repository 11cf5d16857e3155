// ABOUTME: Preference store for alert settings and user-uploaded sounds
// ABOUTME: Typed operations over the key-value client with defaults for unset keys

package prefs

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/painel/kv"
	"github.com/harperreed/painel/models"
)

// Key layout.
const (
	keyAlertMode     = "alert:mode"
	keyAudioSource   = "alert:audio_source"
	keyContextSounds = "alert:context_sounds"
	keyPreferred     = "audio:preferred"
	prefixIndex      = "audio:index:"
	prefixData       = "audio:data:"
)

// SoftMaxBytes is the ceiling storage usage is reported against. It is not enforced.
const SoftMaxBytes = 10 * 1024 * 1024

var whitespaceRun = regexp.MustCompile(`\s+`)

// Store is the preference store. It is safe for concurrent use.
type Store struct {
	kv       *kv.Client
	validate *validator.Validate
	now      func() time.Time
}

// New creates a store over the given key-value client.
func New(client *kv.Client) *Store {
	return &Store{
		kv:       client,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Usage reports how much of the soft ceiling the store occupies.
type Usage struct {
	UsedBytes         int64   `json:"used_bytes"`
	EstimatedMaxBytes int64   `json:"estimated_max_bytes"`
	Percentage        float64 `json:"percentage"`
}

// SanitizeName trims an asset name and replaces whitespace runs with underscores.
func SanitizeName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
}

func (s *Store) getString(key string) (string, bool, error) {
	val, err := s.kv.Get([]byte(key))
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(val), true, nil
}

func (s *Store) set(key string, value []byte) error {
	if err := s.kv.Set([]byte(key), value); err != nil {
		if errors.Is(err, kv.ErrQuotaExceeded) {
			return &StorageQuotaError{Key: key, Err: err}
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// AlertMode returns the configured mode, disabled when unset.
func (s *Store) AlertMode() (models.AlertMode, error) {
	val, ok, err := s.getString(keyAlertMode)
	if err != nil || !ok {
		return models.AlertModeDisabled, err
	}
	mode, perr := models.ParseAlertMode(val)
	if perr != nil {
		return models.AlertModeDisabled, nil
	}
	return mode, nil
}

func (s *Store) SetAlertMode(mode models.AlertMode) error {
	if _, err := models.ParseAlertMode(string(mode)); err != nil {
		return &ValidationError{Field: "mode", Reason: err.Error()}
	}
	return s.set(keyAlertMode, []byte(mode))
}

// AudioSource returns the configured source, bundled when unset.
func (s *Store) AudioSource() (models.AudioSource, error) {
	val, ok, err := s.getString(keyAudioSource)
	if err != nil || !ok {
		return models.AudioSourceBundled, err
	}
	src, perr := models.ParseAudioSource(val)
	if perr != nil {
		return models.AudioSourceBundled, nil
	}
	return src, nil
}

func (s *Store) SetAudioSource(src models.AudioSource) error {
	if _, err := models.ParseAudioSource(string(src)); err != nil {
		return &ValidationError{Field: "audio_source", Reason: err.Error()}
	}
	return s.set(keyAudioSource, []byte(src))
}

// ContextSounds returns every explicit context → sound selection.
func (s *Store) ContextSounds() (map[models.AlertContext]models.SoundType, error) {
	sounds := make(map[models.AlertContext]models.SoundType)

	val, ok, err := s.getString(keyContextSounds)
	if err != nil || !ok {
		return sounds, err
	}
	if err := json.Unmarshal([]byte(val), &sounds); err != nil {
		// a corrupt map behaves like an empty one
		return make(map[models.AlertContext]models.SoundType), nil
	}
	return sounds, nil
}

// SoundForContext resolves the sound for a context, falling back to the default sound.
func (s *Store) SoundForContext(ctx models.AlertContext) (models.SoundType, error) {
	sounds, err := s.ContextSounds()
	if err != nil {
		return models.DefaultSound, err
	}
	if sound, ok := sounds[ctx]; ok {
		if _, perr := models.ParseSoundType(string(sound)); perr == nil {
			return sound, nil
		}
	}
	return models.DefaultSound, nil
}

// SetSoundForContext merges one selection into the map, leaving other contexts untouched.
func (s *Store) SetSoundForContext(ctx models.AlertContext, sound models.SoundType) error {
	if strings.TrimSpace(string(ctx)) == "" {
		return &ValidationError{Field: "context", Reason: "a context is required"}
	}
	if _, err := models.ParseSoundType(string(sound)); err != nil {
		return &ValidationError{Field: "sound", Reason: err.Error()}
	}

	sounds, err := s.ContextSounds()
	if err != nil {
		return err
	}
	sounds[ctx] = sound

	data, err := json.Marshal(sounds)
	if err != nil {
		return err
	}
	return s.set(keyContextSounds, data)
}

// SaveAudioAsset validates and stores an uploaded sound under its sanitized name,
// replacing any asset with the same name.
func (s *Store) SaveAudioAsset(name, mimeType string, data []byte) (*models.StoredAudioAsset, error) {
	upload := AudioUpload{
		Name:     SanitizeName(name),
		MIMEType: mimeType,
		Size:     int64(len(data)),
	}
	if err := s.validate.Struct(upload); err != nil {
		return nil, toValidationError(err)
	}

	now := s.now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	asset := &models.StoredAudioAsset{
		ID:        ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		Name:      upload.Name,
		MIMEType:  upload.MIMEType,
		Size:      upload.Size,
		CreatedAt: now,
	}

	meta, err := json.Marshal(asset)
	if err != nil {
		return nil, err
	}

	dataKey := []byte(prefixData + asset.Name)
	previous, err := s.kv.Get(dataKey)
	replacing := err == nil
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("failed to read %s: %w", dataKey, err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if err := s.set(string(dataKey), []byte(encoded)); err != nil {
		return nil, err
	}
	if err := s.set(prefixIndex+asset.Name, meta); err != nil {
		// the old index entry still describes the old payload
		if replacing {
			_ = s.kv.Set(dataKey, previous)
		} else {
			_ = s.kv.Delete(dataKey)
		}
		return nil, err
	}

	asset.Data = encoded
	return asset, nil
}

// AudioAsset returns a stored asset with its payload, or nil when absent.
func (s *Store) AudioAsset(name string) (*models.StoredAudioAsset, error) {
	name = SanitizeName(name)

	meta, err := s.readMeta(prefixIndex + name)
	if err != nil || meta == nil {
		return nil, err
	}

	data, ok, err := s.getString(prefixData + name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	meta.Data = data
	return meta, nil
}

func (s *Store) readMeta(key string) (*models.StoredAudioAsset, error) {
	val, ok, err := s.getString(key)
	if err != nil || !ok {
		return nil, err
	}
	var asset models.StoredAudioAsset
	if err := json.Unmarshal([]byte(val), &asset); err != nil {
		return nil, fmt.Errorf("corrupt asset metadata %s: %w", key, err)
	}
	return &asset, nil
}

// ListAudioAssets returns asset metadata (without payloads), oldest first.
func (s *Store) ListAudioAssets() ([]models.StoredAudioAsset, error) {
	keys, err := s.kv.KeysWithPrefix([]byte(prefixIndex))
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	assets := make([]models.StoredAudioAsset, 0, len(keys))
	for _, k := range keys {
		meta, err := s.readMeta(string(k))
		if err != nil {
			return nil, err
		}
		if meta != nil {
			assets = append(assets, *meta)
		}
	}

	sort.SliceStable(assets, func(i, j int) bool {
		if !assets[i].CreatedAt.Equal(assets[j].CreatedAt) {
			return assets[i].CreatedAt.Before(assets[j].CreatedAt)
		}
		return assets[i].Name < assets[j].Name
	})
	return assets, nil
}

// ListAudioAssetNames enumerates stored asset names, oldest first.
func (s *Store) ListAudioAssetNames() ([]string, error) {
	assets, err := s.ListAudioAssets()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(assets))
	for _, a := range assets {
		names = append(names, a.Name)
	}
	return names, nil
}

// DeleteAudioAsset removes an asset's index entry and payload. Deleting a missing
// asset is not an error. A preference naming the asset is cleared.
func (s *Store) DeleteAudioAsset(name string) error {
	name = SanitizeName(name)

	if err := s.kv.Delete([]byte(prefixIndex + name)); err != nil {
		return fmt.Errorf("failed to delete asset index: %w", err)
	}
	if err := s.kv.Delete([]byte(prefixData + name)); err != nil {
		return fmt.Errorf("failed to delete asset data: %w", err)
	}

	preferred, ok, err := s.PreferredAudioAsset()
	if err != nil {
		return err
	}
	if ok && preferred == name {
		return s.ClearPreferredAudioAsset()
	}
	return nil
}

// SetPreferredAudioAsset makes name the single preferred asset, replacing any previous one.
func (s *Store) SetPreferredAudioAsset(name string) error {
	name = SanitizeName(name)

	meta, err := s.readMeta(prefixIndex + name)
	if err != nil {
		return err
	}
	if meta == nil {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("no stored sound named %q", name)}
	}
	return s.set(keyPreferred, []byte(name))
}

// PreferredAudioAsset returns the preferred asset name, if one is set.
func (s *Store) PreferredAudioAsset() (string, bool, error) {
	val, ok, err := s.getString(keyPreferred)
	if err != nil || !ok || val == "" {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) ClearPreferredAudioAsset() error {
	if err := s.kv.Delete([]byte(keyPreferred)); err != nil {
		return fmt.Errorf("failed to clear preferred asset: %w", err)
	}
	return nil
}

// Reset drops every setting and uploaded sound, returning the store to defaults.
func (s *Store) Reset() error {
	if err := s.kv.Reset(); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}

// StorageUsage sums every stored key and value against SoftMaxBytes.
func (s *Store) StorageUsage() (Usage, error) {
	used, err := s.kv.Size()
	if err != nil {
		return Usage{}, fmt.Errorf("failed to measure storage: %w", err)
	}
	return Usage{
		UsedBytes:         used,
		EstimatedMaxBytes: SoftMaxBytes,
		Percentage:        float64(used) / float64(SoftMaxBytes) * 100,
	}, nil
}
