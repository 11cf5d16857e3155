// ABOUTME: Audio playback adapter resolving alert sounds to playable clips
// ABOUTME: Bundled sounds come from a directory, stored sounds from the preference store
package audio

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/harperreed/painel/models"
)

// AssetSource looks up user-uploaded sounds by name.
type AssetSource interface {
	AudioAsset(name string) (*models.StoredAudioAsset, error)
}

// Player resolves sounds and hands them to a Sink. Its methods never fail:
// playback problems are logged and counted.
type Player struct {
	dir    string
	ext    string
	sink   Sink
	assets AssetSource
	logger *zap.Logger
}

func NewPlayer(dir, ext string, sink Sink, assets AssetSource, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ext == "" {
		ext = ".mp3"
	}
	return &Player{dir: dir, ext: ext, sink: sink, assets: assets, logger: logger}
}

// BundledPath is the file a bundled sound is expected at.
func (p *Player) BundledPath(sound models.SoundType) string {
	return filepath.Join(p.dir, string(sound)+p.ext)
}

// SinkName reports which sink clips are sent to.
func (p *Player) SinkName() string {
	return p.sink.Name()
}

func (p *Player) PlayBundled(ctx context.Context, sound models.SoundType) {
	clip := Clip{Name: string(sound), Path: p.BundledPath(sound)}
	if err := p.sink.Play(ctx, clip); err != nil {
		p.fail("bundled", clip.Path, err)
		return
	}
	playbackTotal.WithLabelValues("bundled", "ok").Inc()
	p.logger.Debug("played bundled sound", zap.String("sound", string(sound)), zap.String("sink", p.sink.Name()))
}

func (p *Player) PlayStoredAsset(ctx context.Context, name string) {
	asset, err := p.assets.AudioAsset(name)
	if err != nil {
		p.fail("stored", name, err)
		return
	}
	if asset == nil {
		playbackTotal.WithLabelValues("stored", "missing").Inc()
		p.logger.Warn("stored sound not found", zap.String("name", name))
		return
	}

	data, err := base64.StdEncoding.DecodeString(asset.Data)
	if err != nil {
		p.fail("stored", name, fmt.Errorf("decode payload: %w", err))
		return
	}

	clip := Clip{Name: asset.Name, Data: data, MIMEType: asset.MIMEType}
	if err := p.sink.Play(ctx, clip); err != nil {
		p.fail("stored", name, err)
		return
	}
	playbackTotal.WithLabelValues("stored", "ok").Inc()
	p.logger.Debug("played stored sound", zap.String("name", name), zap.String("sink", p.sink.Name()))
}

func (p *Player) fail(kind, resource string, err error) {
	playbackTotal.WithLabelValues(kind, "error").Inc()
	p.logger.Warn("audio playback failed",
		zap.String("kind", kind),
		zap.String("resource", resource),
		zap.Error(err))
}
