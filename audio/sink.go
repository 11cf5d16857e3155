// ABOUTME: Playback sinks that turn a resolved clip into sound
// ABOUTME: External player commands, terminal bell, and a silent sink
package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// Clip is a resolved sound. Either Path or Data is set.
type Clip struct {
	Name     string
	Path     string
	Data     []byte
	MIMEType string
}

// Sink plays clips. Play must not block for the length of the sound.
type Sink interface {
	Play(ctx context.Context, clip Clip) error
	Name() string
}

// PlaybackError reports a clip that could not be played.
type PlaybackError struct {
	Resource string
	Err      error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %s failed: %v", e.Resource, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// knownPlayers are tried in order by DetectCommand.
var knownPlayers = [][]string{
	{"paplay"},
	{"aplay", "-q"},
	{"afplay"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

// DetectCommand returns the first audio player found on PATH, or nil.
func DetectCommand() []string {
	for _, candidate := range knownPlayers {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return candidate
		}
	}
	return nil
}

// CommandSink plays clips through an external program. The clip file is
// appended as the last argument.
type CommandSink struct {
	args    []string
	tempDir string
	wg      sync.WaitGroup
}

func NewCommandSink(args []string) *CommandSink {
	return &CommandSink{args: args, tempDir: os.TempDir()}
}

func (s *CommandSink) Name() string {
	return s.args[0]
}

func (s *CommandSink) Play(ctx context.Context, clip Clip) error {
	if err := ctx.Err(); err != nil {
		return &PlaybackError{Resource: clip.Name, Err: err}
	}

	path := clip.Path
	cleanup := func() {}
	if len(clip.Data) > 0 {
		tmp, err := s.writeTemp(clip)
		if err != nil {
			return &PlaybackError{Resource: clip.Name, Err: err}
		}
		path = tmp
		cleanup = func() { _ = os.Remove(tmp) }
	} else if _, err := os.Stat(path); err != nil {
		return &PlaybackError{Resource: path, Err: err}
	}

	args := append(append([]string{}, s.args[1:]...), path)
	cmd := exec.Command(s.args[0], args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		cleanup()
		return &PlaybackError{Resource: clip.Name, Err: err}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = cmd.Wait()
		cleanup()
	}()
	return nil
}

// Wait blocks until every started player has exited.
func (s *CommandSink) Wait() {
	s.wg.Wait()
}

func (s *CommandSink) writeTemp(clip Clip) (string, error) {
	var ext string
	if m := mimetype.Lookup(clip.MIMEType); m != nil {
		ext = m.Extension()
	} else {
		ext = mimetype.Detect(clip.Data).Extension()
	}

	f, err := os.CreateTemp(s.tempDir, "painel-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(clip.Data); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), f.Close()
}

// BellSink rings the terminal bell regardless of the clip.
type BellSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewBellSink(out io.Writer) *BellSink {
	return &BellSink{out: out}
}

func (s *BellSink) Name() string { return "bell" }

func (s *BellSink) Play(_ context.Context, clip Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.out, "\a"); err != nil {
		return &PlaybackError{Resource: clip.Name, Err: err}
	}
	return nil
}

// NopSink discards every clip.
type NopSink struct{}

func (NopSink) Name() string { return "none" }

func (NopSink) Play(context.Context, Clip) error { return nil }

// NewSink builds a sink from a player setting: "auto", "bell", "none",
// or a command line such as "mpv --no-video".
func NewSink(setting string, out io.Writer) (Sink, error) {
	switch strings.TrimSpace(setting) {
	case "", "auto":
		if args := DetectCommand(); args != nil {
			return NewCommandSink(args), nil
		}
		return NewBellSink(out), nil
	case "bell":
		return NewBellSink(out), nil
	case "none":
		return NopSink{}, nil
	}

	args := strings.Fields(setting)
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("audio player %q not found: %w", args[0], err)
	}
	return NewCommandSink(args), nil
}
