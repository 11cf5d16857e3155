// ABOUTME: Recording sink for tests that need to observe playback
// ABOUTME: Captures every clip and can be told to fail
package audio

import (
	"context"
	"sync"
)

// RecordingSink remembers every clip it is asked to play.
type RecordingSink struct {
	mu    sync.Mutex
	clips []Clip
	Err   error
}

func (s *RecordingSink) Name() string { return "recording" }

func (s *RecordingSink) Play(_ context.Context, clip Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips = append(s.clips, clip)
	return s.Err
}

// Clips returns a copy of the recorded clips.
func (s *RecordingSink) Clips() []Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Clip(nil), s.clips...)
}
