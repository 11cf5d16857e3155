// ABOUTME: Prometheus counters for audio playback attempts
// ABOUTME: Labelled by clip kind and outcome
package audio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var playbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "painel_audio_playback_total",
	Help: "Audio playback attempts by clip kind and outcome.",
}, []string{"kind", "status"})
