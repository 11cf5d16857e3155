// ABOUTME: Alert configuration types shared by the preference store and alert engine
// ABOUTME: Defines AlertMode, AudioSource, SoundType, AlertContext and StoredAudioAsset
package models

import (
	"fmt"
	"time"
)

// AlertMode governs whether the alert engine ever triggers playback.
type AlertMode string

const (
	AlertModeDisabled AlertMode = "disabled"
	AlertModeOnEvent  AlertMode = "on-event"
	AlertModeInterval AlertMode = "interval"
)

// AllAlertModes lists the modes in the order the controls cycle through them.
var AllAlertModes = []AlertMode{AlertModeDisabled, AlertModeOnEvent, AlertModeInterval}

func ParseAlertMode(s string) (AlertMode, error) {
	for _, m := range AllAlertModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid alert mode: %s (valid: disabled, on-event, interval)", s)
}

// AudioSource selects where the playback adapter looks up a sound.
type AudioSource string

const (
	AudioSourceBundled      AudioSource = "bundled"
	AudioSourceUserUploaded AudioSource = "user-uploaded"
)

var AllAudioSources = []AudioSource{AudioSourceBundled, AudioSourceUserUploaded}

func ParseAudioSource(s string) (AudioSource, error) {
	for _, src := range AllAudioSources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("invalid audio source: %s (valid: bundled, user-uploaded)", s)
}

// SoundType is a logical alert sound. Its value doubles as the bundled file name.
type SoundType string

const (
	SoundNewOrder         SoundType = "novo_pedido"
	SoundOrderComplete    SoundType = "pedido_concluido"
	SoundMachineAttention SoundType = "atencao_maquina"
	SoundSummonToOffice   SoundType = "compareca_direcao"
	SoundLowStock         SoundType = "estoque_baixo"
)

// DefaultSound is used for any context without an explicit selection.
const DefaultSound = SoundNewOrder

var AllSoundTypes = []SoundType{
	SoundNewOrder,
	SoundOrderComplete,
	SoundMachineAttention,
	SoundSummonToOffice,
	SoundLowStock,
}

func ParseSoundType(s string) (SoundType, error) {
	for _, st := range AllSoundTypes {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid sound: %s", s)
}

// Label returns the human-readable name shown in the controls.
func (s SoundType) Label() string {
	switch s {
	case SoundNewOrder:
		return "New order"
	case SoundOrderComplete:
		return "Order complete"
	case SoundMachineAttention:
		return "Machine attention"
	case SoundSummonToOffice:
		return "Summon to office"
	case SoundLowStock:
		return "Low stock"
	}
	return string(s)
}

// AlertContext tags where an alert condition was observed.
type AlertContext string

const (
	ContextDefault           AlertContext = "default"
	ContextMarketplaceNew    AlertContext = "marketplace_new"
	ContextStockAlert        AlertContext = "stock_alert"
	ContextExpenseUrgent     AlertContext = "expense_urgent"
	ContextProductionMonitor AlertContext = "production_monitor"
)

// KnownContexts are the contexts the built-in monitors raise.
var KnownContexts = []AlertContext{
	ContextMarketplaceNew,
	ContextStockAlert,
	ContextExpenseUrgent,
	ContextProductionMonitor,
}

// StoredAudioAsset is a user-uploaded alert sound.
type StoredAudioAsset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MIMEType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Data      string    `json:"data,omitempty"` // base64
	CreatedAt time.Time `json:"created_at"`
}
