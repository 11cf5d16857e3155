// ABOUTME: Alert settings tool handlers
// ABOUTME: Reads and changes alert mode, per-context sounds, and lists or tests sounds
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/prefs"
)

// AlertSettings is the preference store as used by the tools.
type AlertSettings interface {
	AlertMode() (models.AlertMode, error)
	SetAlertMode(models.AlertMode) error
	AudioSource() (models.AudioSource, error)
	SetAudioSource(models.AudioSource) error
	ContextSounds() (map[models.AlertContext]models.SoundType, error)
	SoundForContext(models.AlertContext) (models.SoundType, error)
	SetSoundForContext(models.AlertContext, models.SoundType) error
	ListAudioAssets() ([]models.StoredAudioAsset, error)
	PreferredAudioAsset() (string, bool, error)
	StorageUsage() (prefs.Usage, error)
}

// SoundTester plays the test sound.
type SoundTester interface {
	TestSound(ctx context.Context) alert.Event
}

type AlertHandlers struct {
	settings AlertSettings
	tester   SoundTester
}

func NewAlertHandlers(settings AlertSettings, tester SoundTester) *AlertHandlers {
	return &AlertHandlers{settings: settings, tester: tester}
}

type AssetOutput struct {
	Name      string `json:"name"`
	MIMEType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
	Preferred bool   `json:"preferred"`
}

type GetAlertSettingsInput struct{}

type AlertSettingsOutput struct {
	Mode          string            `json:"mode"`
	AudioSource   string            `json:"audio_source"`
	ContextSounds map[string]string `json:"context_sounds"`
	Preferred     string            `json:"preferred_asset,omitempty"`
	UsedBytes     int64             `json:"storage_used_bytes"`
	UsagePercent  float64           `json:"storage_used_percent"`
}

func (h *AlertHandlers) GetAlertSettings(ctx context.Context, req *mcp.CallToolRequest, input GetAlertSettingsInput) (*mcp.CallToolResult, AlertSettingsOutput, error) {
	out, err := h.settingsOutput()
	if err != nil {
		return nil, AlertSettingsOutput{}, err
	}
	return &mcp.CallToolResult{}, out, nil
}

func (h *AlertHandlers) settingsOutput() (AlertSettingsOutput, error) {
	mode, err := h.settings.AlertMode()
	if err != nil {
		return AlertSettingsOutput{}, fmt.Errorf("failed to read alert mode: %w", err)
	}
	source, err := h.settings.AudioSource()
	if err != nil {
		return AlertSettingsOutput{}, fmt.Errorf("failed to read audio source: %w", err)
	}
	preferred, _, err := h.settings.PreferredAudioAsset()
	if err != nil {
		return AlertSettingsOutput{}, fmt.Errorf("failed to read preferred asset: %w", err)
	}
	usage, err := h.settings.StorageUsage()
	if err != nil {
		return AlertSettingsOutput{}, err
	}

	// Every known context is listed with its effective sound
	sounds := make(map[string]string, len(models.KnownContexts))
	for _, c := range models.KnownContexts {
		sound, err := h.settings.SoundForContext(c)
		if err != nil {
			return AlertSettingsOutput{}, fmt.Errorf("failed to read context sounds: %w", err)
		}
		sounds[string(c)] = string(sound)
	}
	explicit, err := h.settings.ContextSounds()
	if err != nil {
		return AlertSettingsOutput{}, fmt.Errorf("failed to read context sounds: %w", err)
	}
	for c, s := range explicit {
		sounds[string(c)] = string(s)
	}

	return AlertSettingsOutput{
		Mode:          string(mode),
		AudioSource:   string(source),
		ContextSounds: sounds,
		Preferred:     preferred,
		UsedBytes:     usage.UsedBytes,
		UsagePercent:  usage.Percentage,
	}, nil
}

type SetAlertModeInput struct {
	Mode        string `json:"mode" jsonschema:"Alert mode (disabled, on-event, interval)"`
	AudioSource string `json:"audio_source,omitempty" jsonschema:"Optional audio source (bundled, user-uploaded)"`
}

func (h *AlertHandlers) SetAlertMode(ctx context.Context, req *mcp.CallToolRequest, input SetAlertModeInput) (*mcp.CallToolResult, AlertSettingsOutput, error) {
	mode, err := models.ParseAlertMode(input.Mode)
	if err != nil {
		return nil, AlertSettingsOutput{}, err
	}

	var source models.AudioSource
	if input.AudioSource != "" {
		source, err = models.ParseAudioSource(input.AudioSource)
		if err != nil {
			return nil, AlertSettingsOutput{}, err
		}
	}

	if err := h.settings.SetAlertMode(mode); err != nil {
		return nil, AlertSettingsOutput{}, fmt.Errorf("failed to set alert mode: %w", err)
	}
	if source != "" {
		if err := h.settings.SetAudioSource(source); err != nil {
			return nil, AlertSettingsOutput{}, fmt.Errorf("failed to set audio source: %w", err)
		}
	}

	out, err := h.settingsOutput()
	if err != nil {
		return nil, AlertSettingsOutput{}, err
	}
	return &mcp.CallToolResult{}, out, nil
}

type SetContextSoundInput struct {
	Context string `json:"context" jsonschema:"Alert context (marketplace_new, stock_alert, expense_urgent, production_monitor)"`
	Sound   string `json:"sound" jsonschema:"Sound to play (novo_pedido, pedido_concluido, atencao_maquina, compareca_direcao, estoque_baixo)"`
}

func (h *AlertHandlers) SetContextSound(ctx context.Context, req *mcp.CallToolRequest, input SetContextSoundInput) (*mcp.CallToolResult, AlertSettingsOutput, error) {
	if input.Context == "" {
		return nil, AlertSettingsOutput{}, fmt.Errorf("context is required")
	}
	sound, err := models.ParseSoundType(input.Sound)
	if err != nil {
		return nil, AlertSettingsOutput{}, err
	}

	if err := h.settings.SetSoundForContext(models.AlertContext(input.Context), sound); err != nil {
		return nil, AlertSettingsOutput{}, fmt.Errorf("failed to set context sound: %w", err)
	}

	out, err := h.settingsOutput()
	if err != nil {
		return nil, AlertSettingsOutput{}, err
	}
	return &mcp.CallToolResult{}, out, nil
}

type ListSoundsInput struct{}

type SoundOutput struct {
	Sound string `json:"sound"`
	Label string `json:"label"`
}

type ListSoundsOutput struct {
	Bundled  []SoundOutput `json:"bundled"`
	Uploaded []AssetOutput `json:"uploaded"`
}

func (h *AlertHandlers) ListSounds(ctx context.Context, req *mcp.CallToolRequest, input ListSoundsInput) (*mcp.CallToolResult, ListSoundsOutput, error) {
	out := ListSoundsOutput{
		Bundled:  make([]SoundOutput, 0, len(models.AllSoundTypes)),
		Uploaded: []AssetOutput{},
	}
	for _, s := range models.AllSoundTypes {
		out.Bundled = append(out.Bundled, SoundOutput{Sound: string(s), Label: s.Label()})
	}

	assets, err := h.settings.ListAudioAssets()
	if err != nil {
		return nil, ListSoundsOutput{}, err
	}
	preferred, _, err := h.settings.PreferredAudioAsset()
	if err != nil {
		return nil, ListSoundsOutput{}, err
	}
	for _, a := range assets {
		out.Uploaded = append(out.Uploaded, AssetOutput{
			Name:      a.Name,
			MIMEType:  a.MIMEType,
			Size:      a.Size,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
			Preferred: a.Name == preferred,
		})
	}

	return &mcp.CallToolResult{}, out, nil
}

type TestSoundInput struct{}

type TestSoundOutput struct {
	Outcome  string `json:"outcome"`
	Resource string `json:"resource,omitempty"`
	Message  string `json:"message"`
}

func (h *AlertHandlers) TestSound(ctx context.Context, req *mcp.CallToolRequest, input TestSoundInput) (*mcp.CallToolResult, TestSoundOutput, error) {
	if h.tester == nil {
		return nil, TestSoundOutput{}, fmt.Errorf("no audio output configured")
	}

	ev := h.tester.TestSound(ctx)
	out := TestSoundOutput{Outcome: string(ev.Outcome), Resource: ev.Resource}
	switch ev.Outcome {
	case alert.OutcomeSkipped:
		out.Message = "Alerts are disabled; nothing was played"
	case alert.OutcomeStored:
		out.Message = "Played uploaded sound " + ev.Resource
	default:
		out.Message = "Played " + models.SoundType(ev.Resource).Label()
	}
	return &mcp.CallToolResult{}, out, nil
}
