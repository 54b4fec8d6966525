package elevenlabs

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// VoiceSettings — параметры звучания, каждый в диапазоне [0.0, 1.0].
type VoiceSettings struct {
	Stability       float64
	SimilarityBoost float64
	Style           float64
}

// DefaultVoiceSettings возвращает значения по умолчанию: 0.5 / 0.75 / 0.0.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75, Style: 0.0}
}

// Request — проверенный запрос на синтез, готовый к отправке.
type Request struct {
	Text      string
	Voice     VoicePreset
	Model     string
	Settings  VoiceSettings
	CharCount int // число символов (code points) текста
}

// VoiceID — идентификатор голоса на стороне ElevenLabs.
func (r *Request) VoiceID() string { return r.Voice.VoiceID }

// ExceedsSoftLimit сообщает, что текст длиннее рекомендуемого для одного запроса.
func (r *Request) ExceedsSoftLimit() bool { return r.CharCount > SoftTextLimit }

// ValidateInput проверяет вход и собирает Request. Сетевых вызовов не делает.
// Значения настроек вне диапазона отклоняются, а не обрезаются.
func ValidateInput(text, voiceKey, modelKey string, settings VoiceSettings) (*Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Kind: KindEmptyText, Field: "text"}
	}

	preset, ok := LookupVoice(voiceKey)
	if !ok {
		return nil, &ValidationError{Kind: KindUnknownVoice, Field: "voice", Value: voiceKey}
	}

	model, ok := LookupModel(modelKey)
	if !ok {
		return nil, &ValidationError{Kind: KindUnknownModel, Field: "model", Value: modelKey}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &Request{
		Text:      text,
		Voice:     preset,
		Model:     model,
		Settings:  settings,
		CharCount: utf8.RuneCountInString(text),
	}, nil
}

// Validate проверяет диапазоны в порядке stability, similarity_boost, style.
func (s VoiceSettings) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"stability", s.Stability},
		{"similarity_boost", s.SimilarityBoost},
		{"style", s.Style},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return &ValidationError{
				Kind:  KindSettingsOutOfRange,
				Field: f.name,
				Value: strconv.FormatFloat(f.v, 'g', -1, 64),
			}
		}
	}
	return nil
}
