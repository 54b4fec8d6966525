package tts

import (
	"ElevenLabsTTS/internal/service/tts/elevenlabs"
	"context"
)

// Synthesizer абстракция TTS. Возвращает аудио целиком; сохранение и воспроизведение — на вызывающем.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *elevenlabs.Request) ([]byte, error)
}

// Prober проверяет, что ключ принят и сервис доступен, и возвращает список голосов аккаунта.
type Prober interface {
	TestConnection(ctx context.Context) (*elevenlabs.VoiceCatalog, error)
}

var (
	_ Synthesizer = (*elevenlabs.Client)(nil)
	_ Prober      = (*elevenlabs.Client)(nil)
)
