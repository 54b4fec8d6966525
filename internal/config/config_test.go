package config

import (
	"ElevenLabsTTS/internal/service/tts/elevenlabs"
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "adam", cfg.ElevenLabs.Voice)
	assert.Equal(t, elevenlabs.DefaultModel, cfg.ElevenLabs.Model)
	assert.Equal(t, elevenlabs.DefaultVoiceSettings(), cfg.ElevenLabs.Settings())
	assert.True(t, cfg.ElevenLabs.SpeakerBoost)
	assert.Equal(t, elevenlabs.DefaultBaseURL, cfg.ElevenLabs.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.ElevenLabs.Timeout)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "env-key")
	t.Setenv("ELEVENLABS_VOICE", "bella")
	t.Setenv("ELEVENLABS_STABILITY", "0.3")
	t.Setenv("ELEVENLABS_TIMEOUT", "5s")
	t.Setenv("ELEVENLABS_SPEAKER_BOOST", "false")

	cfg, err := Load(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.ElevenLabs.APIKey)
	assert.Equal(t, "bella", cfg.ElevenLabs.Voice)
	assert.Equal(t, 0.3, cfg.ElevenLabs.Stability)
	assert.Equal(t, 0.75, cfg.ElevenLabs.SimilarityBoost)
	assert.Equal(t, 5*time.Second, cfg.ElevenLabs.Timeout)
	assert.False(t, cfg.ElevenLabs.SpeakerBoost)
	assert.Empty(t, cfg.InputFile)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("ELEVENLABS_VOICE", "bella")

	cfg, err := Load([]string{"-v", "josh", "--stability", "0.7", "--similarity", "0.8", "-style", "0.1", "-o", "out.mp3", "in.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "josh", cfg.ElevenLabs.Voice)
	assert.Equal(t, elevenlabs.VoiceSettings{Stability: 0.7, SimilarityBoost: 0.8, Style: 0.1}, cfg.ElevenLabs.Settings())
	assert.Equal(t, "out.mp3", cfg.OutputPath)
	assert.Equal(t, "in.txt", cfg.InputFile)
}

func TestLoad_PositionalBeforeFlags(t *testing.T) {
	cfg, err := Load([]string{"input.txt", "--voice", "laura", "--model", "eleven_turbo_v2", "--output", "my_audio.mp3", "-yes"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "input.txt", cfg.InputFile)
	assert.Equal(t, "laura", cfg.ElevenLabs.Voice)
	assert.Equal(t, "eleven_turbo_v2", cfg.ElevenLabs.Model)
	assert.Equal(t, "my_audio.mp3", cfg.OutputPath)
	assert.True(t, cfg.AssumeYes)
}

func TestLoad_DoubleDashEndsFlags(t *testing.T) {
	cfg, err := Load([]string{"--", "-notes.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "-notes.txt", cfg.InputFile)

	cfg, err = Load([]string{"-v", "bella", "--", "-notes.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "-notes.txt", cfg.InputFile)
	assert.Equal(t, "bella", cfg.ElevenLabs.Voice)

	// после "--" флаг остаётся лишним позиционным аргументом, а не применяется
	cfg, err = Load([]string{"--", "a.txt", "-yes"}, io.Discard)
	assert.ErrorContains(t, err, "expected one input file")
	assert.Nil(t, cfg)

	cfg, err = Load([]string{"a.txt", "--"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", cfg.InputFile)
}

func TestLoad_TestConnection(t *testing.T) {
	cfg, err := Load([]string{"--test-connection"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, cfg.TestConnection)
	assert.Empty(t, cfg.InputFile)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]string{"a.txt", "b.txt"}, io.Discard)
	assert.ErrorContains(t, err, "expected one input file")

	_, err = Load([]string{"--stability", "abc"}, io.Discard)
	assert.Error(t, err)

	_, err = Load([]string{"--output-format", "pcm_24000"}, io.Discard)
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = Load([]string{"--timeout", "0s"}, io.Discard)
	assert.ErrorContains(t, err, "timeout")

	_, err = Load([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("ELEVENLABS_STYLE", "loud")
	_, err := Load(nil, io.Discard)
	assert.Error(t, err)
}

// Значения вне диапазона не отклоняются на уровне конфига — это делает ValidateInput.
func TestLoad_OutOfRangeSettingsPassThrough(t *testing.T) {
	cfg, err := Load([]string{"--stability", "1.5"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.ElevenLabs.Stability)
}
