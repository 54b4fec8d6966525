package config

import (
	"ElevenLabsTTS/internal/service/tts/elevenlabs"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode      bool    `env:"DEBUG_MODE"`         // Режим дебага (подробный лог)
	PlaybackVolume float64 `env:"PLAYBACK_VOLUME_DB"` // Громкость воспроизведения в dB (отрицательные — тише)

	// Параметры одного запуска — только из CLI
	InputFile      string // Входной текстовый файл (позиционный аргумент)
	OutputPath     string // Выходной аудиофайл; пусто — имя генерируется
	TestConnection bool   // Только проверить соединение и вывести голоса
	ListVoices     bool   // Вывести таблицу пресетов и выйти
	Play           bool   // Проиграть результат после сохранения
	AssumeYes      bool   // Не спрашивать подтверждение для длинного текста

	ElevenLabs ElevenLabsConfig // Конфигурация ElevenLabs TTS
}

// ElevenLabsConfig конфигурация синтеза речи через ElevenLabs.
type ElevenLabsConfig struct {
	APIKey          string        `env:"ELEVENLABS_API_KEY"`       // Ключ берём из .env/ENV. Если пуст — запуск прерывается
	BaseURL         string        `env:"ELEVENLABS_BASE_URL"`      // Базовый адрес API
	Voice           string        `env:"ELEVENLABS_VOICE"`         // Ключ пресета голоса, по умолчанию adam
	Model           string        `env:"ELEVENLABS_MODEL"`         // Модель, по умолчанию eleven_turbo_v2_5
	Stability       float64       `env:"ELEVENLABS_STABILITY"`     // 0.0-1.0
	SimilarityBoost float64       `env:"ELEVENLABS_SIMILARITY"`    // 0.0-1.0
	Style           float64       `env:"ELEVENLABS_STYLE"`         // 0.0-1.0
	SpeakerBoost    bool          `env:"ELEVENLABS_SPEAKER_BOOST"` // use_speaker_boost
	OutputFormat    string        `env:"ELEVENLABS_OUTPUT_FORMAT"` // mp3_44100_128 и т.п.
	Timeout         time.Duration `env:"ELEVENLABS_TIMEOUT"`       // Таймаут HTTP-запроса
}

// Settings возвращает тройку параметров голоса.
func (c ElevenLabsConfig) Settings() elevenlabs.VoiceSettings {
	return elevenlabs.VoiceSettings{
		Stability:       c.Stability,
		SimilarityBoost: c.SimilarityBoost,
		Style:           c.Style,
	}
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	s := elevenlabs.DefaultVoiceSettings()
	return &Config{
		DebugMode:      false,
		PlaybackVolume: 0,
		ElevenLabs: ElevenLabsConfig{
			APIKey:          "", // ключ берём из .env/ENV
			BaseURL:         elevenlabs.DefaultBaseURL,
			Voice:           elevenlabs.DefaultVoice,
			Model:           elevenlabs.DefaultModel,
			Stability:       s.Stability,
			SimilarityBoost: s.SimilarityBoost,
			Style:           s.Style,
			SpeakerBoost:    true,
			OutputFormat:    elevenlabs.DefaultOutputFormat,
			Timeout:         elevenlabs.DefaultTimeout,
		},
	}
}

// Load загружает конфигурацию: дефолты → .env → ENV → флаги из args.
// При -h/-help возвращает flag.ErrHelp.
func Load(args []string, usageOut io.Writer) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := parseFlags(cfg, args, usageOut); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFlagSet регистрирует флаги поверх текущих значений cfg.
func NewFlagSet(cfg *Config, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("elevenlabs-tts", flag.ContinueOnError)
	fs.SetOutput(out)
	el := &cfg.ElevenLabs

	str := func(p *string, names []string, usage string) {
		for _, n := range names {
			fs.StringVar(p, n, *p, usage)
		}
	}
	str(&cfg.OutputPath, []string{"o", "output"}, "выходной аудиофайл (по умолчанию <файл>_<голос>_<время>.mp3)")
	str(&el.Voice, []string{"v", "voice"}, "голос: "+strings.Join(elevenlabs.VoiceKeys(), ", "))
	str(&el.Model, []string{"m", "model"}, "модель: "+strings.Join(elevenlabs.Models(), ", "))
	str(&el.APIKey, []string{"api-key"}, "API ключ ElevenLabs (перекрывает ENV ELEVENLABS_API_KEY)")
	str(&el.BaseURL, []string{"base-url"}, "базовый адрес API ElevenLabs")
	str(&el.OutputFormat, []string{"output-format"}, "формат аудио: "+strings.Join(elevenlabs.OutputFormats(), ", "))

	fs.Float64Var(&el.Stability, "stability", el.Stability, "стабильность голоса (0.0-1.0)")
	fs.Float64Var(&el.SimilarityBoost, "similarity", el.SimilarityBoost, "similarity boost (0.0-1.0)")
	fs.Float64Var(&el.Style, "style", el.Style, "стиль (0.0-1.0)")
	fs.BoolVar(&el.SpeakerBoost, "speaker-boost", el.SpeakerBoost, "use_speaker_boost")
	fs.DurationVar(&el.Timeout, "timeout", el.Timeout, "таймаут запроса к API, напр. 60s")

	fs.BoolVar(&cfg.TestConnection, "test-connection", cfg.TestConnection, "проверить соединение с API и вывести голоса")
	fs.BoolVar(&cfg.ListVoices, "list-voices", cfg.ListVoices, "вывести предустановленные голоса и выйти")
	fs.BoolVar(&cfg.Play, "play", cfg.Play, "проиграть аудио после сохранения")
	fs.BoolVar(&cfg.AssumeYes, "yes", cfg.AssumeYes, "не спрашивать подтверждение для длинного текста")
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.Float64Var(&cfg.PlaybackVolume, "volume-db", cfg.PlaybackVolume, "громкость воспроизведения в dB")
	return fs
}

// parseFlags разрешает чередовать флаги и позиционный аргумент: `in.txt -v bella` и `-v bella in.txt`.
// "--" завершает флаги.
func parseFlags(cfg *Config, args []string, out io.Writer) error {
	fs := NewFlagSet(cfg, out)
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		// после "--" флагов нет: `-- -notes.txt` — это имя файла
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	switch len(positional) {
	case 0:
	case 1:
		cfg.InputFile = positional[0]
	default:
		return fmt.Errorf("config: expected one input file, got %d: %s", len(positional), strings.Join(positional, " "))
	}
	return nil
}

// validate проверяет то, что не относится к конкретному запросу синтеза.
func (c *Config) validate() error {
	if !elevenlabs.ValidOutputFormat(c.ElevenLabs.OutputFormat) {
		return fmt.Errorf("config: unsupported output format %q (supported: %s)",
			c.ElevenLabs.OutputFormat, strings.Join(elevenlabs.OutputFormats(), ", "))
	}
	if c.ElevenLabs.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	return nil
}
