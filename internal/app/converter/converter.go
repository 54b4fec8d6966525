package converter

import (
	"ElevenLabsTTS/internal/config"
	"ElevenLabsTTS/internal/service/audiofile"
	"ElevenLabsTTS/internal/service/textsource"
	"ElevenLabsTTS/internal/service/tts"
	"ElevenLabsTTS/internal/service/tts/elevenlabs"
	"ElevenLabsTTS/internal/service/tts/player"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoInput — не указан входной файл.
	ErrNoInput = errors.New("no input file")
	// ErrAborted — пользователь отказался синтезировать длинный текст.
	ErrAborted = errors.New("aborted by user")
)

const (
	previewChars   = 100
	sampleVoiceCnt = 10
	shortIDChars   = 8
)

// ConfirmFunc задаёт вопрос пользователю и возвращает его ответ.
type ConfirmFunc func(question string) (bool, error)

// Converter выполняет сценарий «текстовый файл → аудиофайл» за один запуск.
type Converter struct {
	cfg     *config.Config
	synth   tts.Synthesizer
	prober  tts.Prober
	player  player.Player
	confirm ConfirmFunc
	out     io.Writer
	now     func() time.Time
	logger  *zap.SugaredLogger
}

// Option настраивает Converter.
type Option func(*Converter)

// WithOutput задаёт, куда печатать сообщения для пользователя (по умолчанию stdout).
func WithOutput(w io.Writer) Option { return func(c *Converter) { c.out = w } }

// WithConfirm задаёт подтверждение для длинного текста. Без него длинный текст отклоняется,
// если не включён cfg.AssumeYes.
func WithConfirm(f ConfirmFunc) Option { return func(c *Converter) { c.confirm = f } }

// WithPlayer задаёт плеер для -play.
func WithPlayer(p player.Player) Option { return func(c *Converter) { c.player = p } }

// WithClock подменяет текущее время (имя выходного файла).
func WithClock(now func() time.Time) Option { return func(c *Converter) { c.now = now } }

func New(cfg *config.Config, synth tts.Synthesizer, prober tts.Prober, logger *zap.SugaredLogger, opts ...Option) *Converter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Converter{
		cfg:    cfg,
		synth:  synth,
		prober: prober,
		out:    os.Stdout,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run читает текст, синтезирует речь и сохраняет аудио. Возвращает путь к файлу.
// Файл создаётся только при успешном получении всего аудио.
func (c *Converter) Run(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.cfg.InputFile) == "" {
		return "", ErrNoInput
	}
	el := c.cfg.ElevenLabs

	// 1. Прочитать текст
	c.printf("Читаем текст из: %s\n", c.cfg.InputFile)
	txt, err := textsource.Read(c.cfg.InputFile)
	if err != nil {
		return "", err
	}
	if txt.Fallback() {
		c.printf("Файл прочитан в кодировке %s\n", txt.Encoding)
	}

	// 2. Проверить параметры до любого сетевого вызова
	req, err := elevenlabs.ValidateInput(txt.Content, el.Voice, el.Model, el.Settings())
	if err != nil {
		return "", err
	}

	// 3. Длинный текст — только предупреждение
	if req.ExceedsSoftLimit() {
		c.printf("Внимание: текст содержит %d символов. Лучше разбить его на части.\n", req.CharCount)
		c.logger.Warnw("Text exceeds soft limit", "chars", req.CharCount, "limit", elevenlabs.SoftTextLimit)
		if err := c.confirmLong(); err != nil {
			return "", err
		}
	}

	c.printf("Превью текста: %s\n", textsource.Preview(req.Text, previewChars))
	c.printf("Синтез речи: голос %s (%s, %s), модель %s\n", req.Voice.Key, req.Voice.Gender, req.Voice.Style, req.Model)
	c.printf("Длина текста: %d символов\n", req.CharCount)

	// 4. Синтез
	started := c.now()
	audio, err := c.synth.Synthesize(ctx, req)
	if err != nil {
		return "", err
	}
	c.logger.Infow("Speech generated", "bytes", len(audio), "elapsed", c.now().Sub(started))

	// 5. Сохранить
	format := player.FormatFromOutput(el.OutputFormat)
	out := c.cfg.OutputPath
	if out == "" {
		out = audiofile.DefaultName(c.cfg.InputFile, req.Voice.Key, c.now(), format)
	}
	if err := audiofile.Save(out, audio); err != nil {
		return "", err
	}
	c.printf("Аудио сохранено: %s\n", out)
	c.printf("Размер файла: %d байт\n", len(audio))
	if d, derr := player.Duration(format, audio); derr == nil {
		c.printf("Длительность: %s\n", d.Round(100*time.Millisecond))
	} else {
		c.logger.Debugw("Could not probe audio duration", "error", derr)
	}

	// 6. Проиграть по запросу; ошибка воспроизведения не отменяет результат
	if c.cfg.Play {
		c.play(format, out)
	}
	return out, nil
}

func (c *Converter) confirmLong() error {
	if c.cfg.AssumeYes {
		return nil
	}
	if c.confirm == nil {
		return fmt.Errorf("%w: text longer than %d characters (use -yes to continue)", ErrAborted, elevenlabs.SoftTextLimit)
	}
	ok, err := c.confirm("Продолжить? (y/N): ")
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

func (c *Converter) play(format, path string) {
	if c.player == nil {
		c.logger.Warnw("Playback requested but no player configured")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		c.logger.Warnw("Failed to open audio for playback", "path", path, "error", err)
		return
	}
	defer f.Close()
	if err := c.player.Play(format, f); err != nil {
		c.logger.Warnw("Playback failed", "path", path, "error", err)
	}
}

// TestConnection проверяет ключ и доступность сервиса и печатает первые голоса аккаунта.
func (c *Converter) TestConnection(ctx context.Context) (*elevenlabs.VoiceCatalog, error) {
	catalog, err := c.prober.TestConnection(ctx)
	if err != nil {
		return nil, err
	}
	c.printf("Соединение с API установлено\n")
	c.printf("Доступно голосов: %d\n", len(catalog.Voices))
	if len(catalog.Voices) > 0 {
		c.printf("\nПримеры голосов:\n")
	}
	for i, v := range catalog.Voices {
		if i == sampleVoiceCnt {
			break
		}
		c.printf("  %d. %s (%s...)\n", i+1, v.Name, shortID(v.VoiceID))
	}
	return catalog, nil
}

// ListVoices печатает таблицу предустановленных голосов.
func (c *Converter) ListVoices() {
	c.printf("Предустановленные голоса:\n")
	for _, p := range elevenlabs.Presets() {
		mark := ""
		if p.Key == elevenlabs.DefaultVoice {
			mark = " (по умолчанию)"
		}
		c.printf("  %-8s %-7s %-8s %s%s\n", p.Key, p.Gender, p.Style, p.VoiceID, mark)
	}
	c.printf("\nМодели: %s\n", strings.Join(elevenlabs.Models(), ", "))
}

func (c *Converter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func shortID(id string) string {
	r := []rune(id)
	if len(r) <= shortIDChars {
		return id
	}
	return string(r[:shortIDChars])
}
