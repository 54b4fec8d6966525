package main

import (
	"ElevenLabsTTS/internal/app/converter"
	"ElevenLabsTTS/internal/config"
	"ElevenLabsTTS/internal/service/tts/elevenlabs"
	"ElevenLabsTTS/internal/service/tts/player"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Конвертер текстовых файлов в речь через ElevenLabs API.
// Примеры запуска:
//
//	go run ./cmd/elevenlabs-tts input.txt
//	go run ./cmd/elevenlabs-tts input.txt -v bella -o my_audio.mp3
//	go run ./cmd/elevenlabs-tts input.txt -v josh --stability 0.7 --similarity 0.8
//	go run ./cmd/elevenlabs-tts --test-connection
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Ошибка: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		fmt.Fprintf(stderr, "Ошибка: не удалось создать логгер: %v\n", err)
		return 1
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	fmt.Fprintln(stdout, "ElevenLabs Text-to-Speech")
	fmt.Fprintln(stdout, strings.Repeat("=", 40))

	// Список пресетов не требует ключа
	if cfg.ListVoices {
		converter.New(cfg, nil, nil, sugar, converter.WithOutput(stdout)).ListVoices()
		return 0
	}

	if strings.TrimSpace(cfg.ElevenLabs.APIKey) == "" {
		fmt.Fprintln(stderr, "Ошибка: не найден API ключ ElevenLabs.")
		fmt.Fprintln(stderr, "Задайте переменную окружения: export ELEVENLABS_API_KEY='your_key_here'")
		fmt.Fprintln(stderr, "Или добавьте её в файл .env")
		return 1
	}

	sugar.Debugw("Starting app",
		"voice", cfg.ElevenLabs.Voice, "model", cfg.ElevenLabs.Model, "base_url", cfg.ElevenLabs.BaseURL)

	el := cfg.ElevenLabs
	client := elevenlabs.New(
		elevenlabs.NewHTTPTransport(el.BaseURL, el.Timeout),
		el.APIKey,
		sugar,
		elevenlabs.WithOutputFormat(el.OutputFormat),
		elevenlabs.WithSpeakerBoost(el.SpeakerBoost),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := converter.New(cfg, client, client, sugar,
		converter.WithOutput(stdout),
		converter.WithPlayer(player.NewWithVolume(cfg.PlaybackVolume)),
		converter.WithConfirm(stdinConfirm(stdin, stdout)),
	)

	if cfg.TestConnection {
		if _, err := conv.TestConnection(ctx); err != nil {
			report(stderr, sugar, "Проверка соединения не удалась", err)
			return 1
		}
		return 0
	}

	out, err := conv.Run(ctx)
	if err != nil {
		if errors.Is(err, converter.ErrNoInput) {
			fmt.Fprintln(stderr, "Ошибка: укажите входной текстовый файл")
			fs := config.NewFlagSet(config.Defaults(), stderr)
			fs.Usage()
			return 1
		}
		report(stderr, sugar, "Не удалось создать аудио", err)
		return 1
	}

	fmt.Fprintf(stdout, "\nГотово! Аудиофайл создан: %s\n", out)
	fmt.Fprintln(stdout, "Его можно воспроизвести любым медиаплеером")
	return 0
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if !debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		zc.DisableStacktrace = true
	}
	return zc.Build()
}

// report печатает понятное сообщение в зависимости от типа ошибки.
func report(w io.Writer, logger *zap.SugaredLogger, what string, err error) {
	logger.Debugw(what, "kind", elevenlabs.KindOf(err), "error", err)

	fmt.Fprintf(w, "%s: %v\n", what, err)
	switch elevenlabs.KindOf(err) {
	case elevenlabs.KindAuthenticationFailed:
		fmt.Fprintln(w, "Проверьте ELEVENLABS_API_KEY: ключ отклонён сервисом")
	case elevenlabs.KindNetworkFailure:
		fmt.Fprintln(w, "Сервис недоступен: проверьте подключение к сети или увеличьте -timeout")
	case elevenlabs.KindUnknownVoice:
		fmt.Fprintf(w, "Доступные голоса: %s\n", strings.Join(elevenlabs.VoiceKeys(), ", "))
	case elevenlabs.KindUnknownModel:
		fmt.Fprintf(w, "Доступные модели: %s\n", strings.Join(elevenlabs.Models(), ", "))
	case elevenlabs.KindSettingsOutOfRange:
		fmt.Fprintln(w, "Значения -stability, -similarity и -style должны быть в диапазоне 0.0-1.0")
	}
}

// stdinConfirm спрашивает y/N в консоли.
func stdinConfirm(in io.Reader, out io.Writer) converter.ConfirmFunc {
	r := bufio.NewReader(in)
	return func(question string) (bool, error) {
		fmt.Fprint(out, question)
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(line), "y"), nil
	}
}
