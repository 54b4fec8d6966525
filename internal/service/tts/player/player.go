package player

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

var (
	// ErrUnsupportedFormat — формат, который не умеем декодировать.
	ErrUnsupportedFormat = errors.New("unsupported format for direct playback; use mp3")
	// ErrNotMP3 — данные не начинаются ни с ID3-тега, ни с mp3-фрейма.
	ErrNotMP3 = errors.New("data is not an mp3 stream")
)

// Player воспроизводит сохранённое аудио.
type Player interface {
	Play(format string, r io.ReadCloser) error
}

// Default реализует Player через beep (mp3).
type Default struct{ volumeDB float64 }

// New создаёт плеер без изменения громкости (0 dB).
func New() *Default { return &Default{volumeDB: 0} }

// NewWithVolume создаёт плеер с предустановленной громкостью в dB (отрицательные — тише).
func NewWithVolume(db float64) *Default { return &Default{volumeDB: db} }

// FormatFromOutput переводит output_format ElevenLabs (mp3_44100_128) в имя формата (mp3).
func FormatFromOutput(outputFormat string) string {
	name, _, _ := strings.Cut(strings.ToLower(outputFormat), "_")
	return name
}

// Play блокируется до конца записи. Испорченный поток отсекается до инициализации колонок.
func (d *Default) Play(format string, r io.ReadCloser) error {
	streamer, f, err := openMP3(format, r)
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := speaker.Init(f.SampleRate, f.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(d.withVolume(streamer), beep.Callback(func() { close(done) })))
	<-done
	return nil
}

func (d *Default) withVolume(s beep.Streamer) beep.Streamer {
	if d.volumeDB == 0 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: d.volumeDB}
}

// Duration возвращает длительность mp3-записи, находящейся в памяти.
func Duration(format string, audio []byte) (time.Duration, error) {
	streamer, f, err := openMP3(format, seekCloser{bytes.NewReader(audio)})
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return f.SampleRate.D(streamer.Len()), nil
}

// openMP3 проверяет сигнатуру и отдаёт поток декодеру. Если источник умеет Seek,
// он передаётся как есть: иначе go-mp3 не считает длину и Len() вернёт 0.
func openMP3(format string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	if !strings.EqualFold(format, "mp3") {
		_ = rc.Close()
		return nil, beep.Format{}, ErrUnsupportedFormat
	}

	head := make([]byte, 3)
	n, _ := io.ReadFull(rc, head)
	head = head[:n]
	if !looksLikeMP3(head) {
		_ = rc.Close()
		return nil, beep.Format{}, ErrNotMP3
	}

	if s, ok := rc.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			_ = rc.Close()
			return nil, beep.Format{}, err
		}
	} else {
		rc = readCloser{io.MultiReader(bytes.NewReader(head), rc), rc}
	}

	streamer, f, err := mp3.Decode(rc)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode mp3: %w", err)
	}
	return streamer, f, nil
}

func looksLikeMP3(head []byte) bool {
	if bytes.HasPrefix(head, []byte("ID3")) {
		return true
	}
	// frame sync: 11 единичных бит
	return len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0
}

type readCloser struct {
	io.Reader
	io.Closer
}

type seekCloser struct{ *bytes.Reader }

func (seekCloser) Close() error { return nil }
