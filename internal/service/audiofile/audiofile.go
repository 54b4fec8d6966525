package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout — формат метки времени в имени файла: 20060102_150405.
const TimestampLayout = "20060102_150405"

// DefaultName строит имя выходного файла: <имя входного файла без расширения>_<голос>_<время>.<ext>.
func DefaultName(inputPath, voiceKey string, now time.Time, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp3"
	}
	return fmt.Sprintf("%s_%s_%s.%s", stem, strings.ToLower(voiceKey), now.Format(TimestampLayout), ext)
}

// Save записывает аудио целиком. Недописанный файл удаляется.
func Save(path string, data []byte) error {
	if len(data) == 0 {
		return errors.New("audiofile: empty audio data")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("audiofile: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("audiofile: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("audiofile: close %s: %w", path, err)
	}
	return nil
}
