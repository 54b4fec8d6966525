package textsource

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Названия кодировок, которыми удалось прочитать файл.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "cp1252"
	EncodingLatin1      = "latin-1"
)

// ErrNotRegularFile — путь указывает на каталог или спецфайл.
var ErrNotRegularFile = errors.New("not a regular file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text — прочитанный текст и кодировка, в которой он был прочитан.
type Text struct {
	Content  string
	Encoding string
}

// Fallback сообщает, что файл не в UTF-8 и был прочитан в запасной кодировке.
func (t Text) Fallback() bool { return t.Encoding != EncodingUTF8 }

// Read читает текстовый файл: сначала UTF-8, затем cp1252, затем latin-1.
// Пробелы по краям обрезаются, BOM убирается.
func Read(path string) (Text, error) {
	if strings.TrimSpace(path) == "" {
		return Text{}, errors.New("textsource: empty path")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return Text{}, fmt.Errorf("textsource: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return Text{}, fmt.Errorf("textsource: %s: %w", path, ErrNotRegularFile)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Text{}, fmt.Errorf("textsource: %w", err)
	}
	return Decode(raw)
}

// Decode подбирает кодировку для байтов файла.
func Decode(raw []byte) (Text, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return Text{Content: strings.TrimSpace(string(raw)), Encoding: EncodingUTF8}, nil
	}

	// Неопределённые в cp1252 байты (0x81, 0x8D, ...) дают U+FFFD или C1-управляющие символы.
	if s, err := decodeWith(charmap.Windows1252, raw); err == nil && !strings.ContainsFunc(s, undefinedInCP1252) {
		return Text{Content: strings.TrimSpace(s), Encoding: EncodingWindows1252}, nil
	}
	s, err := decodeWith(charmap.ISO8859_1, raw)
	if err != nil {
		return Text{}, fmt.Errorf("textsource: unable to decode file: %w", err)
	}
	return Text{Content: strings.TrimSpace(s), Encoding: EncodingLatin1}, nil
}

func undefinedInCP1252(r rune) bool {
	return r == utf8.RuneError || (r >= 0x80 && r <= 0x9F)
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	b, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Preview возвращает первые n символов и "..." если текст длиннее.
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n]) + "..."
}
