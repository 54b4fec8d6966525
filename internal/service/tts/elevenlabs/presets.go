package elevenlabs

import (
	"slices"
	"strings"
)

// VoicePreset — предустановленный голос: короткий ключ для CLI и ID голоса в ElevenLabs.
type VoicePreset struct {
	Key     string // ключ для пользователя, напр. adam
	VoiceID string // идентификатор голоса на стороне ElevenLabs
	Name    string
	Gender  string // male|female
	Style   string // краткая характеристика тембра
}

// DefaultVoice — голос по умолчанию.
const DefaultVoice = "adam"

// Модели синтеза, которые принимает утилита.
const (
	ModelTurboV25       = "eleven_turbo_v2_5"
	ModelTurboV2        = "eleven_turbo_v2"
	ModelMultilingualV2 = "eleven_multilingual_v2"
	ModelMonolingualV1  = "eleven_monolingual_v1"
	DefaultModel        = ModelTurboV25
)

const (
	DefaultOutputFormat = "mp3_44100_128"
	SoftTextLimit       = 5000 // после этого порога — только предупреждение
)

var presets = buildPresets()

var models = []string{ModelTurboV25, ModelTurboV2, ModelMultilingualV2, ModelMonolingualV1}

// Форматы вывода, которые умеем сохранить и проиграть (только mp3).
var outputFormats = []string{"mp3_22050_32", "mp3_44100_32", "mp3_44100_64", "mp3_44100_96", "mp3_44100_128", "mp3_44100_192"}

func buildPresets() map[string]VoicePreset {
	list := []VoicePreset{
		{Key: "adam", VoiceID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Gender: "male", Style: "deep"},
		{Key: "bella", VoiceID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Gender: "female", Style: "soft"},
		{Key: "arnold", VoiceID: "VR6AewLTigWG4xSOukaG", Name: "Arnold", Gender: "male", Style: "crisp"},
		{Key: "josh", VoiceID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh", Gender: "male", Style: "young"},
		{Key: "dave", VoiceID: "CYw3kZ02Hs0563khs1Fj", Name: "Dave", Gender: "male", Style: "British"},
		{Key: "laura", VoiceID: "FGY2WhTYpPnrIDTdsKH5", Name: "Laura", Gender: "female", Style: "upbeat"},
		{Key: "charlie", VoiceID: "IKne3meq5aSn9XLyUdCD", Name: "Charlie", Gender: "male", Style: "casual"},
		{Key: "george", VoiceID: "JBFqnCBsd6RMkjVDRZzb", Name: "George", Gender: "male", Style: "warm"},
	}
	m := make(map[string]VoicePreset, len(list))
	for _, p := range list {
		m[p.Key] = p
	}
	return m
}

// LookupVoice ищет пресет по ключу без учёта регистра.
func LookupVoice(key string) (VoicePreset, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Presets возвращает копию таблицы пресетов, отсортированную по ключу.
func Presets() []VoicePreset {
	out := make([]VoicePreset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b VoicePreset) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// VoiceKeys — отсортированный список ключей пресетов (для подсказок в CLI).
func VoiceKeys() []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Models возвращает список допустимых моделей; первая — модель по умолчанию.
func Models() []string { return slices.Clone(models) }

// LookupModel нормализует имя модели. Пустая строка означает модель по умолчанию.
func LookupModel(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return DefaultModel, true
	}
	if slices.Contains(models, k) {
		return k, true
	}
	return "", false
}

// OutputFormats — поддерживаемые значения output_format.
func OutputFormats() []string { return slices.Clone(outputFormats) }

// ValidOutputFormat сообщает, поддерживается ли формат.
func ValidOutputFormat(f string) bool { return slices.Contains(outputFormats, f) }
