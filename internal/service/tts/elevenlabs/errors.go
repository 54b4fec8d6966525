package elevenlabs

import (
	"errors"
	"fmt"
)

// Kind — машинно-различимый тип ошибки.
type Kind string

// Ошибки валидации: обнаруживаются до сетевого вызова.
const (
	KindEmptyText          Kind = "EmptyText"
	KindUnknownVoice       Kind = "UnknownVoice"
	KindUnknownModel       Kind = "UnknownModel"
	KindSettingsOutOfRange Kind = "SettingsOutOfRange"
)

// Ошибки обращения к API. Автоматически не повторяются.
const (
	KindAuthenticationFailed Kind = "AuthenticationFailed"
	KindNetworkFailure       Kind = "NetworkFailure"
	KindRemoteError          Kind = "RemoteError"
	KindUnexpectedResponse   Kind = "UnexpectedResponse"
)

// Sentinel-ошибки для errors.Is.
var (
	ErrEmptyText            = errors.New("text is empty")
	ErrUnknownVoice         = errors.New("unknown voice")
	ErrUnknownModel         = errors.New("unknown model")
	ErrSettingsOutOfRange   = errors.New("voice setting out of range")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNetworkFailure       = errors.New("network failure")
	ErrRemoteError          = errors.New("remote error")
	ErrUnexpectedResponse   = errors.New("unexpected response")
)

var sentinels = map[Kind]error{
	KindEmptyText:            ErrEmptyText,
	KindUnknownVoice:         ErrUnknownVoice,
	KindUnknownModel:         ErrUnknownModel,
	KindSettingsOutOfRange:   ErrSettingsOutOfRange,
	KindAuthenticationFailed: ErrAuthenticationFailed,
	KindNetworkFailure:       ErrNetworkFailure,
	KindRemoteError:          ErrRemoteError,
	KindUnexpectedResponse:   ErrUnexpectedResponse,
}

// ValidationError описывает некорректный вход; Field и Value указывают, что именно не так.
type ValidationError struct {
	Kind  Kind
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmptyText:
		return "elevenlabs tts: text is empty"
	case KindUnknownVoice:
		return fmt.Sprintf("elevenlabs tts: unknown voice %q", e.Value)
	case KindUnknownModel:
		return fmt.Sprintf("elevenlabs tts: unknown model %q", e.Value)
	case KindSettingsOutOfRange:
		return fmt.Sprintf("elevenlabs tts: %s=%s is out of range [0.0, 1.0]", e.Field, e.Value)
	default:
		return fmt.Sprintf("elevenlabs tts: invalid %s %q", e.Field, e.Value)
	}
}

func (e *ValidationError) Unwrap() error { return sentinels[e.Kind] }

// DispatchError — ошибка единственного обмена с API.
type DispatchError struct {
	Kind       Kind
	Op         string // synthesize|voices
	StatusCode int    // 0, если ответа не было
	Message    string // сообщение сервера или описание проблемы
	Cause      error
}

func (e *DispatchError) Error() string {
	msg := fmt.Sprintf("elevenlabs tts: %s: %s", e.Op, sentinels[e.Kind])
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DispatchError) Unwrap() []error {
	errs := []error{sentinels[e.Kind]}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindOf достаёт Kind из ошибки пакета; для чужих ошибок — пустая строка.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
