package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Client собирает запросы к ElevenLabs и разбирает ответы. Ключ API только передаётся дальше.
type Client struct {
	transport    Transport
	apiKey       string
	outputFormat string
	speakerBoost bool
	logger       *zap.SugaredLogger
}

// Option настраивает Client.
type Option func(*Client)

// WithOutputFormat задаёт output_format (напр. mp3_44100_128).
func WithOutputFormat(f string) Option {
	return func(c *Client) { c.outputFormat = f }
}

// WithSpeakerBoost включает/выключает use_speaker_boost.
func WithSpeakerBoost(on bool) Option {
	return func(c *Client) { c.speakerBoost = on }
}

func New(t Transport, apiKey string, logger *zap.SugaredLogger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Client{
		transport:    t,
		apiKey:       apiKey,
		outputFormat: DefaultOutputFormat,
		speakerBoost: true,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type synthesisBody struct {
	Text          string            `json:"text"`
	ModelID       string            `json:"model_id"`
	VoiceSettings voiceSettingsBody `json:"voice_settings"`
}

type voiceSettingsBody struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesize отправляет один запрос на синтез и возвращает аудио целиком.
func (c *Client) Synthesize(ctx context.Context, req *Request) ([]byte, error) {
	if req == nil {
		return nil, errors.New("elevenlabs tts: nil request")
	}

	body, err := json.Marshal(synthesisBody{
		Text:    req.Text,
		ModelID: req.Model,
		VoiceSettings: voiceSettingsBody{
			Stability:       req.Settings.Stability,
			SimilarityBoost: req.Settings.SimilarityBoost,
			Style:           req.Settings.Style,
			UseSpeakerBoost: c.speakerBoost,
		},
	})
	if err != nil {
		return nil, err
	}

	var query url.Values
	if c.outputFormat != "" {
		query = url.Values{"output_format": {c.outputFormat}}
	}

	c.logger.Debugw("Sending synthesis request",
		"voice", req.Voice.Key, "voice_id", req.VoiceID(), "model", req.Model, "chars", req.CharCount)

	resp, err := c.transport.PostSynthesis(ctx, c.apiKey, req.VoiceID(), query, body)
	if err != nil {
		return nil, transportError("synthesize", err)
	}
	if err := checkStatus("synthesize", resp); err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return nil, &DispatchError{Kind: KindUnexpectedResponse, Op: "synthesize", StatusCode: resp.StatusCode, Message: "empty audio payload"}
	}
	if isJSON(resp.Header) {
		return nil, &DispatchError{Kind: KindUnexpectedResponse, Op: "synthesize", StatusCode: resp.StatusCode, Message: "JSON body instead of audio"}
	}

	c.logger.Debugw("Synthesis finished", "bytes", len(resp.Body))
	return resp.Body, nil
}

// RemoteVoice — голос из аккаунта ElevenLabs.
type RemoteVoice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// VoiceCatalog — результат проверки соединения.
type VoiceCatalog struct {
	Voices []RemoteVoice
}

// TestConnection запрашивает список голосов, чтобы убедиться, что ключ принят и сервис доступен.
func (c *Client) TestConnection(ctx context.Context) (*VoiceCatalog, error) {
	resp, err := c.transport.GetVoices(ctx, c.apiKey)
	if err != nil {
		return nil, transportError("voices", err)
	}
	if err := checkStatus("voices", resp); err != nil {
		return nil, err
	}

	var payload struct {
		Voices []RemoteVoice `json:"voices"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, &DispatchError{Kind: KindUnexpectedResponse, Op: "voices", StatusCode: resp.StatusCode, Cause: err}
	}
	// null или отсутствующее поле — не список голосов
	if payload.Voices == nil {
		return nil, &DispatchError{Kind: KindUnexpectedResponse, Op: "voices", StatusCode: resp.StatusCode, Message: "no voices field in response"}
	}

	c.logger.Debugw("Voices listed", "count", len(payload.Voices))
	return &VoiceCatalog{Voices: payload.Voices}, nil
}

// transportError различает сетевой сбой и ответ, который нельзя принять целиком.
func transportError(op string, err error) error {
	if errors.Is(err, ErrResponseTooLarge) {
		return &DispatchError{Kind: KindUnexpectedResponse, Op: op, Cause: err}
	}
	return &DispatchError{Kind: KindNetworkFailure, Op: op, Cause: err}
}

// checkStatus переводит HTTP-статус в DispatchError.
func checkStatus(op string, resp *Response) error {
	if resp == nil {
		return &DispatchError{Kind: KindUnexpectedResponse, Op: op, Message: "no response"}
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &DispatchError{Kind: KindAuthenticationFailed, Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	default:
		msg := errorMessage(resp.Body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &DispatchError{Kind: KindRemoteError, Op: op, StatusCode: resp.StatusCode, Message: msg}
	}
}

// errorMessage достаёт сообщение из тела ошибки. ElevenLabs отдаёт detail
// объектом {status, message}, строкой или списком ошибок валидации.
func errorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return truncate(string(body), 512)
	}

	var obj struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Detail, &obj); err == nil && obj.Message != "" {
		if obj.Status != "" {
			return obj.Status + ": " + obj.Message
		}
		return obj.Message
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil && s != "" {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &list); err == nil && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, l := range list {
			if l.Msg != "" {
				msgs = append(msgs, l.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return truncate(string(body), 512)
}

func isJSON(h http.Header) bool {
	ct := h.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}

// truncate обрезает строку до n байт, не разрывая символ UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
