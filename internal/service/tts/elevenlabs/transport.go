package elevenlabs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL — базовый адрес API ElevenLabs.
	DefaultBaseURL = "https://api.elevenlabs.io/v1"
	// DefaultTimeout — таймаут HTTP-клиента по умолчанию.
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 64 << 20
)

// ErrResponseTooLarge — тело ответа больше допустимого; обрезанное аудио не возвращаем.
var ErrResponseTooLarge = errors.New("response body too large")

// Response — сырой ответ API: статус, заголовки и тело целиком.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport отправляет запросы к API. Подменяется в тестах.
type Transport interface {
	PostSynthesis(ctx context.Context, apiKey, voiceID string, query url.Values, body []byte) (*Response, error)
	GetVoices(ctx context.Context, apiKey string) (*Response, error)
}

// HTTPTransport реализует Transport поверх net/http.
type HTTPTransport struct {
	http    *http.Client
	baseURL string
	maxBody int64
}

// NewHTTPTransport создаёт транспорт. Пустой baseURL и нулевой timeout заменяются дефолтами.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		maxBody: maxResponseBytes,
	}
}

// WithHTTPClient подменяет http.Client (например, для httptest).
func (t *HTTPTransport) WithHTTPClient(c *http.Client) *HTTPTransport {
	t.http = c
	return t
}

func (t *HTTPTransport) PostSynthesis(ctx context.Context, apiKey, voiceID string, query url.Values, body []byte) (*Response, error) {
	endpoint := fmt.Sprintf("%s/text-to-speech/%s", t.baseURL, url.PathEscape(voiceID))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", apiKey)
	return t.do(req)
}

func (t *HTTPTransport) GetVoices(ctx context.Context, apiKey string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xi-api-key", apiKey)
	return t.do(req)
}

func (t *HTTPTransport) do(req *http.Request) (*Response, error) {
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > t.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, t.maxBody)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}
