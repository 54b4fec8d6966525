package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPTransport_Defaults(t *testing.T) {
	tr := NewHTTPTransport("", 0)
	assert.Equal(t, DefaultBaseURL, tr.baseURL)
	assert.Equal(t, DefaultTimeout, tr.http.Timeout)

	tr = NewHTTPTransport("https://example.test/v1/", time.Second)
	assert.Equal(t, "https://example.test/v1", tr.baseURL)
	assert.Equal(t, time.Second, tr.http.Timeout)
}

func TestHTTPTransport_PostSynthesis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/text-to-speech/voice-123", r.URL.Path)
		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"text":"hi"}`, string(b))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mock audio data"))
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, time.Second)
	resp, err := tr.PostSynthesis(context.Background(), "secret", "voice-123",
		url.Values{"output_format": {"mp3_44100_128"}}, []byte(`{"text":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, "mock audio data", string(resp.Body))
}

func TestHTTPTransport_GetVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/voices", r.URL.Path)
		if r.Header.Get("xi-api-key") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"voices": []map[string]string{{"voice_id": "abc", "name": "Adam"}},
		})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, time.Second)

	resp, err := tr.GetVoices(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = tr.GetVoices(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPTransport_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	_, err := NewHTTPTransport(base, time.Second).GetVoices(context.Background(), "k")
	assert.Error(t, err)
}

// Полный путь: Client поверх HTTPTransport и тестового сервера.
func TestClient_OverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`))
			return
		}
		switch r.URL.Path {
		case "/voices":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"voices":[{"voice_id":"pNInz6obpgDQGcFmaJgB","name":"Adam"}]}`))
		default:
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte("mock audio data"))
		}
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, time.Second)
	req := mustRequest(t)

	audio, err := New(tr, "good", nil).Synthesize(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, audio)

	catalog, err := New(tr, "good", nil).TestConnection(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Voices)

	audio, err = New(tr, "bad", nil).Synthesize(context.Background(), req)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, audio)

	_, err = New(tr, "bad", nil).TestConnection(context.Background())
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestClient_OverHTTP_Timeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(done)

	tr := NewHTTPTransport(server.URL, 50*time.Millisecond)
	_, err := New(tr, "k", nil).Synthesize(context.Background(), mustRequest(t))
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestHTTPTransport_BodyLimit(t *testing.T) {
	const limit = 1024
	size := limit
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(bytes.Repeat([]byte{0xAA}, size))
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, time.Second)
	tr.maxBody = limit

	// ровно на границе — принимаем целиком
	resp, err := tr.PostSynthesis(context.Background(), "k", "v", nil, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Body, limit)

	// больше лимита — ошибка, а не обрезанное аудио
	size = limit + 1000
	resp, err = tr.PostSynthesis(context.Background(), "k", "v", nil, nil)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Nil(t, resp)

	audio, err := New(tr, "k", nil).Synthesize(context.Background(), mustRequest(t))
	assert.Nil(t, audio)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Equal(t, KindUnexpectedResponse, KindOf(err))
}
