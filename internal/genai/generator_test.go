package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intake-call-service/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		MaxTokens:   120,
		Temperature: 0.4,
		Timeout:     2 * time.Second,
		MaxRetries:  1,
	}
}

func chatServer(t *testing.T, reply string, capture *map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if capture != nil {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*capture = body
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
}

func TestAcknowledgeAppendsTrailer(t *testing.T) {
	srv := chatServer(t, "I hear you, that sounds stressful.", nil)
	defer srv.Close()

	g := NewGenerator(createTestConfig(srv.URL), logger.NewTestLogger(t))
	got := g.Acknowledge(context.Background(), "can you help with my court date")

	assert.Equal(t, "I hear you, that sounds stressful."+Trailer, got)
}

func TestPersonaForbidsLegalAdvice(t *testing.T) {
	var captured map[string]interface{}
	srv := chatServer(t, "ok", &captured)
	defer srv.Close()

	g := NewGenerator(createTestConfig(srv.URL), logger.NewNoOpLogger())
	g.Acknowledge(context.Background(), "what should I tell the judge")

	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, messages)
	system := messages[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], "Never give legal advice")
	assert.Contains(t, system["content"], "120 tokens")
}

func TestAcknowledgeFallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGenerator(createTestConfig(srv.URL), logger.NewNoOpLogger())
	got := g.Acknowledge(context.Background(), "um")

	assert.Equal(t, FallbackText, got)
}

func TestAcknowledgeFallbackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := createTestConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxRetries = 0

	g := NewGenerator(cfg, logger.NewNoOpLogger())
	got := g.Acknowledge(context.Background(), "um")

	assert.Equal(t, FallbackText, got)
}

func TestClosingUsesAssistanceContext(t *testing.T) {
	var captured map[string]interface{}
	srv := chatServer(t, "Your housing request is recorded. Goodbye.", &captured)
	defer srv.Close()

	g := NewGenerator(createTestConfig(srv.URL), logger.NewNoOpLogger())
	got := g.Closing(context.Background(), "help finding housing")

	assert.Equal(t, "Your housing request is recorded. Goodbye.", got)

	messages := captured["messages"].([]interface{})
	user := messages[1].(map[string]interface{})
	assert.Contains(t, user["content"], "help finding housing")
}

func TestClosingFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGenerator(createTestConfig(srv.URL), logger.NewNoOpLogger())
	got := g.Closing(context.Background(), "anything")

	assert.Equal(t, FallbackClosing, got)
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "second try"}},
			},
		})
	}))
	defer srv.Close()

	g := NewGenerator(createTestConfig(srv.URL), logger.NewNoOpLogger())
	got := g.Acknowledge(context.Background(), "hm")

	assert.Equal(t, 2, attempts)
	assert.Equal(t, "second try"+Trailer, got)
}
