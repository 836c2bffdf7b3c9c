// Package speech synthesizes prompt audio through the ElevenLabs API and
// stores the resulting assets for retrieval by the telephony gateway.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"intake-call-service/internal/common/httpclient"
	"intake-call-service/internal/common/logger"
	"intake-call-service/internal/common/metrics"
)

var (
	ErrSynthesisTimeout = errors.New("SYNTHESIS_TIMEOUT")
	ErrSynthesisFailed  = errors.New("SYNTHESIS_FAILED")
)

type Config struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
	Timeout time.Duration
}

// Client calls the ElevenLabs text-to-speech endpoint.
type Client struct {
	config Config
	client *httpclient.Client
	logger logger.Logger
}

func NewClient(config Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		// No transport timeout; the per-call context bounds each attempt.
		client: httpclient.NewClient(0),
		logger: log.With(map[string]interface{}{
			"component": "speech",
		}),
	}
}

// Synthesize converts text to MP3 audio. Synthesis is idempotent, so one
// retry is allowed within the configured timeout.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	payload := map[string]interface{}{
		"text":     text,
		"model_id": c.config.ModelID,
	}
	body, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.VoiceID)

	var audio []byte
	var lastErr error

	for attempt := 0; attempt <= 1; attempt++ {
		audio, lastErr = c.request(ctx, endpoint, body)
		if lastErr == nil {
			return audio, nil
		}
		if ctx.Err() != nil {
			metrics.UpstreamFailures.WithLabelValues("tts", "SYNTHESIS_TIMEOUT").Inc()
			return nil, ErrSynthesisTimeout
		}
	}

	metrics.UpstreamFailures.WithLabelValues("tts", "SYNTHESIS_FAILED").Inc()
	return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, lastErr)
}

func (c *Client) request(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		sample, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, sample)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio body")
	}
	return audio, nil
}
