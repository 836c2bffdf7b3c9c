// Package genai wraps the language-model collaborator that produces short
// spoken acknowledgements when a caller goes off-script. Every public method
// returns usable text: failures degrade to scripted fallbacks, never to an
// error the caller would hear.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"intake-call-service/internal/common/httpclient"
	"intake-call-service/internal/common/logger"
	"intake-call-service/internal/common/metrics"
)

var (
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
)

// Trailer is appended to every generated acknowledgement so the caller
// always hears a transition cue back into the script.
const Trailer = " Thank you. Let's continue."

// FallbackText is spoken when generation fails or times out.
const FallbackText = "Let's continue."

// FallbackClosing is spoken at the terminal step when generation fails.
const FallbackClosing = "Thank you. Your request has been recorded and a caseworker will follow up with you. Goodbye."

// personaPrompt is the fixed persona contract for all generated speech.
const personaPrompt = `You are the voice of an automated intake line for people under court supervision.
Respond in one or two short spoken sentences, under 120 tokens.
Be professional, respectful and supportive.
Never give legal advice of any kind.
Encourage compliance with supervision conditions and personal stability.
Do not ask follow-up questions; the scripted interview continues after you speak.`

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

type Generator struct {
	config Config
	client *httpclient.Client
	logger logger.Logger
}

func NewGenerator(config Config, log logger.Logger) *Generator {
	return &Generator{
		config: config,
		// No client timeout; the per-call context bounds every request.
		client: httpclient.NewClient(0),
		logger: log.With(map[string]interface{}{
			"component": "genai",
		}),
	}
}

// Acknowledge produces a short reply to an utterance that did not fit the
// expected answer shape, with the transition trailer appended. On any
// failure the scripted fallback is returned instead.
func (g *Generator) Acknowledge(ctx context.Context, utterance string) string {
	user := fmt.Sprintf(
		"The caller was asked a scripted intake question and said: %q. "+
			"Briefly acknowledge what they said before the interview continues.",
		utterance,
	)

	text, err := g.generate(ctx, user)
	if err != nil {
		g.recordFailure(err)
		return FallbackText
	}
	return text + Trailer
}

// Closing produces the terminal spoken remark, using the caller's final
// assistance request as context.
func (g *Generator) Closing(ctx context.Context, assistanceText string) string {
	user := fmt.Sprintf(
		"The caller finished the intake interview and asked for help with: %q. "+
			"Close the call: confirm their request was recorded and that a caseworker "+
			"will follow up, then say goodbye.",
		assistanceText,
	)

	text, err := g.generate(ctx, user)
	if err != nil {
		g.recordFailure(err)
		return FallbackClosing
	}
	return text
}

func (g *Generator) recordFailure(err error) {
	code := "GENERATION_FAILED"
	if errors.Is(err, ErrGenerationTimeout) {
		code = "GENERATION_TIMEOUT"
	}
	metrics.UpstreamFailures.WithLabelValues("genai", code).Inc()
	g.logger.Warn("generation failed, using scripted fallback", map[string]interface{}{
		"error": err.Error(),
	})
}

func (g *Generator) generate(ctx context.Context, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	requestBody := map[string]interface{}{
		"model": g.config.Model,
		"messages": []map[string]string{
			{"role": "system", "content": personaPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  g.config.MaxTokens,
		"temperature": g.config.Temperature,
	}

	body, _ := json.Marshal(requestBody)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrGenerationTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			strings.TrimRight(g.config.BaseURL, "/")+"/v1/chat/completions",
			bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

		resp, lastErr = g.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return "", ErrGenerationTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrGenerationTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrGenerationFailed)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}

	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrGenerationFailed)
	}

	text := strings.TrimSpace(apiResponse.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrGenerationFailed)
	}

	return text, nil
}
