package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"EventScanner/internal/config"
	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

const defaultSystemPrompt = "Classify the sentiment of the user's text. " +
	"Reply with exactly one word: positive, neutral, or negative."

// maxInputChars keeps comment payloads comfortably inside the model's
// context window.
const maxInputChars = 2000

// Classifier implements sentiment classification through an
// OpenAI-compatible chat completions API.
type Classifier struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.SentimentClassifier = (*Classifier)(nil)

// NewClassifier builds a classifier from configuration.
func NewClassifier(cfg config.ChatGPTConfig) *Classifier {
	prompt := strings.TrimSpace(cfg.SystemPrompt)
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	return &Classifier{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: prompt,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Classify asks the model for a one-word sentiment verdict.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("llm classifier misconfigured")
	}

	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": c.systemPrompt},
			{"role": "user", "content": text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return parseVerdict(decoded.Choices[0].Message.Content)
}

func parseVerdict(content string) (domain.Sentiment, error) {
	verdict := strings.ToLower(strings.TrimSpace(content))
	verdict = strings.Trim(verdict, ".!\"'")

	switch {
	case strings.Contains(verdict, "positive"):
		return domain.SentimentPositive, nil
	case strings.Contains(verdict, "negative"):
		return domain.SentimentNegative, nil
	case strings.Contains(verdict, "neutral"):
		return domain.SentimentNeutral, nil
	default:
		return "", fmt.Errorf("unrecognized verdict %q", content)
	}
}
