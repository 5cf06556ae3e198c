package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

// maxInputRunes bounds the text sent to the model; BERT-style
// classifiers reject longer sequences anyway.
const maxInputRunes = 512

// Client talks to an external inference service for sentiment scoring.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.SentimentClassifier = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Classify sends a comment for sentiment scoring, truncating overlong
// input first.
func (c *Client) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	payload := map[string]any{
		"text": truncate(text),
	}

	var resp struct {
		Label string `json:"label"`
	}
	if err := c.post(ctx, "/classify", payload, &resp); err != nil {
		return "", err
	}

	return parseLabel(resp.Label)
}

func parseLabel(label string) (domain.Sentiment, error) {
	switch domain.Sentiment(strings.ToLower(strings.TrimSpace(label))) {
	case domain.SentimentPositive:
		return domain.SentimentPositive, nil
	case domain.SentimentNeutral:
		return domain.SentimentNeutral, nil
	case domain.SentimentNegative:
		return domain.SentimentNegative, nil
	default:
		return "", fmt.Errorf("unknown sentiment label %q", label)
	}
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxInputRunes {
		return text
	}
	return string(runes[:maxInputRunes])
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
