package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Summarizer condenses a prompt into a short text
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Generation parameters sent with every request
const (
	maxLength = 180
	minLength = 40
)

// ErrEmptySummary is returned when the endpoint answers without a summary
var ErrEmptySummary = errors.New("summarizer returned no summary")

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type result struct {
	SummaryText string `json:"summary_text"`
}

// HTTPClient calls a text-summarization inference endpoint
type HTTPClient struct {
	url    string
	token  string
	client *http.Client
	logger logrus.FieldLogger
}

// NewHTTPClient creates a client for url. A zero timeout means 20s.
func NewHTTPClient(url, token string, timeout time.Duration, logger logrus.FieldLogger) *HTTPClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPClient{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
		logger: logger.WithField("component", "summarizer"),
	}
}

// Summarize posts the prompt and returns the first summary
func (c *HTTPClient) Summarize(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{
		Inputs:     prompt,
		Parameters: parameters{MaxLength: maxLength, MinLength: minLength},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("summarizer returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode summary: %w", err)
	}
	if len(results) == 0 {
		return "", ErrEmptySummary
	}

	c.logger.WithField("latency", time.Since(start)).Debug("Summary generated")
	return results[0].SummaryText, nil
}
