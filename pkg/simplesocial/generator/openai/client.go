// Package openai implements the caption-generation and optimal-time
// advisory collaborators against an OpenAI-compatible chat completions API.
//
// Every transport failure, non-2xx status, and schema mismatch surfaces as
// simplesocial.ErrGenerationUnavailable so the engine can take its
// deterministic fallback path; only context cancellation propagates as-is.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

const (
	defaultAPIURL     = "https://api.openai.com/v1"
	defaultModel      = "gpt-4o-mini"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2

	captionTemperature  = 0.7
	advisoryTemperature = 0.3
)

// Config options for the client
type Config struct {
	APIKey     string
	APIURL     string // OpenAI-compatible base URL
	Model      string
	Timeout    time.Duration // per-request bound, applied via the HTTP client
	MaxRetries int
}

// Client talks to an OpenAI-compatible chat completions endpoint. It
// implements both simplesocial.CaptionGenerator and simplesocial.TimeAdvisor.
type Client struct {
	client   *http.Client
	executor failsafe.Executor[*http.Response]
	apiKey   string
	apiURL   string
	model    string
}

// New creates a new client
func New(cfg Config) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(200*time.Millisecond, 2*time.Second).
		WithJitterFactor(0.1).
		WithMaxRetries(maxRetries).
		HandleIf(shouldRetry).
		Build()

	return &Client{
		client:   &http.Client{Timeout: timeout},
		executor: failsafe.With(retry),
		apiKey:   cfg.APIKey,
		apiURL:   apiURL,
		model:    model,
	}
}

// shouldRetry retries network errors, server errors and rate limits.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil || resp == nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// GenerateCaption drafts platform copy for one content item.
func (c *Client) GenerateCaption(ctx context.Context, req simplesocial.CaptionRequest) (*simplesocial.CaptionResult, error) {
	system := fmt.Sprintf(
		"You are a social media copywriter. Write a %s post for %s. %s "+
			"Respond with a JSON object: {\"caption\": string, \"hashtags\": [string], \"cta\": string}. "+
			"Hashtags are bare words without the # sign.",
		req.ContentType, req.Platform, req.Guidance)

	var user strings.Builder
	fmt.Fprintf(&user, "Title: %s\n", req.Title)
	if req.Description != "" {
		fmt.Fprintf(&user, "Description: %s\n", req.Description)
	}
	if req.Context != "" {
		fmt.Fprintf(&user, "Project context: %s\n", req.Context)
	}

	body, err := c.complete(ctx, system, user.String(), captionTemperature)
	if err != nil {
		return nil, err
	}

	var out struct {
		Caption  string   `json:"caption"`
		Hashtags []string `json:"hashtags"`
		CTA      string   `json:"cta"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, unavailable("malformed caption response", err)
	}
	if out.Caption == "" {
		return nil, unavailable("caption response missing caption field", nil)
	}
	return &simplesocial.CaptionResult{
		Caption:  out.Caption,
		Hashtags: out.Hashtags,
		CTA:      out.CTA,
	}, nil
}

// SuggestSlots asks for ranked daily posting slots for a batch.
func (c *Client) SuggestSlots(ctx context.Context, req simplesocial.AdvisoryRequest) ([]simplesocial.TimeSlot, error) {
	system := "You are a social media scheduling analyst. " +
		"Respond with a JSON object: {\"slots\": [{\"hour\": int, \"minute\": int, \"reason\": string, \"score\": int}]} " +
		"ordered best first, hours 0-23, scores 0-100."

	user := fmt.Sprintf(
		"Suggest daily posting slots for %d posts (%s) targeting %s in timezone %s.",
		req.ItemCount, joinTypes(req.ContentTypes), joinPlatforms(req.Platforms), req.Timezone)

	body, err := c.complete(ctx, system, user, advisoryTemperature)
	if err != nil {
		return nil, err
	}

	var out struct {
		Slots []simplesocial.TimeSlot `json:"slots"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, unavailable("malformed advisory response", err)
	}
	if len(out.Slots) == 0 {
		return nil, unavailable("advisory response contained no slots", nil)
	}
	return out.Slots, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    temperature,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		return c.client.Do(req)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", unavailable("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", unavailable(fmt.Sprintf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body))), nil)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", unavailable("decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", unavailable("response contained no choices", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}

func unavailable(msg string, err error) error {
	if err != nil {
		return fmt.Errorf("openai: %s: %v: %w", msg, err, simplesocial.ErrGenerationUnavailable)
	}
	return fmt.Errorf("openai: %s: %w", msg, simplesocial.ErrGenerationUnavailable)
}

func joinTypes(types []simplesocial.ContentType) string {
	if len(types) == 0 {
		return "mixed content"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinPlatforms(platforms []simplesocial.Platform) string {
	if len(platforms) == 0 {
		return "all platforms"
	}
	parts := make([]string, len(platforms))
	for i, p := range platforms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
